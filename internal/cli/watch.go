package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/gocube"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard for a connected cube",
	Long: `Connect to a GoCube and show its state, calibrated orientation, battery
and a solve timer in the terminal.

Keyboard shortcuts:
  space   - Arm the timer (starts on the first move, stops when solved)
  g       - Reset gyro calibration (current pose becomes home)
  r       - Reset cube state to solved
  q/Esc   - Quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&deviceAddress, "device", "", "Device address (default: last used, else first found)")
	rootCmd.AddCommand(watchCmd)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Sticker colors by face letter.
var stickerColors = map[byte]lipgloss.Color{
	'U': lipgloss.Color("15"),
	'R': lipgloss.Color("196"),
	'F': lipgloss.Color("46"),
	'D': lipgloss.Color("226"),
	'L': lipgloss.Color("208"),
	'B': lipgloss.Color("21"),
}

// Messages
type tickMsg time.Time
type eventMsg struct {
	ev  smartcube.Event
	err error
}
type streamClosedMsg struct{}

// cubeControl is the part of gocube.Source the dashboard drives.
type cubeControl interface {
	Events() <-chan smartcube.Event
	ResetState() error
}

type watchModel struct {
	ctx     context.Context
	session *smartcube.Session
	source  cubeControl

	snap     smartcube.Snapshot
	err      error
	closed   bool
	quitting bool
}

func newWatchModel(ctx context.Context, session *smartcube.Session, source cubeControl) *watchModel {
	return &watchModel{
		ctx:     ctx,
		session: session,
		source:  source,
		snap:    session.Snapshot(),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.nextEvent(), m.tickCmd())
}

func (m *watchModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.source.Events()
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{ev: ev, err: m.session.HandleEvent(m.ctx, ev)}
	}
}

func (m *watchModel) tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.session.ArmTimer()
		case "g":
			m.session.ResetOrientation()
		case "r":
			if err := m.source.ResetState(); err != nil {
				m.err = err
			}
			m.session.ResetState()
		}
		m.snap = m.session.Snapshot()

	case tickMsg:
		m.snap = m.session.Snapshot()
		return m, m.tickCmd()

	case eventMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.snap = m.session.Snapshot()
		return m, m.nextEvent()

	case streamClosedMsg:
		m.closed = true
	}
	return m, nil
}

func (m *watchModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	s := m.snap

	b.WriteString(titleStyle.Render("smartcube"))
	b.WriteString("\n\n")

	if s.Connected && !m.closed {
		status := "Connected: " + smartcube.HardwareField(s.Hardware.Name)
		if s.Battery >= 0 {
			status += fmt.Sprintf(" (Battery: %d%%)", s.Battery)
		}
		b.WriteString(statusStyle.Render(status))
	} else {
		b.WriteString(errorStyle.Render("Disconnected - press q to quit"))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Hardware: %s  Software: %s  Product date: %s",
		smartcube.HardwareField(s.Hardware.HardwareVersion),
		smartcube.HardwareField(s.Hardware.SoftwareVersion),
		smartcube.HardwareField(s.Hardware.ProductDate))))
	b.WriteString("\n\n")

	b.WriteString(timerStyle.Render(fmt.Sprintf("%s  %s", smartcube.FormatDuration(s.Elapsed), s.Timer)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Phase: %s\n\n", s.Phase.DisplayName()))

	b.WriteString(renderNet(s.Facelets))
	b.WriteString("\n")

	if s.HasOrientation {
		b.WriteString(fmt.Sprintf("Orientation: %s\n", s.Orientation))
	} else {
		b.WriteString(statusStyle.Render("Orientation: waiting for gyro"))
		b.WriteString("\n")
	}

	if n := len(s.Moves); n > 0 {
		recent := s.Moves[max(0, n-20):]
		b.WriteString(fmt.Sprintf("Moves (%d): %s\n", n, moveStyle.Render(smartcube.FormatMoves(recent))))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space: arm timer  g: reset gyro  r: reset state  q: quit"))
	b.WriteString("\n")
	return b.String()
}

// renderNet draws a facelet string as a colored unfolded net:
//
//	  U
//	L F R B
//	  D
func renderNet(facelets string) string {
	if smartcube.ValidateFacelets(facelets) != nil {
		return errorStyle.Render("invalid facelets: "+facelets) + "\n"
	}

	face := func(f byte) string { return facelets[strings.IndexByte("URFDLB", f)*9:][:9] }
	sticker := func(c byte) string {
		return lipgloss.NewStyle().Background(stickerColors[c]).Render("  ")
	}
	row := func(f byte, r int) string {
		s := face(f)
		return sticker(s[r*3]) + sticker(s[r*3+1]) + sticker(s[r*3+2]) + " "
	}

	var b strings.Builder
	pad := strings.Repeat(" ", 7)
	for r := 0; r < 3; r++ {
		b.WriteString(pad + row('U', r) + "\n")
	}
	for r := 0; r < 3; r++ {
		b.WriteString(row('L', r) + row('F', r) + row('R', r) + row('B', r) + "\n")
	}
	for r := 0; r < 3; r++ {
		b.WriteString(pad + row('D', r) + "\n")
	}
	return b.String()
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx := cmd.Context()
	client, err := connectCube(ctx, cfg, deviceAddress, log)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal; keep logs out of it.
	source := gocube.NewSource(client)
	defer source.Close()
	session := smartcube.NewSession(sessionOptions(cfg, nil)...)

	if err := source.Start(); err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(ctx, session, source), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
