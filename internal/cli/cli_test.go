package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/publish"
)

const afterR = "UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	validateState = false
	stateJSON = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := execute(t, "", "decode", afterR)
	require.NoError(t, err)

	var s smartcube.State
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	want, err := smartcube.Decode(afterR)
	require.NoError(t, err)
	assert.Equal(t, want, s)
}

func TestDecodeCommandErrors(t *testing.T) {
	_, err := execute(t, "", "decode", "UUU")
	assert.ErrorIs(t, err, smartcube.ErrMalformedInput)

	twisted := smartcube.SolvedState()
	twisted.Corners[0].Orientation = 1
	facelets, err := smartcube.Encode(twisted)
	require.NoError(t, err)

	_, err = execute(t, "", "decode", facelets)
	assert.NoError(t, err)
	_, err = execute(t, "", "decode", "--validate", facelets)
	assert.ErrorIs(t, err, smartcube.ErrInvalidState)
}

func TestEncodeCommand(t *testing.T) {
	s, err := smartcube.Decode(afterR)
	require.NoError(t, err)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	out, err := execute(t, string(data), "encode")
	require.NoError(t, err)
	assert.Equal(t, afterR+"\n", out)

	out, err = execute(t, "", "encode", "--state", string(data))
	require.NoError(t, err)
	assert.Equal(t, afterR+"\n", out)

	_, err = execute(t, "{not json", "encode")
	assert.ErrorIs(t, err, smartcube.ErrMalformedInput)
}

func TestApplyCommand(t *testing.T) {
	out, err := execute(t, "", "apply", "R")
	require.NoError(t, err)
	assert.Contains(t, out, "Facelets: "+afterR)
	assert.Contains(t, out, "Phase:    Scrambled")

	_, err = execute(t, "", "apply", "R", "Q")
	assert.ErrorIs(t, err, smartcube.ErrInvalidNotation)
}

type fakeControl struct {
	events chan smartcube.Event
	resets int
	err    error
}

func (f *fakeControl) Events() <-chan smartcube.Event { return f.events }

func (f *fakeControl) ResetState() error {
	f.resets++
	return f.err
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModelEvents(t *testing.T) {
	control := &fakeControl{events: make(chan smartcube.Event, 4)}
	session := smartcube.NewSession()
	m := newWatchModel(context.Background(), session, control)

	control.events <- smartcube.FaceletsEvent{Facelets: afterR}
	_, cmd := m.Update(m.nextEvent()())
	require.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, afterR, m.snap.Facelets)

	control.events <- smartcube.BatteryEvent{Level: 55}
	m.Update(m.nextEvent()())
	view := m.View()
	assert.Contains(t, view, "Battery: 55%")
	assert.Contains(t, view, smartcube.NotAvailable)
	assert.Contains(t, view, "waiting for gyro")

	control.events <- smartcube.GyroEvent{Quaternion: smartcube.Identity()}
	m.Update(m.nextEvent()())
	assert.True(t, m.snap.HasOrientation)

	close(control.events)
	m.Update(m.nextEvent()())
	assert.Contains(t, m.View(), "Disconnected")
}

func TestWatchModelKeys(t *testing.T) {
	control := &fakeControl{events: make(chan smartcube.Event)}
	session := smartcube.NewSession()
	m := newWatchModel(context.Background(), session, control)

	m.Update(keyMsg(" "))
	assert.Equal(t, smartcube.TimerReady, m.snap.Timer)
	assert.Contains(t, m.View(), "READY")

	require.NoError(t, session.HandleEvent(context.Background(), smartcube.GyroEvent{Quaternion: smartcube.Identity()}))
	m.Update(keyMsg("g"))
	assert.False(t, m.snap.HasOrientation)

	control.err = errors.New("not connected")
	m.Update(keyMsg("r"))
	assert.Equal(t, 1, control.resets)
	assert.Contains(t, m.View(), "not connected")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestRenderNet(t *testing.T) {
	net := renderNet(smartcube.SolvedFacelets)
	assert.Len(t, strings.Split(strings.TrimSuffix(net, "\n"), "\n"), 9)
	assert.Contains(t, renderNet("bad"), "invalid facelets")
}

func TestHandleCommand(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	control := &fakeControl{}
	session := smartcube.NewSession()

	handleCommand(publish.CommandArmTimer, session, control, log)
	assert.Equal(t, smartcube.TimerReady, session.Snapshot().Timer)

	require.NoError(t, session.HandleEvent(context.Background(), smartcube.FaceletsEvent{Facelets: afterR}))
	handleCommand(publish.CommandResetState, session, control, log)
	assert.Equal(t, 1, control.resets)
	assert.True(t, session.Snapshot().Solved)

	require.NoError(t, session.HandleEvent(context.Background(), smartcube.GyroEvent{Quaternion: smartcube.Identity()}))
	handleCommand(publish.CommandResetOrientation, session, control, log)
	assert.False(t, session.Snapshot().HasOrientation)

	handleCommand("bogus", session, control, log)
}

func TestPump(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	control := &fakeControl{events: make(chan smartcube.Event, 4)}
	session := smartcube.NewSession()
	control.events <- smartcube.FaceletsEvent{Facelets: afterR}
	control.events <- smartcube.FaceletsEvent{Facelets: "bad"}
	close(control.events)
	require.NoError(t, pump(ctx, control, session, log))
	assert.Equal(t, afterR, session.Snapshot().Facelets)

	control = &fakeControl{events: make(chan smartcube.Event, 1)}
	control.events <- smartcube.DisconnectEvent{}
	assert.ErrorIs(t, pump(ctx, control, session, log), errDisconnected)
	assert.False(t, session.Snapshot().Connected)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	control = &fakeControl{events: make(chan smartcube.Event)}
	assert.ErrorIs(t, pump(cancelled, control, session, log), context.Canceled)
}

func TestStartTasksNeverBlocks(t *testing.T) {
	boom := errors.New("boom")
	results := startTasks(
		func() error { return nil },
		func() error { return boom },
	)
	require.Eventually(t, func() bool { return len(results) == 2 }, time.Second, time.Millisecond,
		"both tasks deliver without a receiver")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, firstResult(ctx, make(chan error)))

	results = startTasks(func() error { return boom })
	assert.ErrorIs(t, firstResult(context.Background(), results), boom)
}
