package smartcube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotAvailable is shown for hardware details the device did not report.
const NotAvailable = "- n/a -"

// StateSink receives every decoded cube state.
type StateSink interface {
	PublishState(ctx context.Context, facelets string, s State) error
}

// OrientationSink receives every calibrated orientation that changed.
type OrientationSink interface {
	PublishOrientation(ctx context.Context, q Quaternion) error
}

// Session folds the events of one cube connection into a current view:
// decoded state, calibrated orientation, solve timer, battery and hardware
// details. Results are pushed to the configured sinks.
//
// Session is safe for concurrent use. Sinks are called without holding the
// session lock.
type Session struct {
	id     string
	config *config
	log    *slog.Logger

	mu             sync.RWMutex
	calibrator     *Calibrator
	timer          *Timer
	facelets       string
	state          State
	phase          Phase
	orientation    Quaternion
	hasOrientation bool
	moves          []Move
	battery        int
	hardware       HardwareEvent
	hasHardware    bool
	connected      bool
}

// Snapshot is a point-in-time copy of a Session's view.
type Snapshot struct {
	ID             string        `json:"id"`
	Facelets       string        `json:"facelets"`
	State          State         `json:"state"`
	Solved         bool          `json:"solved"`
	Phase          Phase         `json:"phase"`
	Orientation    Quaternion    `json:"orientation"`
	HasOrientation bool          `json:"has_orientation"`
	Moves          []Move        `json:"moves,omitempty"`
	Battery        int           `json:"battery"`
	Hardware       HardwareEvent `json:"hardware"`
	HasHardware    bool          `json:"has_hardware"`
	Connected      bool          `json:"connected"`
	Timer          TimerState    `json:"timer"`
	Elapsed        time.Duration `json:"elapsed"`
}

// NewSession creates a session showing a solved cube.
func NewSession(opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	id := uuid.NewString()
	return &Session{
		id:         id,
		config:     cfg,
		log:        cfg.logger.With("session", id),
		calibrator: NewCalibrator(WithHomeOrientation(cfg.home)),
		timer:      NewTimer(),
		facelets:   SolvedFacelets,
		state:      SolvedState(),
		phase:      PhaseSolved,
		battery:    -1,
		connected:  true,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// HandleEvent applies one event. Events must be delivered in the order the
// device produced them.
//
// Malformed facelets or orientation samples are rejected with an error and
// leave the view unchanged. Sink errors are joined and returned after the
// view has been updated.
func (s *Session) HandleEvent(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case FaceletsEvent:
		return s.handleFacelets(ctx, e)
	case GyroEvent:
		return s.handleGyro(ctx, e)
	case MoveEvent:
		s.handleMove(e)
	case BatteryEvent:
		s.mu.Lock()
		s.battery = e.Level
		s.mu.Unlock()
	case HardwareEvent:
		s.mu.Lock()
		s.hardware = e
		s.hasHardware = true
		s.mu.Unlock()
		s.log.Info("hardware info", "name", e.Name, "hw", e.HardwareVersion, "sw", e.SoftwareVersion)
	case DisconnectEvent:
		s.mu.Lock()
		s.connected = false
		s.calibrator.Reset()
		s.hasOrientation = false
		s.mu.Unlock()
		s.log.Info("cube disconnected", "err", e.Err)
	default:
		return fmt.Errorf("%w: unknown event %T", ErrMalformedInput, ev)
	}
	return nil
}

func (s *Session) handleFacelets(ctx context.Context, e FaceletsEvent) error {
	state, err := Decode(e.Facelets)
	if err != nil {
		s.log.Warn("rejected facelets", "facelets", e.Facelets, "err", err)
		return err
	}
	phase := PhaseScrambled
	if cube, err := CubeFromFacelets(e.Facelets); err == nil {
		phase = cube.Phase()
	}

	s.mu.Lock()
	if phase != s.phase {
		s.log.Debug("phase changed", "from", s.phase, "to", phase)
	}
	s.facelets = e.Facelets
	s.state = state
	s.phase = phase
	if state.IsSolved() && s.timer.Stop() {
		s.log.Info("solve finished", "time", FormatDuration(s.timer.Elapsed()))
	}
	sinks := s.config.stateSinks
	s.mu.Unlock()

	var errs []error
	for _, sink := range sinks {
		if err := sink.PublishState(ctx, e.Facelets, state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) handleGyro(ctx context.Context, e GyroEvent) error {
	sample := e.Quaternion
	if s.config.remapAxes {
		sample = RemapGANAxes(sample)
	}

	s.mu.Lock()
	q, emit, err := s.calibrator.Observe(sample)
	if err != nil {
		s.mu.Unlock()
		s.log.Debug("rejected gyro sample", "sample", e.Quaternion, "err", err)
		return err
	}
	if emit {
		s.orientation = q
		s.hasOrientation = true
	}
	sinks := s.config.orientationSinks
	s.mu.Unlock()

	if !emit {
		return nil
	}
	var errs []error
	for _, sink := range sinks {
		if err := sink.PublishOrientation(ctx, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) handleMove(e MoveEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer.State() == TimerReady {
		s.timer.Start()
		s.log.Info("solve started", "move", e.Move.Notation())
	}
	if n := s.config.moveHistory; n > 0 {
		s.moves = append(s.moves, e.Move)
		if len(s.moves) > n {
			s.moves = append(s.moves[:0:0], s.moves[len(s.moves)-n:]...)
		}
	}
}

// ResetOrientation drops the gyro calibration. The next sample becomes the
// new reference and is shown in the home pose.
func (s *Session) ResetOrientation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calibrator.Reset()
	s.hasOrientation = false
}

// ResetState marks the cube as solved, clears the move history and resets
// the timer. Use it when the device's idea of the state has drifted.
func (s *Session) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facelets = SolvedFacelets
	s.state = SolvedState()
	s.phase = PhaseSolved
	s.moves = nil
	s.timer.Reset()
}

// ArmTimer readies the solve timer; it starts on the next move.
// Returns false while a solve is running.
func (s *Session) ArmTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Arm()
}

// Snapshot returns a copy of the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:             s.id,
		Facelets:       s.facelets,
		State:          s.state,
		Solved:         s.state.IsSolved(),
		Phase:          s.phase,
		Orientation:    s.orientation,
		HasOrientation: s.hasOrientation,
		Moves:          append([]Move(nil), s.moves...),
		Battery:        s.battery,
		Hardware:       s.hardware,
		HasHardware:    s.hasHardware,
		Connected:      s.connected,
		Timer:          s.timer.State(),
		Elapsed:        s.timer.Elapsed(),
	}
}

// HardwareField returns v, or NotAvailable when v is empty.
func HardwareField(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
