// Package gocube adapts a GoCube connection into smartcube events.
package gocube

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/protocol"
)

// Transport is the connection a Source reads from. *ble.Client implements
// it.
type Transport interface {
	SetMessageCallback(func(protocol.Message))
	SetDisconnectCallback(func(error))
	SendCommand(cmd byte) error
	DeviceName() string
	Disconnect() error
}

// Source turns GoCube notifications into a single ordered stream of
// smartcube events.
//
// GoCube reports turns, not stickers, so Source tracks the cube itself and
// follows every batch of moves with a FaceletsEvent snapshot.
type Source struct {
	transport Transport
	log       *slog.Logger
	now       func() time.Time

	events    chan smartcube.Event
	done      chan struct{}
	closeOnce sync.Once

	sendMu sync.RWMutex
	closed bool

	mu   sync.Mutex
	cube *smartcube.Cube
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger for dropped or unknown messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBuffer sets the event channel capacity. Default 64.
func WithBuffer(n int) Option {
	return func(s *Source) {
		if n >= 0 {
			s.events = make(chan smartcube.Event, n)
		}
	}
}

// NewSource registers itself on t. Call Start once the consumer is reading
// Events.
func NewSource(t Transport, opts ...Option) *Source {
	s := &Source{
		transport: t,
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
		events:    make(chan smartcube.Event, 64),
		done:      make(chan struct{}),
		cube:      smartcube.NewCube(),
	}
	for _, opt := range opts {
		opt(s)
	}
	t.SetMessageCallback(s.HandleMessage)
	t.SetDisconnectCallback(s.handleDisconnect)
	return s
}

// Events returns the event stream. It is closed by Close.
func (s *Source) Events() <-chan smartcube.Event {
	return s.events
}

// Start asks the cube for its details and turns on orientation reports.
func (s *Source) Start() error {
	for _, cmd := range []byte{
		protocol.CmdRequestCubeType,
		protocol.CmdRequestBattery,
		protocol.CmdEnableOrientation,
	} {
		if err := s.transport.SendCommand(cmd); err != nil {
			return fmt.Errorf("gocube start: %w", err)
		}
	}
	s.emit(smartcube.FaceletsEvent{Facelets: s.Facelets(), Time: s.now()})
	return nil
}

// Facelets returns the tracked cube as a facelet string.
func (s *Source) Facelets() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cube.FaceletString()
}

// ResetState tells the cube it is solved and resets the tracked model.
func (s *Source) ResetState() error {
	if err := s.transport.SendCommand(protocol.CmdResetSolved); err != nil {
		return err
	}
	s.mu.Lock()
	s.cube.Reset()
	facelets := s.cube.FaceletString()
	s.mu.Unlock()

	s.emit(smartcube.FaceletsEvent{Facelets: facelets, Time: s.now()})
	return nil
}

// Close disconnects and closes the event stream.
func (s *Source) Close() error {
	err := s.transport.Disconnect()
	s.closeOnce.Do(func() {
		close(s.done)
		s.sendMu.Lock()
		s.closed = true
		close(s.events)
		s.sendMu.Unlock()
	})
	return err
}

// HandleMessage translates one framed message. Undecodable payloads are
// logged and dropped.
func (s *Source) HandleMessage(msg protocol.Message) {
	now := s.now()
	switch msg.Type {
	case protocol.MsgTypeRotation:
		rotations, err := protocol.DecodeRotation(msg.Payload)
		if err != nil {
			s.drop(msg, err)
			return
		}
		s.handleRotations(rotations, now)

	case protocol.MsgTypeOrientation:
		o, err := protocol.DecodeOrientation(msg.Payload)
		if err != nil {
			s.drop(msg, err)
			return
		}
		s.emit(smartcube.GyroEvent{
			Quaternion: smartcube.Quaternion{W: o.W, X: o.X, Y: o.Y, Z: o.Z},
			Time:       now,
		})

	case protocol.MsgTypeBattery:
		level, err := protocol.DecodeBattery(msg.Payload)
		if err != nil {
			s.drop(msg, err)
			return
		}
		s.emit(smartcube.BatteryEvent{Level: level})

	case protocol.MsgTypeCubeType:
		ct, err := protocol.DecodeCubeType(msg.Payload)
		if err != nil {
			s.drop(msg, err)
			return
		}
		s.emit(smartcube.HardwareEvent{
			Name:            s.transport.DeviceName(),
			HardwareVersion: "GoCube " + ct.Name,
			GyroSupported:   true,
		})

	case protocol.MsgTypeOfflineStats:
		stats, err := protocol.DecodeOfflineStats(msg.Payload)
		if err != nil {
			s.drop(msg, err)
			return
		}
		s.log.Info("offline stats", "moves", stats.Moves, "seconds", stats.Time, "solves", stats.Solves)

	default:
		s.log.Debug("ignored message", "type", protocol.MessageTypeName(msg.Type), "len", len(msg.Payload))
	}
}

func (s *Source) handleRotations(rotations []protocol.Rotation, now time.Time) {
	moves := make([]smartcube.Move, 0, len(rotations))
	for _, r := range rotations {
		face, ok := colorToFace[r.Color]
		if !ok {
			continue
		}
		turn := smartcube.CCW
		if r.Clockwise {
			turn = smartcube.CW
		}
		moves = append(moves, smartcube.Move{Face: face, Turn: turn, Time: now})
	}
	if len(moves) == 0 {
		return
	}

	s.mu.Lock()
	s.cube.Apply(moves...)
	facelets := s.cube.FaceletString()
	s.mu.Unlock()

	for _, m := range moves {
		s.emit(smartcube.MoveEvent{Move: m})
	}
	s.emit(smartcube.FaceletsEvent{Facelets: facelets, Time: now})
}

func (s *Source) handleDisconnect(err error) {
	s.emit(smartcube.DisconnectEvent{Err: err})
}

func (s *Source) drop(msg protocol.Message, err error) {
	s.log.Warn("dropped message", "type", protocol.MessageTypeName(msg.Type), "err", err)
}

// emit blocks until the consumer takes ev or the source is closed.
func (s *Source) emit(ev smartcube.Event) {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// GoCube reports turns by center color; white up, green front.
var colorToFace = map[string]smartcube.Face{
	"white":  smartcube.FaceU,
	"yellow": smartcube.FaceD,
	"green":  smartcube.FaceF,
	"blue":   smartcube.FaceB,
	"red":    smartcube.FaceR,
	"orange": smartcube.FaceL,
}
