package smartcube

import "time"

// EventType discriminates the events a cube connection delivers.
type EventType int

const (
	EventFacelets EventType = iota
	EventGyro
	EventMove
	EventBattery
	EventHardware
	EventDisconnect
)

func (t EventType) String() string {
	switch t {
	case EventFacelets:
		return "FACELETS"
	case EventGyro:
		return "GYRO"
	case EventMove:
		return "MOVE"
	case EventBattery:
		return "BATTERY"
	case EventHardware:
		return "HARDWARE"
	case EventDisconnect:
		return "DISCONNECT"
	default:
		return "UNKNOWN"
	}
}

// Event is anything a cube connection reports.
type Event interface {
	Type() EventType
}

// FaceletsEvent carries a full sticker snapshot in Kociemba order.
type FaceletsEvent struct {
	Facelets string
	Time     time.Time
}

// GyroEvent carries a raw orientation sample in the device's own axes.
type GyroEvent struct {
	Quaternion Quaternion
	Time       time.Time
}

// MoveEvent reports a single face turn.
type MoveEvent struct {
	Move Move
}

// BatteryEvent reports the battery level in percent.
type BatteryEvent struct {
	Level int
}

// HardwareEvent describes the connected device. Empty strings mean the
// device did not report the value.
type HardwareEvent struct {
	Name            string
	HardwareVersion string
	SoftwareVersion string
	ProductDate     string
	GyroSupported   bool
}

// DisconnectEvent reports that the connection was lost. Err is nil for a
// requested disconnect.
type DisconnectEvent struct {
	Err error
}

func (FaceletsEvent) Type() EventType   { return EventFacelets }
func (GyroEvent) Type() EventType       { return EventGyro }
func (MoveEvent) Type() EventType       { return EventMove }
func (BatteryEvent) Type() EventType    { return EventBattery }
func (HardwareEvent) Type() EventType   { return EventHardware }
func (DisconnectEvent) Type() EventType { return EventDisconnect }
