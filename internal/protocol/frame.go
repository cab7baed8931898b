// Package protocol implements GoCube BLE message framing and payload
// decoding.
package protocol

import (
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs (Nordic UART layout).
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Message types sent by the cube.
const (
	MsgTypeRotation     byte = 0x01
	MsgTypeState        byte = 0x02
	MsgTypeOrientation  byte = 0x03
	MsgTypeBattery      byte = 0x05
	MsgTypeOfflineStats byte = 0x07
	MsgTypeCubeType     byte = 0x08
)

// Commands written to the RX characteristic.
const (
	CmdRequestBattery       byte = 0x32
	CmdRequestState         byte = 0x33
	CmdReboot               byte = 0x34
	CmdResetSolved          byte = 0x35
	CmdDisableOrientation   byte = 0x37
	CmdEnableOrientation    byte = 0x38
	CmdRequestOfflineStats  byte = 0x39
	CmdFlashBacklight       byte = 0x41
	CmdToggleAnimatedBL     byte = 0x42
	CmdSlowFlashBacklight   byte = 0x43
	CmdToggleBacklight      byte = 0x44
	CmdRequestCubeType      byte = 0x56
	CmdCalibrateOrientation byte = 0x57
)

// Frame layout: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A].
// length counts every byte after itself.
const (
	FramePrefix  byte = 0x2A
	FrameSuffix1 byte = 0x0D
	FrameSuffix2 byte = 0x0A
)

var (
	ErrInvalidPrefix   = errors.New("protocol: invalid message prefix")
	ErrInvalidSuffix   = errors.New("protocol: invalid message suffix")
	ErrInvalidChecksum = errors.New("protocol: invalid checksum")
	ErrMessageTooShort = errors.New("protocol: message too short")
	ErrInvalidLength   = errors.New("protocol: invalid message length")
	ErrInvalidPayload  = errors.New("protocol: invalid payload")
)

// Message is one framed notification from the cube.
type Message struct {
	Type    byte
	Payload []byte
}

// ParseMessage validates a raw notification and extracts its payload.
// The payload aliases data.
func ParseMessage(data []byte) (Message, error) {
	if len(data) < 5 {
		return Message{}, ErrMessageTooShort
	}
	if data[0] != FramePrefix {
		return Message{}, ErrInvalidPrefix
	}

	length := int(data[1])
	if len(data) < 2+length {
		return Message{}, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, 2+length, len(data))
	}

	sumIdx := length - 1
	if sumIdx < 3 {
		return Message{}, ErrMessageTooShort
	}
	if data[sumIdx+1] != FrameSuffix1 || data[sumIdx+2] != FrameSuffix2 {
		return Message{}, ErrInvalidSuffix
	}

	var sum byte
	for _, b := range data[:sumIdx] {
		sum += b
	}
	if sum != data[sumIdx] {
		return Message{}, fmt.Errorf("%w: frame says 0x%02X, computed 0x%02X", ErrInvalidChecksum, data[sumIdx], sum)
	}

	return Message{Type: data[2], Payload: data[3:sumIdx]}, nil
}

// BuildCommand frames a single-byte command. Commands use a short length
// byte of 1, unlike notifications.
func BuildCommand(cmd byte) []byte {
	const length = 0x01
	return []byte{FramePrefix, length, cmd, FramePrefix + length + cmd, FrameSuffix1, FrameSuffix2}
}

// BuildFrame frames a message the way the cube does. It is the inverse of
// ParseMessage and is mostly useful for tests and replay.
func BuildFrame(msgType byte, payload []byte) []byte {
	// type + payload + checksum + CR LF
	length := 1 + len(payload) + 3
	out := make([]byte, 0, 2+length)
	out = append(out, FramePrefix, byte(length), msgType)
	out = append(out, payload...)
	var sum byte
	for _, b := range out {
		sum += b
	}
	return append(out, sum, FrameSuffix1, FrameSuffix2)
}

// MessageTypeName returns a short name for a message type.
func MessageTypeName(msgType byte) string {
	switch msgType {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeOfflineStats:
		return "offline_stats"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", msgType)
	}
}
