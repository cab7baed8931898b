package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Rotation is a single quarter turn reported by the cube.
type Rotation struct {
	Code              byte // 0x00-0x0B: color index * 2, +1 for counter-clockwise
	CenterOrientation byte
	Clockwise         bool
	Color             string
}

// Orientation is a raw gyro quaternion. GoCube sends unnormalized integers.
type Orientation struct {
	X, Y, Z, W float64
}

// CubeType identifies the hardware variant.
type CubeType struct {
	Code byte
	Name string
}

// OfflineStats are counters the cube accumulates while disconnected.
type OfflineStats struct {
	Moves  int
	Time   int // seconds
	Solves int
}

// Center colors in rotation code order.
var colorNames = [6]string{"blue", "green", "white", "yellow", "red", "orange"}

// DecodeRotation decodes [code, center] byte pairs.
func DecodeRotation(payload []byte) ([]Rotation, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: rotation payload has odd length %d", ErrInvalidPayload, len(payload))
	}

	rotations := make([]Rotation, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(colorNames) {
			return nil, fmt.Errorf("%w: unknown rotation code 0x%02X", ErrInvalidPayload, code)
		}
		rotations = append(rotations, Rotation{
			Code:              code,
			CenterOrientation: payload[i+1],
			Clockwise:         code%2 == 0,
			Color:             colorNames[idx],
		})
	}
	return rotations, nil
}

// DecodeBattery returns the battery level in percent.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("%w: empty battery payload", ErrInvalidPayload)
	}
	return int(payload[0]), nil
}

// DecodeCubeType decodes the hardware variant.
func DecodeCubeType(payload []byte) (CubeType, error) {
	if len(payload) < 1 {
		return CubeType{}, fmt.Errorf("%w: empty cube type payload", ErrInvalidPayload)
	}
	name := "standard"
	if payload[0] == 0x01 {
		name = "edge"
	}
	return CubeType{Code: payload[0], Name: name}, nil
}

// DecodeOrientation parses the ASCII form "x#y#z#w". Trailing bytes after
// the last number are ignored.
func DecodeOrientation(payload []byte) (Orientation, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return Orientation{}, fmt.Errorf("%w: orientation has %d parts, want 4", ErrInvalidPayload, len(parts))
	}
	parts[3] = leadingNumber(parts[3])

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Orientation{}, fmt.Errorf("%w: orientation component %d: %v", ErrInvalidPayload, i, err)
		}
		v[i] = f
	}
	return Orientation{X: v[0], Y: v[1], Z: v[2], W: v[3]}, nil
}

func leadingNumber(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || (r >= '0' && r <= '9') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

// DecodeOfflineStats parses "moves#time#solves".
func DecodeOfflineStats(payload []byte) (OfflineStats, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 3 {
		return OfflineStats{}, fmt.Errorf("%w: offline stats has %d parts, want 3", ErrInvalidPayload, len(parts))
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return OfflineStats{}, fmt.Errorf("%w: offline stats field %d: %v", ErrInvalidPayload, i, err)
		}
		v[i] = n
	}
	return OfflineStats{Moves: v[0], Time: v[1], Solves: v[2]}, nil
}
