package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	frame := BuildFrame(MsgTypeRotation, []byte{0x08, 0x00})
	assert.Equal(t, []byte{0x2A, 0x06, 0x01, 0x08, 0x00, 0x39, 0x0D, 0x0A}, frame)

	msg, err := ParseMessage(frame)
	require.NoError(t, err)
	assert.Equal(t, MsgTypeRotation, msg.Type)
	assert.Equal(t, []byte{0x08, 0x00}, msg.Payload)
}

func TestParseMessageEmptyPayload(t *testing.T) {
	msg, err := ParseMessage(BuildFrame(MsgTypeState, nil))
	require.NoError(t, err)
	assert.Equal(t, MsgTypeState, msg.Type)
	assert.Empty(t, msg.Payload)
}

func TestParseMessageErrors(t *testing.T) {
	good := BuildFrame(MsgTypeBattery, []byte{80})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte{0x2A, 0x01}, ErrMessageTooShort},
		{"bad prefix", append([]byte{0x2B}, good[1:]...), ErrInvalidPrefix},
		{"truncated", good[:len(good)-1], ErrInvalidLength},
		{"bad suffix", replaceAt(good, len(good)-1, 0x00), ErrInvalidSuffix},
		{"bad checksum", replaceAt(good, len(good)-3, 0x00), ErrInvalidChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildCommand(t *testing.T) {
	assert.Equal(t, []byte{0x2A, 0x01, 0x32, 0x5D, 0x0D, 0x0A}, BuildCommand(CmdRequestBattery))
}

func TestMessageTypeName(t *testing.T) {
	assert.Equal(t, "orientation", MessageTypeName(MsgTypeOrientation))
	assert.Equal(t, "unknown_0xFF", MessageTypeName(0xFF))
}

func replaceAt(b []byte, i int, v byte) []byte {
	out := append([]byte(nil), b...)
	out[i] = v
	return out
}
