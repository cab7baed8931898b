package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRotation(t *testing.T) {
	rots, err := DecodeRotation([]byte{0x04, 0x03, 0x09, 0x00})
	require.NoError(t, err)
	require.Len(t, rots, 2)

	assert.Equal(t, "white", rots[0].Color)
	assert.True(t, rots[0].Clockwise)
	assert.Equal(t, byte(0x03), rots[0].CenterOrientation)

	assert.Equal(t, "red", rots[1].Color)
	assert.False(t, rots[1].Clockwise)
}

func TestDecodeRotationErrors(t *testing.T) {
	_, err := DecodeRotation([]byte{0x04})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeRotation([]byte{0x0C, 0x00})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeBattery(t *testing.T) {
	level, err := DecodeBattery([]byte{87})
	require.NoError(t, err)
	assert.Equal(t, 87, level)

	_, err = DecodeBattery(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeCubeType(t *testing.T) {
	ct, err := DecodeCubeType([]byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "edge", ct.Name)

	ct, err = DecodeCubeType([]byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, "standard", ct.Name)
}

func TestDecodeOrientation(t *testing.T) {
	o, err := DecodeOrientation([]byte("-120#45#0#980\x17"))
	require.NoError(t, err)
	assert.Equal(t, Orientation{X: -120, Y: 45, Z: 0, W: 980}, o)

	_, err = DecodeOrientation([]byte("1#2#3"))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeOrientation([]byte("a#2#3#4"))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodeOfflineStats(t *testing.T) {
	s, err := DecodeOfflineStats([]byte("120#95#3"))
	require.NoError(t, err)
	assert.Equal(t, OfflineStats{Moves: 120, Time: 95, Solves: 3}, s)

	_, err = DecodeOfflineStats([]byte("1#2"))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
