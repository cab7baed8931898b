package smartcube

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibratorFirstSampleIsHome(t *testing.T) {
	c := NewCalibrator()
	assert.False(t, c.Calibrated())

	q, emit, err := c.Observe(FromAxisAngle(1, 2, 3, 0.7))
	require.NoError(t, err)
	assert.True(t, emit)
	assert.Equal(t, DefaultHome, q)
	assert.True(t, c.Calibrated())

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, DefaultHome, last)
}

func TestCalibratorSuppressesRepeats(t *testing.T) {
	c := NewCalibrator()
	sample := Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}

	_, emit, err := c.Observe(sample)
	require.NoError(t, err)
	require.True(t, emit)

	q, emit, err := c.Observe(sample)
	require.NoError(t, err)
	assert.False(t, emit)
	assert.Equal(t, DefaultHome, q)

	// A scaled copy normalizes to the same sample.
	_, emit, err = c.Observe(Quaternion{W: 2, X: 2, Y: 2, Z: 2})
	require.NoError(t, err)
	assert.False(t, emit)
}

func TestCalibratorRelativeRotation(t *testing.T) {
	c := NewCalibrator(WithHomeOrientation(Identity()))

	_, _, err := c.Observe(Identity())
	require.NoError(t, err)

	turn := FromAxisAngle(0, 0, 1, math.Pi/2)
	q, emit, err := c.Observe(turn)
	require.NoError(t, err)
	assert.True(t, emit)
	assertQuatNear(t, turn, q)
}

func TestCalibratorIsRelativeToFirstSample(t *testing.T) {
	c := NewCalibrator()
	start := FromAxisAngle(1, 0, 0, 0.4)
	delta := FromAxisAngle(0, 1, 0, 0.9)

	_, _, err := c.Observe(start)
	require.NoError(t, err)

	q, emit, err := c.Observe(start.Mul(delta))
	require.NoError(t, err)
	assert.True(t, emit)
	assertQuatNear(t, DefaultHome.Mul(delta), q)
}

func TestCalibratorReset(t *testing.T) {
	c := NewCalibrator()
	sample := Quaternion{W: 1}

	_, _, err := c.Observe(FromAxisAngle(0, 1, 0, 1.2))
	require.NoError(t, err)
	_, _, err = c.Observe(sample)
	require.NoError(t, err)

	c.Reset()
	assert.False(t, c.Calibrated())
	_, ok := c.Last()
	assert.False(t, ok)

	q, emit, err := c.Observe(sample)
	require.NoError(t, err)
	assert.True(t, emit, "first sample after reset is always emitted")
	assert.Equal(t, DefaultHome, q)
}

func TestCalibratorRepeatedFirstSampleSuppressed(t *testing.T) {
	for i := 1; i <= 50; i++ {
		sample := FromAxisAngle(1, 2, 3, float64(i)*0.1)
		c := NewCalibrator()

		q, emit, err := c.Observe(sample)
		require.NoError(t, err)
		require.True(t, emit)
		require.Equal(t, DefaultHome, q)

		q, emit, err = c.Observe(sample)
		require.NoError(t, err)
		assert.False(t, emit, "angle %.1f: repeat of first sample re-emitted", float64(i)*0.1)
		assert.Equal(t, DefaultHome, q)
	}
}

func TestCalibratorRejectsMalformedSamples(t *testing.T) {
	c := NewCalibrator()

	_, emit, err := c.Observe(Quaternion{})
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.False(t, emit)
	assert.False(t, c.Calibrated(), "bad sample must not become the basis")

	_, _, err = c.Observe(Quaternion{W: math.NaN(), X: 1})
	assert.ErrorIs(t, err, ErrMalformedInput)

	q, emit, err := c.Observe(Quaternion{W: 1})
	require.NoError(t, err)
	assert.True(t, emit)
	assert.Equal(t, DefaultHome, q)
}

func TestCalibratorHome(t *testing.T) {
	home := FromEulerDegrees(0, 45, 0)
	c := NewCalibrator(WithHomeOrientation(home))
	assert.Equal(t, home, c.Home())

	q, _, err := c.Observe(Quaternion{W: 3, Z: 4})
	require.NoError(t, err)
	assert.Equal(t, home, q)
}

func TestCalibratorHomeEuler(t *testing.T) {
	c := NewCalibrator(WithHomeEuler(15, -20, 0))
	assert.Equal(t, DefaultHome, c.Home())

	c = NewCalibrator(WithHomeEuler(0, 90, 0))
	assertQuatNear(t, FromAxisAngle(0, 1, 0, math.Pi/2), c.Home())
}
