package smartcube

// DefaultHome is the pose a freshly calibrated cube is shown in: tipped
// 15 degrees toward the viewer and turned 20 degrees to the left.
var DefaultHome = FromEulerDegrees(15, -20, 0)

// Calibrator turns raw device orientation samples into display
// orientations relative to the pose the cube was in when tracking started.
//
// The first sample after construction or Reset becomes the reference: its
// inverse is stored as the basis and every later sample is reported as
// home * basis * sample. Outputs identical to the previous one are
// suppressed.
//
// A Calibrator is not safe for concurrent use.
type Calibrator struct {
	home Quaternion

	basis    Quaternion
	hasBasis bool

	last    Quaternion
	hasLast bool
}

// NewCalibrator creates an uncalibrated Calibrator.
func NewCalibrator(opts ...CalibratorOption) *Calibrator {
	c := &Calibrator{home: DefaultHome}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe feeds one raw sample through the filter. It returns the
// corrected orientation and whether it should be rendered; emit is false
// when the result equals the previously emitted orientation exactly.
//
// The sample is normalized first; a zero or non-finite sample returns
// ErrMalformedInput and leaves the calibration untouched.
func (c *Calibrator) Observe(sample Quaternion) (q Quaternion, emit bool, err error) {
	unit, err := sample.Normalize()
	if err != nil {
		return Quaternion{}, false, err
	}

	// The calibration sample itself maps to exactly home, however often it
	// repeats.
	relative := Identity()
	if c.hasBasis {
		if unit != c.basis.Conjugate() {
			relative = c.basis.Mul(unit)
		}
	} else {
		c.basis = unit.Conjugate()
		c.hasBasis = true
	}

	corrected := c.home.Mul(relative)
	if c.hasLast && corrected == c.last {
		return corrected, false, nil
	}
	c.last = corrected
	c.hasLast = true
	return corrected, true, nil
}

// Reset discards the basis and the last emitted orientation. The next
// sample recalibrates.
func (c *Calibrator) Reset() {
	c.basis = Quaternion{}
	c.hasBasis = false
	c.last = Quaternion{}
	c.hasLast = false
}

// Calibrated reports whether a basis has been captured.
func (c *Calibrator) Calibrated() bool {
	return c.hasBasis
}

// Home returns the configured home orientation.
func (c *Calibrator) Home() Quaternion {
	return c.home
}

// Last returns the most recently emitted orientation, if any.
func (c *Calibrator) Last() (Quaternion, bool) {
	return c.last, c.hasLast
}
