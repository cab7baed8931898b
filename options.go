package smartcube

import "log/slog"

// Option configures a Session.
type Option func(*config)

type config struct {
	logger           *slog.Logger
	home             Quaternion
	remapAxes        bool
	moveHistory      int
	stateSinks       []StateSink
	orientationSinks []OrientationSink
}

func defaultConfig() *config {
	return &config{
		logger:      slog.New(slog.DiscardHandler),
		home:        DefaultHome,
		moveHistory: 100,
	}
}

// WithLogger sets the logger used for session diagnostics.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHome sets the orientation a freshly calibrated cube is shown in.
func WithHome(q Quaternion) Option {
	return func(c *config) {
		c.home = q
	}
}

// WithAxisRemap converts gyro samples from the GAN device frame before
// calibration. Enable this for GAN cubes only.
func WithAxisRemap(enabled bool) Option {
	return func(c *config) {
		c.remapAxes = enabled
	}
}

// WithMoveHistory keeps the last n moves available via Snapshot.
// Zero disables move history.
func WithMoveHistory(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.moveHistory = n
		}
	}
}

// WithStateSink adds a consumer for decoded cube states.
func WithStateSink(s StateSink) Option {
	return func(c *config) {
		c.stateSinks = append(c.stateSinks, s)
	}
}

// WithOrientationSink adds a consumer for calibrated orientations.
func WithOrientationSink(s OrientationSink) Option {
	return func(c *config) {
		c.orientationSinks = append(c.orientationSinks, s)
	}
}

// CalibratorOption configures a Calibrator.
type CalibratorOption func(*Calibrator)

// WithHomeOrientation replaces DefaultHome.
func WithHomeOrientation(q Quaternion) CalibratorOption {
	return func(c *Calibrator) {
		c.home = q
	}
}

// WithHomeEuler sets the home orientation from XYZ Euler angles in degrees.
func WithHomeEuler(x, y, z float64) CalibratorOption {
	return WithHomeOrientation(FromEulerDegrees(x, y, z))
}
