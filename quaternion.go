package smartcube

import (
	"fmt"
	"math"
)

// Quaternion is a rotation in (w, x, y, z) form.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// FromEuler builds a rotation from Euler angles in radians, applied in XYZ
// order (intrinsic), the convention used by most WebGL scene graphs.
func FromEuler(x, y, z float64) Quaternion {
	c1, s1 := math.Cos(x/2), math.Sin(x/2)
	c2, s2 := math.Cos(y/2), math.Sin(y/2)
	c3, s3 := math.Cos(z/2), math.Sin(z/2)
	return Quaternion{
		W: c1*c2*c3 - s1*s2*s3,
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
	}
}

// FromEulerDegrees is FromEuler with angles in degrees.
func FromEulerDegrees(x, y, z float64) Quaternion {
	return FromEuler(x*math.Pi/180, y*math.Pi/180, z*math.Pi/180)
}

// FromAxisAngle builds a rotation of angle radians about the given axis.
// The axis does not need to be normalized.
func FromAxisAngle(ax, ay, az, angle float64) Quaternion {
	n := math.Sqrt(ax*ax + ay*ay + az*az)
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Quaternion{W: math.Cos(angle / 2), X: ax * s, Y: ay * s, Z: az * s}
}

// Mul returns the Hamilton product q*r. Applied to a vector, r acts first.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.X*r.W + q.W*r.X + q.Y*r.Z - q.Z*r.Y,
		Y: q.Y*r.W + q.W*r.Y + q.Z*r.X - q.X*r.Z,
		Z: q.Z*r.W + q.W*r.Z + q.X*r.Y - q.Y*r.X,
	}
}

// Conjugate returns q with its vector part negated. For unit quaternions
// this is the inverse rotation.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Dot returns the four-dimensional dot product.
func (q Quaternion) Dot(r Quaternion) float64 {
	return q.W*r.W + q.X*r.X + q.Y*r.Y + q.Z*r.Z
}

// Norm returns the Euclidean length of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize scales q to unit length. A zero or non-finite quaternion has no
// direction and yields ErrMalformedInput.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Quaternion{}, fmt.Errorf("%w: cannot normalize quaternion %v", ErrMalformedInput, q)
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}, nil
}

// AngleTo returns the rotation angle in radians between q and r, both
// assumed unit length.
func (q Quaternion) AngleTo(r Quaternion) float64 {
	d := math.Abs(q.Dot(r))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// String formats q to three decimals.
func (q Quaternion) String() string {
	return fmt.Sprintf("(w=%.3f x=%.3f y=%.3f z=%.3f)", q.W, q.X, q.Y, q.Z)
}

// RemapGANAxes converts a quaternion from the GAN gyro frame into the
// y-up frame used for display: (x, y, z) becomes (x, z, -y).
func RemapGANAxes(q Quaternion) Quaternion {
	return Quaternion{W: q.W, X: q.X, Y: q.Z, Z: -q.Y}
}
