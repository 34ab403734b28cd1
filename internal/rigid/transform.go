package rigid

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// NormLow and NormHigh bound the acceptable quaternion norm on ingress.
// A norm outside this band is reported as NonNormalInput but the value
// is still accepted after best-effort normalization.
const (
	NormLow  = 0.995
	NormHigh = 1.005
)

// Transform is a rigid motion: a unit rotation plus a translation.
type Transform struct {
	Rot   quat.Number
	Trans r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rot: quat.Number{Real: 1}, Trans: r3.Vec{}}
}

// norm4 returns the Euclidean norm of q treated as a 4-vector.
func norm4(q quat.Number) float64 {
	return math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// dot4 returns the 4-vector dot product of two quaternions.
func dot4(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Normalize rescales q to unit norm, reporting whether the input norm
// drifted outside [NormLow, NormHigh] (the NonNormalInput condition).
func Normalize(q quat.Number) (quat.Number, bool) {
	n := norm4(q)
	if n == 0 {
		return quat.Number{Real: 1}, true
	}
	outOfBand := n < NormLow || n > NormHigh
	if n == 1 {
		return q, outOfBand
	}
	return quat.Scale(1/n, q), outOfBand
}

// RotateVec rotates v by the unit quaternion q via conjugation q·(0,v)·q⁻¹.
func RotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Compose returns the transform equivalent to applying b then a: for a
// point p, Compose(a, b) maps p to a(b(p)). Rotations multiply in that
// order; the accumulated translation is a's translation plus a's
// rotation applied to b's translation.
func Compose(a, b Transform) Transform {
	return Transform{
		Rot:   quat.Mul(a.Rot, b.Rot),
		Trans: r3.Add(a.Trans, RotateVec(a.Rot, b.Trans)),
	}
}

// Inverse returns t⁻¹ such that Compose(t, Inverse(t)) is the identity
// within floating-point tolerance.
func Inverse(t Transform) Transform {
	rotInv := quat.Conj(t.Rot)
	return Transform{
		Rot:   rotInv,
		Trans: r3.Scale(-1, RotateVec(rotInv, t.Trans)),
	}
}

// Slerp interpolates between a and b at u ∈ [0,1]: rotation via
// shortest-arc spherical linear interpolation, translation linearly.
func Slerp(a, b Transform, u float64) Transform {
	return Transform{
		Rot:   slerpQuat(a.Rot, b.Rot, u),
		Trans: r3.Add(a.Trans, r3.Scale(u, r3.Sub(b.Trans, a.Trans))),
	}
}

// slerpQuat implements shortest-arc spherical linear interpolation
// between two unit quaternions, flipping the sign of b when the two
// endpoints point into opposite hemispheres of the 4-sphere.
func slerpQuat(a, b quat.Number, u float64) quat.Number {
	d := dot4(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}
	if d > 1 {
		d = 1
	}

	// Nearly parallel: fall back to linear interpolation + renormalize
	// to avoid dividing by a near-zero sine term.
	const parallelThreshold = 0.9995
	if d > parallelThreshold {
		lerp := quat.Add(a, quat.Scale(u, quat.Sub(b, a)))
		n, _ := Normalize(lerp)
		return n
	}

	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-u)*theta) / sinTheta
	wb := math.Sin(u*theta) / sinTheta
	return quat.Add(quat.Scale(wa, a), quat.Scale(wb, b))
}
