package transmem

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Matrix4x4 is a row-major 4x4 homogeneous transform matrix, accepted by
// ConnectMatrix as a convenience ingress format. It mirrors the second
// registerLink overload in the original C++ transmem (transmem.cpp,
// lines 70-75), which accepted a QMatrix4x4 and converted it to
// quaternion+translation before delegating to the primary overload.
//
// Index [row][col]; m[0][3], m[1][3], m[2][3] hold the translation.
//
// This is a deliberately narrow, stdlib-only helper: it performs one
// well-known conversion (rotation matrix -> unit quaternion) and nothing
// else, so pulling in a general-purpose matrix library for it would add
// a dependency surface with no other use in this module (see DESIGN.md).
type Matrix4x4 [4][4]float64

// quaternionFromRotationMatrix converts the upper-left 3x3 rotation
// block of m to a unit quaternion using Shepperd's method.
func quaternionFromRotationMatrix(m Matrix4x4) quat.Number {
	r00, r01, r02 := m[0][0], m[0][1], m[0][2]
	r10, r11, r12 := m[1][0], m[1][1], m[1][2]
	r20, r21, r22 := m[2][0], m[2][1], m[2][2]

	trace := r00 + r11 + r22

	var w, x, y, z float64
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		w = 0.25 / s
		x = (r21 - r12) * s
		y = (r02 - r20) * s
		z = (r10 - r01) * s
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}

	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

func translationFromMatrix(m Matrix4x4) Vec3 {
	return Vec3{X: m[0][3], Y: m[1][3], Z: m[2][3]}
}
