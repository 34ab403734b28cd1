package rigid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestIdentityCompose(t *testing.T) {
	id := Identity()
	x := Transform{Rot: quat.Number{Real: 0.7071, Imag: 0, Jmag: 0.7071, Kmag: 0}, Trans: r3.Vec{X: 1, Y: 2, Z: 3}}

	got := Compose(id, x)
	assert.InDelta(t, x.Trans.X, got.Trans.X, 1e-6)
	assert.InDelta(t, x.Trans.Y, got.Trans.Y, 1e-6)
	assert.InDelta(t, x.Trans.Z, got.Trans.Z, 1e-6)
}

func TestInverseRoundTrip(t *testing.T) {
	x := Transform{
		Rot:   quat.Number{Real: 0.9238795, Imag: 0, Jmag: 0, Kmag: 0.3826834}, // 45deg about Z
		Trans: r3.Vec{X: 1, Y: -2, Z: 0.5},
	}

	roundTrip := Compose(x, Inverse(x))
	id := Identity()

	require.InDelta(t, id.Rot.Real, roundTrip.Rot.Real, 1e-4)
	assert.InDelta(t, 0, roundTrip.Trans.X, 1e-4)
	assert.InDelta(t, 0, roundTrip.Trans.Y, 1e-4)
	assert.InDelta(t, 0, roundTrip.Trans.Z, 1e-4)
}

func TestSlerpMidpoint(t *testing.T) {
	a := Transform{Rot: quat.Number{Real: 1}, Trans: r3.Vec{X: 0, Y: 0, Z: 0}}
	b := Transform{Rot: quat.Number{Real: 0, Jmag: 1}, Trans: r3.Vec{X: 2, Y: 0, Z: 0}} // 180deg about Y

	mid := Slerp(a, b, 0.5)
	assert.InDelta(t, 1, mid.Trans.X, 1e-9)

	// Shortest-arc slerp at the midpoint between a 0deg and 180deg rotation
	// about the same axis must itself be a 90deg rotation about that axis.
	assert.InDelta(t, 0.70710678, mid.Rot.Real, 1e-6)
}

func TestSlerpShortestArcFlipsSign(t *testing.T) {
	a := Transform{Rot: quat.Number{Real: 1}}
	b := Transform{Rot: quat.Number{Real: -0.9999, Jmag: 0.0141}} // ~same rotation, opposite hemisphere

	got := Slerp(a, b, 0.5)
	// Without the shortest-arc flip this would spin the long way around;
	// the flipped interpolation should stay close to the identity.
	assert.Greater(t, got.Rot.Real, 0.0)
}

func TestNormalizeReportsOutOfBand(t *testing.T) {
	driftedBeyondBand := quat.Number{Real: 1.2}
	_, warned := Normalize(driftedBeyondBand)
	assert.True(t, warned)

	withinBand := quat.Number{Real: 1.001}
	_, warned = Normalize(withinBand)
	assert.False(t, warned)
}
