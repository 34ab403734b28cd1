package path

import (
	"testing"
	"time"

	"github.com/mbonani/transmem/internal/edge"
	"github.com/mbonani/transmem/internal/graph"
	"github.com/mbonani/transmem/internal/rigid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func identityAt(at time.Time, x, y, z float64) edge.Stamped {
	return edge.Stamped{At: at, Xfrm: rigid.Transform{Rot: quat.Number{Real: 1}, Trans: r3.Vec{X: x, Y: y, Z: z}}}
}

// TestTrivialChain composes a two-hop chain A-B-C into a single transform.
func TestTrivialChain(t *testing.T) {
	g := graph.New(time.Hour, nil)
	at := time.Unix(1, 0)
	g.Connect("A", "B", identityAt(at, 1, 0, 0))
	g.Connect("B", "C", identityAt(at, 0, 1, 0))

	a, _ := g.Lookup("A")
	c, _ := g.Lookup("C")

	p, err := Resolve(g, a, c)
	require.NoError(t, err)

	result, err := Compose(g, p, at)
	require.NoError(t, err)

	assert.InDelta(t, 1, result.Rot.Real, 1e-9)
	assert.InDelta(t, 1, result.Trans.X, 1e-9)
	assert.InDelta(t, 1, result.Trans.Y, 1e-9)
	assert.InDelta(t, 0, result.Trans.Z, 1e-9)
}

// TestNoPathDisconnected checks that Resolve fails when the two frames
// belong to disjoint components of the graph.
func TestNoPathDisconnected(t *testing.T) {
	g := graph.New(time.Hour, nil)
	at := time.Unix(1, 0)
	g.Connect("A", "B", identityAt(at, 0, 0, 0))
	g.Connect("C", "D", identityAt(at, 0, 0, 0))

	a, _ := g.Lookup("A")
	d, _ := g.Lookup("D")

	_, err := Resolve(g, a, d)
	assert.ErrorIs(t, err, ErrNoPath)
}

// TestPathIsStableAcrossRepeatedQueries checks that repeated identical
// queries over an unchanged graph resolve to the same path.
func TestPathIsStableAcrossRepeatedQueries(t *testing.T) {
	g := graph.New(time.Hour, nil)
	at := time.Unix(1, 0)
	g.Connect("A", "B", identityAt(at, 0, 0, 0))
	g.Connect("B", "C", identityAt(at, 0, 0, 0))
	g.Connect("A", "C", identityAt(at, 0, 0, 0))

	a, _ := g.Lookup("A")
	c, _ := g.Lookup("C")

	first, err := Resolve(g, a, c)
	require.NoError(t, err)
	second, err := Resolve(g, a, c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestBestTimePrefersDenseMutualRegion checks that BestTime favors the
// timestamp where both edges on the path have the least stale data,
// even when it is far from the most recently written sample.
func TestBestTimePrefersDenseMutualRegion(t *testing.T) {
	g := graph.New(time.Hour, nil)
	ms := time.Millisecond
	g.Connect("A", "B", identityAt(time.Unix(0, 0), 0, 0, 0))
	g.Connect("A", "B", identityAt(time.Unix(0, 0).Add(10*ms), 0, 0, 0))
	g.Connect("A", "B", identityAt(time.Unix(0, 0).Add(20*ms), 0, 0, 0))
	g.Connect("B", "C", identityAt(time.Unix(0, 0).Add(12*ms), 0, 0, 0))

	a, _ := g.Lookup("A")
	c, _ := g.Lookup("C")

	p, err := Resolve(g, a, c)
	require.NoError(t, err)

	best, err := BestTime(g, p)
	require.NoError(t, err)

	want := time.Unix(0, 0).Add(12 * ms)
	assert.LessOrEqual(t, absDur(best.Sub(want)), 5*ms)
}

func absDur(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
