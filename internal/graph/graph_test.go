package graph

import (
	"testing"
	"time"

	"github.com/mbonani/transmem/internal/edge"
	"github.com/mbonani/transmem/internal/rigid"
)

func sample(at time.Time) edge.Stamped {
	return edge.Stamped{At: at, Xfrm: rigid.Identity()}
}

func TestConnectRejectsSelfLoop(t *testing.T) {
	g := New(time.Minute, nil)
	_, err := g.Connect("A", "A", sample(time.Unix(0, 0)))
	if err != ErrSelfLoop {
		t.Fatalf("expected ErrSelfLoop, got %v", err)
	}
}

func TestAtMostOneEdgePerPair(t *testing.T) {
	g := New(time.Minute, nil)
	g.Connect("A", "B", sample(time.Unix(0, 0)))
	g.Connect("B", "A", sample(time.Unix(1, 0))) // reversed call order, same pair

	a, _ := g.Lookup("A")
	b, _ := g.Lookup("B")

	eh1, ok1 := g.EdgeBetween(a, b)
	eh2, ok2 := g.EdgeBetween(b, a)
	if !ok1 || !ok2 || eh1 != eh2 {
		t.Fatalf("expected a single edge regardless of call order, got %v/%v %v/%v", eh1, ok1, eh2, ok2)
	}
	if got := g.Buffer(eh1).Len(); got != 2 {
		t.Fatalf("expected both inserts to land on the same buffer, got len %d", got)
	}
}

func TestEnsureFrameIdempotent(t *testing.T) {
	g := New(time.Minute, nil)
	h1 := g.EnsureFrame("A")
	h2 := g.EnsureFrame("A")
	if h1 != h2 {
		t.Fatalf("EnsureFrame should be idempotent, got %v and %v", h1, h2)
	}
	if g.NumFrames() != 1 {
		t.Fatalf("expected 1 frame, got %d", g.NumFrames())
	}
}

func TestNeighborsAndOther(t *testing.T) {
	g := New(time.Minute, nil)
	g.Connect("A", "B", sample(time.Unix(0, 0)))

	a, _ := g.Lookup("A")
	b, _ := g.Lookup("B")

	neighbors := g.Neighbors(a)
	if len(neighbors) != 1 {
		t.Fatalf("expected 1 neighbor edge, got %d", len(neighbors))
	}
	if other := g.Other(neighbors[0], a); other != b {
		t.Fatalf("expected other endpoint to be B, got handle %v", other)
	}
}
