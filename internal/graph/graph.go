package graph

import (
	"errors"
	"time"

	"github.com/mbonani/transmem/internal/edge"
)

// ErrSelfLoop is returned by Connect when src and dst name the same frame.
var ErrSelfLoop = errors.New("transmem: self-loop connections are not permitted")

// FrameID is an opaque, externally supplied frame identifier.
type FrameID string

// FrameHandle addresses a frame in the arena; it is never invalidated.
type FrameHandle int

// EdgeHandle addresses an edge in the arena; it is never invalidated.
type EdgeHandle int

type frameNode struct {
	id    FrameID
	edges []EdgeHandle
}

// edgeRecord is an undirected link; Parent/Child record the orientation
// fixed at creation time (whichever endpoint was named src on the first
// Connect call for this pair), and Buf stores history in that orientation.
type edgeRecord struct {
	Parent, Child FrameHandle
	Buf           *edge.Buffer
}

type pairKey struct{ a, b FrameHandle }

func unordered(a, b FrameHandle) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Graph is the undirected frame graph: frames connected by at most one
// edge per unordered pair. It is not safe for concurrent use on its
// own; the Memory façade that owns it serializes all access.
type Graph struct {
	horizon    time.Duration
	weightFunc func(histLen int, staleness time.Duration) float64

	frames    []frameNode
	frameIdx  map[FrameID]FrameHandle
	edges     []edgeRecord
	pairIndex map[pairKey]EdgeHandle
}

// New creates an empty graph with the given storage horizon and edge
// weight function. A nil weightFunc defaults to a constant weight of 1
// for every edge.
func New(horizon time.Duration, weightFunc func(histLen int, staleness time.Duration) float64) *Graph {
	if weightFunc == nil {
		weightFunc = func(int, time.Duration) float64 { return 1 }
	}
	return &Graph{
		horizon:    horizon,
		weightFunc: weightFunc,
		frameIdx:   make(map[FrameID]FrameHandle),
		pairIndex:  make(map[pairKey]EdgeHandle),
	}
}

// EnsureFrame returns the frame's handle, creating it if it does not yet
// exist. Idempotent.
func (g *Graph) EnsureFrame(id FrameID) FrameHandle {
	if h, ok := g.frameIdx[id]; ok {
		return h
	}
	h := FrameHandle(len(g.frames))
	g.frames = append(g.frames, frameNode{id: id})
	g.frameIdx[id] = h
	return h
}

// FrameID returns the identifier stored at h.
func (g *Graph) FrameID(h FrameHandle) FrameID { return g.frames[h].id }

// Lookup returns the handle for an already-known frame.
func (g *Graph) Lookup(id FrameID) (FrameHandle, bool) {
	h, ok := g.frameIdx[id]
	return h, ok
}

// Connect ensures both frames and the edge between them exist (creating
// the edge with src as parent on first call for this pair), then
// delegates the sample to the edge's buffer. Returns ErrSelfLoop if
// src == dst; otherwise returns the edge buffer's Insert result (false
// means the sample was stale and rejected, not an error).
func (g *Graph) Connect(src, dst FrameID, s edge.Stamped) (accepted bool, err error) {
	if src == dst {
		return false, ErrSelfLoop
	}

	srcH := g.EnsureFrame(src)
	dstH := g.EnsureFrame(dst)

	eh, isChild := g.ensureEdge(srcH, dstH)
	accepted = g.edges[eh].Buf.Insert(isChild, s)
	return accepted, nil
}

// ensureEdge returns the handle of the edge between a and b, creating it
// (with a as parent) if absent, and reports whether a is the child
// endpoint of the (possibly pre-existing) edge.
func (g *Graph) ensureEdge(a, b FrameHandle) (EdgeHandle, bool) {
	key := unordered(a, b)
	if eh, ok := g.pairIndex[key]; ok {
		rec := g.edges[eh]
		return eh, rec.Child == a
	}

	eh := EdgeHandle(len(g.edges))
	g.edges = append(g.edges, edgeRecord{
		Parent: a,
		Child:  b,
		Buf:    edge.New(g.horizon, g.weightFunc(0, 0)),
	})
	g.pairIndex[key] = eh
	g.frames[a].edges = append(g.frames[a].edges, eh)
	g.frames[b].edges = append(g.frames[b].edges, eh)
	return eh, false
}

// EdgeBetween looks up the edge connecting two distinct frames.
func (g *Graph) EdgeBetween(a, b FrameHandle) (EdgeHandle, bool) {
	eh, ok := g.pairIndex[unordered(a, b)]
	return eh, ok
}

// Neighbors returns the edge handles incident to a frame.
func (g *Graph) Neighbors(h FrameHandle) []EdgeHandle {
	return g.frames[h].edges
}

// Other returns the endpoint of edge eh that is not from.
func (g *Graph) Other(eh EdgeHandle, from FrameHandle) FrameHandle {
	rec := g.edges[eh]
	if rec.Parent == from {
		return rec.Child
	}
	return rec.Parent
}

// IsChild reports whether h is the child endpoint of edge eh.
func (g *Graph) IsChild(eh EdgeHandle, h FrameHandle) bool {
	return g.edges[eh].Child == h
}

// Buffer returns the edge's underlying history buffer.
func (g *Graph) Buffer(eh EdgeHandle) *edge.Buffer {
	return g.edges[eh].Buf
}

// NumFrames reports the number of frames ever created.
func (g *Graph) NumFrames() int { return len(g.frames) }

// Frames returns every frame handle currently known, in creation order.
func (g *Graph) Frames() []FrameHandle {
	out := make([]FrameHandle, len(g.frames))
	for i := range g.frames {
		out[i] = FrameHandle(i)
	}
	return out
}

// Edges returns every edge handle currently known, in creation order.
func (g *Graph) Edges() []EdgeHandle {
	out := make([]EdgeHandle, len(g.edges))
	for i := range g.edges {
		out[i] = EdgeHandle(i)
	}
	return out
}

// Endpoints returns the parent and child frame handles of an edge.
func (g *Graph) Endpoints(eh EdgeHandle) (parent, child FrameHandle) {
	rec := g.edges[eh]
	return rec.Parent, rec.Child
}
