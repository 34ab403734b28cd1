package path

import (
	"container/heap"
	"errors"
	"time"

	"github.com/mbonani/transmem/internal/graph"
	"github.com/mbonani/transmem/internal/rigid"
)

// ErrNoPath is returned when no path connects the two frames, either
// because one of them is unknown or because the graph is disconnected.
var ErrNoPath = errors.New("transmem: no path between frames")

// ErrEmptyHistory is returned instead of ErrNoPath when a path exists
// topologically but one of its edges has never received a sample, so
// callers can tell the two failure modes apart.
var ErrEmptyHistory = errors.New("transmem: edge on path has no samples")

// Path is an ordered sequence of edges connecting Src to some frame
// reached by walking Edges in order, each step moving to the edge's
// other endpoint.
type Path struct {
	Src   graph.FrameHandle
	Edges []graph.EdgeHandle
}

type queueItem struct {
	frame graph.FrameHandle
	dist  float64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	// Stable tie-break: lower handle value wins, so repeated identical
	// queries over an unchanged graph always pick the same path.
	return pq[i].frame < pq[j].frame
}
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)        { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Resolve runs Dijkstra from dst over the undirected edge set and
// returns the path from src to dst. The caller is responsible for
// rejecting src == dst before calling Resolve.
func Resolve(g *graph.Graph, src, dst graph.FrameHandle) (Path, error) {
	dist := map[graph.FrameHandle]float64{dst: 0}
	prevEdge := map[graph.FrameHandle]graph.EdgeHandle{}
	prevNode := map[graph.FrameHandle]graph.FrameHandle{}
	settled := map[graph.FrameHandle]bool{}

	pq := &priorityQueue{{frame: dst, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if settled[cur.frame] {
			continue
		}
		settled[cur.frame] = true

		if cur.frame == src {
			break // terminate the moment src is settled
		}

		for _, eh := range g.Neighbors(cur.frame) {
			other := g.Other(eh, cur.frame)
			if settled[other] {
				continue
			}
			alt := cur.dist + g.Buffer(eh).Weight()
			if existing, ok := dist[other]; !ok || alt < existing {
				dist[other] = alt
				prevNode[other] = cur.frame
				prevEdge[other] = eh
				heap.Push(pq, queueItem{frame: other, dist: alt})
			}
		}
	}

	if _, ok := dist[src]; !ok {
		return Path{}, ErrNoPath
	}

	var edges []graph.EdgeHandle
	for cur := src; cur != dst; cur = prevNode[cur] {
		edges = append(edges, prevEdge[cur])
	}

	return Path{Src: src, Edges: edges}, nil
}

// Compose walks a resolved path from its Src, asking each edge for its
// transform at t and pre-composing it onto the running accumulator. The
// final accumulator maps coordinates in Src to coordinates in the
// path's final frame at time t.
func Compose(g *graph.Graph, p Path, t time.Time) (rigid.Transform, error) {
	accum := rigid.Identity()
	current := p.Src

	for _, eh := range p.Edges {
		buf := g.Buffer(eh)
		if buf.Empty() {
			return rigid.Transform{}, ErrEmptyHistory
		}

		isChild := g.IsChild(eh, current)
		stamped, ok := buf.TransformAt(isChild, t)
		if !ok {
			return rigid.Transform{}, ErrEmptyHistory
		}

		accum = rigid.Compose(stamped.Xfrm, accum)
		current = g.Other(eh, current)
	}

	return accum, nil
}
