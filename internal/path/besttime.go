package path

import (
	"time"

	"github.com/mbonani/transmem/internal/graph"
)

// stepSize is the fixed decrement used while scanning for the best
// common timestamp. It is a documented constant rather than a tunable:
// the step size is part of the scoring behavior, so changing it changes
// which timestamp wins on close calls.
const stepSize = 5 * time.Millisecond

// BestTime scans in stepSize decrements from the newest sample on any of
// p's edges down to the oldest sample on any of them, and picks the
// scanned timestamp that minimizes the sum of squared per-edge distances
// to their nearest sample (the latest such timestamp on ties). It is a pure function of the path and the edge
// histories at call time: no state is retained between calls.
func BestTime(g *graph.Graph, p Path) (time.Time, error) {
	if len(p.Edges) == 0 {
		return time.Time{}, ErrEmptyHistory
	}

	var tMax, tMin time.Time
	for i, eh := range p.Edges {
		buf := g.Buffer(eh)
		newest, ok := buf.Newest(false)
		if !ok {
			return time.Time{}, ErrEmptyHistory
		}
		oldest, _ := buf.Oldest(false)

		if i == 0 || newest.At.After(tMax) {
			tMax = newest.At
		}
		if i == 0 || oldest.At.Before(tMin) {
			tMin = oldest.At
		}
	}

	tBest := tMax
	// int64 milliseconds-squared: wide enough that summing squared
	// distances across a long-horizon path won't overflow.
	var bestCost int64 = -1

	for t := tMax; !t.Before(tMin); t = t.Add(-stepSize) {
		cost, err := costAt(g, p, t)
		if err != nil {
			return time.Time{}, err
		}
		if bestCost == -1 || cost < bestCost {
			bestCost = cost
			tBest = t
		}
	}

	return tBest, nil
}

func costAt(g *graph.Graph, p Path, t time.Time) (int64, error) {
	var total int64
	for _, eh := range p.Edges {
		d, ok := g.Buffer(eh).DistanceToNearest(t)
		if !ok {
			return 0, ErrEmptyHistory
		}
		ms := d.Milliseconds()
		total += ms * ms
	}
	return total, nil
}
