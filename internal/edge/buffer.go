package edge

import (
	"sort"
	"time"

	"github.com/mbonani/transmem/internal/rigid"
)

// Stamped pairs a timestamp with the transform sampled at that time.
type Stamped struct {
	At   time.Time
	Xfrm rigid.Transform
}

// Buffer is the bounded, time-sorted history of transforms on one edge,
// stored in the parent→child orientation. Buffer is not safe for
// concurrent use on its own; the Memory façade that owns it serializes
// all access under a single lock.
type Buffer struct {
	horizon time.Duration
	weight  float64
	history []Stamped // ascending by At, deduplicated
}

// New creates an empty buffer bounded by horizon, with the given
// shortest-path weight (caller-opaque, non-negative; 1 is the default
// a caller should pass absent a reason to weight edges differently).
func New(horizon time.Duration, weight float64) *Buffer {
	return &Buffer{horizon: horizon, weight: weight}
}

// Weight returns the edge's shortest-path weight.
func (b *Buffer) Weight() float64 { return b.weight }

// Len reports the number of samples currently retained.
func (b *Buffer) Len() int { return len(b.history) }

// Insert records a sample whose source endpoint is the parent (isChild
// false) or the child (isChild true) of this edge. When isChild is true,
// the transform is inverted before storage so history always reads
// parent→child. Insert reports false (StaleSample) without mutating the
// buffer when the sample is older than the current horizon window.
func (b *Buffer) Insert(isChild bool, s Stamped) bool {
	xfrm := s.Xfrm
	if isChild {
		xfrm = rigid.Inverse(xfrm)
	}
	s = Stamped{At: s.At, Xfrm: xfrm}

	if len(b.history) > 0 {
		newest := b.history[len(b.history)-1].At
		cutoff := newest.Add(-b.horizon)
		if s.At.Before(cutoff) {
			return false
		}
	}

	b.insertSorted(s)
	b.evictOlderThanHorizon()
	return true
}

// insertSorted inserts s in ascending-time order, replacing an existing
// entry with the same timestamp so the later write always wins.
func (b *Buffer) insertSorted(s Stamped) {
	i := sort.Search(len(b.history), func(i int) bool {
		return !b.history[i].At.Before(s.At)
	})
	if i < len(b.history) && b.history[i].At.Equal(s.At) {
		b.history[i] = s
		return
	}
	b.history = append(b.history, Stamped{})
	copy(b.history[i+1:], b.history[i:])
	b.history[i] = s
}

// evictOlderThanHorizon drops every sample older than (newest − horizon).
func (b *Buffer) evictOlderThanHorizon() {
	if len(b.history) == 0 {
		return
	}
	cutoff := b.history[len(b.history)-1].At.Add(-b.horizon)
	i := 0
	for i < len(b.history) && b.history[i].At.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.history = b.history[i:]
	}
}

// Empty reports whether the buffer has never accepted a sample.
func (b *Buffer) Empty() bool { return len(b.history) == 0 }

// Oldest returns the oldest retained sample, oriented as seen from the
// requested source endpoint.
func (b *Buffer) Oldest(isChild bool) (Stamped, bool) {
	if len(b.history) == 0 {
		return Stamped{}, false
	}
	return b.oriented(b.history[0], isChild), true
}

// Newest returns the newest retained sample, oriented as seen from the
// requested source endpoint.
func (b *Buffer) Newest(isChild bool) (Stamped, bool) {
	if len(b.history) == 0 {
		return Stamped{}, false
	}
	return b.oriented(b.history[len(b.history)-1], isChild), true
}

func (b *Buffer) oriented(s Stamped, isChild bool) Stamped {
	if isChild {
		return Stamped{At: s.At, Xfrm: rigid.Inverse(s.Xfrm)}
	}
	return s
}

// TransformAt returns the transform as seen from the given source
// endpoint at time t: clamped to the oldest/newest sample at the
// boundaries, slerped between the bracketing pair otherwise.
func (b *Buffer) TransformAt(isChild bool, t time.Time) (Stamped, bool) {
	if len(b.history) == 0 {
		return Stamped{}, false
	}

	oldest := b.history[0]
	newest := b.history[len(b.history)-1]

	switch {
	case !t.After(oldest.At):
		return b.oriented(oldest, isChild), true
	case !t.Before(newest.At):
		return b.oriented(newest, isChild), true
	}

	// Locate the bracketing pair s0.At <= t < s1.At.
	i := sort.Search(len(b.history), func(i int) bool {
		return b.history[i].At.After(t)
	})
	s0, s1 := b.history[i-1], b.history[i]

	u := float64(t.Sub(s0.At)) / float64(s1.At.Sub(s0.At))
	interpolated := Stamped{At: t, Xfrm: rigid.Slerp(s0.Xfrm, s1.Xfrm, u)}
	return b.oriented(interpolated, isChild), true
}

// DistanceToNearest returns the unsigned duration between t and the
// sample in history whose timestamp is closest to it.
func (b *Buffer) DistanceToNearest(t time.Time) (time.Duration, bool) {
	if len(b.history) == 0 {
		return 0, false
	}
	i := sort.Search(len(b.history), func(i int) bool {
		return !b.history[i].At.Before(t)
	})

	best := time.Duration(1<<63 - 1)
	if i < len(b.history) {
		if d := absDuration(b.history[i].At.Sub(t)); d < best {
			best = d
		}
	}
	if i > 0 {
		if d := absDuration(b.history[i-1].At.Sub(t)); d < best {
			best = d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
