package transmem

import (
	"sync"
	"time"

	"github.com/mbonani/transmem/internal/edge"
	"github.com/mbonani/transmem/internal/graph"
	"github.com/mbonani/transmem/internal/path"
	"github.com/mbonani/transmem/internal/rigid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Re-exported types. The internal packages hold the real implementation
// (arena+handle graph, time-sorted edge buffers, quaternion math); this
// package is the stable public contract over them, keeping the real
// logic in internal/ and exposing a thin aliasing layer as the contract
// the rest of the world depends on.
type (
	// FrameID is an opaque, externally supplied coordinate frame name.
	FrameID = graph.FrameID

	// Transform is a rigid motion: a unit rotation plus a translation.
	Transform = rigid.Transform

	// Quaternion is a unit rotation, scalar-first: Real is the scalar
	// part, Imag/Jmag/Kmag the vector part.
	Quaternion = quat.Number

	// Vec3 is a translation or pure-vector quantity.
	Vec3 = r3.Vec
)

// Identity returns the identity transform.
func Identity() Transform { return rigid.Identity() }

// Compose returns the transform equivalent to applying b then a: for a
// point p, Compose(a, b) maps p to a(b(p)).
func Compose(a, b Transform) Transform { return rigid.Compose(a, b) }

// WeightFunc computes an edge's shortest-path weight. It must be
// monotone and non-negative. It is called once per edge, when the edge
// is created, with histLen 0 and staleness 0; the weight is not
// recomputed as the edge's history grows or ages. The default used by
// New ignores both arguments and returns 1.
type WeightFunc func(histLen int, staleness time.Duration) float64

// Memory is the transformation memory façade: it synchronizes
// concurrent writers and readers and orchestrates the frame graph, path
// resolver, best-time search and edge buffers for every call.
//
// A single mutex guards the graph, every edge's history, and the
// injected Diagnostic/Metrics sinks. Go's sync.Mutex is not re-entrant,
// so public operations that need to call each other do so without
// re-acquiring the lock: only the exported methods below acquire mu;
// they delegate to unexported *Locked helpers that assume the lock is
// already held, and it is those helpers — not the exported methods —
// that call into each other (see BestTransform calling path.Compose
// directly, and ChainedTransform calling transformAtLocked twice).
type Memory struct {
	mu sync.Mutex

	g           *graph.Graph
	diag        Diagnostic
	metrics     *Metrics
	weightFunc  WeightFunc
	dumpOnWrite bool
	onWrite     func(Snapshot)
}

// Option configures a Memory at construction time.
type Option func(*Memory)

// WithDiagnostics injects the sink for non-fatal write-time warnings.
// The default is a log/slog-backed sink (NewSlogDiagnostics(nil)).
func WithDiagnostics(d Diagnostic) Option {
	return func(m *Memory) { m.diag = d }
}

// WithMetrics injects Prometheus instrumentation built by InitMetrics.
// Metrics are disabled (nil) by default.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Memory) { m.metrics = metrics }
}

// WithWeightFunc overrides the default constant edge weight of 1 with a
// caller-supplied, monotone, non-negative WeightFunc, evaluated once at
// edge creation (see WeightFunc).
func WithWeightFunc(f WeightFunc) Option {
	return func(m *Memory) { m.weightFunc = f }
}

// WithDumpOnWrite makes every accepted Connect call fire fn with a
// Snapshot of the memory taken at that moment. Off by default, since
// it's a debug aid rather than something every caller wants paying for
// on every write.
//
// fn receives a Snapshot, not the Memory itself, specifically so it
// cannot call back into Memory: Connect already holds m.mu when fn
// runs, and sync.Mutex is not re-entrant, so a callback that tried to
// call any Memory method here would deadlock permanently.
func WithDumpOnWrite(fn func(Snapshot)) Option {
	return func(m *Memory) { m.dumpOnWrite = true; m.onWrite = fn }
}

// New creates a Memory whose edges retain samples no older than
// (newest - horizon).
func New(horizon time.Duration, opts ...Option) *Memory {
	m := &Memory{diag: NewSlogDiagnostics(nil)}
	for _, opt := range opts {
		opt(m)
	}
	m.g = graph.New(horizon, func(histLen int, staleness time.Duration) float64 {
		if m.weightFunc == nil {
			return 1
		}
		return m.weightFunc(histLen, staleness)
	})
	return m
}

// Connect registers a time-stamped transform from src to dst. The
// rotation is renormalized on ingress if its norm drifts outside
// [0.995, 1.005] and a warning is reported through Diagnostic; the
// write still succeeds. Returns ErrSelfLoop if src == dst, or
// ErrStaleSample (non-fatal — the caller may continue writing) if t
// predates the edge's storage horizon.
func (m *Memory) Connect(src, dst FrameID, t time.Time, rot Quaternion, tr Vec3) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(src, dst, t, rot, tr)
}

// ConnectMatrix is the matrix-ingress convenience overload supplemented
// from the original C++ transmem (see matrix.go).
func (m *Memory) ConnectMatrix(src, dst FrameID, t time.Time, mat Matrix4x4) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rot := quaternionFromRotationMatrix(mat)
	return m.connectLocked(src, dst, t, rot, translationFromMatrix(mat))
}

func (m *Memory) connectLocked(src, dst FrameID, t time.Time, rot Quaternion, tr Vec3) error {
	normalized, outOfBand := rigid.Normalize(rot)
	if outOfBand {
		m.diag.Warn("non_normal_rotation", map[string]any{"src": src, "dst": dst, "at": t})
		if m.metrics != nil {
			m.metrics.Warnings.WithLabelValues("non_normal_rotation").Inc()
		}
	}

	stamped := edge.Stamped{At: t, Xfrm: rigid.Transform{Rot: normalized, Trans: tr}}
	accepted, err := m.g.Connect(src, dst, stamped)
	if err != nil {
		if m.metrics != nil {
			m.metrics.WritesRejected.WithLabelValues("self_loop").Inc()
		}
		return err
	}
	if !accepted {
		m.diag.Warn("stale_sample", map[string]any{"src": src, "dst": dst, "at": t})
		if m.metrics != nil {
			m.metrics.WritesRejected.WithLabelValues("stale").Inc()
		}
		return ErrStaleSample
	}

	if m.metrics != nil {
		m.metrics.WritesAccepted.Inc()
	}
	if m.dumpOnWrite && m.onWrite != nil {
		m.onWrite(m.snapshotLocked())
	}
	return nil
}

// TransformAt resolves the shortest path between src and dst and
// composes the per-edge transforms along it at time t. Returns
// ErrInvalidQuery if src == dst, or ErrNoSuchLink if no path connects
// them.
func (m *Memory) TransformAt(src, dst FrameID, t time.Time) (Transform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transformAtLocked(src, dst, t)
}

func (m *Memory) transformAtLocked(src, dst FrameID, t time.Time) (Transform, error) {
	if m.metrics != nil {
		m.metrics.Queries.WithLabelValues("transform_at").Inc()
	}

	if src == dst {
		m.queryErr("invalid_query")
		return Transform{}, ErrInvalidQuery
	}

	p, err := m.resolvePath(src, dst)
	if err != nil {
		return Transform{}, err
	}

	result, err := path.Compose(m.g, p, t)
	if err != nil {
		m.queryErr("no_such_link")
		return Transform{}, ErrNoSuchLink
	}
	return result, nil
}

// BestTransform replaces *t with the timestamp that minimizes aggregate
// staleness across the path between src and dst, then composes the
// transform at that chosen time.
func (m *Memory) BestTransform(src, dst FrameID, t *time.Time) (Transform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.Queries.WithLabelValues("best_transform").Inc()
	}

	if src == dst {
		m.queryErr("invalid_query")
		return Transform{}, ErrInvalidQuery
	}

	p, err := m.resolvePath(src, dst)
	if err != nil {
		return Transform{}, err
	}

	requested := *t
	best, err := path.BestTime(m.g, p)
	if err != nil {
		m.queryErr("no_such_link")
		return Transform{}, ErrNoSuchLink
	}

	result, err := path.Compose(m.g, p, best)
	if err != nil {
		m.queryErr("no_such_link")
		return Transform{}, ErrNoSuchLink
	}

	*t = best
	if m.metrics != nil {
		shift := best.Sub(requested)
		if shift < 0 {
			shift = -shift
		}
		m.metrics.BestTimeShiftMs.Observe(float64(shift.Milliseconds()))
	}
	return result, nil
}

// ChainedTransform composes two independently-timed legs through a
// shared fix frame: transformAt(fix, dst, t2) ∘ transformAt(src, fix, t1).
func (m *Memory) ChainedTransform(src, fix, dst FrameID, t1, t2 time.Time) (Transform, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.Queries.WithLabelValues("chained_transform").Inc()
	}

	srcToFix, err := m.transformAtLocked(src, fix, t1)
	if err != nil {
		return Transform{}, err
	}
	fixToDst, err := m.transformAtLocked(fix, dst, t2)
	if err != nil {
		return Transform{}, err
	}

	return rigid.Compose(fixToDst, srcToFix), nil
}

func (m *Memory) resolvePath(src, dst FrameID) (path.Path, error) {
	srcH, ok := m.g.Lookup(src)
	if !ok {
		m.queryErr("no_such_link")
		return path.Path{}, ErrNoSuchLink
	}
	dstH, ok := m.g.Lookup(dst)
	if !ok {
		m.queryErr("no_such_link")
		return path.Path{}, ErrNoSuchLink
	}

	p, err := path.Resolve(m.g, srcH, dstH)
	if err != nil {
		m.queryErr("no_such_link")
		return path.Path{}, ErrNoSuchLink
	}
	return p, nil
}

func (m *Memory) queryErr(reason string) {
	if m.metrics != nil {
		m.metrics.QueryErrors.WithLabelValues(reason).Inc()
	}
}
