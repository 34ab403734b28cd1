// Package transmem implements a transformation memory: an in-process,
// thread-safe structure that records time-stamped rigid transformations
// between named coordinate frames and answers "what is the transform
// from frame A to frame B at time t" queries.
//
// # Overview
//
// Writers push time-stamped transforms between named frames; readers ask
// for the composed transform between any two connected frames at an
// arbitrary time. Frames and the edges between them are created lazily
// on first write, along a single undirected graph — every pair of
// frames has at most one edge, and a shortest-path search composes
// transforms across however many edges separate two frames.
//
// # Basic Usage
//
//	mem := transmem.New(2 * time.Second)
//
//	mem.Connect("odom", "base_link", time.Now(),
//	    transmem.Quaternion{Real: 1}, transmem.Vec3{X: 1})
//	mem.Connect("base_link", "camera", time.Now(),
//	    transmem.Quaternion{Real: 1}, transmem.Vec3{Z: 0.2})
//
//	xf, err := mem.TransformAt("odom", "camera", time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use: a single mutex guards the
// graph, every edge's history, and the injected diagnostics/metrics
// sinks for the duration of each call.
//
// # Non-Goals
//
// No durable storage, no cross-process transport, no non-rigid
// transforms, no symbolic frame reasoning, no unit checking.
package transmem
