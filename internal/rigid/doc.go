// Package rigid implements the in-memory representation of a single rigid
// transformation: a unit rotation quaternion plus a translation vector.
//
// This package is the "matrix/quaternion math library" boundary described
// by the parent module: it is the one place that imports the concrete
// math backend (gonum's quat and spatial/r3 packages), so the rest of the
// module only ever talks about rigid.Transform.
//
// Composition convention: Compose(a, b) applied to a point p yields
// a(b(p)) — standard right-to-left composition for the column-vector
// convention. Every other package composes transforms through this
// function so the convention only needs to be fixed once.
package rigid
