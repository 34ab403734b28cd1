// Package graph implements the frame graph: frames and edges live in
// append-only arenas addressed by integer handles, so neither structure
// needs back-pointers or ever invalidates a previously issued handle.
package graph
