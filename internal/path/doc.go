// Package path resolves a shortest path between two frames and composes
// the transforms along it at a chosen time (C4), and separately searches
// a path for the timestamp that minimizes aggregate staleness across all
// of its edges (C5, in besttime.go).
//
// Rather than seeding the priority queue with every frame at infinite
// distance, only the starting node (dst, since the search runs backwards
// from the destination) is pushed, and neighbors are inserted lazily as
// they are relaxed. Reconstruction is a separate pass over the
// predecessor map after the settled-set loop finishes, so no container
// is read and written in the same step.
package path
