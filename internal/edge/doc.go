// Package edge implements the bounded, time-ordered history of rigid
// transforms between the two endpoints of one link in the frame graph.
//
// Storage is always parent→child: the endpoint named as the source on
// the first connection of the pair is fixed as the parent, and every Insert is
// inverted on the way in if the caller names the child as the source.
// TransformAt mirrors that: the result is inverted on the way out if the
// caller asked for the transform as seen from the child. Symmetry
// between these two inversions is easy to get backwards, so both live
// in this one file next to each other.
package edge
