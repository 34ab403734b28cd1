package transmem

import (
	"errors"

	"github.com/mbonani/transmem/internal/graph"
)

// Error kinds returned by the public API.
var (
	// ErrInvalidQuery is returned when a query names the same frame as
	// both source and destination.
	ErrInvalidQuery = errors.New("transmem: src and dst must name different frames")

	// ErrNoSuchLink is returned when no path connects the requested
	// frames, whether because one is unknown or because the graph is
	// disconnected between them.
	ErrNoSuchLink = errors.New("transmem: no link between frames")

	// ErrStaleSample is returned by Connect when the sample's timestamp
	// predates the edge's storage horizon. The write is dropped but the
	// condition is non-fatal: the caller may continue writing.
	ErrStaleSample = errors.New("transmem: sample is older than the storage horizon")

	// ErrSelfLoop is returned by Connect when src and dst are equal.
	ErrSelfLoop = graph.ErrSelfLoop
)
