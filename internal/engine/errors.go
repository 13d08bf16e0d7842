package engine

import "errors"

var (
	// ErrNoSurface indicates the engine was built without a usable render
	// surface (no projector or an empty viewport).
	ErrNoSurface = errors.New("engine: render surface missing")

	// ErrNoPoints indicates a field configuration that yields no points.
	ErrNoPoints = errors.New("engine: field has no points")
)
