package gfx

import "github.com/go-errors/errors"

// Errors
var (
	ErrNoFreeContext   = errors.New("gfx: no free device context")
	ErrInvalidHandle   = errors.New("gfx: invalid device context handle")
	ErrOutOfBounds     = errors.New("gfx: coordinates out of surface bounds")
	ErrInvalidRect     = errors.New("gfx: invalid rectangle")
	ErrInvalidArgument = errors.New("gfx: invalid argument")
)
