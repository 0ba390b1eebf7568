package core

import (
	"errors"
)

var (
	// ErrIntegrity marks data that the exporter should never have produced,
	// such as an unknown collider shape or body kind.
	ErrIntegrity = errors.New("scene data integrity violation")
	ErrNotFound  = errors.New("asset not found")
	ErrNoLoader  = errors.New("no loader registered")
	ErrClosed    = errors.New("already shut down")
	ErrUnknown   = errors.New("unknown")
)
