package generation

import "errors"

var (
	// ErrInvalidType indicates an unknown generation type.
	ErrInvalidType = errors.New("invalid generation type")
	// ErrInvalidInput indicates invalid generation input.
	ErrInvalidInput = errors.New("invalid generation input")
	// ErrProjectNotFound indicates the referenced project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
)
