package rom

import (
	"errors"
	"fmt"
)

// Load-time errors.
var (
	ErrInvalidSize = errors.New("ROM invalid size")
)

// Decode-time errors. Each one describes a structural property of the image.
var (
	ErrUtilityModuleNotFound = errors.New("could not find UtilityModule in ROM (is file corrupted?)")
	ErrModuleChainBroken     = errors.New("module chain appears to be broken")
	ErrUnterminatedCString   = errors.New("C-string terminator could not be located")
	ErrNoHelpString          = errors.New("module has no help string")
)

// IOError reports a failure reading the image file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("I/O error: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
