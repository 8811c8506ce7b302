package tileview

import (
	"errors"
	"fmt"
)

// Errors returned by the viewer. Compare with errors.Is; most are wrapped
// with context about the failing call.
var (
	// ErrConfiguration reports a missing or invalid setup collaborator.
	ErrConfiguration = errors.New("tileview: invalid configuration")
	// ErrResourceCompile reports a shader that failed to compile.
	ErrResourceCompile = errors.New("tileview: shader compile failed")
	// ErrMatrixNotInvertible reports a zero-determinant matrix.
	ErrMatrixNotInvertible = errors.New("tileview: matrix is not invertible")
	// ErrAlreadyInitialized reports a second Initialize call.
	ErrAlreadyInitialized = errors.New("tileview: viewer is already initialized")
	// ErrUnknownResourceBinding reports a uniform the shader does not declare.
	ErrUnknownResourceBinding = errors.New("tileview: unknown resource binding")
	// ErrInvalidScale reports a zoom or pinch scale that is not a positive
	// finite number.
	ErrInvalidScale = errors.New("tileview: invalid scale")
	// ErrNotReady reports a call that needs a Ready viewer.
	ErrNotReady = errors.New("tileview: viewer is not ready")
)

// AssetLoadError reports a failed fetch or decode of a shader or image.
type AssetLoadError struct {
	URL string
	Err error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("tileview: load %s: %v", e.URL, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
