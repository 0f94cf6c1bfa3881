package netbeans

import "errors"

// Sentinel errors for buffer and annotation operations.
var (
	// ErrInvalidLine is returned when a line number is zero or negative.
	ErrInvalidLine = errors.New("line number must be strictly positive")

	// ErrNotAbsolutePath is returned when a pathname is neither an
	// absolute path nor a valid clewn buffer name.
	ErrNotAbsolutePath = errors.New("pathname is not an absolute path")

	// ErrAnnotationNotFound is returned when operating on an annotation
	// id that is not registered in the buffer set.
	ErrAnnotationNotFound = errors.New("annotation id does not exist")

	// ErrReservedAnnoID is returned when a breakpoint is added under the
	// annotation id reserved for the frame.
	ErrReservedAnnoID = errors.New("annotation id is reserved for the frame")
)
