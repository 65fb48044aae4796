package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrGridNotFound       = errors.New("grid not found")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Grid    string // Primary grid name involved
	Grid2   string // Secondary grid name (for overlap errors)
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Grid2 != "" {
		return fmt.Sprintf("%s: grids %q and %q: %s", e.Type, e.Grid, e.Grid2, e.Details)
	}
	if e.Grid != "" {
		return fmt.Sprintf("%s: grid %q: %s", e.Type, e.Grid, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
