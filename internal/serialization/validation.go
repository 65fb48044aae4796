package serialization

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize  = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxGridCount   = 1024
	MaxGridNameLen = 256
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names and shapes but not offsets.
	ValidationNormal
	// ValidationNone skips validation (trusted input only).
	ValidationNone
)

// ValidateGridOffsets checks for overlapping grids and out-of-bounds access.
func ValidateGridOffsets(grids []GridMeta, dataSize int64) error {
	sorted := slices.Clone(grids)
	slices.SortFunc(sorted, func(a, b GridMeta) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	for i, g := range sorted {
		if g.Offset < 0 || g.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Grid:    g.Name,
				Details: fmt.Sprintf("offset=%d, size=%d (negative values not allowed)", g.Offset, g.Size),
			}
		}

		if g.Offset > dataSize-g.Size {
			return &ValidationError{
				Type:    "out_of_bounds",
				Grid:    g.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", g.Offset, g.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if g.Offset+g.Size > next.Offset {
				return &ValidationError{
					Type:  "offset_overlap",
					Grid:  g.Name,
					Grid2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						g.Offset, g.Offset+g.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateGridName rejects empty, overlong and path-like names.
func ValidateGridName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Details: "empty grid name"}
	case len(name) > MaxGridNameLen:
		return &ValidationError{
			Type:    "name_too_long",
			Grid:    name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxGridNameLen),
		}
	case strings.Contains(name, ".."), strings.ContainsAny(name, "/\\"):
		return &ValidationError{Type: "invalid_name", Grid: name, Details: "contains a path element"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Type: "invalid_name", Grid: name, Details: "contains null byte"}
	}
	return nil
}

// validateShape checks that meta describes a non-empty float64 matrix whose
// byte size matches its shape.
func validateShape(meta GridMeta) error {
	if meta.DType != DTypeFloat64 {
		return &ValidationError{Type: "unsupported_dtype", Grid: meta.Name, Details: meta.DType}
	}
	if len(meta.Shape) != 2 || meta.Shape[0] <= 0 || meta.Shape[1] <= 0 ||
		int64(meta.Shape[1]) > math.MaxInt64/8/int64(meta.Shape[0]) {
		return &ValidationError{Type: "invalid_shape", Grid: meta.Name, Details: fmt.Sprint(meta.Shape)}
	}
	if want := int64(meta.Shape[0]) * int64(meta.Shape[1]) * 8; meta.Size != want {
		return &ValidationError{
			Type:    "size_mismatch",
			Grid:    meta.Name,
			Details: fmt.Sprintf("size %d, shape %v needs %d", meta.Size, meta.Shape, want),
		}
	}
	return nil
}

// ValidateHeader performs header validation at the given level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if len(h.Grids) > MaxGridCount {
		return &ValidationError{
			Type:    "too_many_grids",
			Details: fmt.Sprintf("got %d, max %d", len(h.Grids), MaxGridCount),
		}
	}

	seen := make(map[string]bool, len(h.Grids))
	for _, g := range h.Grids {
		if err := ValidateGridName(g.Name); err != nil {
			return err
		}
		if seen[g.Name] {
			return &ValidationError{Type: "duplicate_name", Grid: g.Name, Details: "name used twice"}
		}
		seen[g.Name] = true
		if err := validateShape(g); err != nil {
			return err
		}
	}

	if level == ValidationStrict {
		return ValidateGridOffsets(h.Grids, dataSize)
	}
	return nil
}
