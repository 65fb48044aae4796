package serialization

import (
	"time"

	"github.com/fringelab/chambolle/internal/chambolle"
)

// Format constants.
const (
	MagicBytes      = "CGRD"
	FormatVersion   = 1
	HeaderAlignment = 64 // Grid data starts on a 64-byte boundary
	FixedHeaderSize = 64
	ChecksumSize    = 32
	ChecksumOffset  = 0x20
)

// DTypeFloat64 is the only element type written.
const DTypeFloat64 = "float64"

// Flags.
const (
	FlagHasSolve    uint32 = 1 << 0 // header carries SolveMeta
	FlagHasMetadata uint32 = 1 << 1 // header carries custom metadata
)

// Header is the JSON header of a .cgrid file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Grids         []GridMeta        `json:"grids"`
	Solve         *SolveMeta        `json:"solve,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SolveMeta records the solve that produced the stored grids.
type SolveMeta struct {
	Source     string  `json:"source"` // Input image
	Policy     string  `json:"policy"`
	Backend    string  `json:"backend"`
	Iterations int     `json:"iterations"`
	Steps      int     `json:"steps"`
	Error      float64 `json:"error"`
	Outcome    string  `json:"outcome"`
	ElapsedNS  int64   `json:"elapsed_ns"`
}

// NewSolveMeta describes res.
func NewSolveMeta(source, policy string, res chambolle.Result) *SolveMeta {
	return &SolveMeta{
		Source:     source,
		Policy:     policy,
		Backend:    res.Backend,
		Iterations: res.Iterations,
		Steps:      res.Steps,
		Error:      res.Error,
		Outcome:    res.Outcome.String(),
		ElapsedNS:  res.Elapsed.Nanoseconds(),
	}
}

// GridMeta locates one grid in the data section.
type GridMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`  // [rows, cols]
	Offset int64  `json:"offset"` // Bytes from the start of the data section
	Size   int64  `json:"size"`
}

// NamedGrid pairs a grid with the name it is stored under.
type NamedGrid struct {
	Name string
	Grid chambolle.Grid
}

// Named returns a NamedGrid.
func Named(name string, g chambolle.Grid) NamedGrid {
	return NamedGrid{Name: name, Grid: g}
}

// dataOffset returns where the data section starts for a JSON header of
// headerSize bytes.
func dataOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}
