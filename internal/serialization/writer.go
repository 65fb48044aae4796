package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Write encodes grids under h to w. h.Grids is filled in; the other header
// fields are written as given, with CreatedAt defaulting to now.
func Write(w io.Writer, h Header, grids ...NamedGrid) error {
	h.FormatVersion = FormatVersion
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	var offset int64
	h.Grids = make([]GridMeta, 0, len(grids))
	for _, ng := range grids {
		g := ng.Grid
		if g.Rows <= 0 || g.Cols <= 0 || len(g.Data) != g.Rows*g.Cols {
			return fmt.Errorf("grid %q: %d values for %dx%d", ng.Name, len(g.Data), g.Rows, g.Cols)
		}
		size := int64(len(g.Data)) * 8
		h.Grids = append(h.Grids, GridMeta{
			Name:   ng.Name,
			DType:  DTypeFloat64,
			Shape:  []int{g.Rows, g.Cols},
			Offset: offset,
			Size:   size,
		})
		offset += size
	}
	if err := ValidateHeader(&h, offset, ValidationStrict); err != nil {
		return err
	}

	headerJSON, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	data := make([]byte, offset)
	for i, ng := range grids {
		buf := data[h.Grids[i].Offset:]
		for j, v := range ng.Grid.Data {
			binary.LittleEndian.PutUint64(buf[8*j:], math.Float64bits(v))
		}
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flagsOf(h))
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(offset)) //nolint:gosec // G115: offset is a sum of non-negative sizes
	sum := sha256.Sum256(data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], sum[:])

	bw := bufio.NewWriter(w)
	padding := dataOffset(int64(len(headerJSON))) - int64(FixedHeaderSize+len(headerJSON))
	for _, chunk := range [][]byte{fixed, headerJSON, make([]byte, padding), data} {
		if _, err := bw.Write(chunk); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile writes grids to a new file at path.
func WriteFile(path string, h Header, grids ...NamedGrid) (err error) {
	//nolint:gosec // G304: path comes from the command line
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, h, grids...)
}

func flagsOf(h Header) uint32 {
	var flags uint32
	if h.Solve != nil {
		flags |= FlagHasSolve
	}
	if len(h.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	return flags
}
