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

	"github.com/fringelab/chambolle/internal/chambolle"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// File is a decoded .cgrid file.
type File struct {
	header Header
	flags  uint32
	data   []byte
}

// ReadFile reads path with strict validation.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: path comes from the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f), ReaderOptions{ValidationLevel: ValidationStrict})
}

// Read decodes a .cgrid stream.
func Read(r io.Reader, opts ReaderOptions) (*File, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, v, FormatVersion)
	}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if dataSize > math.MaxInt64 {
		return nil, &ValidationError{Type: "out_of_bounds", Details: fmt.Sprintf("data size %d", dataSize)}
	}

	file := &File{flags: binary.LittleEndian.Uint32(fixed[8:12])}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &file.header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if err := ValidateHeader(&file.header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	padding := dataOffset(int64(headerSize)) - int64(FixedHeaderSize) - int64(headerSize)
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, fmt.Errorf("failed to skip padding: %w", err)
	}

	// ReadAll grows with the input, so a corrupted size cannot force a
	// huge allocation up front.
	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read grid data: %w", err)
	}
	if uint64(len(data)) != dataSize {
		return nil, fmt.Errorf("failed to read grid data: %w", io.ErrUnexpectedEOF)
	}

	if !opts.SkipChecksumValidation {
		var stored [ChecksumSize]byte
		copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])
		if sha256.Sum256(data) != stored {
			return nil, ErrChecksumMismatch
		}
	}

	file.data = data
	return file, nil
}

// Header returns the file header.
func (f *File) Header() Header {
	return f.header
}

// Flags returns the flag bits of the fixed header.
func (f *File) Flags() uint32 {
	return f.flags
}

// Names lists the stored grids in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.header.Grids))
	for i, meta := range f.header.Grids {
		names[i] = meta.Name
	}
	return names
}

// Grid decodes the grid stored under name.
func (f *File) Grid(name string) (chambolle.Grid, error) {
	for _, meta := range f.header.Grids {
		if meta.Name != name {
			continue
		}
		if meta.Offset < 0 || meta.Size < 0 || meta.Offset > int64(len(f.data))-meta.Size {
			return chambolle.Grid{}, &ValidationError{Type: "out_of_bounds", Grid: name, Details: "outside data section"}
		}
		if err := validateShape(meta); err != nil {
			return chambolle.Grid{}, err
		}
		g := chambolle.NewGrid(meta.Shape[0], meta.Shape[1])
		buf := f.data[meta.Offset : meta.Offset+meta.Size]
		for i := range g.Data {
			g.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
		}
		return g, nil
	}
	return chambolle.Grid{}, fmt.Errorf("%w: %q", ErrGridNotFound, name)
}
