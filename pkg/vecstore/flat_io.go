package vecstore

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var flatMagic = [4]byte{'F', 'L', 'A', 'T'}

const (
	flatVersion uint32 = 1

	// Header limits. A file claiming more is rejected before allocation.
	maxFlatDim    = 1 << 16
	maxFlatFloats = 1 << 28

	readChunk = 1 << 16
)

// ErrCorruptHeader is returned by LoadFlat when the header describes an
// impossible index.
var ErrCorruptHeader = errors.New("vecstore: corrupt header")

// Save writes the index in a compact little-endian binary format:
//
//	[4B magic "FLAT"] [4B version] [4B dim] [4B count]
//	[count × dim × 4B float32]
func (f *Flat) Save(w io.Writer) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	if _, err := bw.Write(flatMagic[:]); err != nil {
		return fmt.Errorf("vecstore: save magic: %w", err)
	}
	for _, v := range []uint32{flatVersion, uint32(f.dim), uint32(f.lenLocked())} {
		if err := binary.Write(bw, le, v); err != nil {
			return fmt.Errorf("vecstore: save header: %w", err)
		}
	}
	if err := binary.Write(bw, le, f.data); err != nil {
		return fmt.Errorf("vecstore: save vectors: %w", err)
	}
	return bw.Flush()
}

// LoadFlat reads an index written by Save.
func LoadFlat(r io.Reader) (*Flat, error) {
	br := bufio.NewReader(r)
	le := binary.LittleEndian

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("vecstore: load magic: %w", err)
	}
	if magic != flatMagic {
		return nil, fmt.Errorf("vecstore: invalid magic %q", magic[:])
	}

	var version, dim, count uint32
	for _, p := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(br, le, p); err != nil {
			return nil, fmt.Errorf("vecstore: load header: %w", err)
		}
	}
	if version != flatVersion {
		return nil, fmt.Errorf("vecstore: unsupported version %d", version)
	}
	if dim == 0 && count > 0 {
		return nil, fmt.Errorf("%w: zero dimension with %d vectors", ErrCorruptHeader, count)
	}
	if dim > maxFlatDim {
		return nil, fmt.Errorf("%w: dimension %d", ErrCorruptHeader, dim)
	}
	total := uint64(dim) * uint64(count)
	if total > maxFlatFloats {
		return nil, fmt.Errorf("%w: %d vectors of %d dims", ErrCorruptHeader, count, dim)
	}

	// Grow as rows arrive so a truncated file fails before a large
	// allocation.
	data := make([]float32, 0, min(total, readChunk))
	buf := make([]float32, min(total, readChunk))
	for remaining := total; remaining > 0; {
		n := min(remaining, uint64(len(buf)))
		if err := binary.Read(br, le, buf[:n]); err != nil {
			return nil, fmt.Errorf("vecstore: load vectors: %w", err)
		}
		data = append(data, buf[:n]...)
		remaining -= n
	}
	return &Flat{dim: int(dim), data: data}, nil
}
