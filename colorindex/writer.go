package colorindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// Writer builds a colorindex at base, one color id at a time, in
// strictly ascending color id order (matching how the upstream color
// merging pass produces them).
type Writer struct {
	base       string
	dataFile   *os.File
	dataWriter *bufio.Writer
	offsets    []offsetEntry
	dataOffset uint64
	nextColor  uint32
}

// Create opens a new colorindex for writing at base, truncating any
// existing files there.
func Create(base string) (*Writer, error) {
	f, err := os.Create(dataPath(base))
	if err != nil {
		return nil, fmt.Errorf("colorindex: creating data file: %w", err)
	}
	return &Writer{
		base:       base,
		dataFile:   f,
		dataWriter: bufio.NewWriter(f),
	}, nil
}

// Put appends the sorted ascending colorIndices for colorID. colorID
// must equal the number of entries written so far (ids are assigned
// densely starting at 0); a gap is a programmer error.
func (w *Writer) Put(colorID uint32, colorIndices []uint32) error {
	if colorID != w.nextColor {
		return fmt.Errorf("colorindex: non-contiguous color id %d, expected %d", colorID, w.nextColor)
	}

	var buf []byte
	var prev uint32
	for i, idx := range colorIndices {
		if i == 0 {
			buf = binary.AppendUvarint(buf, uint64(idx))
		} else {
			buf = binary.AppendUvarint(buf, uint64(idx-prev))
		}
		prev = idx
	}

	n, err := w.dataWriter.Write(buf)
	if err != nil {
		return fmt.Errorf("colorindex: writing color %d payload: %w", colorID, err)
	}
	w.offsets = append(w.offsets, offsetEntry{Offset: w.dataOffset, Length: uint32(n)})
	w.dataOffset += uint64(n)
	w.nextColor++
	return nil
}

// Finalize flushes the data file and writes the offsets table and
// header sidecar, completing the index.
func (w *Writer) Finalize() error {
	if err := w.dataWriter.Flush(); err != nil {
		return fmt.Errorf("colorindex: flushing data file: %w", err)
	}
	if err := w.dataFile.Close(); err != nil {
		return fmt.Errorf("colorindex: closing data file: %w", err)
	}

	offsetsBuf := make([]byte, 0, len(w.offsets)*offsetEntrySize)
	for _, e := range w.offsets {
		offsetsBuf = binary.LittleEndian.AppendUint64(offsetsBuf, e.Offset)
		offsetsBuf = binary.LittleEndian.AppendUint32(offsetsBuf, e.Length)
	}
	if err := os.WriteFile(offsetsPath(w.base), offsetsBuf, 0o666); err != nil {
		return fmt.Errorf("colorindex: writing offsets table: %w", err)
	}

	return writeHeader(w.base, Header{Version: indexVersion, ColorsCount: w.nextColor})
}
