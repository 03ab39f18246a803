package colormap

import (
	"encoding/binary"
	"fmt"
	"io"
)

// encodeRanges range-encodes the sorted ascending color indices in c,
// appending varint (start, length) pairs to buf per the minimal-ranges
// invariant: walk c left-to-right, extending the current range while
// consecutive, emitting and starting a new one on any gap.
func encodeRanges(buf []byte, c []uint32) []byte {
	if len(c) == 0 {
		return buf
	}
	const noRange = ^uint32(0) // sentinel: "no current range"
	start, end := noRange, noRange
	flush := func() {
		if start == noRange {
			return
		}
		buf = binary.AppendUvarint(buf, uint64(start))
		buf = binary.AppendUvarint(buf, uint64(end-start))
	}
	for _, v := range c {
		switch {
		case start == noRange:
			start, end = v, v+1
		case v == end:
			end = v + 1
		default:
			flush()
			start, end = v, v+1
		}
	}
	flush()
	return buf
}

// DecodeRanges reads a concatenation of varint (start, length) pairs
// from r until EOF, returning the decoded ColorsRange values.
func DecodeRanges(r io.ByteReader) ([]ColorsRange, error) {
	var ranges []ColorsRange
	for {
		start, err := binary.ReadUvarint(r)
		if err == io.EOF {
			return ranges, nil
		}
		if err != nil {
			return ranges, fmt.Errorf("colormap: reading range start: %w", err)
		}
		length, err := binary.ReadUvarint(r)
		if err != nil {
			return ranges, fmt.Errorf("colormap: reading range length: %w", err)
		}
		ranges = append(ranges, ColorsRange{Start: uint32(start), End: uint32(start + length)})
	}
}

// ExpandRanges flattens decoded ranges back into the original sorted
// ascending color index sequence, for tests and debugging.
func ExpandRanges(ranges []ColorsRange) []uint32 {
	var out []uint32
	for _, r := range ranges {
		for v := r.Start; v < r.End; v++ {
			out = append(out, v)
		}
	}
	return out
}
