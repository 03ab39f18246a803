// Package colormap implements the Colormap Resolver: the parallel stage
// that joins per-color query counters against an external color index,
// range-encodes the expanded color sets, and redistributes per-query
// results into destination buckets for downstream merging.
package colormap

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// ColorID is the 32-bit color identifier external callers group counters
// by; it is looked up in the colormap file to obtain the underlying,
// sorted color indices.
type ColorID = uint32

// CounterEntry is (query_index, counter) tagged externally with a
// 32-bit color id. Immutable once produced.
type CounterEntry struct {
	QueryIndex uint64
	Counter    uint32
	ColorID    ColorID
}

// Encode appends the wire form (query_index varint, counter varint,
// color_id u32 little-endian) to buf, matching the bucket file format.
func (e CounterEntry) Encode(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, e.QueryIndex)
	buf = binary.AppendUvarint(buf, uint64(e.Counter))
	buf = binary.LittleEndian.AppendUint32(buf, e.ColorID)
	return buf
}

// DecodeCounterEntry reads one CounterEntry from r. An io.EOF returned
// before any byte of the record is consumed is the clean end of the
// stream; an EOF encountered mid-record is reported as a plain error
// (never io.EOF itself) so callers can distinguish "no more records"
// from "truncated record".
func DecodeCounterEntry(r ByteAndFullReader) (CounterEntry, error) {
	var e CounterEntry
	qi, err := binary.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			return e, io.EOF
		}
		return e, fmt.Errorf("colormap: reading query_index: %w", err)
	}
	c, err := binary.ReadUvarint(r)
	if err != nil {
		return e, fmt.Errorf("colormap: truncated record, reading counter: %v", err)
	}
	var colorBuf [4]byte
	if _, err := io.ReadFull(r, colorBuf[:]); err != nil {
		return e, fmt.Errorf("colormap: truncated record, reading color_id: %v", err)
	}
	e.QueryIndex = qi
	e.Counter = uint32(c)
	e.ColorID = binary.LittleEndian.Uint32(colorBuf[:])
	return e, nil
}

// ByteAndFullReader is the minimal reader surface CounterEntry decoding
// needs: byte-at-a-time for varints, full-buffer for the fixed color id.
type ByteAndFullReader interface {
	io.Reader
	io.ByteReader
}

// QueryColorDesc is (query_index, count), carried into downstream
// buckets once its color id has been resolved and discarded.
type QueryColorDesc struct {
	QueryIndex uint64
	Count      uint32
}

// ColorsRange is a half-open interval [Start, End) over color indices.
type ColorsRange struct {
	Start uint32
	End   uint32
}

func (r ColorsRange) length() uint32 { return r.End - r.Start }

// QueryColoredCounters is one record written to a destination bucket: an
// ascending-by-query_index run of QueryColorDesc sharing one range-coded
// colors blob.
type QueryColoredCounters struct {
	Queries    []QueryColorDesc
	ColorsBlob []byte
}

// Encode appends the downstream bucket record wire form: n_queries
// varint, the (query_index, count) pairs, colors_len varint, then the
// raw colors blob.
func (q QueryColoredCounters) Encode(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(q.Queries)))
	for _, d := range q.Queries {
		buf = binary.AppendUvarint(buf, d.QueryIndex)
		buf = binary.AppendUvarint(buf, uint64(d.Count))
	}
	buf = binary.AppendUvarint(buf, uint64(len(q.ColorsBlob)))
	buf = append(buf, q.ColorsBlob...)
	return buf
}

// DecodeQueryColoredCounters reads one downstream bucket record from r.
func DecodeQueryColoredCounters(r ByteAndFullReader) (QueryColoredCounters, error) {
	var rec QueryColoredCounters
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return rec, fmt.Errorf("colormap: reading n_queries: %w", err)
	}
	rec.Queries = make([]QueryColorDesc, n)
	for i := range rec.Queries {
		qi, err := binary.ReadUvarint(r)
		if err != nil {
			return rec, fmt.Errorf("colormap: reading query_index[%d]: %w", i, err)
		}
		c, err := binary.ReadUvarint(r)
		if err != nil {
			return rec, fmt.Errorf("colormap: reading count[%d]: %w", i, err)
		}
		rec.Queries[i] = QueryColorDesc{QueryIndex: qi, Count: uint32(c)}
	}
	blobLen, err := binary.ReadUvarint(r)
	if err != nil {
		return rec, fmt.Errorf("colormap: reading colors_len: %w", err)
	}
	rec.ColorsBlob = make([]byte, blobLen)
	if _, err := io.ReadFull(r, rec.ColorsBlob); err != nil {
		return rec, fmt.Errorf("colormap: reading colors_blob: %w", err)
	}
	return rec, nil
}

// sortByQueryIndex sorts descs ascending by QueryIndex, matching the
// per-record ordering invariant.
func sortByQueryIndex(descs []QueryColorDesc) {
	sort.Slice(descs, func(i, j int) bool { return descs[i].QueryIndex < descs[j].QueryIndex })
}
