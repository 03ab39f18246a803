// Package colorindex implements the on-disk colormap file format: a
// direct-indexed table mapping each color id to its sorted ascending
// sequence of color indices, written by Writer and read by FileDecoder,
// this package's colormap.Decoder.
//
// Layout is three sibling files sharing a base path:
//
//	<base>.header.json  - Header, JSON-encoded
//	<base>.offsets      - fixed-width (offset uint64, length uint32) table, one per color id
//	<base>.data         - concatenated delta-varint-encoded color index payloads
//
// The offsets table is direct-indexed by color id (entry i describes
// color id i), giving O(1) seeks without a secondary lookup structure —
// color ids are small, dense integers, unlike opaque hash keys.
package colorindex

import (
	"encoding/json"
	"os"
)

const indexVersion = 1

const offsetEntrySize = 8 + 4 // offset uint64 LE, length uint32 LE

// Header is the JSON sidecar describing the index.
type Header struct {
	Version     int
	ColorsCount uint32
}

func headerPath(base string) string  { return base + ".header.json" }
func offsetsPath(base string) string { return base + ".offsets" }
func dataPath(base string) string    { return base + ".data" }

func readHeader(base string) (Header, error) {
	data, err := os.ReadFile(headerPath(base))
	if err != nil {
		return Header{}, err
	}
	var h Header
	if err := json.Unmarshal(data, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

func writeHeader(base string, h Header) error {
	data, err := json.Marshal(&h)
	if err != nil {
		return err
	}
	return os.WriteFile(headerPath(base), data, 0o666)
}

// offsetEntry is one direct-indexed table row.
type offsetEntry struct {
	Offset uint64
	Length uint32
}
