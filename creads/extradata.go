package creads

import "io"

// ExtraData is the caller-supplied payload carried alongside every
// compressed read (e.g. per-read metadata such as an originating file
// index). Implementations must round-trip: the type's ExtraDataDecoder
// applied to the bytes written by Encode must reproduce an equal value.
type ExtraData interface {
	// Encode appends the wire form of this value to buf and returns the
	// grown slice.
	Encode(buf []byte) []byte
	// MaxSize is an upper bound on the number of bytes Encode appends,
	// used for the record size estimate.
	MaxSize() int
}

// NoExtraData is the zero-size ExtraData implementation for records that
// carry no auxiliary payload.
type NoExtraData struct{}

func (NoExtraData) Encode(buf []byte) []byte { return buf }
func (NoExtraData) MaxSize() int             { return 0 }

// ExtraDataDecoder reconstructs an ExtraData value of a specific type
// from a stream. One is required per concrete ExtraData type since Go
// has no virtual constructors.
type ExtraDataDecoder[E ExtraData] func(r io.Reader) (E, error)

// DecodeNoExtraData is the ExtraDataDecoder for NoExtraData.
func DecodeNoExtraData(r io.Reader) (NoExtraData, error) { return NoExtraData{}, nil }
