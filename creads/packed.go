// Package creads implements the compressed-read wire codec: the
// serialization contract for (flags, bucket-tag, extra-payload,
// packed-bases) records shared between producer and consumer threads of
// the surrounding pipeline.
package creads

import "github.com/rpcpool/ggcat-colorcore/rkhash"

// plainToCode maps an ASCII base to its 2-bit packed code, matching the
// rolling hash engine's compressed encoding order (A=0, C=1, T=2, G=3).
// N has no 2-bit representation and must not reach the packer.
var plainToCode = [256]byte{
	'A': rkhash.BaseA,
	'C': rkhash.BaseC,
	'G': rkhash.BaseG,
	'T': rkhash.BaseT,
}

var codeToPlain = [4]byte{
	rkhash.BaseA: 'A',
	rkhash.BaseC: 'C',
	rkhash.BaseG: 'G',
	rkhash.BaseT: 'T',
}

// CompressedRead is a borrowed view of 2-bit packed bases plus the
// logical base count (the last packed byte may hold fewer than 4 bases).
type CompressedRead struct {
	data  []byte
	count int
}

// NewFromCompressed wraps an already 2-bit-packed byte slice. data must
// contain at least ceil(count/4) bytes.
func NewFromCompressed(data []byte, count int) CompressedRead {
	return CompressedRead{data: data, count: count}
}

// BasesCount returns the number of bases represented.
func (r CompressedRead) BasesCount() int { return r.count }

// PackedLen returns ceil(count/4), the number of packed bytes.
func (r CompressedRead) PackedLen() int { return packedByteLen(r.count) }

func packedByteLen(bases int) int { return (bases + 3) / 4 }

// Bytes returns the packed byte slice (length PackedLen()).
func (r CompressedRead) Bytes() []byte { return r.data[:r.PackedLen()] }

// At returns the ASCII base at logical index i.
func (r CompressedRead) At(i int) byte {
	b := r.data[i/4]
	code := (b >> (2 * uint(i%4))) & 0b11
	return codeToPlain[code]
}

// CopyToBuffer appends the packed bytes verbatim to buf.
func (r CompressedRead) CopyToBuffer(buf []byte) []byte {
	return append(buf, r.Bytes()...)
}

// PackPlain 2-bit packs an ASCII {A,C,G,T} slice into dst, appending and
// returning the grown slice.
func PackPlain(dst []byte, bases []byte) []byte {
	n := packedByteLen(len(bases))
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for i, c := range bases {
		code := plainToCode[c]
		dst[start+i/4] |= code << (2 * uint(i%4))
	}
	return dst
}
