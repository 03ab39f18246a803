package creads

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Config selects the wire-format parameters described in §4.2: how many
// high bits of the size-and-flags varint are reserved for caller flags,
// whether a second-bucket tag byte precedes the record, and whether the
// decoder truncates its shared read buffer before appending.
type Config struct {
	FlagsCount       uint8 // 0..7
	WithSecondBucket bool
	ResetBuffer      bool
}

// sizeFlagsShift is where flags begin within the combined size-and-flags
// value: base count occupies the low bits, flags the high FlagsCount
// bits of a 32-bit field, matching the §8 bound |bases| <= 2^(32-FlagsCount).
func (c Config) sizeFlagsShift() uint {
	return uint(32 - c.FlagsCount)
}

func (c Config) packSizeFlags(bases int, flags uint8) uint64 {
	return uint64(bases) | (uint64(flags) << c.sizeFlagsShift())
}

func (c Config) unpackSizeFlags(v uint64) (bases int, flags uint8) {
	mask := uint64(1)<<c.sizeFlagsShift() - 1
	return int(v & mask), uint8(v >> c.sizeFlagsShift())
}

// Record is one compressed-read wire record: a second-bucket tag (if
// configured), an extra payload, and the packed bases themselves.
type Record[E ExtraData] struct {
	Flags        uint8
	SecondBucket uint8
	Extra        E
	Read         CompressedRead
}

// WriteTo appends the wire form of a plain-base record (ACGT bytes, not
// yet packed) to buf and returns the grown slice.
func WriteTo[E ExtraData](buf []byte, cfg Config, flags uint8, secondBucket uint8, extra E, bases []byte) []byte {
	if cfg.WithSecondBucket {
		buf = append(buf, secondBucket)
	}
	buf = extra.Encode(buf)
	sizeFlags := cfg.packSizeFlags(len(bases), flags)
	buf = binary.AppendUvarint(buf, sizeFlags)
	buf = PackPlain(buf, bases)
	return buf
}

// WritePackedTo is WriteTo for a read that is already 2-bit packed.
func WritePackedTo[E ExtraData](buf []byte, cfg Config, flags uint8, secondBucket uint8, extra E, read CompressedRead) []byte {
	if cfg.WithSecondBucket {
		buf = append(buf, secondBucket)
	}
	buf = extra.Encode(buf)
	sizeFlags := cfg.packSizeFlags(read.BasesCount(), flags)
	buf = binary.AppendUvarint(buf, sizeFlags)
	buf = read.CopyToBuffer(buf)
	return buf
}

// GetSize returns an upper bound on the number of bytes WriteTo/
// WritePackedTo will append for a read with the given base count.
func GetSize(cfg Config, extra ExtraData, basesCount int) int {
	size := packedByteLen(basesCount) + extra.MaxSize() + 10
	if cfg.WithSecondBucket {
		size++
	}
	return size
}

// ReadFrom decodes one record from r, appending the packed bases into
// readBuffer (truncating it first if cfg.ResetBuffer). The returned
// CompressedRead borrows readBuffer's backing array; it is only valid
// until the next call to ReadFrom with the same buffer.
//
// A size of zero is a legal terminator: ReadFrom returns ok=false with a
// nil error in that case, never decoding a zero-length record.
func ReadFrom[E ExtraData](r io.Reader, cfg Config, readBuffer *[]byte, decodeExtra ExtraDataDecoder[E]) (rec Record[E], ok bool, err error) {
	br, isByteReader := r.(io.ByteReader)
	if !isByteReader {
		br = &byteReaderAdapter{r: r}
	}

	var secondBucket uint8
	if cfg.WithSecondBucket {
		secondBucket, err = br.ReadByte()
		if err != nil {
			return rec, false, fmt.Errorf("creads: reading second bucket: %w", err)
		}
	}

	extra, err := decodeExtra(r)
	if err != nil {
		return rec, false, fmt.Errorf("creads: decoding extra data: %w", err)
	}

	sizeFlags, err := binary.ReadUvarint(br)
	if err != nil {
		return rec, false, fmt.Errorf("creads: reading size/flags varint: %w", err)
	}
	bases, flags := cfg.unpackSizeFlags(sizeFlags)
	if bases == 0 {
		// Zero bases is the terminator sentinel, not a decodable
		// zero-length record, regardless of any flags bits present.
		return rec, false, nil
	}

	if cfg.ResetBuffer {
		*readBuffer = (*readBuffer)[:0]
	}
	n := packedByteLen(bases)
	start := len(*readBuffer)
	*readBuffer = append(*readBuffer, make([]byte, n)...)
	if _, err := io.ReadFull(r, (*readBuffer)[start:]); err != nil {
		return rec, false, fmt.Errorf("creads: reading packed bases: %w", err)
	}

	rec = Record[E]{
		Flags:        flags,
		SecondBucket: secondBucket,
		Extra:        extra,
		Read:         NewFromCompressed((*readBuffer)[start:], bases),
	}
	return rec, true, nil
}

// byteReaderAdapter adapts an io.Reader without ReadByte into an
// io.ByteReader, for callers passing a plain io.Reader (e.g. a
// length-limited io.LimitedReader) to ReadFrom.
type byteReaderAdapter struct {
	r   io.Reader
	buf [1]byte
}

func (a *byteReaderAdapter) ReadByte() (byte, error) {
	if _, err := io.ReadFull(a.r, a.buf[:]); err != nil {
		return 0, err
	}
	return a.buf[0], nil
}
