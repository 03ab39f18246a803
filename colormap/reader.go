package colormap

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// ReadBucketFile decodes every QueryColoredCounters record written by a
// MultiBucketWriter destination bucket, in on-disk order. Used by
// downstream merge stages and by tests validating the writer.
func ReadBucketFile(path string) ([]QueryColoredCounters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Bucket: path, Err: err}
	}
	defer f.Close()

	br := newCountingByteReader(f)
	var out []QueryColoredCounters
	for {
		chunkLen, err := binary.ReadUvarint(br)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, &IOError{Bucket: path, Offset: br.offset, Err: err}
		}
		compressed := make([]byte, chunkLen)
		if _, err := io.ReadFull(br, compressed); err != nil {
			return nil, &IOError{Bucket: path, Offset: br.offset, Err: err}
		}
		raw, err := decompressChunk(compressed)
		if err != nil {
			return nil, &CorruptionError{Bucket: path, Offset: br.offset, Reason: err.Error()}
		}

		chunkReader := newCountingByteReader(bytes.NewReader(raw))
		for chunkReader.offset < int64(len(raw)) {
			rec, err := DecodeQueryColoredCounters(chunkReader)
			if err != nil {
				return nil, &CorruptionError{Bucket: path, Offset: br.offset + chunkReader.offset, Reason: err.Error()}
			}
			out = append(out, rec)
		}
	}
}

// countingByteReader adapts an io.Reader to io.ByteReader while
// tracking the read offset, for error reporting per §7's
// "failing bucket path and offset" requirement.
type countingByteReader struct {
	r      io.Reader
	offset int64
	one    [1]byte
}

func newCountingByteReader(r io.Reader) *countingByteReader {
	return &countingByteReader{r: r}
}

func (c *countingByteReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.offset += int64(n)
	return n, err
}

func (c *countingByteReader) ReadByte() (byte, error) {
	n, err := io.ReadFull(c.r, c.one[:])
	c.offset += int64(n)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}
	return c.one[0], nil
}

