package creads

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomBases(n int, r *rand.Rand) []byte {
	alphabet := []byte("ACGT")
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return out
}

func TestRoundTripPlainBases(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	cfg := Config{FlagsCount: 2, WithSecondBucket: true}

	// n=0 is excluded: a zero base count is the wire terminator sentinel,
	// never a decodable record, regardless of flags.
	for _, n := range []int{1, 3, 4, 5, 37, 256} {
		bases := randomBases(n, r)
		var wire []byte
		wire = WriteTo(wire, cfg, 0b10, 7, NoExtraData{}, bases)

		var buf []byte
		rec, ok, err := ReadFrom(bytes.NewReader(wire), cfg, &buf, DecodeNoExtraData)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint8(0b10), rec.Flags)
		require.Equal(t, uint8(7), rec.SecondBucket)
		require.Equal(t, n, rec.Read.BasesCount())
		for i, c := range bases {
			require.Equalf(t, c, rec.Read.At(i), "base %d", i)
		}
	}
}

func TestTerminatorReportsNoRecord(t *testing.T) {
	cfg := Config{FlagsCount: 0, WithSecondBucket: false}
	var wire []byte
	wire = binary.AppendUvarint(wire, cfg.packSizeFlags(0, 0)) // size==0 terminator only

	var buf []byte
	_, ok, err := ReadFrom(bytes.NewReader(wire), cfg, &buf, DecodeNoExtraData)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSizeEstimateBoundsActualSize(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	cfg := Config{FlagsCount: 3, WithSecondBucket: true}
	for _, n := range []int{0, 1, 4, 9, 123} {
		bases := randomBases(n, r)
		var wire []byte
		wire = WriteTo(wire, cfg, 0b101, 200, NoExtraData{}, bases)
		require.LessOrEqual(t, len(wire), GetSize(cfg, NoExtraData{}, n))
	}
}

// S6: FlagsCount=2, WITH_SECOND_BUCKET=true, flags=0b11, bucket=42,
// extra=(none), bases="ACGTACGT".
func TestScenarioS6(t *testing.T) {
	cfg := Config{FlagsCount: 2, WithSecondBucket: true}
	bases := []byte("ACGTACGT")

	var wire []byte
	wire = WriteTo(wire, cfg, 0b11, 42, NoExtraData{}, bases)

	var buf []byte
	rec, ok, err := ReadFrom(bytes.NewReader(wire), cfg, &buf, DecodeNoExtraData)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint8(0b11), rec.Flags)
	require.Equal(t, uint8(42), rec.SecondBucket)
	require.Equal(t, len(bases), rec.Read.BasesCount())
	for i, c := range bases {
		require.Equalf(t, c, rec.Read.At(i), "base %d", i)
	}
}

func TestRoundTripPackedRead(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	cfg := Config{FlagsCount: 1, WithSecondBucket: false}
	bases := randomBases(17, r)

	var packed []byte
	packed = PackPlain(packed, bases)
	read := NewFromCompressed(packed, len(bases))

	var wire []byte
	wire = WritePackedTo(wire, cfg, 1, 0, NoExtraData{}, read)

	var buf []byte
	rec, ok, err := ReadFrom(bytes.NewReader(wire), cfg, &buf, DecodeNoExtraData)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, len(bases), rec.Read.BasesCount())
	for i, c := range bases {
		require.Equalf(t, c, rec.Read.At(i), "base %d", i)
	}
}
