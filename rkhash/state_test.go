package rkhash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var complement = map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A', 'N': 'N'}

func reverseComplement(s []byte) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		out[len(s)-1-i] = complement[c]
	}
	return out
}

func fwdHashOf(s []byte) uint64 {
	var h uint64
	for _, c := range s {
		h = h*Multiplier + Fwd(c)
	}
	return h
}

func randomSeq(n int, r *rand.Rand) []byte {
	alphabet := []byte("ACGT")
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return out
}

func TestIncrementalMatchesFromScratch(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, k := range []int{2, 3, 4, 7, 16, 31, 64, 127, 512, 4095} {
		s := randomSeq(k+200, r)
		st := New(s, k)
		for i := k - 1; i < len(s); i++ {
			got := st.Roll(i)
			want := fwdHashOf(s[i-k+1 : i+1])
			require.Equalf(t, want, got.Fwd, "k=%d i=%d", k, i)
		}
	}
}

func TestCanonicalMatchesReverseComplement(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, k := range []int{2, 3, 5, 8, 33, 200} {
		s := randomSeq(k+150, r)
		rc := reverseComplement(s)

		stFwd := New(s, k)
		n := len(s)
		for i := k - 1; i < n; i++ {
			hFwd := stFwd.Roll(i)

			p := i - k + 1
			kmerRC := rc[n-p-k : n-p]
			wantCanonical := min64(fwdHashOf(s[p:p+k]), fwdHashOf(kmerRC))
			require.Equal(t, wantCanonical, hFwd.ToUnextendable(), "k=%d i=%d", k, i)
		}
	}
}

func TestManualRollForwardMatchesFreshConstruct(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	k := 9
	s := randomSeq(k+50, r)
	st := New(s, k)
	for i := k - 1; i < len(s)-1; i++ {
		h := st.Roll(i)
		out := s[i-k+1]
		in := s[i+1]
		got := ManualRollForward(h, k, out, in)

		want := New(s[i-k+2:i+2], k).Roll(k - 1)
		require.Equal(t, want, got)
	}
}

func TestBucketOfFitsUint32(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 1000; i++ {
		h := r.Uint64()
		b := BucketOf(h)
		require.LessOrEqual(t, uint64(b), uint64(1<<32-1))
	}
}

func TestUnsupportedCapabilities(t *testing.T) {
	_, err := SecondBucket(42)
	require.ErrorIs(t, err, ErrUnsupportedCapability)
	_, err = Minimizer(42)
	require.ErrorIs(t, err, ErrUnsupportedCapability)
}

// S1: k=3, ASCII, s="ACGT".
func TestScenarioS1(t *testing.T) {
	s := []byte("ACGT")
	st := New(s, 3)
	h0 := st.Roll(2) // ACG
	h1 := st.Roll(3) // CGT

	fwdACG := fwdHashOf([]byte("ACG"))
	fwdCGT := fwdHashOf([]byte("CGT"))
	require.Equal(t, fwdACG, h0.Fwd)
	require.Equal(t, fwdCGT, h1.Fwd)

	require.Equal(t, min64(fwdACG, fwdCGT), min64(h0.Fwd, h0.Rev))
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// S2: k=4, s="ANNA". Middle N's contribute 0 to the forward hash.
func TestScenarioS2(t *testing.T) {
	s := []byte("ANNA")
	st := New(s, 4)
	h := st.Roll(3)

	want := Fwd('A')*Multiplier*Multiplier*Multiplier + Fwd('A')
	require.Equal(t, want, h.Fwd)
	require.Equal(t, min64(h.Fwd, h.Rev), h.ToUnextendable())
}
