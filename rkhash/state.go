package rkhash

import "errors"

// ErrUnsupportedCapability is returned by capabilities the canonical
// Rabin-Karp factory does not implement (second-bucket keys and
// minimizers). Surfacing it as a typed error rather than panicking lets
// callers probe for the capability instead of crashing the phase.
var ErrUnsupportedCapability = errors.New("rkhash: capability not supported by canonical rabin-karp hash")

// ExtHash is the extendable canonical hash: both the forward and the
// reverse-complement rolling hash, kept together so a further base can be
// rolled in either direction.
type ExtHash struct {
	Fwd uint64
	Rev uint64
}

// ToUnextendable collapses an ExtHash to its strand-invariant form.
func (h ExtHash) ToUnextendable() uint64 {
	if h.Fwd < h.Rev {
		return h.Fwd
	}
	return h.Rev
}

// State is the canonical Rabin-Karp rolling hash state for a single
// sequence: (fwd, rev, k-1, rmmult) as described by the data model.
type State struct {
	seq      []byte
	fwd      uint64
	rev      uint64
	kMinus1  int
	rmmult   uint64
}

// New constructs the rolling hash state for seq with window size k.
// Preconditions (caller's responsibility, never validated at runtime):
// k >= 2, len(seq) >= k-1, and every byte of seq is one of the accepted
// symbols (2-bit compressed or ASCII {A,C,G,T,N}).
func New(seq []byte, k int) *State {
	var fwd, rev uint64
	for i := 0; i < k-1; i++ {
		fwd = fwd*Multiplier + Fwd(seq[i])
	}
	for i := k - 2; i >= 0; i-- {
		rev = rev*Multiplier + Bkw(seq[i])
	}
	rev *= Multiplier

	return &State{
		seq:     seq,
		fwd:     fwd,
		rev:     rev,
		kMinus1: k - 1,
		rmmult:  Rmmult(k),
	}
}

// K returns the window size this state was constructed with.
func (s *State) K() int { return s.kMinus1 + 1 }

// Roll advances the window so that it ends at position i (i >= k-1) and
// returns the extendable hash of s.seq[i-(k-1) .. i]. The returned forward
// value is the post-shift value: it corresponds to the k-mer ending at i,
// not the k-mer that existed before the call.
func (s *State) Roll(i int) ExtHash {
	in := s.seq[i]
	out := s.seq[i-s.kMinus1]

	fwd := s.fwd*Multiplier + Fwd(in)
	s.fwd = fwd - Fwd(out)*s.rmmult

	rev := s.rev*MultInv + Bkw(in)*s.rmmult
	s.rev = rev - Bkw(out)

	return ExtHash{Fwd: fwd, Rev: rev}
}

// KMerHash is a rolling-window hash paired with its 0-based k-mer start
// position (position i - (k-1) in the underlying sequence).
type KMerHash struct {
	Position int
	Hash     ExtHash
}

// Iterate lazily produces (position, ExtHash) pairs for every k-mer in
// s.seq, in a single forward pass. Not restartable: call New again to
// iterate from the start.
func (s *State) Iterate(yield func(KMerHash) bool) {
	for i := s.kMinus1; i < len(s.seq); i++ {
		h := s.Roll(i)
		if !yield(KMerHash{Position: i - s.kMinus1, Hash: h}) {
			return
		}
	}
}

// ManualRollForward applies the forward-rolling update to hash without
// requiring a live State, for callers that track their own window.
func ManualRollForward(hash ExtHash, k int, out, in byte) ExtHash {
	rmmult := Rmmult(k)
	fwd := (hash.Fwd - Fwd(out)*rmmult) * Multiplier
	fwd += Fwd(in)
	rev := (hash.Rev - Bkw(out)) * MultInv
	rev += Bkw(in) * rmmult
	return ExtHash{Fwd: fwd, Rev: rev}
}

// ManualRollReverse applies the backward-rolling update to hash: the
// window logically shifts left by one (a base is consumed from the right
// and produced on the left), matching cn_rkhash_base's manual_roll_reverse.
func ManualRollReverse(hash ExtHash, k int, out, in byte) ExtHash {
	rmmult := Rmmult(k)
	fwd := (hash.Fwd - Fwd(out)) * MultInv
	fwd += Fwd(in) * rmmult
	rev := (hash.Rev - Bkw(out)*rmmult) * Multiplier
	rev += Bkw(in)
	return ExtHash{Fwd: fwd, Rev: rev}
}

// ManualRemoveOnlyForward subtracts the leftmost contribution and shifts,
// shrinking the window by one base from the left.
func ManualRemoveOnlyForward(hash ExtHash, k int, out byte) ExtHash {
	rmmult := Rmmult(k)
	return ExtHash{
		Fwd: hash.Fwd - rmmult*Fwd(out),
		Rev: (hash.Rev - Bkw(out)) * MultInv,
	}
}

// ManualRemoveOnlyReverse subtracts the rightmost contribution and shifts,
// shrinking the window by one base from the right.
func ManualRemoveOnlyReverse(hash ExtHash, k int, out byte) ExtHash {
	rmmult := Rmmult(k)
	return ExtHash{
		Fwd: (hash.Fwd - Fwd(out)) * MultInv,
		Rev: hash.Rev - rmmult*Bkw(out),
	}
}

// BucketOf returns the low 32 bits of h, with no further mixing. Callers
// that need dispersion must mix upstream.
func BucketOf(h uint64) uint32 {
	return uint32(h)
}

// SecondBucket is an unsupported capability of the canonical Rabin-Karp
// factory: it always returns ErrUnsupportedCapability.
func SecondBucket(h uint64) (uint32, error) {
	return 0, ErrUnsupportedCapability
}

// Minimizer is an unsupported capability of the canonical Rabin-Karp
// factory: it always returns ErrUnsupportedCapability.
func Minimizer(h uint64) (uint64, error) {
	return 0, ErrUnsupportedCapability
}
