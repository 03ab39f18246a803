// Package rkhash implements the canonical Rabin-Karp rolling hash used to
// enumerate k-mers over the {A,C,G,T,N} alphabet with O(1) strand
// canonicalization per step.
//
// All arithmetic is 64-bit wrapping arithmetic (Go's native uint64
// overflow semantics), matching the arithmetic of the reference hash so
// that hashes remain bit-compatible with hash-sorted bucket files produced
// elsewhere in the pipeline.
package rkhash

// Multiplier is the odd 64-bit constant the forward hash is rolled with.
// MultInv is its multiplicative inverse modulo 2^64, required because
// Multiplier is odd.
const (
	Multiplier = 0x9E3779B97F4A7C15
	MultInv    = 0xF1DE83E19937733D

	multA = 0x3FB21C651E98DF25
	multC = 0x2DE3872C95D1BB3D
	multG = 0x1A56F4A46A0B9A2B
	multT = 0x0D5A6E1CE2B3F9C7
)

// Base values for the 2-bit compressed encoding, also usable as array
// indices shared with the ASCII table below.
const (
	BaseA byte = 0
	BaseC byte = 1
	BaseT byte = 2
	BaseG byte = 3
	BaseN byte = 4
)

// fwdTable and bkwTable accept both the 2-bit compressed encoding
// {A=0,C=1,T=2,G=3,N=4} and ASCII {'A','C','G','T','N'}; both encodings of
// the same base map to the same multiplier. Any other byte maps to the
// sentinel value 1 — callers must not pass unsupported symbols.
var fwdTable = buildFwd()
var bkwTable = buildBkw()

func buildFwd() [256]uint64 {
	var t [256]uint64
	for i := range t {
		t[i] = 1
	}
	t[BaseA], t[BaseC], t[BaseT], t[BaseG], t[BaseN] = multA, multC, multT, multG, 0
	t['A'], t['C'], t['G'], t['T'], t['N'] = multA, multC, multG, multT, 0
	return t
}

func buildBkw() [256]uint64 {
	var t [256]uint64
	for i := range t {
		t[i] = 1
	}
	// BKW[x] = FWD[complement(x)]: A<->T, C<->G.
	t[BaseA], t[BaseC], t[BaseT], t[BaseG], t[BaseN] = multT, multG, multA, multC, 0
	t['A'], t['C'], t['G'], t['T'], t['N'] = multT, multG, multC, multA, 0
	return t
}

// Fwd returns the forward-table multiplier for base c.
func Fwd(c byte) uint64 { return fwdTable[c] }

// Bkw returns the backward-table multiplier for base c.
func Bkw(c byte) uint64 { return bkwTable[c] }
