package colormap

import "github.com/valyala/bytebufferpool"

// scratch bundles the per-worker reusable buffers the algorithm needs:
// C (expanded color indices), E (range-encoded colors), and Q (query
// descriptors for the current color group). Allocated once per worker
// and cleared, never freed, between color groups.
type scratch struct {
	colorsBuf []uint32
	rangesBuf *bytebufferpool.ByteBuffer
	queryBuf  []QueryColorDesc
}

// scratchPool hands out worker-owned scratch instances whose
// range-encoding buffer is drawn from a shared free list (the color and
// query buffers are allocated fresh per acquire), guaranteeing release
// on every exit path (including a panicking worker) via acquire/release
// pairing at the call site.
type scratchPool struct {
	pool bytebufferpool.Pool
}

func newScratchPool() *scratchPool { return &scratchPool{} }

func (p *scratchPool) acquire() *scratch {
	return &scratch{
		colorsBuf: make([]uint32, 0, 256),
		rangesBuf: p.pool.Get(),
		queryBuf:  make([]QueryColorDesc, 0, 256),
	}
}

func (p *scratchPool) release(s *scratch) {
	s.rangesBuf.Reset()
	p.pool.Put(s.rangesBuf)
}

func (s *scratch) resetForGroup() {
	s.colorsBuf = s.colorsBuf[:0]
	s.rangesBuf.Reset()
	s.queryBuf = s.queryBuf[:0]
}
