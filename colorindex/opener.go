package colorindex

import "github.com/rpcpool/ggcat-colorcore/colormap"

// FileOpener is a colormap.Opener that opens a fresh FileDecoder
// against a fixed colorindex base path per call, matching §4.3 step 1:
// one private decoder instance per worker.
type FileOpener struct {
	Base string
}

func (o FileOpener) Open() (colormap.Decoder, error) {
	return Open(o.Base)
}
