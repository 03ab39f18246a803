package colormap

// Decoder is the colormap decoder contract: GetColorMappings appends the
// sorted ascending color indices for colorID into out and returns the
// grown slice. Implementations need not be thread-safe — the resolver
// opens one private instance per worker — but must be deterministic and
// are expected to perform best when called with non-decreasing colorID
// values across a single instance's lifetime.
type Decoder interface {
	GetColorMappings(colorID ColorID, out []uint32) ([]uint32, error)
	// Close releases any resources (open files, caches) held by this
	// decoder instance.
	Close() error
}

// Opener constructs a fresh, private Decoder instance against a
// colormap file. The resolver opens one per worker since decoders hold
// non-thread-safe per-instance caches.
type Opener interface {
	Open() (Decoder, error)
}
