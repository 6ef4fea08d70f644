package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Registry records which codecs are usable. It is resolved once at
// construction and is safe for concurrent reads afterwards.
type Registry struct {
	available map[Codec]bool
}

// Option adjusts a Registry at construction.
type Option func(*Registry)

// WithDisabled marks the given codecs unavailable. lzma and gzip are
// implemented in pure Go and always compiled in; disabling them is only
// useful in configuration and tests.
func WithDisabled(codecs ...Codec) Option {
	return func(r *Registry) {
		for _, c := range codecs {
			r.available[c] = false
		}
	}
}

// NewRegistry builds a registry. zstd is available unless the binary was
// built with the nozstd tag or it is disabled through an option.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		available: map[Codec]bool{
			Zstd: zstdBuiltin,
			Lzma: true,
			Gzip: true,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether c can be used.
func (r *Registry) Available(c Codec) bool {
	return c.Valid() && r.available[c]
}

// Describe returns the descriptor of c in this registry.
func (r *Registry) Describe(c Codec) Descriptor {
	return Descriptor{
		Codec:     c,
		Name:      c.String(),
		Suffix:    c.Suffix(),
		Available: r.Available(c),
	}
}

// ListAvailable returns the usable codecs in preference order.
func (r *Registry) ListAvailable() []Descriptor {
	var out []Descriptor
	for _, c := range All {
		if r.Available(c) {
			out = append(out, r.Describe(c))
		}
	}
	return out
}

// ListAll returns every known codec, available or not.
func (r *Registry) ListAll() []Descriptor {
	out := make([]Descriptor, 0, len(All))
	for _, c := range All {
		out = append(out, r.Describe(c))
	}
	return out
}

// Require fails with ErrBackendUnavailable when c cannot be used.
func (r *Registry) Require(c Codec) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCodec, c)
	}
	if !r.Available(c) {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, c)
	}
	return nil
}

// DefaultCodec returns zstd when available, otherwise lzma.
func (r *Registry) DefaultCodec() Codec {
	if r.Available(Zstd) {
		return Zstd
	}
	return Lzma
}

// xzDictCaps maps presets 0-9 to the dictionary sizes xz-utils uses.
var xzDictCaps = [10]int{
	256 << 10,
	1 << 20,
	2 << 20,
	4 << 20,
	4 << 20,
	8 << 20,
	8 << 20,
	16 << 20,
	32 << 20,
	64 << 20,
}

// ClampLevel bounds level to the range the backend accepts. zstd levels
// are passed through unchanged.
func ClampLevel(c Codec, level int) int {
	switch c {
	case Zstd:
		return level
	case Lzma:
		return max(0, min(9, level))
	case Gzip:
		return max(1, min(9, level))
	default:
		return level
	}
}

// NewWriter wraps w in a compressing writer for c. Closing the returned
// writer flushes the codec but does not close w.
func (r *Registry) NewWriter(c Codec, w io.Writer, level int) (io.WriteCloser, error) {
	if err := r.Require(c); err != nil {
		return nil, err
	}
	level = ClampLevel(c, level)

	switch c {
	case Zstd:
		return newZstdWriter(w, level)
	case Lzma:
		cfg := xz.WriterConfig{
			DictCap:  xzDictCaps[level],
			CheckSum: xz.CRC64,
		}
		xw, err := cfg.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating xz writer: %w", err)
		}
		return xw, nil
	case Gzip:
		gw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("creating gzip writer: %w", err)
		}
		return gw, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, c)
}

// NewReader wraps r in a decompressing reader for c. Closing the returned
// reader releases codec resources but does not close r.
func (r *Registry) NewReader(c Codec, src io.Reader) (io.ReadCloser, error) {
	if err := r.Require(c); err != nil {
		return nil, err
	}

	switch c {
	case Zstd:
		return newZstdReader(src)
	case Lzma:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case Gzip:
		gr, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gr, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, c)
}
