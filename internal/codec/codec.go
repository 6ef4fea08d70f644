// Package codec enumerates the compression backends and the fixed mapping
// between each backend and the file suffix it owns.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCodec is returned for a codec name outside the known set.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrUnrecognizedExtension is returned when a filename carries none of
	// the known compressed suffixes.
	ErrUnrecognizedExtension = errors.New("unrecognized extension")
	// ErrBackendUnavailable is returned when a known codec is not usable in
	// the current build or configuration.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Codec identifies one compression backend.
type Codec int

const (
	Zstd Codec = iota
	Lzma
	Gzip
)

// All lists every known codec in preference order.
var All = []Codec{Zstd, Lzma, Gzip}

func (c Codec) String() string {
	switch c {
	case Zstd:
		return "zstd"
	case Lzma:
		return "lzma"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("codec(%d)", int(c))
	}
}

// Suffix returns the file suffix without the leading dot.
func (c Codec) Suffix() string {
	switch c {
	case Zstd:
		return "zst"
	case Lzma:
		return "xz"
	case Gzip:
		return "gz"
	default:
		return ""
	}
}

// Ext returns the dotted suffix, e.g. ".zst".
func (c Codec) Ext() string {
	return "." + c.Suffix()
}

// Valid reports whether c is one of the known codecs.
func (c Codec) Valid() bool {
	return c >= Zstd && c <= Gzip
}

// Descriptor is a read-only description of a codec in a given registry.
type Descriptor struct {
	Codec     Codec
	Name      string
	Suffix    string
	Available bool
}

// ParseCodec resolves a codec name. Matching is case-insensitive and
// accepts each codec's suffix as an alias ("zst", "xz", "gz").
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zstd", "zst":
		return Zstd, nil
	case "lzma", "xz":
		return Lzma, nil
	case "gzip", "gz":
		return Gzip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// SuffixFor returns the file suffix owned by the named codec.
func SuffixFor(name string) (string, error) {
	c, err := ParseCodec(name)
	if err != nil {
		return "", err
	}
	return c.Suffix(), nil
}

// DetectFromFilename resolves the codec from the trailing suffix of name.
// The returned descriptor reports Available as true; use Registry.Describe
// for availability in a specific registry.
func DetectFromFilename(name string) (Descriptor, error) {
	lower := strings.ToLower(name)
	for _, c := range All {
		if strings.HasSuffix(lower, c.Ext()) && len(name) > len(c.Ext()) {
			return Descriptor{Codec: c, Name: c.String(), Suffix: c.Suffix(), Available: true}, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrUnrecognizedExtension, name)
}

// StripSuffix removes the recognized compressed suffix from name,
// preserving the case of the remaining characters.
func StripSuffix(name string) (string, Codec, error) {
	d, err := DetectFromFilename(name)
	if err != nil {
		return "", 0, err
	}
	return name[:len(name)-len(d.Codec.Ext())], d.Codec, nil
}
