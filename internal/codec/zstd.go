//go:build !nozstd

package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const zstdBuiltin = true

func newZstdWriter(w io.Writer, level int) (io.WriteCloser, error) {
	// Zero frames keep empty inputs decodable by the reference zstd tool.
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	return enc, nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	return dec.IOReadCloser(), nil
}
