//go:build nozstd

package codec

import (
	"fmt"
	"io"
)

const zstdBuiltin = false

func newZstdWriter(io.Writer, int) (io.WriteCloser, error) {
	return nil, fmt.Errorf("%w: zstd (built with nozstd)", ErrBackendUnavailable)
}

func newZstdReader(io.Reader) (io.ReadCloser, error) {
	return nil, fmt.Errorf("%w: zstd (built with nozstd)", ErrBackendUnavailable)
}
