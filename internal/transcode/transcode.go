// Package transcode streams a single file through a codec, in either
// direction, and reports size and timing telemetry for it.
package transcode

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/safety"
)

// Transcoder compresses and decompresses individual files.
type Transcoder struct {
	registry *codec.Registry
	logger   *slog.Logger
}

// New creates a Transcoder backed by the given codec registry.
func New(reg *codec.Registry, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		registry: reg,
		logger:   logger,
	}
}

// Registry returns the codec registry the transcoder dispatches through.
func (t *Transcoder) Registry() *codec.Registry {
	return t.registry
}

// Compress streams src into src+"."+suffix. The source is removed only
// after the target has been fully written, synced and closed, and only when
// retainSource is false. A target left behind by a failed stream is not
// cleaned up.
func (t *Transcoder) Compress(src string, c codec.Codec, level int, retainSource bool) (*Result, error) {
	const op = "compress"

	srcSize, err := statRegular(src)
	if err != nil {
		return nil, newError(op, src, ErrSourceNotFound, err)
	}
	if err := t.registry.Require(c); err != nil {
		return nil, newError(op, src, kindOf(err), err)
	}

	target := src + c.Ext()
	start := time.Now()

	if err := t.encodeFile(src, target, c, level); err != nil {
		t.logger.Warn("compression failed", "path", src, "codec", c.String(), "error", err)
		return nil, newError(op, src, kindOf(err), err)
	}

	targetInfo, err := os.Stat(target)
	if err != nil {
		return nil, newError(op, target, ErrIO, err)
	}
	elapsed := time.Since(start)

	if !retainSource {
		if err := os.Remove(src); err != nil {
			return nil, newError("remove", src, ErrIO, err)
		}
	}

	t.logger.Debug("compressed file",
		"path", src,
		"target", target,
		"codec", c.String(),
		"level", level,
		"source_size", srcSize,
		"target_size", targetInfo.Size(),
		"duration", elapsed,
	)

	return &Result{
		SourcePath:     src,
		TargetPath:     target,
		Codec:          c,
		Level:          level,
		SourceSize:     srcSize,
		TargetSize:     targetInfo.Size(),
		Elapsed:        elapsed,
		SourceRetained: retainSource,
	}, nil
}

// Decompress recovers the original file from compressedPath. The codec is
// taken from the filename suffix alone. When destDir is empty the output is
// written next to the input; otherwise destDir is created if needed and the
// stripped base name is placed inside it.
func (t *Transcoder) Decompress(compressedPath string, retainCompressed bool, destDir string) (*Result, error) {
	const op = "decompress"

	srcSize, err := statRegular(compressedPath)
	if err != nil {
		return nil, newError(op, compressedPath, ErrSourceNotFound, err)
	}

	stripped, c, err := codec.StripSuffix(filepath.Base(compressedPath))
	if err != nil {
		return nil, newError(op, compressedPath, ErrUnrecognizedExtension, err)
	}
	if err := t.registry.Require(c); err != nil {
		return nil, newError(op, compressedPath, kindOf(err), err)
	}

	root := destDir
	if root == "" {
		root = filepath.Dir(compressedPath)
	} else if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, newError(op, root, ErrIO, fmt.Errorf("creating destination: %w", err))
	}
	target, err := safety.JoinUnder(root, stripped)
	if err != nil {
		return nil, newError(op, compressedPath, ErrIO, err)
	}

	start := time.Now()

	if err := t.decodeFile(compressedPath, target, c); err != nil {
		t.logger.Warn("decompression failed", "path", compressedPath, "codec", c.String(), "error", err)
		return nil, newError(op, compressedPath, kindOf(err), err)
	}

	targetInfo, err := os.Stat(target)
	if err != nil {
		return nil, newError(op, target, ErrIO, err)
	}
	elapsed := time.Since(start)

	if !retainCompressed {
		if err := os.Remove(compressedPath); err != nil {
			return nil, newError("remove", compressedPath, ErrIO, err)
		}
	}

	t.logger.Debug("decompressed file",
		"path", compressedPath,
		"target", target,
		"codec", c.String(),
		"source_size", srcSize,
		"target_size", targetInfo.Size(),
		"duration", elapsed,
	)

	return &Result{
		SourcePath:     compressedPath,
		TargetPath:     target,
		Codec:          c,
		SourceSize:     srcSize,
		TargetSize:     targetInfo.Size(),
		Elapsed:        elapsed,
		SourceRetained: retainCompressed,
	}, nil
}

// openSource opens the input of a compression. Tests replace it to inject
// read failures part way through a stream.
var openSource = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// encodeFile copies src through a codec writer into a newly created dst.
func (t *Transcoder) encodeFile(src, dst string, c codec.Codec, level int) error {
	in, err := openSource(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}

	cw, err := t.registry.NewWriter(c, out, level)
	if err != nil {
		_ = out.Close()
		return err
	}

	if _, err := io.Copy(cw, in); err != nil {
		_ = cw.Close()
		_ = out.Close()
		return fmt.Errorf("streaming %s: %w", c, err)
	}
	if err := cw.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finishing %s stream: %w", c, err)
	}
	return syncClose(out)
}

// decodeFile copies src through a codec reader into a newly created dst.
func (t *Transcoder) decodeFile(src, dst string, c codec.Codec) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	cr, err := t.registry.NewReader(c, in)
	if err != nil {
		return err
	}
	defer func() {
		_ = cr.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}

	if _, err := io.Copy(out, cr); err != nil {
		_ = out.Close()
		return fmt.Errorf("streaming %s: %w", c, err)
	}
	return syncClose(out)
}

func syncClose(f *os.File) error {
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("syncing target: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing target: %w", err)
	}
	return nil
}

// statRegular returns the size of path, failing unless it is a regular file.
func statRegular(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("not a regular file: %s", path)
	}
	return info.Size(), nil
}
