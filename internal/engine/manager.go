package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/store"
	"github.com/BadgerOps/tclabpack/internal/transcode"
)

// ErrFolderNotFound is returned when a batch folder is missing or is not a
// directory.
var ErrFolderNotFound = errors.New("folder not found")

// DefaultOutputFolder receives decompressed files when no output folder is
// given.
const DefaultOutputFolder = "descomp"

// Manager runs folder-level compress and decompress batches and records
// their reports in the history store.
type Manager struct {
	registry   *codec.Registry
	transcoder *transcode.Transcoder
	store      *store.Store
	logger     *slog.Logger
	workers    int
	progress   ProgressFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithWorkers sets how many files are processed at once. Values below 2
// keep processing strictly sequential.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n < 1 {
			n = 1
		}
		m.workers = n
	}
}

// WithProgress installs a callback invoked after every file.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Manager) {
		m.progress = fn
	}
}

// NewManager creates a Manager. st may be nil, in which case batches are
// not recorded.
func NewManager(reg *codec.Registry, st *store.Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		registry:   reg,
		transcoder: transcode.New(reg, logger),
		store:      st,
		logger:     logger,
		workers:    1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the codec registry used by the manager.
func (m *Manager) Registry() *codec.Registry {
	return m.registry
}

// Transcoder returns the single-file transcoder used by the manager.
func (m *Manager) Transcoder() *transcode.Transcoder {
	return m.transcoder
}

func checkFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFolderNotFound, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, path)
	}
	return nil
}
