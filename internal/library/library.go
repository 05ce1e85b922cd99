// Package library implements the NeonScan use cases on top of the store, the
// scan file tree and the converter. The CLI and the HTTP API both drive it.
package library

import (
	"time"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/config"
	"github.com/Resaura/NeonScan-v2/internal/convert"
	"github.com/Resaura/NeonScan-v2/internal/files"
	"github.com/Resaura/NeonScan-v2/internal/logging"
	"github.com/Resaura/NeonScan-v2/internal/storage"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// ErrNotFound is returned when a document or folder does not exist.
var ErrNotFound = types.ErrNotFound

// DefaultActor is recorded on events when no actor is set.
const DefaultActor = "neonscan"

// Library is the entry point for every document and folder operation.
type Library struct {
	store  storage.Storage
	files  *files.Store
	conv   *convert.Converter
	cfg    config.Config
	logger *zap.Logger
	actor  string
	now    func() time.Time
}

// New wires a library over store, keeping scan files under scansDir.
func New(store storage.Storage, scansDir string, cfg config.Config, logger *zap.Logger) *Library {
	logger = logging.OrNop(logger)
	fs := files.New(scansDir, logger.Named("files"))
	conv := convert.New(store, fs, logger.Named("convert"), convert.Options{
		JPEGQuality: cfg.Image.JPEGQuality,
		Concurrency: cfg.Convert.Concurrency,
	})
	return &Library{
		store:  store,
		files:  fs,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
		actor:  DefaultActor,
		now:    time.Now,
	}
}

// WithActor returns a copy of l that records actor on the events it writes.
func (l *Library) WithActor(actor string) *Library {
	cp := *l
	if actor != "" {
		cp.actor = actor
	}
	return &cp
}

// Config returns the configuration the library was built with.
func (l *Library) Config() config.Config {
	return l.cfg
}

// ScansDir returns the directory holding scan files.
func (l *Library) ScansDir() string {
	return l.files.Root()
}
