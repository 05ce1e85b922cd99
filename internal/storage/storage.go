package storage

import (
	"context"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/storage/sqlite"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// Storage defines the interface for library storage backends
type Storage interface {
	// Documents
	RecentDocuments(ctx context.Context, limit int) ([]*types.ScanDocument, error)
	AllDocuments(ctx context.Context) ([]*types.ScanDocument, error)
	DocumentsByFolder(ctx context.Context, folderID *int64) ([]*types.ScanDocument, error)
	GetDocument(ctx context.Context, id int64) (*types.ScanDocument, error)
	InsertDocument(ctx context.Context, doc *types.ScanDocument, actor string) (int64, error)
	InsertConvertedDocument(ctx context.Context, doc *types.ScanDocument, data events.ConversionData, actor string) (int64, error)
	DeleteDocument(ctx context.Context, id int64, actor string) error
	AssignFolder(ctx context.Context, ids []int64, folderID *int64, actor string) error
	RenameDocument(ctx context.Context, id int64, title, actor string) error
	UpdateDocumentFile(ctx context.Context, id int64, path string, pageCount int, edit events.EditData, actor string) error

	// Folders
	CreateFolder(ctx context.Context, name, actor string) (int64, error)
	ListFolders(ctx context.Context) ([]*types.Folder, error)
	GetFolder(ctx context.Context, id int64) (*types.Folder, error)
	UpdateFolder(ctx context.Context, id int64, name, colorHex, actor string) error
	DeleteFolder(ctx context.Context, id int64, actor string) error
	UpdateFolderOrders(ctx context.Context, orders []types.FolderOrder, actor string) error

	// Activity events
	StoreEvent(ctx context.Context, event *events.ActivityEvent) error
	GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.ActivityEvent, error)

	// Event cleanup - retention policy enforcement
	CleanupEventsByAge(ctx context.Context, retentionDays, batchSize int) (int, error)
	GetEventCounts(ctx context.Context) (*sqlite.EventCounts, error)
	VacuumDatabase(ctx context.Context) error

	// Config
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Lifecycle
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".neonscan/neonscan.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: DefaultDBPath,
	}
}

// DefaultDBPath is used when neither --db nor discovery provides a path.
const DefaultDBPath = ".neonscan/neonscan.db"

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultDBPath
	}
	return sqlite.New(cfg.Path)
}
