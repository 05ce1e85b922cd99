package sqlite

import "github.com/Resaura/NeonScan-v2/internal/storage/migrations"

// baseSchema is the first version of the library database.
const baseSchema = `
-- Folders table
CREATE TABLE IF NOT EXISTS folders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL CHECK(length(name) <= 500),
    created_at DATETIME NOT NULL
);

-- Scan documents table
CREATE TABLE IF NOT EXISTS scan_documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    type TEXT NOT NULL,
    path TEXT NOT NULL,
    page_count INTEGER NOT NULL DEFAULT 1 CHECK(page_count >= 1),
    created_at DATETIME NOT NULL,
    folder_id INTEGER,
    FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_scan_documents_folder ON scan_documents(folder_id);
CREATE INDEX IF NOT EXISTS idx_scan_documents_created_at ON scan_documents(created_at);

-- Activity trail. Rows outlive the documents and folders they mention.
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    event_type TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    document_id INTEGER,
    folder_id INTEGER,
    actor TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    data TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_events_document ON events(document_id);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);

-- Config table (key-value)
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// schemaMigrations lists every schema version in order.
var schemaMigrations = []migrations.Migration{
	{
		Version:     1,
		Description: "Create folders, scan_documents, events and config tables",
		Up:          baseSchema,
		Down: `
			DROP TABLE IF EXISTS events;
			DROP TABLE IF EXISTS scan_documents;
			DROP TABLE IF EXISTS folders;
			DROP TABLE IF EXISTS config;
		`,
	},
	{
		Version:     2,
		Description: "Add document kind",
		Up:          `ALTER TABLE scan_documents ADD COLUMN kind TEXT NOT NULL DEFAULT 'GENERIC'`,
		Down:        `ALTER TABLE scan_documents DROP COLUMN kind`,
	},
	{
		Version:     3,
		Description: "Add folder sort order and color",
		Up: `
			ALTER TABLE folders ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0;
			ALTER TABLE folders ADD COLUMN color_hex TEXT NOT NULL DEFAULT '#5CE1E6';
			CREATE INDEX IF NOT EXISTS idx_folders_sort_order ON folders(sort_order);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_folders_sort_order;
			ALTER TABLE folders DROP COLUMN color_hex;
			ALTER TABLE folders DROP COLUMN sort_order;
		`,
	},
}

// SchemaVersion is the version a freshly opened database is migrated to.
const SchemaVersion = 3
