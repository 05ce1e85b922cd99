package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resaura/NeonScan-v2/internal/config"
)

// TestDiscoverDatabaseInDir_CurrentDirOnly verifies that discovery does not
// walk up into a parent library.
func TestDiscoverDatabaseInDir_CurrentDirOnly(t *testing.T) {
	tmpRoot := t.TempDir()
	parentDir := filepath.Join(tmpRoot, "parent")
	childDir := filepath.Join(parentDir, "child")

	parentDataDir := filepath.Join(parentDir, ProjectDirName)
	require.NoError(t, os.MkdirAll(parentDataDir, 0755))
	parentDB := filepath.Join(parentDataDir, "parent.db")
	require.NoError(t, os.WriteFile(parentDB, []byte(""), 0644))
	require.NoError(t, os.MkdirAll(childDir, 0755))

	_, err := discoverDatabaseInDir(childDir)
	assert.Error(t, err, "child dir has no library")

	dbPath, err := discoverDatabaseInDir(parentDir)
	require.NoError(t, err)
	assert.Equal(t, parentDB, dbPath)
}

func TestDiscoverDatabaseEnvOverride(t *testing.T) {
	t.Setenv(DBPathEnv, "/custom/library.db")
	dbPath, err := DiscoverDatabase()
	require.NoError(t, err)
	assert.Equal(t, "/custom/library.db", dbPath)
}

func TestDiscoverDatabaseIgnoresDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ProjectDirName, "fake.db"), 0755))

	_, err := discoverDatabaseInDir(tmpDir)
	assert.Error(t, err)
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot("/home/user/papers/.neonscan/papers.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/papers", root)

	_, err = GetProjectRoot("/home/user/papers/papers.db")
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	p, err := ResolvePaths("/home/user/papers/.neonscan/papers.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/papers", p.Root)
	assert.Equal(t, "/home/user/papers/.neonscan/scans", p.ScansDir)
	assert.Equal(t, "/home/user/papers/.neonscan/config.yaml", p.Config)

	p, err = ResolvePaths("/data/library.db")
	require.NoError(t, err)
	assert.Equal(t, "/data", p.Root)
	assert.Equal(t, "/data/scans", p.ScansDir)
}

func TestInitProject(t *testing.T) {
	dir := t.TempDir()

	dbPath, err := InitProject(dir, "papers")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ProjectDirName, "papers.db"), dbPath)

	info, err := os.Stat(filepath.Join(dir, ProjectDirName, ScansDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg, err := config.LoadConfig(filepath.Join(dir, ProjectDirName, ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	// Create the database, then a second init must refuse
	store, err := NewStorage(context.Background(), &Config{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = InitProject(dir, "papers")
	assert.ErrorContains(t, err, "already exists")

	_, err = InitProject(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)
}

func TestInitProjectDefaultName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	require.NoError(t, os.Mkdir(dir, 0755))

	dbPath, err := InitProject(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "receipts.db", filepath.Base(dbPath))
}
