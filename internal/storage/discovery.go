package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resaura/NeonScan-v2/internal/config"
)

const (
	// ProjectDirName holds the database, scan files and config of a library.
	ProjectDirName = ".neonscan"
	// ScansDirName is the scan file root inside ProjectDirName.
	ScansDirName = "scans"
	// ConfigFileName is the YAML config file inside ProjectDirName.
	ConfigFileName = "config.yaml"
	// DBPathEnv overrides database discovery.
	DBPathEnv = "NEONSCAN_DB_PATH"
)

// DiscoverDatabase looks for .neonscan/*.db in the current directory only.
// Returns the absolute path to the database file, or an error if not found.
//
// NEONSCAN_DB_PATH, when set, is returned as is.
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv(DBPathEnv); dbPath != "" {
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverDatabaseInDir(dir)
}

// discoverDatabaseInDir checks for .neonscan/*.db in the specified directory only.
// Parent directories are never searched.
func discoverDatabaseInDir(dir string) (string, error) {
	projectDir := filepath.Join(dir, ProjectDirName)

	if info, err := os.Stat(projectDir); err == nil && info.IsDir() {
		entries, err := os.ReadDir(projectDir)
		if err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".db") {
					absPath, err := filepath.Abs(filepath.Join(projectDir, entry.Name()))
					if err != nil {
						return "", fmt.Errorf("failed to get absolute path: %w", err)
					}
					return absPath, nil
				}
			}
		}
	}

	return "", fmt.Errorf(
		"no %s/*.db found in %s\n"+
			"  Run 'neonscan init' to create a scan library in this directory\n"+
			"  Or use --db flag to specify database path explicitly",
		ProjectDirName, dir)
}

// GetProjectRoot returns the project root directory for a given database path.
// The project root is the directory containing the .neonscan/ directory.
//
// Example:
//   dbPath: /home/user/papers/.neonscan/papers.db
//   returns: /home/user/papers
func GetProjectRoot(dbPath string) (string, error) {
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	dbDir := filepath.Dir(absPath)
	if filepath.Base(dbDir) != ProjectDirName {
		return "", fmt.Errorf(
			"database must be in a %s/ directory, got: %s",
			ProjectDirName, dbPath)
	}

	return filepath.Dir(dbDir), nil
}

// Paths locates the files of a library given its database path.
type Paths struct {
	DB       string
	Root     string
	ScansDir string
	Config   string
}

// ResolvePaths derives the scan and config locations from dbPath.
// A database outside a .neonscan/ directory keeps its scans and config
// next to the database file.
func ResolvePaths(dbPath string) (Paths, error) {
	absDB, err := filepath.Abs(dbPath)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get absolute path: %w", err)
	}
	dataDir := filepath.Dir(absDB)
	root := dataDir
	if projectRoot, err := GetProjectRoot(absDB); err == nil {
		root = projectRoot
	}
	return Paths{
		DB:       absDB,
		Root:     root,
		ScansDir: filepath.Join(dataDir, ScansDirName),
		Config:   filepath.Join(dataDir, ConfigFileName),
	}, nil
}

// InitProject creates a new .neonscan directory with a scans directory and a
// default config file. Returns the path the database should be created at.
func InitProject(projectDir, projectName string) (string, error) {
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return "", fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	dataDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(filepath.Join(dataDir, ScansDirName), 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", ProjectDirName, err)
	}

	dbName := projectName
	if dbName == "" {
		absDir, err := filepath.Abs(projectDir)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		dbName = filepath.Base(absDir)
	}
	if !strings.HasSuffix(dbName, ".db") {
		dbName += ".db"
	}

	dbPath := filepath.Join(dataDir, dbName)
	if _, err := os.Stat(dbPath); err == nil {
		return "", fmt.Errorf("database already exists: %s", dbPath)
	}

	configPath := filepath.Join(dataDir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, config.DefaultConfig()); err != nil {
			return "", err
		}
	}

	// Database will be created on first connection
	return dbPath, nil
}
