package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ServerLock is the lock file written while `neonscan serve` owns a library.
type ServerLock struct {
	Holder    string    `json:"holder"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

// LockFileName is created next to the database.
const LockFileName = ".server-lock"

// AcquireServerLock creates the server lock file next to dbPath.
// A lock left behind by a dead process on this host is overwritten.
// Returns the lock file path for cleanup on shutdown.
func AcquireServerLock(dbPath, addr string) (lockPath string, err error) {
	absDB, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("invalid database path: %w", err)
	}
	lockPath = filepath.Join(filepath.Dir(absDB), LockFileName)

	if existing, err := ReadServerLock(lockPath); err == nil && existing != nil {
		if existing.Alive() {
			return "", fmt.Errorf("neonscan serve is already running (PID %d on %s, listening on %s, started %s)",
				existing.PID, existing.Hostname, existing.Addr, existing.StartedAt.Format(time.RFC3339))
		}
		// Stale lock - will overwrite
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}

	lock := ServerLock{
		Holder:    "neonscan-serve",
		PID:       os.Getpid(),
		Hostname:  hostname,
		Addr:      addr,
		StartedAt: time.Now(),
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal lock: %w", err)
	}

	if err := os.WriteFile(lockPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to create server lock: %w", err)
	}

	return lockPath, nil
}

// ReadServerLock reads a lock file. It returns (nil, nil) when there is none.
func ReadServerLock(lockPath string) (*ServerLock, error) {
	data, err := os.ReadFile(lockPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server lock: %w", err)
	}
	var lock ServerLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse server lock: %w", err)
	}
	return &lock, nil
}

// ReleaseServerLock removes the lock file.
// Should be called on server shutdown (use defer).
func ReleaseServerLock(lockPath string) error {
	if lockPath == "" {
		return nil
	}

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove server lock: %w", err)
	}

	return nil
}

// Alive reports whether the process holding the lock still runs.
func (l *ServerLock) Alive() bool {
	return IsProcessAlive(l.PID, l.Hostname)
}

// IsProcessAlive checks if a process with the given PID exists on the given hostname.
// Processes on other hosts cannot be checked and are assumed alive.
func IsProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		return true
	}

	if !strings.EqualFold(hostname, currentHost) {
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 only checks for existence
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	// EPERM: the process exists but belongs to someone else
	if err == syscall.EPERM {
		return true
	}

	return false
}
