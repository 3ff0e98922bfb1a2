package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const lockFileName = "pinkas.lock"

// LockInstance creates a global lock to ensure single-instance operation
// Lock file: <data_dir>/pinkas.lock
// Content: PID of the running pinkas instance
// This prevents two instances from writing the same audit log database
func LockInstance(dataDir string) error {
	lockPath := filepath.Join(dataDir, lockFileName)
	pid := os.Getpid()

	// Write PID to lock file (0600 - user-only access)
	return os.WriteFile(lockPath, []byte(fmt.Sprintf("%d", pid)), 0600)
}

// UnlockInstance removes the global instance lock
func UnlockInstance(dataDir string) error {
	lockPath := filepath.Join(dataDir, lockFileName)

	// Ignore error if file doesn't exist
	err := os.Remove(lockPath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

// CheckInstanceLock checks if another pinkas instance is currently running
// Returns (isLocked bool, runningPID int, err error)
func CheckInstanceLock(dataDir string) (bool, int, error) {
	lockPath := filepath.Join(dataDir, lockFileName)

	data, err := os.ReadFile(lockPath)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		// Invalid lock file, clean it up
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	// os.FindProcess always succeeds on Unix; on Windows it fails for
	// dead PIDs, which catches stale locks there
	_, err = os.FindProcess(pid)
	if err != nil {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	return true, pid, nil
}
