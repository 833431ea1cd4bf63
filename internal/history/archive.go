package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Archive moves the history database at dbPath into an archive directory
// next to it and returns the new location.
func Archive(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("history database does not exist: %s", dbPath)
	}

	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("history-%s.db", timestamp))

	// Two archives within the same second
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("history-%s.db", timestamp))
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive history database: %w", err)
	}

	return archivePath, nil
}
