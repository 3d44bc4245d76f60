package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wordlewatch/internal/config"
)

// SnapshotWriter archives raw review page markup so extraction misses can
// be replayed against the page that produced them.
type SnapshotWriter struct {
	dir string
}

func NewSnapshotWriter(cfg *config.Config) *SnapshotWriter {
	return &SnapshotWriter{dir: cfg.Storage.SnapshotDir}
}

// Save writes the markup for a puzzle date and returns the file path.
func (w *SnapshotWriter) Save(date time.Time, html string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("wordle-review-%s.html", date.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}
