package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// SnapshotCache persists provider responses as CSV files keyed by
// (kind, season_start, season_end). A hit skips provider calls entirely
// unless the caller forces a refresh.
type SnapshotCache struct {
	dir string
}

// NewSnapshotCache creates the cache directory if needed.
func NewSnapshotCache(dir string) (*SnapshotCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return &SnapshotCache{dir: dir}, nil
}

// Path returns the snapshot file path for a kind and season range.
func (c *SnapshotCache) Path(kind string, seasonStart, seasonEnd int) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%d_%d.csv", kind, seasonStart, seasonEnd))
}

// FilePath returns the path for a snapshot without a season range.
func (c *SnapshotCache) FilePath(name string) string {
	return filepath.Join(c.dir, name+".csv")
}

// Read loads a cached frame. The bool result is false on a miss.
func (c *SnapshotCache) Read(kind string, seasonStart, seasonEnd int) (*dataframe.Frame, bool, error) {
	path := c.Path(kind, seasonStart, seasonEnd)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	frame, err := dataframe.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return frame, true, nil
}

// Write stores a frame, replacing any previous snapshot.
func (c *SnapshotCache) Write(kind string, seasonStart, seasonEnd int, frame *dataframe.Frame) error {
	path := c.Path(kind, seasonStart, seasonEnd)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	defer file.Close()

	if err := dataframe.WriteCSV(file, frame); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}
