package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// TeamSource loads the team metadata feed (code, name, conference,
// division). Unlike season-ranged snapshots it caches under a fixed name.
type TeamSource struct {
	URL     string
	Fetcher *Fetcher
	Cache   *SnapshotCache
}

const teamCacheName = "team_desc"

// Load returns the team metadata frame.
func (s *TeamSource) Load(ctx context.Context, forceRefresh bool) (*dataframe.Frame, error) {
	path := s.Cache.FilePath(teamCacheName)
	if !forceRefresh {
		if data, err := os.ReadFile(path); err == nil {
			return dataframe.Decode(data)
		}
	}

	data, err := s.Fetcher.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching team metadata: %w", err)
	}
	frame, err := dataframe.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding team metadata: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating team snapshot: %w", err)
	}
	defer file.Close()
	if err := dataframe.WriteCSV(file, frame); err != nil {
		return nil, fmt.Errorf("writing team snapshot: %w", err)
	}
	return frame, nil
}
