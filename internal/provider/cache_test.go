package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

func TestSnapshotCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, hit, err := cache.Read("weekly", 2023, 2023)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	frame := dataframe.New("player_id", "passing_yards")
	frame.Append(dataframe.Row{"player_id": "QB1", "passing_yards": 280})
	frame.Append(dataframe.Row{"player_id": "QB2", "passing_yards": nil})

	require.NoError(t, cache.Write("weekly", 2022, 2023, frame))

	loaded, hit, err := cache.Read("weekly", 2022, 2023)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, 2, loaded.Len())

	yards, ok := loaded.Rows()[0].Float("passing_yards")
	require.True(t, ok)
	assert.Equal(t, 280.0, yards)

	_, ok = loaded.Rows()[1].Float("passing_yards")
	assert.False(t, ok, "NULLs survive the snapshot round trip")

	// Ranges are distinct cache keys.
	_, hit, err = cache.Read("weekly", 2023, 2023)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestScheduleSourceFiltersSeasons(t *testing.T) {
	csv := "season,week,game_id\n" +
		"2022,1,2022_01_A_B\n" +
		"2023,1,2023_01_KAN_DET\n" +
		"2024,1,2024_01_C_D\n"

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(csv))
	}))
	defer server.Close()

	source := &ScheduleSource{
		URL:     server.URL,
		Fetcher: NewFetcher(5 * time.Second),
		Cache:   newTestCache(t),
	}
	ctx := context.Background()

	frame, err := source.Load(ctx, 2023, 2023, false)
	require.NoError(t, err)
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, "2023_01_KAN_DET", frame.Rows()[0].String("game_id"))

	// Second load hits the snapshot.
	_, err = source.Load(ctx, 2023, 2023, false)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestTeamSourceCachesUnderFixedName(t *testing.T) {
	csv := "team_abbr,team_name\nKAN,Kansas City Chiefs\n"

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(csv))
	}))
	defer server.Close()

	source := &TeamSource{
		URL:     server.URL,
		Fetcher: NewFetcher(5 * time.Second),
		Cache:   newTestCache(t),
	}
	ctx := context.Background()

	frame, err := source.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Len())

	_, err = source.Load(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)

	_, err = source.Load(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, requests, "force refresh bypasses the snapshot")
}
