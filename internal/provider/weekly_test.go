package provider

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

const weeklyCSV = "player_id,recent_team,week\nQB1,KAN,1\nQB2,DET,1\n"

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// stubProvider is a canned chain adapter for exercising fallback order.
type stubProvider struct {
	name  string
	frame *dataframe.Frame
	fail  *Failure
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchWeekly(ctx context.Context, season int) (*dataframe.Frame, *Failure) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	return s.frame, nil
}

func stubFrame() *dataframe.Frame {
	frame := dataframe.New("player_id", "recent_team", "week")
	frame.Append(dataframe.Row{"player_id": "QB1", "recent_team": "KAN", "week": 1})
	return frame
}

func newTestCache(t *testing.T) *SnapshotCache {
	t.Helper()
	cache, err := NewSnapshotCache(t.TempDir())
	require.NoError(t, err)
	return cache
}

func TestWeeklyChainFallsThroughFailedProviders(t *testing.T) {
	primary := &stubProvider{name: "primary", fail: &Failure{Source: "primary", Reason: "boom"}}
	secondary := &stubProvider{name: "secondary", frame: stubFrame()}

	chain := NewWeeklyChain(newTestCache(t), nil, primary, secondary)
	frame, err := chain.Load(context.Background(), 2023, 2023, false)
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	require.Equal(t, 1, frame.Len())

	// The chain synthesizes a season column when the feed omits one.
	season, ok := frame.Rows()[0].Int("season")
	require.True(t, ok)
	assert.Equal(t, 2023, season)
}

func TestWeeklyChainSnapshotCache(t *testing.T) {
	primary := &stubProvider{name: "primary", frame: stubFrame()}
	chain := NewWeeklyChain(newTestCache(t), nil, primary)
	ctx := context.Background()

	_, err := chain.Load(ctx, 2023, 2023, false)
	require.NoError(t, err)
	require.Equal(t, 1, primary.calls)

	// A second load is served from the snapshot.
	cached, err := chain.Load(ctx, 2023, 2023, false)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, cached.Len())

	// Forcing a refresh bypasses it.
	_, err = chain.Load(ctx, 2023, 2023, true)
	require.NoError(t, err)
	assert.Equal(t, 2, primary.calls)
}

func TestWeeklyChainAggregatesFailures(t *testing.T) {
	first := &stubProvider{name: "first", fail: &Failure{Source: "first", Reason: "timeout"}}
	second := &stubProvider{name: "second", fail: &Failure{Source: "second", Reason: "mirror not configured"}}

	chain := NewWeeklyChain(newTestCache(t), nil, first, second)
	_, err := chain.Load(context.Background(), 2023, 2023, false)
	require.Error(t, err)

	var chainErr *ChainError
	require.ErrorAs(t, err, &chainErr)
	assert.Equal(t, 2023, chainErr.Season)
	require.Len(t, chainErr.Failures, 2)
	assert.Contains(t, err.Error(), "no weekly data sources succeeded for season=2023")
	assert.Contains(t, err.Error(), "first: timeout")
	assert.Contains(t, err.Error(), "second: mirror not configured")
}

func TestReleaseProviderFetchesSeasonAsset(t *testing.T) {
	payload := gzipBytes(t, weeklyCSV)
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write(payload)
	}))
	defer server.Close()

	p := &ReleaseProvider{BaseURL: server.URL, Fetcher: NewFetcher(5 * time.Second)}
	frame, failure := p.FetchWeekly(context.Background(), 2023)
	require.Nil(t, failure)

	assert.Equal(t, "/player_stats_2023.csv.gz", requested)
	assert.Equal(t, 2, frame.Len())
}

func TestReleaseProviderReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := &ReleaseProvider{BaseURL: server.URL, Fetcher: NewFetcher(5 * time.Second)}
	_, failure := p.FetchWeekly(context.Background(), 2023)
	require.NotNil(t, failure)
	assert.Equal(t, "nflverse-release", failure.Source)
	assert.Contains(t, failure.Reason, "status 404")
}

func TestMirrorProviderUnconfigured(t *testing.T) {
	p := &MirrorProvider{BaseURL: "", Fetcher: NewFetcher(5 * time.Second)}
	_, failure := p.FetchWeekly(context.Background(), 2023)
	require.NotNil(t, failure)
	assert.Equal(t, "stats-mirror", failure.Source)
	assert.Equal(t, "mirror not configured", failure.Reason)
}

func TestReleaseFallbackProviderTriesCurrentAsset(t *testing.T) {
	payload := gzipBytes(t, weeklyCSV)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/player_stats_current.csv.gz" {
			w.Write(payload)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := &ReleaseFallbackProvider{
		BaseURL: server.URL,
		Fetcher: NewFetcher(5 * time.Second),
		Now:     func() time.Time { return time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC) },
	}

	frame, failure := p.FetchWeekly(context.Background(), 2023)
	require.Nil(t, failure)
	assert.Equal(t, 2, frame.Len())
}

func TestReleaseFallbackProviderSkipsCurrentForPastSeasons(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := &ReleaseFallbackProvider{
		BaseURL: server.URL,
		Fetcher: NewFetcher(5 * time.Second),
		Now:     func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	_, failure := p.FetchWeekly(context.Background(), 2019)
	require.NotNil(t, failure)
	assert.Equal(t, []string{"/player_stats_2019.csv.gz"}, paths)
	assert.Contains(t, failure.Reason, "release fallback failed")
}
