package board

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uocsclub.net/aocboard/internal/cache"
	"uocsclub.net/aocboard/internal/fetcher"
)

type fakeFetcher struct {
	calls int
	body  string
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, request fetcher.Request) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

const doc = `{"event":"2024","members":{"1":{"id":1,"name":"Ann","completion_day_level":{}}}}`

var creds = Credentials{Year: "2024", LeaderboardCode: "42", SessionToken: "token"}

func newService(f Fetcher) (*Service, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return NewService(f, cache.New(clock), nil), clock
}

func TestLoadUsesCacheWithinTTL(t *testing.T) {
	f := &fakeFetcher{body: doc}
	s, clock := newService(f)

	first, err := s.Load(context.Background(), creds)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, f.calls)

	clock.Advance(14 * time.Minute)
	second, err := s.Load(context.Background(), creds)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Same(t, first.Doc, second.Doc)
	assert.Equal(t, 1, f.calls)

	clock.Advance(time.Minute)
	third, err := s.Load(context.Background(), creds)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, clock.Now(), third.FetchedAt)

	stored, ok := s.Cached(creds)
	require.True(t, ok)
	assert.Same(t, third.Doc, stored.Doc)
}

func TestLoadDoesNotShareAcrossTokens(t *testing.T) {
	f := &fakeFetcher{body: doc}
	s, _ := newService(f)

	_, err := s.Load(context.Background(), creds)
	require.NoError(t, err)

	other := creds
	other.SessionToken = "someone-else"
	loaded, err := s.Load(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, loaded.FromCache)
	assert.Equal(t, 2, f.calls)
}

func TestLoadKeepsEachTokensEntry(t *testing.T) {
	f := &fakeFetcher{body: doc}
	s, clock := newService(f)

	other := creds
	other.SessionToken = "someone-else"

	first, err := s.Load(context.Background(), creds)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = s.Load(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)

	clock.Advance(time.Minute)
	again, err := s.Load(context.Background(), creds)
	require.NoError(t, err)
	assert.True(t, again.FromCache)
	assert.Same(t, first.Doc, again.Doc)
	assert.Equal(t, 2, f.calls)

	cached, ok := s.Cached(other)
	require.True(t, ok)
	assert.NotSame(t, first.Doc, cached.Doc)
}

func TestRefreshBypassesCache(t *testing.T) {
	f := &fakeFetcher{body: doc}
	s, _ := newService(f)

	_, err := s.Load(context.Background(), creds)
	require.NoError(t, err)
	_, err = s.Refresh(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestLoadValidation(t *testing.T) {
	f := &fakeFetcher{body: doc}
	s, _ := newService(f)

	_, err := s.Load(context.Background(), Credentials{Year: "2024", LeaderboardCode: "42"})
	var validationErr *fetcher.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Zero(t, f.calls)
}

func TestLoadErrorsAreNotCached(t *testing.T) {
	f := &fakeFetcher{err: &fetcher.UpstreamError{Status: http.StatusUnauthorized}}
	s, _ := newService(f)

	_, err := s.Load(context.Background(), creds)
	var upstreamErr *fetcher.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.Status)

	_, ok := s.Cached(creds)
	assert.False(t, ok)

	f.err = nil
	f.body = "not json"
	_, err = s.Load(context.Background(), creds)
	var transportErr *fetcher.TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 2, f.calls)
}

func TestLoadLogsDecodeFailures(t *testing.T) {
	var out bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&out, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	f := &fakeFetcher{body: "<html>login</html>"}
	s, _ := newService(f)

	_, err := s.Load(context.Background(), creds)
	require.Error(t, err)
	assert.Contains(t, out.String(), "level=WARN")
	assert.Contains(t, out.String(), "year=2024")
	assert.Contains(t, out.String(), "code=42")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := &fakeFetcher{body: doc}
	s := NewService(f, cache.New(clockwork.NewFakeClock()), reg)

	for range 3 {
		_, err := s.Load(context.Background(), creds)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.fetches.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.cacheLookup.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.cacheLookup.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.cacheSize))
}
