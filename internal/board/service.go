package board

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"uocsclub.net/aocboard/internal/cache"
	"uocsclub.net/aocboard/internal/fetcher"
	"uocsclub.net/aocboard/internal/types"
)

// Fetcher is the upstream leaderboard source.
type Fetcher interface {
	Fetch(ctx context.Context, request fetcher.Request) ([]byte, error)
}

type Credentials = fetcher.Request

type Loaded struct {
	Doc       *types.Leaderboard
	FetchedAt time.Time
	FromCache bool
}

type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
	metrics *Metrics
}

func NewService(f Fetcher, c *cache.Cache, reg prometheus.Registerer) *Service {
	return &Service{
		fetcher: f,
		cache:   c,
		metrics: NewMetrics(reg, c.Len),
	}
}

// Load returns the leaderboard for the credentials, reusing a cached copy
// fetched with the same token in the last 15 minutes.
func (s *Service) Load(ctx context.Context, creds Credentials) (*Loaded, error) {
	creds = creds.Trimmed()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(creds)
	if entry, ok := s.cache.Fresh(key); ok {
		s.metrics.lookup("hit")
		return &Loaded{Doc: entry.Data, FetchedAt: entry.FetchedAt, FromCache: true}, nil
	}
	s.metrics.lookup("miss")

	return s.fetch(ctx, key, creds)
}

// Refresh ignores the cache and overwrites it with a new fetch.
func (s *Service) Refresh(ctx context.Context, creds Credentials) (*Loaded, error) {
	creds = creds.Trimmed()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return s.fetch(ctx, cacheKey(creds), creds)
}

// Cached returns whatever was last fetched with the credentials, regardless of age.
func (s *Service) Cached(creds Credentials) (*Loaded, bool) {
	entry, ok := s.cache.Get(cacheKey(creds.Trimmed()))
	if !ok {
		return nil, false
	}
	return &Loaded{Doc: entry.Data, FetchedAt: entry.FetchedAt, FromCache: true}, true
}

func (s *Service) fetch(ctx context.Context, key string, creds Credentials) (*Loaded, error) {
	body, err := s.fetcher.Fetch(ctx, creds)
	if err != nil {
		s.metrics.fetched(outcome(err))
		slog.Warn("Leaderboard fetch failed",
			slog.String("year", creds.Year),
			slog.String("code", creds.LeaderboardCode),
			slog.String("error", err.Error()))
		return nil, err
	}

	doc, err := fetcher.Decode(body)
	if err != nil {
		s.metrics.fetched("decode_error")
		slog.Warn("Leaderboard response was not valid JSON",
			slog.String("year", creds.Year),
			slog.String("code", creds.LeaderboardCode),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.fetched("ok")

	entry := s.cache.Put(key, doc)
	slog.Info("Fetched leaderboard",
		slog.String("year", creds.Year),
		slog.String("code", creds.LeaderboardCode),
		slog.Int("members", len(doc.Members)))

	return &Loaded{Doc: doc, FetchedAt: entry.FetchedAt}, nil
}

func outcome(err error) string {
	var upstreamErr *fetcher.UpstreamError
	if errors.As(err, &upstreamErr) {
		return "status_" + strconv.Itoa(upstreamErr.Status)
	}
	return "transport_error"
}

func cacheKey(creds Credentials) string {
	return cache.Key(creds.Year, creds.LeaderboardCode, fingerprint(creds.SessionToken))
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
