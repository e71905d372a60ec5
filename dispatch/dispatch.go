// Package dispatch assigns providers to maintenance requests: it loads the
// provider file, consults the optional match cache and runs the matcher.
package dispatch

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"maintenance-dispatch/cache"
	"maintenance-dispatch/geohash"
	"maintenance-dispatch/loader"
	"maintenance-dispatch/matching"
	"maintenance-dispatch/models"
)

// Options describes one assignment run.
type Options struct {
	Source           string
	Request          models.Request
	RadiusKm         float64 // <= 0: unlimited
	Limit            int     // list mode only; <= 0: unlimited
	List             bool
	Technique        geohash.GeoIndexingTechnique
	GeohashPrecision uint
}

// Result is the outcome of a run. Matches holds at most one entry unless
// Options.List is set; it is empty when no provider matched.
type Result struct {
	Matches   []models.Match `json:"matches"`
	Loaded    int            `json:"loaded"`
	Skipped   int            `json:"skipped"`
	Failures  []SkippedRow   `json:"failures,omitempty"`
	FromCache bool           `json:"-"`
}

// SkippedRow is a source row dropped by the loader.
type SkippedRow struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Service runs assignments. Cache may be nil.
type Service struct {
	Cache        cache.Store
	CacheTTL     time.Duration
	CacheTimeout time.Duration
	Logger       *zap.Logger
}

func NewService(store cache.Store, ttl, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Cache: store, CacheTTL: ttl, CacheTimeout: timeout, Logger: logger}
}

// Assign loads opts.Source and matches opts.Request against it. File-level
// load errors are returned; rows that fail conversion are logged and counted.
func (s *Service) Assign(ctx context.Context, opts Options) (*Result, error) {
	s.Logger.Debug("assignment requested",
		zap.String("source", opts.Source),
		zap.String("trade", opts.Request.Trade),
		zap.Float64("latitude", opts.Request.Latitude),
		zap.Float64("longitude", opts.Request.Longitude),
		zap.Bool("urgent", opts.Request.Urgent),
		zap.Float64("radius_km", opts.RadiusKm),
	)

	key := s.cacheKey(opts)
	if cached, ok := s.lookup(ctx, key); ok {
		s.warnSkipped(cached.Failures)
		return cached, nil
	}

	report, err := loader.Load(opts.Source, loader.WithGeohashPrecision(opts.GeohashPrecision))
	if err != nil {
		return nil, err
	}
	result := &Result{Loaded: len(report.Providers), Skipped: report.Skipped()}
	for _, f := range report.Failures() {
		result.Failures = append(result.Failures, SkippedRow{Row: f.Row, Error: f.Err.Error()})
	}
	s.warnSkipped(result.Failures)

	m, err := matching.NewMatcher(report.Providers, opts.Technique)
	if err != nil {
		return nil, err
	}

	if opts.List {
		result.Matches = m.Nearby(opts.Request, opts.RadiusKm, opts.Limit)
	} else if best, ok := m.Best(opts.Request, opts.RadiusKm); ok {
		result.Matches = []models.Match{best}
	}
	s.Logger.Debug("assignment computed",
		zap.Int("loaded", result.Loaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("matches", len(result.Matches)),
	)

	s.store(ctx, key, result)
	return result, nil
}

func (s *Service) warnSkipped(rows []SkippedRow) {
	for _, r := range rows {
		s.Logger.Warn("skipping provider record", zap.Int("row", r.Row), zap.String("error", r.Error))
	}
}

// cacheKey returns "" when caching is off or the source cannot be stat'ed;
// the load reports the latter.
func (s *Service) cacheKey(opts Options) string {
	if s.Cache == nil {
		return ""
	}
	info, err := os.Stat(opts.Source)
	if err != nil {
		return ""
	}
	return cache.MatchKey(opts.Source, info.Size(), info.ModTime(), opts.Request, opts.RadiusKm, opts.Limit, opts.List)
}

func (s *Service) lookup(ctx context.Context, key string) (*Result, bool) {
	if key == "" {
		return nil, false
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	val, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("match cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		s.Logger.Debug("match cache miss", zap.String("key", key))
		return nil, false
	}

	var result Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		s.Logger.Warn("discarding unreadable cached match", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	result.FromCache = true
	s.Logger.Debug("match cache hit", zap.String("key", key))
	return &result, true
}

func (s *Service) store(ctx context.Context, key string, result *Result) {
	if key == "" {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.Logger.Warn("failed to encode match for cache", zap.Error(err))
		return
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.Cache.Set(ctx, key, string(data), s.CacheTTL); err != nil {
		s.Logger.Warn("failed to cache match", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.CacheTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.CacheTimeout)
}
