// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"bazi_backend/internal/config"
	"bazi_backend/internal/feature/fortune/adapters/gemini"
	"bazi_backend/internal/feature/fortune/usecase"
	"bazi_backend/internal/platform/cache"
	infrahttp "bazi_backend/internal/platform/http"
	"bazi_backend/internal/shared/ratelimiter"
)

// NewAnalyzer creates the Gemini-backed Analyzer with rate limiting and Redis caching.
// If rdb is nil, the cache is bypassed.
func NewAnalyzer(ctx context.Context, cfg *config.Config, rdb *redis.Client, now func() time.Time) (usecase.Analyzer, error) {
	limiter := ratelimiter.NewRateLimiter(cfg.GeminiRPM, time.Minute)
	g, err := gemini.NewGeminiAnalyzer(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: infrahttp.NewHTTPClient(cfg.GeminiTimeout),
	}, limiter)
	if err != nil {
		return nil, err
	}
	return cache.NewCachingAnalyzer(rdb, cfg.AnalysisCacheTTL, g, "bazi", now), nil
}
