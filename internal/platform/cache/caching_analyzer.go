// Package cache provides caching implementations for the AI gateway.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/fortune/domain/entity"
	"bazi_backend/internal/feature/fortune/usecase"
)

// CachingAnalyzer decorates an Analyzer with Redis caching.
// Analyses are stable for a given chart and are kept for ttl. Lucky numbers
// depend on the upcoming draw dates, so they are keyed by the local date and
// expire at the next local midnight.
type CachingAnalyzer struct {
	inner     usecase.Analyzer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// CachingAnalyzerがAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.Analyzer = (*CachingAnalyzer)(nil)

// NewCachingAnalyzer decorates an Analyzer with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "bazi".
// now determines the local date for lucky number keys; nil means time.Now.
func NewCachingAnalyzer(rdb *redis.Client, ttl time.Duration, inner usecase.Analyzer, namespace string, now func() time.Time) *CachingAnalyzer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if namespace == "" {
		namespace = "bazi"
	}
	if now == nil {
		now = time.Now
	}
	return &CachingAnalyzer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       now,
	}
}

// AnalyzePillars returns the cached analysis for the chart, falling back to the inner analyzer.
func (c *CachingAnalyzer) AnalyzePillars(ctx context.Context, pillars bazi.FourPillars) (*entity.BaziAnalysis, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.AnalyzePillars(ctx, pillars)
	}

	key := c.analysisKey(pillars)
	var cached entity.BaziAnalysis
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.AnalyzePillars(ctx, pillars)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out, c.ttl)
	return out, nil
}

// PickLuckyNumbers returns today's cached lucky numbers for the chart, falling back to the inner analyzer.
// Results that break the number contract are not cached.
func (c *CachingAnalyzer) PickLuckyNumbers(ctx context.Context, pillars bazi.FourPillars, candidates []bazi.DrawCandidate) (*entity.LuckyNumbers, error) {
	if c.rdb == nil {
		return c.inner.PickLuckyNumbers(ctx, pillars, candidates)
	}

	now := c.now()
	key := c.luckyNumbersKey(now, pillars)
	var cached entity.LuckyNumbers
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.PickLuckyNumbers(ctx, pillars, candidates)
	if err != nil {
		return nil, err
	}
	if out.InRange() {
		c.store(ctx, key, out, TimeUntilNextMidnight(now))
	}
	return out, nil
}

// load reads key into dst. Corrupted entries are deleted.
func (c *CachingAnalyzer) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key (best effort).
func (c *CachingAnalyzer) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, ttl).Err()
	}
}

// analysisKey generates a cache key for a chart analysis.
func (c *CachingAnalyzer) analysisKey(p bazi.FourPillars) string {
	return fmt.Sprintf("%s:analysis:%s", c.namespace, pillarsKey(p))
}

// luckyNumbersKey generates a cache key for a chart's lucky numbers on the local date of now.
func (c *CachingAnalyzer) luckyNumbersKey(now time.Time, p bazi.FourPillars) string {
	return fmt.Sprintf("%s:lucky:%s:%s", c.namespace, now.Format(bazi.DateLayout), pillarsKey(p))
}

func pillarsKey(p bazi.FourPillars) string {
	return strings.Join([]string{safe(p.Year.String()), safe(p.Month.String()), safe(p.Day.String()), safe(p.Hour.String())}, ":")
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
