// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Check は依存サービスの疎通確認関数です（DB、Redisなど）。
type Check func(ctx context.Context) error

// HealthHandler は /healthz エンドポイントを処理します。
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthHandler はHealthHandlerの新しいインスタンスを生成します。
// checksが空の場合はプロセスの生存のみを返します。
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// GETでは各依存サービスの状態を返し、いずれかが失敗した場合は503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		failed  bool
		results = make(map[string]string, len(h.checks))
	)
	// 各チェックは並行に実行し、1つの失敗で他を打ち切らない
	var eg errgroup.Group
	for name, check := range h.checks {
		eg.Go(func() error {
			state := "ok"
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)
				state = "unavailable"
			}
			mu.Lock()
			defer mu.Unlock()
			results[name] = state
			failed = failed || state != "ok"
			return nil
		})
	}
	_ = eg.Wait()

	status, code := "ok", http.StatusOK
	if failed {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": results})
}
