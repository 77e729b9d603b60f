// Package router はHTTPルーティングを定義します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	bazihandler "bazi_backend/internal/feature/bazi/transport/handler"
	fortunehandler "bazi_backend/internal/feature/fortune/transport/handler"
	"bazi_backend/internal/platform/http/handler"
)

// NewRouter はすべてのエンドポイントを登録したgin.Engineを生成します。
// allowedOriginsが"*"のみの場合はすべてのオリジンを許可します。
func NewRouter(health *handler.HealthHandler, bazi *bazihandler.BaziHandler,
	profiles *fortunehandler.ProfileHandler, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	// Webフロントエンドからの呼び出し用
	r.Use(cors.New(corsConfig(allowedOrigins)))

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	v1 := r.Group("/v1")
	{
		// 万年暦（AI不要）
		v1.POST("/bazi/convert", bazi.Convert)
		v1.POST("/bazi/validate", bazi.Validate)
		v1.GET("/bazi/draw-dates", bazi.DrawDates)

		// 排盤と開運号碼
		v1.POST("/profiles", profiles.Onboard)
		v1.GET("/profiles/:id", profiles.Get)
		v1.POST("/profiles/:id/fortune", profiles.Fortune)
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}
