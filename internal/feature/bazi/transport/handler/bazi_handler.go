// Package handler はbaziフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazi_backend/internal/api"
	"bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/bazi/transport/http/dto"
	"bazi_backend/internal/feature/bazi/usecase"
)

// CalendarUsecase は万年暦のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CalendarUsecase interface {
	ConvertSolar(date, clock string) (entity.Conversion, error)
	ValidateDayPillarOn(date string, claimed entity.Pillar) (entity.DayPillarCheck, error)
	UpcomingDrawDates(today time.Time) ([]entity.DrawCandidate, error)
	Sect() entity.Sect
}

// BaziHandler は四柱変換・日柱チェック・攪珠候補日のHTTPリクエストを処理します。
type BaziHandler struct {
	uc  CalendarUsecase
	now func() time.Time
}

// NewBaziHandler はBaziHandlerの新しいインスタンスを生成します。
// nowは攪珠候補日の起点となる現在時刻（タイムゾーン込み）を返す関数です。
func NewBaziHandler(uc CalendarUsecase, now func() time.Time) *BaziHandler {
	if now == nil {
		now = time.Now
	}
	return &BaziHandler{uc: uc, now: now}
}

// Convert は公暦の生年月日時を四柱に変換します。
//
// エンドポイント: POST /v1/bazi/convert
func (h *BaziHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("変換リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "日付と時刻が必要です"})
		return
	}

	conv, err := h.uc.ConvertSolar(req.Date, req.Time)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "日付または時刻の形式が正しくありません"})
			return
		}
		slog.Error("四柱の算出に失敗", "error", err, "date", req.Date, "time", req.Time)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "万年暦の計算に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Pillars:   dto.NewPillarsResponse(conv.Pillars),
		Precision: string(conv.Precision),
		Sect:      int(h.uc.Sect()),
	})
}

// Validate は日付に対して入力された日柱が正しいかをチェックします。
// 検証できなかった場合もvalid=trueを返し、statusで区別できるようにします。
//
// エンドポイント: POST /v1/bazi/validate
func (h *BaziHandler) Validate(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "日付と日柱が必要です"})
		return
	}

	check, err := h.uc.ValidateDayPillarOn(req.Date, entity.Pillar(req.DayPillar))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "日付の形式が正しくないか、対応範囲（1900〜2100年）外です"})
		return
	}

	c.JSON(http.StatusOK, dto.ValidateResponse{
		Status:   string(check.Status),
		Valid:    check.Valid(),
		Claimed:  string(check.Claimed),
		Expected: string(check.Expected),
	})
}

// DrawDates は今後7日間の攪珠候補日とその日柱を返します。
//
// エンドポイント: GET /v1/bazi/draw-dates
func (h *BaziHandler) DrawDates(c *gin.Context) {
	cs, err := h.uc.UpcomingDrawDates(h.now())
	if err != nil {
		slog.Error("攪珠候補日の生成に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "攪珠候補日の計算に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, dto.NewDrawCandidateResponses(cs))
}
