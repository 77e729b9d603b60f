// Package handler はfortuneフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazi_backend/internal/api"
	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	baziusecase "bazi_backend/internal/feature/bazi/usecase"
	"bazi_backend/internal/feature/fortune/domain/entity"
	"bazi_backend/internal/feature/fortune/transport/http/dto"
	"bazi_backend/internal/feature/fortune/usecase"
)

// FortuneUsecase は排盤と開運号碼のユースケースインターフェースを定義します。
type FortuneUsecase interface {
	Onboard(ctx context.Context, in usecase.OnboardInput) (*entity.Profile, error)
	GetProfile(ctx context.Context, id uint) (*entity.Profile, error)
	DrawLuckyNumbers(ctx context.Context, profileID uint) (*entity.Fortune, error)
}

// ProfileHandler はプロフィールと開運号碼のHTTPリクエストを処理します。
type ProfileHandler struct {
	uc FortuneUsecase
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(uc FortuneUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Onboard は入力から命盤を確定し、偏財運分析付きのプロフィールを作成します。
//
// エンドポイント: POST /v1/profiles
func (h *ProfileHandler) Onboard(c *gin.Context) {
	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("排盤リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "氏名と入力モード（solar/bazi）が必要です"})
		return
	}

	in := usecase.OnboardInput{
		Name:       req.Name,
		Mode:       entity.InputMode(req.Mode),
		BirthDate:  req.BirthDate,
		BirthTime:  req.BirthTime,
		VerifyDate: req.VerifyDate,
	}
	if req.Pillars != nil {
		in.Pillars = bazi.FourPillars{
			Year:  bazi.Pillar(req.Pillars.YearPillar),
			Month: bazi.Pillar(req.Pillars.MonthPillar),
			Day:   bazi.Pillar(req.Pillars.DayPillar),
			Hour:  bazi.Pillar(req.Pillars.HourPillar),
		}
	}

	p, err := h.uc.Onboard(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProfileResponse(p))
}

// Get はIDでプロフィールを返します。
//
// エンドポイント: GET /v1/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.uc.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(p))
}

// Fortune はプロフィールの四柱と今後の攪珠候補日から開運号碼を生成します。
//
// エンドポイント: POST /v1/profiles/:id/fortune
func (h *ProfileHandler) Fortune(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, err := h.uc.DrawLuckyNumbers(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFortuneResponse(f))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "プロフィールIDが正しくありません"})
		return 0, false
	}
	return uint(id), true
}

// writeError はユースケースのエラーをHTTPステータスに対応付けて返します。
func (h *ProfileHandler) writeError(c *gin.Context, err error) {
	var mismatch *usecase.DayPillarMismatchError
	switch {
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{
			Error: fmt.Sprintf("選択した日付と入力された日柱 [%s] が一致しません", mismatch.Claimed),
		})
	case errors.Is(err, usecase.ErrDayPillarMismatch):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "選択した日付と入力された日柱が一致しません"})
	case errors.Is(err, usecase.ErrInvalidPillar):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "四柱は六十甲子の干支で入力してください"})
	case errors.Is(err, usecase.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("氏名は1〜%d文字で入力してください", usecase.MaxNameLength)})
	case errors.Is(err, baziusecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "日付または時刻の形式が正しくありません"})
	case errors.Is(err, usecase.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "プロフィールが見つかりません"})
	case errors.Is(err, usecase.ErrAnalysisFailed):
		slog.Error("AI分析に失敗", "error", err, "path", c.FullPath())
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "命盤分析サービスの呼び出しに失敗しました"})
	default:
		slog.Error("リクエストの処理に失敗", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "内部サーバーエラー"})
	}
}
