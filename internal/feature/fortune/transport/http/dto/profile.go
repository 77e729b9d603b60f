// Package dto はfortuneフィーチャーのリクエスト/レスポンスDTOを定義します。
package dto

import (
	"time"

	baziDto "bazi_backend/internal/feature/bazi/transport/http/dto"
	"bazi_backend/internal/feature/fortune/domain/entity"
)

// OnboardRequest は排盤（プロフィール作成）のリクエストDTOです。
// mode=solarではbirth_date/birth_time、mode=baziではpillarsを使用します。
type OnboardRequest struct {
	Name       string                   `json:"name" binding:"required"`
	Mode       string                   `json:"mode" binding:"required,oneof=solar bazi"`
	BirthDate  string                   `json:"birth_date"`
	BirthTime  string                   `json:"birth_time"`
	Pillars    *baziDto.PillarsResponse `json:"pillars"`
	VerifyDate string                   `json:"verify_date"`
}

// AnalysisResponse は偏財運分析のレスポンスDTOです。
type AnalysisResponse struct {
	ElementBalance  string `json:"element_balance"`
	Summary         string `json:"summary"`
	PianCaiStrength string `json:"pian_cai_strength"`
	PianCaiAnalysis string `json:"pian_cai_analysis"`
}

// ProfileResponse はプロフィールのレスポンスDTOです。
type ProfileResponse struct {
	ID        uint                    `json:"id"`
	Name      string                  `json:"name"`
	Mode      string                  `json:"mode"`
	BirthDate string                  `json:"birth_date,omitempty"`
	BirthTime string                  `json:"birth_time,omitempty"`
	Pillars   baziDto.PillarsResponse `json:"pillars"`
	Precision string                  `json:"precision"`
	Analysis  AnalysisResponse        `json:"analysis"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewProfileResponse はentity.ProfileからDTOを生成します。
func NewProfileResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Mode:      string(p.Mode),
		BirthDate: p.BirthDate,
		BirthTime: p.BirthTime,
		Pillars:   baziDto.NewPillarsResponse(p.Pillars),
		Precision: string(p.Precision),
		Analysis: AnalysisResponse{
			ElementBalance:  p.Analysis.ElementBalance,
			Summary:         p.Analysis.Summary,
			PianCaiStrength: p.Analysis.PianCaiStrength,
			PianCaiAnalysis: p.Analysis.PianCaiAnalysis,
		},
		CreatedAt: p.CreatedAt,
	}
}

// FortuneResponse は開運号碼のレスポンスDTOです。
type FortuneResponse struct {
	Numbers        []int                           `json:"numbers"`
	BettingTime    string                          `json:"betting_time"`
	AuspiciousDate string                          `json:"auspicious_date"`
	Explanation    string                          `json:"explanation"`
	Candidates     []baziDto.DrawCandidateResponse `json:"candidates"`
}

// NewFortuneResponse はentity.FortuneからDTOを生成します。
func NewFortuneResponse(f *entity.Fortune) FortuneResponse {
	return FortuneResponse{
		Numbers:        f.Numbers,
		BettingTime:    f.BettingTime,
		AuspiciousDate: f.AuspiciousDate,
		Explanation:    f.Explanation,
		Candidates:     baziDto.NewDrawCandidateResponses(f.Candidates),
	}
}
