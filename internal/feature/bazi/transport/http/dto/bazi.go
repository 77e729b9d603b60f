// Package dto はbaziフィーチャーのリクエスト/レスポンスDTOを定義します。
package dto

import "bazi_backend/internal/feature/bazi/domain/entity"

// ConvertRequest は公暦→四柱変換のリクエストDTOです。
type ConvertRequest struct {
	Date string `json:"date" binding:"required"` // 2006-01-02
	Time string `json:"time" binding:"required"` // 15:04
}

// PillarsResponse は四柱のレスポンスDTOです。
type PillarsResponse struct {
	YearPillar  string `json:"year_pillar"`
	MonthPillar string `json:"month_pillar"`
	DayPillar   string `json:"day_pillar"`
	HourPillar  string `json:"hour_pillar"`
}

// NewPillarsResponse はentity.FourPillarsからDTOを生成します。
func NewPillarsResponse(fp entity.FourPillars) PillarsResponse {
	return PillarsResponse{
		YearPillar:  string(fp.Year),
		MonthPillar: string(fp.Month),
		DayPillar:   string(fp.Day),
		HourPillar:  string(fp.Hour),
	}
}

// ConvertResponse は変換結果のレスポンスDTOです。
type ConvertResponse struct {
	Pillars   PillarsResponse `json:"pillars"`
	Precision string          `json:"precision"` // exact / degraded
	Sect      int             `json:"sect"`
}

// ValidateRequest は日柱チェックのリクエストDTOです。
type ValidateRequest struct {
	Date      string `json:"date" binding:"required"`
	DayPillar string `json:"day_pillar" binding:"required"`
}

// ValidateResponse は日柱チェックのレスポンスDTOです。
type ValidateResponse struct {
	Status   string `json:"status"` // confirmed / mismatch / unavailable
	Valid    bool   `json:"valid"`
	Claimed  string `json:"claimed"`
	Expected string `json:"expected,omitempty"`
}

// DrawCandidateResponse は攪珠候補日のレスポンスDTOです。
type DrawCandidateResponse struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	DayPillar string `json:"day_pillar"`
}

// NewDrawCandidateResponses はentity.DrawCandidateのスライスをDTOに変換します。
func NewDrawCandidateResponses(cs []entity.DrawCandidate) []DrawCandidateResponse {
	out := make([]DrawCandidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, DrawCandidateResponse{
			Date:      c.Date,
			DayOfWeek: c.DayOfWeek,
			DayPillar: string(c.DayPillar),
		})
	}
	return out
}
