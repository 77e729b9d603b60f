package entity

import (
	"time"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
)

// InputMode は命盤の入力方法です。
type InputMode string

const (
	// InputModeSolar は西暦の生年月日時から排盤するモードです。
	InputModeSolar InputMode = "solar"
	// InputModeBazi は八字四柱を直接入力するモードです。
	InputModeBazi InputMode = "bazi"
)

// Profile は排盤済みの福主（ユーザー）です。
type Profile struct {
	ID        uint
	Name      string
	Mode      InputMode
	BirthDate string // solar: 生年月日 / bazi: 校験日期（任意）
	BirthTime string
	Pillars   bazi.FourPillars
	Precision bazi.Precision
	Analysis  BaziAnalysis
	CreatedAt time.Time
}
