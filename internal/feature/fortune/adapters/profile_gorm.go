// Package adapters はfortuneフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/fortune/domain/entity"
	"bazi_backend/internal/feature/fortune/usecase"
)

// profileGorm はProfileRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteのどちらでも動作します。
type profileGorm struct {
	db *gorm.DB
}

// profileGormがProfileRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProfileRepository = (*profileGorm)(nil)

// NewProfileRepository は指定されたgorm.DB接続でprofileGormの新しいインスタンスを生成します。
func NewProfileRepository(db *gorm.DB) *profileGorm {
	return &profileGorm{db: db}
}

// ProfileModel はprofilesテーブルの行です。
type ProfileModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Mode      string `gorm:"size:16;not null"`
	BirthDate string `gorm:"size:10"`
	BirthTime string `gorm:"size:8"`

	YearPillar  string `gorm:"size:8;not null"`
	MonthPillar string `gorm:"size:8;not null"`
	DayPillar   string `gorm:"size:8;not null;index"`
	HourPillar  string `gorm:"size:8;not null"`
	Precision   string `gorm:"size:16;not null;default:exact"`

	ElementBalance  string `gorm:"type:text"`
	Summary         string `gorm:"type:text"`
	PianCaiStrength string `gorm:"size:32"`
	PianCaiAnalysis string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileModel) TableName() string {
	return "profiles"
}

func toModel(p *entity.Profile) ProfileModel {
	return ProfileModel{
		ID:              p.ID,
		Name:            p.Name,
		Mode:            string(p.Mode),
		BirthDate:       p.BirthDate,
		BirthTime:       p.BirthTime,
		YearPillar:      string(p.Pillars.Year),
		MonthPillar:     string(p.Pillars.Month),
		DayPillar:       string(p.Pillars.Day),
		HourPillar:      string(p.Pillars.Hour),
		Precision:       string(p.Precision),
		ElementBalance:  p.Analysis.ElementBalance,
		Summary:         p.Analysis.Summary,
		PianCaiStrength: p.Analysis.PianCaiStrength,
		PianCaiAnalysis: p.Analysis.PianCaiAnalysis,
	}
}

func toEntity(m ProfileModel) *entity.Profile {
	return &entity.Profile{
		ID:        m.ID,
		Name:      m.Name,
		Mode:      entity.InputMode(m.Mode),
		BirthDate: m.BirthDate,
		BirthTime: m.BirthTime,
		Pillars: bazi.FourPillars{
			Year:  bazi.Pillar(m.YearPillar),
			Month: bazi.Pillar(m.MonthPillar),
			Day:   bazi.Pillar(m.DayPillar),
			Hour:  bazi.Pillar(m.HourPillar),
		},
		Precision: bazi.Precision(m.Precision),
		Analysis: entity.BaziAnalysis{
			ElementBalance:  m.ElementBalance,
			Summary:         m.Summary,
			PianCaiStrength: m.PianCaiStrength,
			PianCaiAnalysis: m.PianCaiAnalysis,
		},
		CreatedAt: m.CreatedAt,
	}
}

// Create はプロフィールを保存し、採番されたIDと作成日時をpに反映します。
func (r *profileGorm) Create(ctx context.Context, p *entity.Profile) error {
	m := toModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	return nil
}

// FindByID はIDでプロフィールを取得します。
// 存在しない場合、usecase.ErrProfileNotFoundを返します。
func (r *profileGorm) FindByID(ctx context.Context, id uint) (*entity.Profile, error) {
	var m ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProfileNotFound
		}
		return nil, err
	}
	return toEntity(m), nil
}
