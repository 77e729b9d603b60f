package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/fortune/domain/entity"
)

const (
	// MaxNameLength は福主姓名の最大文字数（rune数）です。
	MaxNameLength = 50
)

// Analyzer は命盤分析と開運号碼を生成するAIゲートウェイを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Analyzer interface {
	// AnalyzePillars は四柱から偏財運の分析を生成します。
	AnalyzePillars(ctx context.Context, pillars bazi.FourPillars) (*entity.BaziAnalysis, error)
	// PickLuckyNumbers は四柱と攪珠候補日から開運号碼を生成します。
	PickLuckyNumbers(ctx context.Context, pillars bazi.FourPillars, candidates []bazi.DrawCandidate) (*entity.LuckyNumbers, error)
}

// ProfileRepository はプロフィールの永続化層を抽象化します。
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	// FindByID は存在しない場合ErrProfileNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Profile, error)
}

// Calendar は万年暦の計算を抽象化します（baziフィーチャーのCalendarUsecaseが実装）。
type Calendar interface {
	ConvertSolar(date, clock string) (bazi.Conversion, error)
	ValidateDayPillarOn(date string, claimed bazi.Pillar) (bazi.DayPillarCheck, error)
	UpcomingDrawDates(today time.Time) ([]bazi.DrawCandidate, error)
}

// OnboardInput は排盤リクエストの入力です。
type OnboardInput struct {
	Name       string
	Mode       entity.InputMode
	BirthDate  string // solarモードで必須
	BirthTime  string // solarモードで必須
	Pillars    bazi.FourPillars
	VerifyDate string // baziモードで任意
}

// fortuneUsecase は排盤から開運号碼までのユースケースを提供します。
type fortuneUsecase struct {
	calendar Calendar
	analyzer Analyzer
	profiles ProfileRepository
	now      func() time.Time
}

// NewFortuneUsecase はfortuneUsecaseの新しいインスタンスを生成します。
// nowは攪珠候補日の起点となる現在時刻を返します（nilの場合time.Now）。
func NewFortuneUsecase(cal Calendar, analyzer Analyzer, profiles ProfileRepository, now func() time.Time) *fortuneUsecase {
	if now == nil {
		now = time.Now
	}
	return &fortuneUsecase{calendar: cal, analyzer: analyzer, profiles: profiles, now: now}
}

// Onboard は入力から四柱を確定し、偏財運分析を付けてプロフィールを保存します。
func (u *fortuneUsecase) Onboard(ctx context.Context, in OnboardInput) (*entity.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: name exceeds maximum length of %d characters", ErrInvalidProfile, MaxNameLength)
	}

	p := &entity.Profile{Name: name, Mode: in.Mode}
	switch in.Mode {
	case entity.InputModeSolar:
		conv, err := u.calendar.ConvertSolar(in.BirthDate, in.BirthTime)
		if err != nil {
			return nil, fmt.Errorf("convert birth date: %w", err)
		}
		p.BirthDate, p.BirthTime = in.BirthDate, in.BirthTime
		p.Pillars, p.Precision = conv.Pillars, conv.Precision
	case entity.InputModeBazi:
		if err := checkPillars(in.Pillars); err != nil {
			return nil, err
		}
		if in.VerifyDate != "" {
			check, err := u.calendar.ValidateDayPillarOn(in.VerifyDate, in.Pillars.Day)
			if err != nil {
				return nil, fmt.Errorf("verify day pillar: %w", err)
			}
			if !check.Valid() {
				return nil, &DayPillarMismatchError{Date: in.VerifyDate, Claimed: check.Claimed, Expected: check.Expected}
			}
			if check.Status == bazi.CheckUnavailable {
				slog.Warn("日柱を検証できなかったため入力値をそのまま使用します", "date", in.VerifyDate, "day_pillar", in.Pillars.Day)
			}
		}
		p.BirthDate = in.VerifyDate
		p.Pillars, p.Precision = in.Pillars, bazi.PrecisionExact
	default:
		return nil, fmt.Errorf("%w: unknown input mode %q", ErrInvalidProfile, in.Mode)
	}

	analysis, err := u.analyzer.AnalyzePillars(ctx, p.Pillars)
	if err != nil {
		return nil, fmt.Errorf("%w: analyze %s: %w", ErrAnalysisFailed, name, err)
	}
	p.Analysis = *analysis

	if err := u.profiles.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	slog.Info("排盤が完了しました", "profile_id", p.ID, "mode", p.Mode, "precision", p.Precision)
	return p, nil
}

// GetProfile はIDでプロフィールを取得します。
func (u *fortuneUsecase) GetProfile(ctx context.Context, id uint) (*entity.Profile, error) {
	return u.profiles.FindByID(ctx, id)
}

// DrawLuckyNumbers は今後の攪珠候補日をもとに、プロフィールの四柱に合わせた開運号碼を生成します。
func (u *fortuneUsecase) DrawLuckyNumbers(ctx context.Context, profileID uint) (*entity.Fortune, error) {
	p, err := u.profiles.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	candidates, err := u.calendar.UpcomingDrawDates(u.now())
	if err != nil {
		return nil, fmt.Errorf("upcoming draw dates: %w", err)
	}

	ln, err := u.analyzer.PickLuckyNumbers(ctx, p.Pillars, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: lucky numbers for profile %d: %w", ErrAnalysisFailed, profileID, err)
	}
	if !ln.InRange() {
		return nil, fmt.Errorf("%w: %w: %v", ErrAnalysisFailed, ErrMalformedFortune, ln.Numbers)
	}
	return &entity.Fortune{LuckyNumbers: *ln, Candidates: candidates}, nil
}

// checkPillars は手入力の四柱がすべて六十甲子に含まれるか検証します。
func checkPillars(fp bazi.FourPillars) error {
	var errs []error
	for _, x := range []struct {
		label string
		p     bazi.Pillar
	}{
		{"年柱", fp.Year}, {"月柱", fp.Month}, {"日柱", fp.Day}, {"時柱", fp.Hour},
	} {
		if !x.p.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s [%s]", ErrInvalidPillar, x.label, x.p))
		}
	}
	return errors.Join(errs...)
}
