package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bazi_backend/internal/feature/bazi/domain/entity"
)

const (
	// MinYear / MaxYear は万年暦データの実用範囲です。
	MinYear = 1900
	MaxYear = 2100
)

// PillarCalculator は万年暦ライブラリによる干支計算を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PillarCalculator interface {
	// EightChar は指定日時の八字を流派に従って算出します。
	EightChar(dt entity.SolarDateTime, sect entity.Sect) (entity.FourPillars, error)
	// LunarGanZhi は農暦表現（節気基準の年月・流派に従う日）から干支を算出します。
	LunarGanZhi(dt entity.SolarDateTime, sect entity.Sect) (entity.FourPillars, error)
}

// CalendarUsecase は公暦→四柱変換、日柱チェック、攪珠候補日の生成を提供します。
// 状態を持たないため複数goroutineから同時に呼び出せます。
type CalendarUsecase struct {
	calc     PillarCalculator
	sect     entity.Sect
	schedule entity.DrawSchedule
}

// NewCalendarUsecase はCalendarUsecaseの新しいインスタンスを生成します。
// sectが不正な場合は流派2、scheduleが空の場合はデフォルトの攪珠スケジュールを使用します。
func NewCalendarUsecase(calc PillarCalculator, sect entity.Sect, schedule entity.DrawSchedule) *CalendarUsecase {
	if !sect.Valid() {
		sect = entity.DefaultSect
	}
	def := entity.DefaultDrawSchedule()
	if len(schedule.Weekdays) == 0 {
		schedule.Weekdays = def.Weekdays
	}
	if schedule.Horizon <= 0 {
		schedule.Horizon = def.Horizon
	}
	return &CalendarUsecase{calc: calc, sect: sect, schedule: schedule}
}

// Sect は使用中の流派を返します。
func (u *CalendarUsecase) Sect() entity.Sect { return u.sect }

// ConvertSolar は "2006-01-02" と "15:04" の文字列から四柱を算出します。
func (u *CalendarUsecase) ConvertSolar(date, clock string) (entity.Conversion, error) {
	dt, err := entity.ParseSolarDateTime(date, clock)
	if err != nil {
		return entity.Conversion{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return u.Convert(dt)
}

// Convert は公暦日時を四柱に変換します。
//
// 通常計算が失敗した場合や時柱が欠けた場合は、同日12:00で再計算する代替計算に切り替えます。
// 代替計算でも年柱・月柱・日柱は正しく、時柱のみ近似になります（Precision=degraded）。
// 入力が不正な場合のみErrInvalidInputを返します。
func (u *CalendarUsecase) Convert(dt entity.SolarDateTime) (entity.Conversion, error) {
	if err := checkRange(dt); err != nil {
		return entity.Conversion{}, err
	}

	fp, err := u.compute(u.calc.EightChar, dt)
	if err == nil && fp.Complete() {
		return entity.Conversion{Pillars: fp, Precision: entity.PrecisionExact}, nil
	}
	if err == nil {
		err = fmt.Errorf("incomplete pillars %+v", fp)
	}
	slog.Warn("八字計算に失敗したため正午固定の代替計算に切り替えます", "input", dt.String(), "error", err)

	fp, err = u.compute(u.calc.LunarGanZhi, dt.Date().AtNoon())
	if err != nil || !fp.Complete() {
		slog.Error("代替計算にも失敗しました", "input", dt.String(), "error", err)
		return entity.Conversion{}, fmt.Errorf("%w: %s", ErrCalendarUnavailable, dt)
	}
	return entity.Conversion{Pillars: fp, Precision: entity.PrecisionDegraded}, nil
}

// ValidateDayPillarOn は日付文字列に対して日柱をチェックします。
// 日付文字列が不正な場合や対応範囲外の場合はErrInvalidInputを返します。
func (u *CalendarUsecase) ValidateDayPillarOn(date string, claimed entity.Pillar) (entity.DayPillarCheck, error) {
	d, err := entity.ParseSolarDate(date)
	if err != nil {
		return entity.DayPillarCheck{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := checkRange(d.AtNoon()); err != nil {
		return entity.DayPillarCheck{}, err
	}
	return u.ValidateDayPillar(d, claimed), nil
}

// ValidateDayPillar は指定日の日柱（正午基準）を再計算し、入力値と完全一致するか判定します。
// 再計算できない場合はUnavailableを返します（呼び出し側ではValid()=trueとして扱われます）。
// 対応範囲外の日付は検証不能ではなく入力誤りなので、Mismatchとして扱います。
func (u *CalendarUsecase) ValidateDayPillar(d entity.SolarDate, claimed entity.Pillar) entity.DayPillarCheck {
	conv, err := u.Convert(d.AtNoon())
	if errors.Is(err, ErrInvalidInput) {
		return entity.DayPillarCheck{Status: entity.CheckMismatch, Claimed: claimed}
	}
	if err != nil {
		slog.Warn("日柱を再計算できないため検証をスキップします", "date", d.String(), "error", err)
		return entity.DayPillarCheck{Status: entity.CheckUnavailable, Claimed: claimed}
	}
	status := entity.CheckMismatch
	if conv.Pillars.Day == claimed {
		status = entity.CheckConfirmed
	}
	return entity.DayPillarCheck{Status: status, Claimed: claimed, Expected: conv.Pillars.Day}
}

// UpcomingDrawDates は today の翌日からHorizon日間のうち、攪珠曜日に当たる日とその日柱を日付順に返します。
// 日付はtodayのロケーションで数えます。
func (u *CalendarUsecase) UpcomingDrawDates(today time.Time) ([]entity.DrawCandidate, error) {
	y, m, d := today.Date()
	out := make([]entity.DrawCandidate, 0, u.schedule.Horizon)
	for i := 1; i <= u.schedule.Horizon; i++ {
		target := time.Date(y, m, d+i, 12, 0, 0, 0, today.Location())
		if !u.schedule.Includes(target.Weekday()) {
			continue
		}
		date := entity.SolarDateOf(target)
		conv, err := u.Convert(date.AtNoon())
		if err != nil {
			return nil, fmt.Errorf("day pillar for %s: %w", date, err)
		}
		out = append(out, entity.DrawCandidate{
			Date:      date.String(),
			DayOfWeek: entity.WeekdayLabel(target.Weekday()),
			DayPillar: conv.Pillars.Day,
		})
	}
	return out, nil
}

// compute はライブラリ内部のpanicをエラーに変換して呼び出します。
func (u *CalendarUsecase) compute(fn func(entity.SolarDateTime, entity.Sect) (entity.FourPillars, error), dt entity.SolarDateTime) (fp entity.FourPillars, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calendar panic: %v", r)
		}
	}()
	return fn(dt, u.sect)
}

// checkRange は対応範囲と暦上の妥当性を検証します。
func checkRange(dt entity.SolarDateTime) error {
	if dt.Year < MinYear || dt.Year > MaxYear {
		return fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidInput, dt.Year, MinYear, MaxYear)
	}
	if dt.Month < 1 || dt.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidInput, dt.Month)
	}
	t := time.Date(dt.Year, time.Month(dt.Month), dt.Day, 0, 0, 0, 0, time.UTC)
	if dt.Day < 1 || t.Day() != dt.Day {
		return fmt.Errorf("%w: day %d for %04d-%02d", ErrInvalidInput, dt.Day, dt.Year, dt.Month)
	}
	if dt.Hour < 0 || dt.Hour > 23 || dt.Minute < 0 || dt.Minute > 59 {
		return fmt.Errorf("%w: time %02d:%02d", ErrInvalidInput, dt.Hour, dt.Minute)
	}
	return nil
}
