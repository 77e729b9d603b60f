// Package lunar は6tail/lunar-go（寿星万年暦）を使用した干支計算を提供します。
package lunar

import (
	"fmt"

	"github.com/6tail/lunar-go/calendar"

	"bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/bazi/usecase"
)

// Calculator はlunar-goによるPillarCalculator実装です。
// lunar-goは内部状態を共有しないため、並行呼び出しに対して安全です。
type Calculator struct{}

// CalculatorがPillarCalculatorを実装していることをコンパイル時に検証します。
var _ usecase.PillarCalculator = (*Calculator)(nil)

// NewCalculator はCalculatorの新しいインスタンスを生成します。
func NewCalculator() *Calculator {
	return &Calculator{}
}

// EightChar は八字（節気で年月を切り替え、流派で子時を扱う）を算出します。
func (c *Calculator) EightChar(dt entity.SolarDateTime, sect entity.Sect) (entity.FourPillars, error) {
	ec := lunarOf(dt).GetEightChar()
	ec.SetSect(int(sect))
	fp := entity.FourPillars{
		Year:  entity.Pillar(ec.GetYear()),
		Month: entity.Pillar(ec.GetMonth()),
		Day:   entity.Pillar(ec.GetDay()),
		Hour:  entity.Pillar(ec.GetTime()),
	}
	if !fp.Hour.Valid() {
		return fp, fmt.Errorf("eight char hour pillar missing for %s", dt)
	}
	return fp, nil
}

// LunarGanZhi は農暦オブジェクトの干支から四柱を組み立てます。
// 年月は節気基準（Exact）、日は流派に合わせてExact/Exact2を使い分けます。
func (c *Calculator) LunarGanZhi(dt entity.SolarDateTime, sect entity.Sect) (entity.FourPillars, error) {
	l := lunarOf(dt)
	day := l.GetDayInGanZhiExact()
	if sect == entity.SectLateRatSameDay {
		day = l.GetDayInGanZhiExact2()
	}
	return entity.FourPillars{
		Year:  entity.Pillar(l.GetYearInGanZhiExact()),
		Month: entity.Pillar(l.GetMonthInGanZhiExact()),
		Day:   entity.Pillar(day),
		Hour:  entity.Pillar(l.GetTimeInGanZhi()),
	}, nil
}

func lunarOf(dt entity.SolarDateTime) *calendar.Lunar {
	return calendar.NewSolar(dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, 0).GetLunar()
}
