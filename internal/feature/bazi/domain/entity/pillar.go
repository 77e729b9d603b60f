// Package entity はbaziフィーチャーのドメインモデルを定義します。
package entity

// Stems は十天干です（甲=0）。
var Stems = []rune("甲乙丙丁戊己庚辛壬癸")

// Branches は十二地支です（子=0）。
var Branches = []rune("子丑寅卯辰巳午未申酉戌亥")

// Pillar は干支1組（天干+地支の2文字）を表します。例: "甲子"
type Pillar string

// Valid は六十甲子に含まれる組み合わせかどうかを返します。
// 天干と地支の陰陽（インデックスの偶奇）が一致するものだけが有効です。
func (p Pillar) Valid() bool {
	rs := []rune(string(p))
	if len(rs) != 2 {
		return false
	}
	s := indexOf(Stems, rs[0])
	b := indexOf(Branches, rs[1])
	if s < 0 || b < 0 {
		return false
	}
	return s%2 == b%2
}

// String はfmt.Stringerを実装します。
func (p Pillar) String() string { return string(p) }

func indexOf(set []rune, r rune) int {
	for i, x := range set {
		if x == r {
			return i
		}
	}
	return -1
}

// FourPillars は年柱・月柱・日柱・時柱の四柱（八字）です。
type FourPillars struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  Pillar
}

// Complete は四柱すべてが有効な干支で埋まっているかを返します。
func (f FourPillars) Complete() bool {
	return f.Year.Valid() && f.Month.Valid() && f.Day.Valid() && f.Hour.Valid()
}

// Sect は子時（23:00〜01:00）の日柱の扱いを決める流派です。
type Sect int

const (
	// SectLateRatNextDay は23時以降（晩子時）の日柱を翌日として扱います。
	SectLateRatNextDay Sect = 1
	// SectLateRatSameDay は晩子時の日柱を当日のまま扱い、時柱のみ翌日の干で起こします。
	SectLateRatSameDay Sect = 2
)

// DefaultSect は晩子時を当日扱いとする流派2です。
const DefaultSect = SectLateRatSameDay

// Valid はSectが既知の値かどうかを返します。
func (s Sect) Valid() bool {
	return s == SectLateRatNextDay || s == SectLateRatSameDay
}

// Precision は変換結果の精度です。
type Precision string

const (
	// PrecisionExact は時刻どおりに八字を算出できたことを示します。
	PrecisionExact Precision = "exact"
	// PrecisionDegraded は正午固定の代替計算に落ちたことを示します（時柱は近似）。
	PrecisionDegraded Precision = "degraded"
)

// Conversion は公暦から四柱への変換結果です。
type Conversion struct {
	Pillars   FourPillars
	Precision Precision
}

// Degraded は代替計算の結果かどうかを返します。
func (c Conversion) Degraded() bool { return c.Precision == PrecisionDegraded }
