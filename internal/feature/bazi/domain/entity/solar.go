package entity

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout はISO形式の日付文字列です。
	DateLayout = "2006-01-02"
	// TimeLayout は24時間表記の時刻文字列です。
	TimeLayout = "15:04"
	// timeLayoutSeconds は秒付きの時刻（<input type="time" step=1>）を許容するためのものです。
	timeLayoutSeconds = "15:04:05"
)

// SolarDateTime は公暦の日時（ローカル壁時計、タイムゾーンなし）です。
type SolarDateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// SolarDate は時刻を持たない公暦の日付です。
type SolarDate struct {
	Year  int
	Month int
	Day   int
}

// AtNoon は12:00に固定した日時を返します。
func (d SolarDate) AtNoon() SolarDateTime {
	return SolarDateTime{Year: d.Year, Month: d.Month, Day: d.Day, Hour: 12}
}

// String は "2006-01-02" 形式を返します。
func (d SolarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Date は日付部分を返します。
func (dt SolarDateTime) Date() SolarDate {
	return SolarDate{Year: dt.Year, Month: dt.Month, Day: dt.Day}
}

// String は "2006-01-02 15:04" 形式を返します。
func (dt SolarDateTime) String() string {
	return fmt.Sprintf("%s %02d:%02d", dt.Date(), dt.Hour, dt.Minute)
}

// SolarDateOf はtime.Timeの（そのロケーションでの）日付部分を取り出します。
func SolarDateOf(t time.Time) SolarDate {
	return SolarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// ParseSolarDate はISO日付文字列をパースします。
// 存在しない日付（2月30日など）はエラーになります。
func ParseSolarDate(s string) (SolarDate, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return SolarDate{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return SolarDateOf(t), nil
}

// ParseSolarDateTime は日付文字列と時刻文字列をパースします。
func ParseSolarDateTime(date, clock string) (SolarDateTime, error) {
	d, err := ParseSolarDate(date)
	if err != nil {
		return SolarDateTime{}, err
	}
	clock = strings.TrimSpace(clock)
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		var err2 error
		if t, err2 = time.Parse(timeLayoutSeconds, clock); err2 != nil {
			return SolarDateTime{}, fmt.Errorf("parse time %q: %w", clock, err)
		}
	}
	return SolarDateTime{
		Year:   d.Year,
		Month:  d.Month,
		Day:    d.Day,
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}, nil
}
