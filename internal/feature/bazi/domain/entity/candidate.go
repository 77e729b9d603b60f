package entity

import "time"

// DrawCandidate は六合彩の攪珠候補日とその日柱です。
type DrawCandidate struct {
	Date      string // "2006-01-02"
	DayOfWeek string // 週日〜週六
	DayPillar Pillar
}

// weekdayLabels はtime.Weekdayを添字とする曜日ラベルです。
var weekdayLabels = [7]string{"週日", "週一", "週二", "週三", "週四", "週五", "週六"}

// WeekdayLabel は曜日の表示ラベルを返します。
func WeekdayLabel(w time.Weekday) string {
	return weekdayLabels[w]
}

// DrawSchedule は候補日の抽出条件です。
// 曜日は実際の攪珠スケジュールに基づく業務ルールのため設定で差し替えられます。
type DrawSchedule struct {
	Weekdays []time.Weekday
	Horizon  int // 翌日から何日先までを対象にするか
}

// DefaultDrawSchedule は週二・週四・週六・週日、7日間です。
func DefaultDrawSchedule() DrawSchedule {
	return DrawSchedule{
		Weekdays: []time.Weekday{time.Sunday, time.Tuesday, time.Thursday, time.Saturday},
		Horizon:  7,
	}
}

// Includes は指定した曜日が対象かどうかを返します。
func (s DrawSchedule) Includes(w time.Weekday) bool {
	for _, x := range s.Weekdays {
		if x == w {
			return true
		}
	}
	return false
}
