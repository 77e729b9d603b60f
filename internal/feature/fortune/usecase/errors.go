// Package usecase はfortuneフィーチャー（排盤・偏財運分析・開運号碼）のビジネスロジックを実装します。
package usecase

import (
	"errors"
	"fmt"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
)

var (
	// ErrInvalidProfile は氏名や入力モードなど、排盤リクエストの内容が不正な場合に返されます。
	ErrInvalidProfile = errors.New("invalid profile input")

	// ErrInvalidPillar は手入力された四柱が六十甲子に含まれない場合に返されます。
	ErrInvalidPillar = errors.New("invalid pillar")

	// ErrDayPillarMismatch は校験日期の日柱と入力された日柱が一致しない場合に返されます。
	ErrDayPillarMismatch = errors.New("day pillar does not match the verify date")

	// ErrProfileNotFound は指定IDのプロフィールが存在しない場合に返されます。
	ErrProfileNotFound = errors.New("profile not found")

	// ErrAnalysisFailed はAIゲートウェイの呼び出しに失敗した場合に返されます。
	ErrAnalysisFailed = errors.New("analysis gateway failed")

	// ErrMalformedFortune はAIの返した開運号碼が7個・1〜49の契約を満たさない場合に返されます。
	ErrMalformedFortune = errors.New("malformed lucky numbers")
)

// DayPillarMismatchError は校験日期の日柱不一致の詳細です。
// errors.Is(err, ErrDayPillarMismatch) で判定できます。
type DayPillarMismatchError struct {
	Date     string
	Claimed  bazi.Pillar
	Expected bazi.Pillar
}

func (e *DayPillarMismatchError) Error() string {
	return fmt.Sprintf("所選日期 %s 與輸入的日柱 [%s] 不符", e.Date, e.Claimed)
}

func (e *DayPillarMismatchError) Unwrap() error { return ErrDayPillarMismatch }
