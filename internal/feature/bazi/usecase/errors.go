// Package usecase はbaziフィーチャー（万年暦変換・日柱チェック・攪珠候補日）のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrInvalidInput は日付・時刻の文字列が不正、または対応範囲外の場合に返されます。
	ErrInvalidInput = errors.New("invalid solar date/time")

	// ErrCalendarUnavailable は通常計算・代替計算の両方が失敗した場合に返されます。
	ErrCalendarUnavailable = errors.New("calendar computation unavailable")
)
