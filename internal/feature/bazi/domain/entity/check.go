package entity

// CheckStatus は日柱チェックの判定結果です。
type CheckStatus string

const (
	// CheckConfirmed は入力された日柱が万年暦と一致したことを示します。
	CheckConfirmed CheckStatus = "confirmed"
	// CheckMismatch は一致しなかったことを示します。
	CheckMismatch CheckStatus = "mismatch"
	// CheckUnavailable は再計算できず検証できなかったことを示します。
	CheckUnavailable CheckStatus = "unavailable"
)

// DayPillarCheck は日柱チェックの結果です。
// 「検証できなかった」と「不一致」を呼び出し側で区別できるようにしています。
type DayPillarCheck struct {
	Status   CheckStatus
	Claimed  Pillar
	Expected Pillar // Unavailableの場合は空
}

// Valid は入力を受け付けてよいかを返します。
// 検証不能（Unavailable）の場合も受け付けます（fail open）。
func (c DayPillarCheck) Valid() bool {
	return c.Status != CheckMismatch
}
