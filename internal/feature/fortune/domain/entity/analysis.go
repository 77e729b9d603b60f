// Package entity はfortuneフィーチャーのドメインモデルを定義します。
package entity

import bazi "bazi_backend/internal/feature/bazi/domain/entity"

const (
	// LuckyNumberCount は開運号碼の個数です。
	LuckyNumberCount = 7
	// MinLuckyNumber / MaxLuckyNumber は六合彩の号碼範囲です。
	MinLuckyNumber = 1
	MaxLuckyNumber = 49
)

// BaziAnalysis は命盤の偏財運分析（AI生成）です。
type BaziAnalysis struct {
	ElementBalance  string // 五行能量比例
	Summary         string // 命盤精簡批註
	PianCaiStrength string // 偏財運強弱（極強/旺相/中平/偏弱/極弱）
	PianCaiAnalysis string // 偏財運と命局の相互作用の解説
}

// LuckyNumbers は開運号碼と投注の提案（AI生成）です。
type LuckyNumbers struct {
	Numbers        []int
	BettingTime    string // 最佳投注時辰
	AuspiciousDate string // 建議開運日期（日付と日柱）
	Explanation    string
}

// InRange はNumbersが個数・範囲の契約を満たすかを返します。
func (l LuckyNumbers) InRange() bool {
	if len(l.Numbers) != LuckyNumberCount {
		return false
	}
	for _, n := range l.Numbers {
		if n < MinLuckyNumber || n > MaxLuckyNumber {
			return false
		}
	}
	return true
}

// Fortune は開運号碼と、その根拠にした攪珠候補日です。
type Fortune struct {
	LuckyNumbers
	Candidates []bazi.DrawCandidate
}
