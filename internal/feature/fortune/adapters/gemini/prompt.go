package gemini

import (
	"fmt"
	"strings"

	bazi "bazi_backend/internal/feature/bazi/domain/entity"
)

func analysisPrompt(p bazi.FourPillars) string {
	return fmt.Sprintf(`身為一位專業的八字命理大師，請深入分析以下四柱命盤的「偏財運」（橫財運）：
年柱：%s
月柱：%s
日柱：%s
時柱：%s

請提供：
- elementBalance: 五行能量比例。
- summary: 命盤精簡批註。
- pianCaiStrength: 偏財運強弱等級（極強/旺相/中平/偏弱/極弱）。
- pianCaiAnalysis: 關於偏財運與命局互動（生剋合沖）的詳細解釋。

請以 JSON 格式回傳。`, p.Year, p.Month, p.Day, p.Hour)
}

// luckyNumbersPrompt は候補日の日柱を万年暦で計算済みの一覧として渡します。
func luckyNumbersPrompt(p bazi.FourPillars, candidates []bazi.DrawCandidate) string {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s（%s）%s日\n", c.Date, c.DayOfWeek, c.DayPillar)
	}
	if b.Len() == 0 {
		b.WriteString("- （未來七日內沒有攪珠日）\n")
	}

	return fmt.Sprintf(`以下是香港賽馬會六合彩（Mark Six）未來的攪珠日期及當日干支（日柱）：
%s
基於命主四柱：年：%s, 月：%s, 日：%s, 時：%s，結合其偏財運特徵，從上列日期中選出最有利的一日，並計算 7 個開運號碼。

請回傳：
- numbers: 7 個 1-49 的數字。
- bettingTime: 該日最適合命主的投注時辰。
- auspiciousDate: 建議日期（必須包含日期與當日干支，例如：2024-10-15 (壬子日)）。
- explanation: 號碼與時辰的命理選擇邏輯。

請以 JSON 格式回傳。`, b.String(), p.Year, p.Month, p.Day, p.Hour)
}
