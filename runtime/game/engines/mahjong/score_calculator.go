package mahjong

import (
	"fmt"
	"math"
	"strings"
)

const (
	manganBase  = 2000
	yakumanBase = 8000
)

// ScoreResult 一次和了的番符与支付
type ScoreResult struct {
	Han        int    `json:"han"`
	Fu         int    `json:"fu"`
	Yakuman    int    `json:"yakuman,omitempty"`
	BaseScore  int    `json:"baseScore"`
	TotalScore int    `json:"totalScore"` // 和了者所得，不含供托
	Label      string `json:"label,omitempty"`

	RonPayment         int `json:"ronPayment,omitempty"`         // 荣和时放铳者支付
	TsumoDealerPayment int `json:"tsumoDealerPayment,omitempty"` // 闲家自摸时庄家支付
	TsumoOtherPayment  int `json:"tsumoOtherPayment,omitempty"`  // 自摸时其余闲家各自支付
}

func roundUpTo100(x int) int {
	return int(math.Ceil(float64(x)/100.0)) * 100
}

// CalculateFu 计算符数：副底 30，自摸 +2，刻子/杠子按明暗与幺九加符，向上取整到 10
func CalculateFu(d *Division, winTile TileType, isTsumo bool) int {
	fu := 30
	if isTsumo {
		fu += 2 // 自摸+2符
	}
	if d != nil {
		for _, b := range d.Blocks {
			fu += blockFu(d, b, winTile, isTsumo)
		}
	}
	fu = ((fu + 9) / 10) * 10
	if fu < 30 {
		fu = 30
	}
	return fu
}

func blockFu(d *Division, b Block, winTile TileType, isTsumo bool) int {
	var fu int
	switch b.Kind {
	case BlockQuad:
		if b.Concealed {
			fu = 16 // 暗杠
		} else {
			fu = 8 // 明杠
		}
	case BlockTriplet:
		if b.Concealed && !d.isOpenByRon(b, winTile, isTsumo) {
			fu = 4 // 暗刻
		} else {
			fu = 2 // 明刻
		}
	default:
		return 0
	}
	if b.Tile.IsYaochu() {
		fu *= 2
	}
	return fu
}

// calculateBasePoints 基本点 = 符数 × 2^(2+番数)，4番30符、3番60符切上满贯
func calculateBasePoints(han int, fu int) (int, string) {
	switch {
	case han >= 13:
		return yakumanBase, "累计役满"
	case han >= 11:
		return 6000, "三倍满"
	case han >= 8:
		return 4000, "倍满"
	case han >= 6:
		return 3000, "跳满"
	case han >= 5, han == 4 && fu >= 30, han == 3 && fu >= 60:
		return manganBase, "满贯" // 切上满贯
	}
	base := fu * (1 << (2 + han))
	if base >= manganBase {
		return manganBase, "满贯"
	}
	return base, ""
}

// CalculateScore 由役（已含宝牌）与符数计算点数，seats 为参与人数(3/4)
func CalculateScore(yakus []YakuResult, fu int, isTsumo, isDealer bool, honba int, seats int) ScoreResult {
	res := ScoreResult{Fu: fu}
	for _, y := range yakus {
		res.Han += y.Han
		res.Yakuman += y.Yakuman
	}

	if res.Yakuman > 0 {
		res.BaseScore = yakumanBase * res.Yakuman
		res.Label = "役满"
		if res.Yakuman > 1 {
			res.Label = fmt.Sprintf("%d倍役满", res.Yakuman)
		}
	} else {
		res.BaseScore, res.Label = calculateBasePoints(res.Han, fu)
	}

	if !isTsumo {
		mult := 4
		if isDealer {
			mult = 6
		}
		res.RonPayment = roundUpTo100(res.BaseScore*mult) + 300*honba
		res.TotalScore = res.RonPayment
		return res
	}

	payers := seats - 1
	if payers < 1 {
		payers = 1
	}
	honbaEach := 300 * honba / payers
	if isDealer {
		res.TsumoOtherPayment = roundUpTo100(res.BaseScore*2) + honbaEach
		res.TotalScore = res.TsumoOtherPayment * payers
		return res
	}
	res.TsumoDealerPayment = roundUpTo100(res.BaseScore*2) + honbaEach
	res.TsumoOtherPayment = roundUpTo100(res.BaseScore) + honbaEach
	res.TotalScore = res.TsumoDealerPayment + res.TsumoOtherPayment*(payers-1)
	return res
}

// YakuSummary 例如 "立直 1, 断幺九 1, 宝牌 2 | 4番30符 满贯 8000"
func YakuSummary(yakus []YakuResult, res ScoreResult) string {
	parts := make([]string, 0, len(yakus))
	for _, y := range yakus {
		if y.Yakuman > 0 {
			parts = append(parts, y.Yaku.String())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", y.Yaku, y.Han))
	}
	head := strings.Join(parts, ", ")
	if res.Yakuman > 0 {
		return fmt.Sprintf("%s | %s %d", head, res.Label, res.TotalScore)
	}
	tail := fmt.Sprintf("%d番%d符", res.Han, res.Fu)
	if res.Label != "" {
		tail += " " + res.Label
	}
	return fmt.Sprintf("%s | %s %d", head, tail, res.TotalScore)
}
