package mahjong

// Yaku 役种（和牌方式）
type Yaku int

// 役种常量定义
const (
	// 基本役
	YakuRiichi       Yaku = iota // 立直：门清状态下宣布立直，并放置1000点棒
	YakuDoubleRiichi             // 两立直：第一巡无人鸣牌时立直
	YakuIppatsu                  // 一发：立直后一巡内和牌
	YakuTsumo                    // 门前清自摸和：门清状态下自摸和牌

	// 平和系
	YakuPinfu     // 平和：4顺子+非役牌雀头，两面听牌
	YakuIppeiko   // 一杯口：同种花色、同种顺子有两组
	YakuRyanpeiko // 二杯口：手牌中有两个不同的一杯口

	// 役牌系
	YakuHaku      // 役牌 白
	YakuHatsu     // 役牌 发
	YakuChun      // 役牌 中
	YakuSeatWind  // 自风
	YakuRoundWind // 场风

	// 断幺系
	YakuTanyao // 断幺九：手牌全部由数牌2-8组成

	// 顺子系
	YakuSanshoku // 三色同顺：相同顺子在三种花色中都出现
	YakuIttsu    // 一气通贯：同种花色有123、456、789三个顺子

	// 带幺系
	YakuChanta  // 混全带幺九：所有面子都包含幺九牌
	YakuJunchan // 纯全带幺九：所有面子都包含数牌幺九(1、9)

	// 老头系
	YakuHonroto // 混老头：全部由幺九牌(1、9、字牌)组成

	// 清一色系
	YakuHonitsu  // 混一色：一种花色+字牌
	YakuChinitsu // 清一色：同一种花色(无字牌)

	// 刻子系
	YakuToitoi     // 对对和：4个刻子(杠子)+1个对子
	YakuSananko    // 三暗刻：手牌中有3个暗刻
	YakuSankantsu  // 三杠子：手牌中有3个杠子
	YakuShousangen // 小三元：两组三元牌刻子+三元牌雀头

	// 特殊型
	YakuChiitoi // 七对子：7个不同的对子

	// 偶然役
	YakuRinshan // 岭上开花
	YakuHaitei  // 海底摸月
	YakuHoutei  // 河底捞鱼
	YakuChankan // 抢杠

	// 役满役种
	YakuTenhou    // 天和
	YakuChihou    // 地和
	YakuKokushi   // 国士无双(十三幺)：13种幺九牌各1张+其中任意1张
	YakuSuuankou  // 四暗刻：手牌中有四个暗刻
	YakuDaisangen // 大三元
	YakuShousushi // 小四喜
	YakuDaisushi  // 大四喜
	YakuTsuuiisou // 字一色
	YakuChinroto  // 清老头：全部由数牌幺九(1、9)组成
	YakuRyuuiisou // 绿一色
	YakuChuuren   // 九莲宝灯：同一种花色的1112345678999，加上任意一张同花色的牌
	YakuSuukantsu // 四杠子

	// 宝牌（不计入有无役判断）
	YakuDora    // 宝牌
	YakuUraDora // 里宝牌
	YakuAkaDora // 赤宝牌
)

var yakuNames = map[Yaku]string{
	YakuRiichi:       "立直",
	YakuDoubleRiichi: "两立直",
	YakuIppatsu:      "一发",
	YakuTsumo:        "门前清自摸和",
	YakuPinfu:        "平和",
	YakuIppeiko:      "一杯口",
	YakuRyanpeiko:    "二杯口",
	YakuHaku:         "役牌 白",
	YakuHatsu:        "役牌 发",
	YakuChun:         "役牌 中",
	YakuSeatWind:     "自风",
	YakuRoundWind:    "场风",
	YakuTanyao:       "断幺九",
	YakuSanshoku:     "三色同顺",
	YakuIttsu:        "一气通贯",
	YakuChanta:       "混全带幺九",
	YakuJunchan:      "纯全带幺九",
	YakuHonroto:      "混老头",
	YakuHonitsu:      "混一色",
	YakuChinitsu:     "清一色",
	YakuToitoi:       "对对和",
	YakuSananko:      "三暗刻",
	YakuSankantsu:    "三杠子",
	YakuShousangen:   "小三元",
	YakuChiitoi:      "七对子",
	YakuRinshan:      "岭上开花",
	YakuHaitei:       "海底摸月",
	YakuHoutei:       "河底捞鱼",
	YakuChankan:      "抢杠",
	YakuTenhou:       "天和",
	YakuChihou:       "地和",
	YakuKokushi:      "国士无双",
	YakuSuuankou:     "四暗刻",
	YakuDaisangen:    "大三元",
	YakuShousushi:    "小四喜",
	YakuDaisushi:     "大四喜",
	YakuTsuuiisou:    "字一色",
	YakuChinroto:     "清老头",
	YakuRyuuiisou:    "绿一色",
	YakuChuuren:      "九莲宝灯",
	YakuSuukantsu:    "四杠子",
	YakuDora:         "宝牌",
	YakuUraDora:      "里宝牌",
	YakuAkaDora:      "赤宝牌",
}

func (y Yaku) String() string {
	if name, ok := yakuNames[y]; ok {
		return name
	}
	return "未知役"
}

// IsDora 宝牌类不算役
func (y Yaku) IsDora() bool {
	return y == YakuDora || y == YakuUraDora || y == YakuAkaDora
}

type YakuResult struct {
	Yaku    Yaku `json:"yaku"`
	Han     int  `json:"han"`
	Yakuman int  `json:"yakuman,omitempty"`
}

// WinContext 和牌时的牌面与场况
type WinContext struct {
	Concealed []Tile // 门内手牌，含和了牌
	Melds     []Meld
	WinTile   Tile

	IsTsumo        bool
	IsRiichi       bool
	IsDoubleRiichi bool
	IsIppatsu      bool
	IsTenhou       bool
	IsChihou       bool
	IsRinshan      bool
	IsHaitei       bool
	IsHoutei       bool
	IsChankan      bool

	RoundWind Wind
	SeatWind  Wind
}

// YakuEvaluation 取番数（同番取符数）最高的拆解
type YakuEvaluation struct {
	Yakus    []YakuResult
	Division *Division // 七对子、国士为 nil
	Chiitoi  bool
	Yakuman  int
}

func (e *YakuEvaluation) Han() int {
	han := 0
	for _, y := range e.Yakus {
		han += y.Han
	}
	return han
}

// HasYaku 除宝牌外至少一役
func (e *YakuEvaluation) HasYaku() bool {
	for _, y := range e.Yakus {
		if !y.Yaku.IsDora() {
			return true
		}
	}
	return false
}

type YakuContext struct {
	*WinContext
	concealed Hand34
	all       Hand34
	closed    bool
	kans      int
	divisions []Division
	division  *Division
	chiitoi   bool
}

type YakuChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *YakuContext) (int, int) { return f.check(ctx) }

func newYakuContext(wc *WinContext) *YakuContext {
	ctx := &YakuContext{WinContext: wc, closed: true}
	ctx.concealed, _ = Hand34FromTiles(wc.Concealed)
	ctx.all = ctx.concealed
	for _, m := range wc.Melds {
		if m.IsOpen() {
			ctx.closed = false
		}
		if m.IsKan() {
			ctx.kans++
		}
		// 杠子按 3 张计入，保证牌型判断与门内一致
		for i, t := range m.Tiles {
			if i < 3 {
				ctx.all[t.Type]++
			}
		}
	}
	ctx.divisions = DecomposeHand(ctx.concealed, wc.Melds)
	return ctx
}

// EvaluateYaku 返回满足的役种；役满时只返回役满，空列表表示无役
func EvaluateYaku(wc *WinContext) *YakuEvaluation {
	ctx := newYakuContext(wc)
	isChiitoi := len(wc.Melds) == 0 && IsAgariChiitoi(ctx.concealed)
	isKokushi := len(wc.Melds) == 0 && IsAgariKokushi(ctx.concealed)
	if len(ctx.divisions) == 0 && !isChiitoi && !isKokushi {
		return &YakuEvaluation{}
	}

	// 役满短路
	var yakuman []YakuResult
	total := 0
	for _, checker := range YakumanRegistry {
		_, mult := checker.Check(ctx)
		if mult > 0 {
			yakuman = append(yakuman, YakuResult{Yaku: checker.ID(), Han: 13 * mult, Yakuman: mult})
			total += mult
		}
	}
	if total > 0 {
		ev := &YakuEvaluation{Yakus: yakuman, Yakuman: total}
		if len(ctx.divisions) > 0 {
			ev.Division = &ctx.divisions[0]
		}
		return ev
	}

	var best *YakuEvaluation
	bestFu := 0
	consider := func(d *Division, chiitoi bool) {
		ctx.division = d
		ctx.chiitoi = chiitoi
		ev := &YakuEvaluation{Division: d, Chiitoi: chiitoi}
		for _, checker := range YakuRegistry {
			han, _ := checker.Check(ctx)
			if han > 0 {
				ev.Yakus = append(ev.Yakus, YakuResult{Yaku: checker.ID(), Han: han})
			}
		}
		fu := CalculateFu(d, wc.WinTile.Type, wc.IsTsumo)
		if best == nil || ev.Han() > best.Han() || (ev.Han() == best.Han() && fu > bestFu) {
			best = ev
			bestFu = fu
		}
	}
	for i := range ctx.divisions {
		consider(&ctx.divisions[i], false)
	}
	if isChiitoi {
		consider(nil, true)
	}
	if best == nil {
		return &YakuEvaluation{}
	}
	return best
}

var YakumanRegistry = []YakuChecker{
	yakuCheckerFunc{id: YakuTenhou, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(ctx.IsTenhou)
	}},
	yakuCheckerFunc{id: YakuChihou, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(ctx.IsChihou)
	}},
	yakuCheckerFunc{id: YakuKokushi, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(len(ctx.Melds) == 0 && IsAgariKokushi(ctx.concealed))
	}},
	yakuCheckerFunc{id: YakuSuuankou, check: func(ctx *YakuContext) (int, int) {
		for i := range ctx.divisions {
			if ctx.divisions[i].concealedTriplets(ctx.WinTile.Type, ctx.IsTsumo) == 4 {
				return 0, 1
			}
		}
		return 0, 0
	}},
	yakuCheckerFunc{id: YakuDaisangen, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(ctx.all[White] >= 3 && ctx.all[Green] >= 3 && ctx.all[Red] >= 3)
	}},
	yakuCheckerFunc{id: YakuShousushi, check: func(ctx *YakuContext) (int, int) {
		trip, pair := countGroup(ctx.all, East, North)
		return 0, boolMult(trip == 3 && pair == 1)
	}},
	yakuCheckerFunc{id: YakuDaisushi, check: func(ctx *YakuContext) (int, int) {
		trip, _ := countGroup(ctx.all, East, North)
		return 0, boolMult(trip == 4)
	}},
	yakuCheckerFunc{id: YakuTsuuiisou, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(allTiles(ctx.all, TileType.IsHonor))
	}},
	yakuCheckerFunc{id: YakuChinroto, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(allTiles(ctx.all, TileType.IsTerminal))
	}},
	yakuCheckerFunc{id: YakuRyuuiisou, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(allTiles(ctx.all, isGreenTile))
	}},
	yakuCheckerFunc{id: YakuChuuren, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(len(ctx.Melds) == 0 && checkChuuren(ctx.concealed))
	}},
	yakuCheckerFunc{id: YakuSuukantsu, check: func(ctx *YakuContext) (int, int) {
		return 0, boolMult(ctx.kans == 4)
	}},
}

var YakuRegistry = []YakuChecker{
	// 基本役
	yakuCheckerFunc{id: YakuRiichi, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsRiichi && !ctx.IsDoubleRiichi, 1), 0
	}},
	yakuCheckerFunc{id: YakuDoubleRiichi, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsDoubleRiichi, 2), 0
	}},
	yakuCheckerFunc{id: YakuIppatsu, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsRiichi && ctx.IsIppatsu, 1), 0
	}},
	yakuCheckerFunc{id: YakuTsumo, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.closed && ctx.IsTsumo, 1), 0
	}},

	// 平和系
	yakuCheckerFunc{id: YakuPinfu, check: func(ctx *YakuContext) (int, int) {
		return boolHan(checkPinfu(ctx), 1), 0
	}},
	yakuCheckerFunc{id: YakuIppeiko, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.closed && peikouCount(ctx.division) == 1, 1), 0
	}},
	yakuCheckerFunc{id: YakuRyanpeiko, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.closed && peikouCount(ctx.division) == 2, 3), 0
	}},

	// 役牌系，字牌不会组成顺子，张数即可判断
	yakuCheckerFunc{id: YakuHaku, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.all[White] >= 3, 1), 0
	}},
	yakuCheckerFunc{id: YakuHatsu, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.all[Green] >= 3, 1), 0
	}},
	yakuCheckerFunc{id: YakuChun, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.all[Red] >= 3, 1), 0
	}},
	yakuCheckerFunc{id: YakuSeatWind, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.all[WindTile(ctx.SeatWind)] >= 3, 1), 0
	}},
	yakuCheckerFunc{id: YakuRoundWind, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.all[WindTile(ctx.RoundWind)] >= 3, 1), 0
	}},

	// 断幺系
	yakuCheckerFunc{id: YakuTanyao, check: func(ctx *YakuContext) (int, int) {
		return boolHan(allTiles(ctx.all, func(t TileType) bool { return !t.IsYaochu() }), 1), 0
	}},

	// 顺子系
	yakuCheckerFunc{id: YakuSanshoku, check: func(ctx *YakuContext) (int, int) {
		return ctx.openHan(checkSanshoku(ctx.division), 2), 0
	}},
	yakuCheckerFunc{id: YakuIttsu, check: func(ctx *YakuContext) (int, int) {
		return ctx.openHan(checkIttsu(ctx.division), 2), 0
	}},

	// 带幺系
	yakuCheckerFunc{id: YakuChanta, check: func(ctx *YakuContext) (int, int) {
		return ctx.openHan(checkOutsideHand(ctx.division, true), 2), 0
	}},
	yakuCheckerFunc{id: YakuJunchan, check: func(ctx *YakuContext) (int, int) {
		return ctx.openHan(checkOutsideHand(ctx.division, false), 3), 0
	}},

	// 老头系
	yakuCheckerFunc{id: YakuHonroto, check: func(ctx *YakuContext) (int, int) {
		ok := allTiles(ctx.all, TileType.IsYaochu) &&
			!allTiles(ctx.all, TileType.IsHonor) && !allTiles(ctx.all, TileType.IsTerminal)
		return boolHan(ok, 2), 0
	}},

	// 清一色系
	yakuCheckerFunc{id: YakuHonitsu, check: func(ctx *YakuContext) (int, int) {
		suits, honors := suitProfile(ctx.all)
		return ctx.openHan(suits == 1 && honors, 3), 0
	}},
	yakuCheckerFunc{id: YakuChinitsu, check: func(ctx *YakuContext) (int, int) {
		suits, honors := suitProfile(ctx.all)
		return ctx.openHan(suits == 1 && !honors, 6), 0
	}},

	// 刻子系
	yakuCheckerFunc{id: YakuToitoi, check: func(ctx *YakuContext) (int, int) {
		d := ctx.division
		return boolHan(d != nil && d.countKind(BlockSequence) == 0, 2), 0
	}},
	yakuCheckerFunc{id: YakuSananko, check: func(ctx *YakuContext) (int, int) {
		d := ctx.division
		return boolHan(d != nil && d.concealedTriplets(ctx.WinTile.Type, ctx.IsTsumo) == 3, 2), 0
	}},
	yakuCheckerFunc{id: YakuSankantsu, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.kans == 3, 2), 0
	}},
	yakuCheckerFunc{id: YakuShousangen, check: func(ctx *YakuContext) (int, int) {
		trip, pair := countGroup(ctx.all, White, Red)
		return boolHan(trip == 2 && pair == 1, 2), 0
	}},

	// 特殊型
	yakuCheckerFunc{id: YakuChiitoi, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.chiitoi, 2), 0
	}},

	// 偶然役
	yakuCheckerFunc{id: YakuRinshan, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsRinshan && ctx.IsTsumo, 1), 0
	}},
	yakuCheckerFunc{id: YakuHaitei, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsHaitei && ctx.IsTsumo && !ctx.IsRinshan, 1), 0
	}},
	yakuCheckerFunc{id: YakuHoutei, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsHoutei && !ctx.IsTsumo, 1), 0
	}},
	yakuCheckerFunc{id: YakuChankan, check: func(ctx *YakuContext) (int, int) {
		return boolHan(ctx.IsChankan && !ctx.IsTsumo, 1), 0
	}},
}

func boolMult(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func boolHan(ok bool, han int) int {
	if ok {
		return han
	}
	return 0
}

// openHan 副露减一番
func (ctx *YakuContext) openHan(ok bool, closedHan int) int {
	if !ok {
		return 0
	}
	if ctx.closed {
		return closedHan
	}
	return closedHan - 1
}

func allTiles(h Hand34, pred func(TileType) bool) bool {
	seen := false
	for i := 0; i < 34; i++ {
		if h[i] == 0 {
			continue
		}
		if !pred(TileType(i)) {
			return false
		}
		seen = true
	}
	return seen
}

// countGroup 区间内刻子数与对子数
func countGroup(h Hand34, from, to TileType) (int, int) {
	trip, pair := 0, 0
	for t := from; t <= to; t++ {
		switch {
		case h[t] >= 3:
			trip++
		case h[t] == 2:
			pair++
		}
	}
	return trip, pair
}

func isGreenTile(t TileType) bool {
	switch t {
	case So2, So3, So4, So6, So8, Green:
		return true
	default:
		return false
	}
}

// suitProfile 出现的数牌花色数，是否含字牌
func suitProfile(h Hand34) (int, bool) {
	var seen [3]bool
	honors := false
	for i := 0; i < 34; i++ {
		if h[i] == 0 {
			continue
		}
		if s := suitOf(i); s >= 0 {
			seen[s] = true
		} else {
			honors = true
		}
	}
	n := 0
	for _, s := range seen {
		if s {
			n++
		}
	}
	return n, honors
}

func checkChuuren(h Hand34) bool {
	suits, honors := suitProfile(h)
	if suits != 1 || honors || h.Total() != 14 {
		return false
	}
	start := h.lowest()
	start -= start % 9
	base := [9]uint8{3, 1, 1, 1, 1, 1, 1, 1, 3}
	for i := 0; i < 9; i++ {
		if h[start+i] < base[i] {
			return false
		}
	}
	return true
}

func isYakuhaiPair(ctx *YakuContext, t TileType) bool {
	return t.IsDragon() || t == WindTile(ctx.SeatWind) || t == WindTile(ctx.RoundWind)
}

func checkPinfu(ctx *YakuContext) bool {
	d := ctx.division
	if d == nil || len(ctx.Melds) > 0 || d.countKind(BlockSequence) != 4 {
		return false
	}
	if isYakuhaiPair(ctx, d.Pair) {
		return false
	}
	win := ctx.WinTile.Type
	for _, b := range d.Blocks {
		if b.Kind != BlockSequence {
			continue
		}
		// 两面：和了牌在顺子左端且不是 789，或在右端且不是 123
		if win == b.Tile && b.Tile.Value() <= 6 {
			return true
		}
		if win == b.Tile+2 && b.Tile.Value() >= 2 {
			return true
		}
	}
	return false
}

func peikouCount(d *Division) int {
	if d == nil {
		return 0
	}
	counts := make(map[TileType]int, 4)
	for _, b := range d.Blocks {
		if b.Kind == BlockSequence && !b.Meld {
			counts[b.Tile]++
		}
	}
	n := 0
	for _, c := range counts {
		n += c / 2
	}
	return n
}

func hasSequence(d *Division, t TileType) bool {
	for _, b := range d.Blocks {
		if b.Kind == BlockSequence && b.Tile == t {
			return true
		}
	}
	return false
}

func checkSanshoku(d *Division) bool {
	if d == nil {
		return false
	}
	for v := TileType(0); v <= 6; v++ {
		if hasSequence(d, Man1+v) && hasSequence(d, Pin1+v) && hasSequence(d, So1+v) {
			return true
		}
	}
	return false
}

func checkIttsu(d *Division) bool {
	if d == nil {
		return false
	}
	for _, s := range []TileType{Man1, Pin1, So1} {
		if hasSequence(d, s) && hasSequence(d, s+3) && hasSequence(d, s+6) {
			return true
		}
	}
	return false
}

// checkOutsideHand withHonors=true 判断混全带幺九，false 判断纯全带幺九
func checkOutsideHand(d *Division, withHonors bool) bool {
	if d == nil || !d.Pair.IsYaochu() || d.countKind(BlockSequence) == 0 {
		return false
	}
	honors := d.Pair.IsHonor()
	for _, b := range d.Blocks {
		if !b.HasYaochu() {
			return false
		}
		if b.Kind != BlockSequence && b.Tile.IsHonor() {
			honors = true
		}
	}
	return honors == withHonors
}
