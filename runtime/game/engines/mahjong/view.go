package mahjong

// SituationDTO 场况
type SituationDTO struct {
	DealerIndex  int    `json:"dealerIndex"`
	RoundWind    string `json:"roundWind"`
	RoundNumber  int    `json:"roundNumber"`
	Honba        int    `json:"honba"`
	RiichiSticks int    `json:"riichiSticks"`
}

// SeatView 某个座位的公开信息
type SeatView struct {
	SeatIndex   int    `json:"seatIndex"`
	UserID      string `json:"userID"`
	Wind        string `json:"wind"`
	Points      int    `json:"points"`
	IsRiichi    bool   `json:"isRiichi"`
	RiichiIndex int    `json:"riichiIndex"`
	DiscardPile []Tile `json:"discardPile"`
	Melds       []Meld `json:"melds"`
	HandCount   int    `json:"handCount"`
	Hand        []Tile `json:"hand,omitempty"` // 只对本人可见
}

// RoundResultView 本局结算
type RoundResultView struct {
	EndKind           string   `json:"endKind"`
	Winner            int      `json:"winner"`
	Loser             int      `json:"loser"`
	WinTile           *Tile    `json:"winTile,omitempty"`
	Han               int      `json:"han,omitempty"`
	Fu                int      `json:"fu,omitempty"`
	Points            int      `json:"points,omitempty"`
	Label             string   `json:"label,omitempty"`
	Yakus             []string `json:"yakus,omitempty"`
	Summary           string   `json:"summary,omitempty"`
	Delta             []int    `json:"delta"`
	TenpaiSeats       []int    `json:"tenpaiSeats,omitempty"`
	WinnerHand        []Tile   `json:"winnerHand,omitempty"`
	UraDoraIndicators []Tile   `json:"uraDoraIndicators,omitempty"` // 只在立直和了时公开
	Reason            string   `json:"reason,omitempty"`
}

// TableView 推送给单个观察者的牌桌投影，Viewer 为 -1 时是旁观视角
type TableView struct {
	GameID         string             `json:"gameID"`
	Viewer         int                `json:"viewer"`
	State          string             `json:"state"`
	Situation      SituationDTO       `json:"situation"`
	Seats          []SeatView         `json:"seats"`
	DoraIndicators []Tile             `json:"doraIndicators"`
	WallRemaining  int                `json:"wallRemaining"`
	CurrentSeat    int                `json:"currentSeat"`
	LastDiscard    *Tile              `json:"lastDiscard,omitempty"`
	Operations     []*PlayerOperation `json:"operations,omitempty"`
	CanTsumo       bool               `json:"canTsumo,omitempty"`
	RiichiOptions  []Tile             `json:"riichiOptions,omitempty"` // 可以宣告立直的打牌
	Result         *RoundResultView   `json:"result,omitempty"`
}

// ViewFor 按观察者投影牌桌，他家手牌与未公开的里宝牌不会出现在结果中
func (eg *RiichiMahjong) ViewFor(viewer int) *TableView {
	view := &TableView{
		GameID: eg.GameID,
		Viewer: viewer,
		State:  eg.TurnManager.GetState().String(),
		Situation: SituationDTO{
			DealerIndex:  eg.Situation.DealerIndex,
			RoundWind:    eg.Situation.RoundWind.String(),
			RoundNumber:  eg.Situation.RoundNumber,
			Honba:        eg.Situation.Honba,
			RiichiSticks: eg.Situation.RiichiSticks,
		},
		DoraIndicators: eg.DeckManager.DoraIndicators(),
		WallRemaining:  eg.DeckManager.Remaining(),
		CurrentSeat:    eg.TurnManager.GetCurrentPlayer(),
	}

	for seat, p := range eg.Players {
		sv := SeatView{
			SeatIndex:   seat,
			UserID:      p.UserID,
			Wind:        eg.seatWind(seat).String(),
			Points:      p.Points,
			IsRiichi:    p.IsRiichi,
			RiichiIndex: p.RiichiIndex,
			DiscardPile: append([]Tile(nil), p.DiscardPile...),
			Melds:       append([]Meld(nil), p.Melds...),
			HandCount:   len(p.Tiles),
		}
		if seat == viewer {
			sv.Hand = append([]Tile(nil), p.Tiles...)
		}
		view.Seats = append(view.Seats, sv)
	}

	if eg.lastDiscard.Valid {
		t := eg.lastDiscard.Tile
		view.LastDiscard = &t
	}

	if viewer >= 0 && viewer < len(eg.Players) {
		switch eg.TurnManager.GetState() {
		case TurnStateWaitReactions:
			if r, ok := eg.Reactions[viewer]; ok && !r.Responded {
				view.Operations = r.Operations
			}
		case TurnStateWaitMain:
			if viewer == eg.TurnManager.GetCurrentPlayer() {
				eg.fillMainOptions(view, viewer)
			}
		}
	}

	if eg.lastResult != nil {
		view.Result = eg.lastResult.view()
	}
	return view
}

// fillMainOptions 出牌阶段本人的自摸、立直提示
func (eg *RiichiMahjong) fillMainOptions(view *TableView, seat int) {
	p := eg.Players[seat]
	if p.NewestTile != nil {
		_, err := eg.evaluateWin(seat, *p.NewestTile, true, false)
		view.CanTsumo = err == nil
	}
	if eg.riichiPrecondition(p) != nil {
		return
	}
	for _, c := range eg.Searcher.SeekCandidates(p.Tiles, len(p.Melds), nil) {
		view.RiichiOptions = append(view.RiichiOptions, c.DiscardOptions...)
	}
}

func (r *RoundResult) view() *RoundResultView {
	v := &RoundResultView{
		EndKind:     r.EndKind,
		Winner:      r.Winner,
		Loser:       r.Loser,
		WinTile:     r.WinTile,
		Summary:     r.Summary,
		Delta:       append([]int(nil), r.Delta...),
		TenpaiSeats: r.TenpaiSeats,
		WinnerHand:  r.WinnerHand,
		Reason:      r.Reason,
	}
	if r.Score != nil {
		v.Han = r.Score.Han
		v.Fu = r.Score.Fu
		v.Points = r.Score.TotalScore
		v.Label = r.Score.Label
	}
	for _, y := range r.Yakus {
		v.Yakus = append(v.Yakus, y.Yaku.String())
	}
	if r.riichiWin {
		v.UraDoraIndicators = r.UraDoraIndicators
	}
	return v
}
