package engine

// LastDiscard 最近一次选定的弃牌
// 显式的有效位：设置之后只会被下一次出牌覆盖，不会清除
type LastDiscard struct {
	Tile  Tile
	Valid bool
}

// Expert 规则驱动的出牌决策引擎
// 持有自己的局面副本和全部可学习权重，单线程同步调用，
// 每次权重变更都直接写穿到快照文件
type Expert struct {
	discardPile []Tile // 场上所有玩家的弃牌，对引擎只读
	ownDiscards []Tile // 自己打出过的牌，按时间序
	hand        []Tile // 手牌，含刚摸到的牌
	newTile     *Tile  // 本轮摸到的牌，可能没有

	lastDiscard LastDiscard

	weights *WeightState
	store   *Store
}

// NewExpert 构造引擎并从快照加载权重，快照缺失或损坏时用内置缺省值
func NewExpert(store *Store) *Expert {
	if store == nil {
		store = NewStore("")
	}
	return &Expert{
		discardPile: make([]Tile, 0),
		ownDiscards: make([]Tile, 0),
		hand:        make([]Tile, 0),
		weights:     store.Load(),
		store:       store,
	}
}

// UpdateState 整体替换局面观察，newTile 非空时并入手牌
// 引擎保存传入切片的副本，调用方之后怎么改自己的切片都不影响引擎
func (e *Expert) UpdateState(discardPile, ownDiscards, hand []Tile, newTile *Tile) {
	e.discardPile = append([]Tile(nil), discardPile...)
	e.ownDiscards = append([]Tile(nil), ownDiscards...)
	e.hand = append([]Tile(nil), hand...)
	e.newTile = nil
	if newTile != nil {
		drawn := *newTile
		e.newTile = &drawn
		e.hand = append(e.hand, drawn)
	}
}

// EvaluateTileValue 评估一张牌的留牌价值
// 数量档位系数 ×（牌面权重 + 剩余权重）+ 位置权重
func (e *Expert) EvaluateTileValue(t Tile) float64 {
	count := countTile(e.hand, t)
	combined := e.weights.TileWeights[t] + e.remainingWeight(t)

	var factor float64
	switch {
	case count == 4:
		factor = e.weights.ValueFactors.FourOfAKind
	case count == 3:
		factor = e.weights.ValueFactors.ThreeOfAKind
	case count == 2:
		factor = e.weights.ValueFactors.Pair
	case e.isSequencePart(t):
		factor = e.weights.ValueFactors.Sequence
	default:
		factor = e.weights.ValueFactors.Single
	}
	return factor*combined + e.weights.PositionWeights[t.Rank]
}

// remainingWeight 按弃牌堆里已现张数修正：一张未现说明别家手里可能还藏着
// 三张，留着最不确定，罚得最重；已现两张以上不再修正
func (e *Expert) remainingWeight(t Tile) float64 {
	switch countTile(e.discardPile, t) {
	case 0:
		return -5
	case 1:
		return -2
	default:
		return 0
	}
}

// isSequencePart 手里是否有同花色相邻点数（±1）的牌
func (e *Expert) isSequencePart(t Tile) bool {
	return containsTile(e.hand, t.Shift(-1)) || containsTile(e.hand, t.Shift(1))
}

// EvaluateTileRisk 评估打出一张牌的风险，各独立信号直接相加，结果下限为 0
// 附带自调节副作用：本次原始风险偏高则整体上调风险因子，偏低则下调，随调随存
func (e *Expert) EvaluateTileRisk(t Tile) float64 {
	rf := &e.weights.RiskFactors
	risk := 0.0

	// 被吃：邻近三个点数（-1、0、+1）每有一个出现在弃牌堆加一次
	for _, offset := range []int{-1, 0, 1} {
		if containsTile(e.discardPile, t.Shift(offset)) {
			risk += rf.BeEaten
		}
	}

	discardCount := countTile(e.discardPile, t)

	// 被碰：按已现张数查表，表外张数按 0
	risk += rf.BePonged[discardCount]

	// 被杠：一张未现，三张可能都收在别家手里
	if discardCount == 0 {
		risk += rf.BeKonged
	}

	// 点炮：同张已现两张以上，或 ±1/±2 邻张出现在弃牌堆
	if e.isPotentialWinningTile(t, discardCount) {
		risk += rf.BeWinningTile
	}

	// 跟打：自己打过同张（缺省为负，跟打反而减风险）
	if containsTile(e.ownDiscards, t) {
		risk += rf.AlreadyDiscarded
	}

	// 用截断前的原始风险做自调节
	e.adjustRiskFactors(risk)

	if risk < 0 {
		return 0
	}
	return risk
}

func (e *Expert) isPotentialWinningTile(t Tile, discardCount int) bool {
	if discardCount >= 2 {
		return true
	}
	for _, offset := range []int{-2, -1, 1, 2} {
		if containsTile(e.discardPile, t.Shift(offset)) {
			return true
		}
	}
	return false
}

// adjustRiskFactors 风险自调节：没有胜负信号时也会发生，反复出现的危险局面
// 抬高后续风险权重，反复安全则压低；中间带乘 1，但截断和落盘每次都做
func (e *Expert) adjustRiskFactors(risk float64) {
	factor := 1.0
	if risk > 10 {
		factor = 1.1
	} else if risk < 5 {
		factor = 0.9
	}
	e.weights.RiskFactors.scale(factor)
	e.store.Save(e.weights)
}

// ChooseDiscard 选择要打出的牌：价值减风险最小的一张
// 并列时取手牌顺序里先出现的那张；手牌为空返回 false
func (e *Expert) ChooseDiscard() (Tile, bool) {
	if len(e.hand) == 0 {
		return Tile{}, false
	}
	best := e.hand[0]
	bestScore := e.EvaluateTileValue(best) - e.EvaluateTileRisk(best)
	for _, t := range e.hand[1:] {
		score := e.EvaluateTileValue(t) - e.EvaluateTileRisk(t)
		if score < bestScore {
			best = t
			bestScore = score
		}
	}
	return best, true
}

// Play 完整的一次出牌：替换局面、选牌、从手牌移除一张、记入自家弃牌、
// 登记为最近弃牌。手牌和弃牌的变更只发生在这里
func (e *Expert) Play(discardPile, ownDiscards, hand []Tile, newTile *Tile) (Tile, bool) {
	e.UpdateState(discardPile, ownDiscards, hand, newTile)
	t, ok := e.ChooseDiscard()
	if !ok {
		return Tile{}, false
	}
	e.hand = removeTile(e.hand, t)
	e.ownDiscards = append(e.ownDiscards, t)
	e.SetLastDiscard(t)
	return t, true
}

// SetLastDiscard 登记复盘对象
// 训练回放只做选牌不真正出牌，用这个入口指定引擎自己的选择
func (e *Expert) SetLastDiscard(t Tile) {
	e.lastDiscard = LastDiscard{Tile: t, Valid: true}
}

// UpdateExperience 按一轮胜负复盘最近一次弃牌，乘法式修正四张权重表后整体落盘
// 没有登记过弃牌时什么都不做。连续调用会再次应用修正，刻意不幂等
func (e *Expert) UpdateExperience(isWinning bool) {
	if !e.lastDiscard.Valid {
		return
	}
	tile := e.lastDiscard.Tile
	factor := 0.9
	if isWinning {
		factor = 1.1
	}

	e.updateValueFactors(tile, factor)
	e.updateTileWeights(tile, isWinning)
	e.updatePositionWeights(tile.Rank, factor)

	// 风险因子反向：赢了说明这张打得不危险，输了反之
	inverse := 1.1
	if isWinning {
		inverse = 0.9
	}
	e.weights.RiskFactors.scale(inverse)

	e.store.Save(e.weights)
}

// updateValueFactors 牌已经离手，数量补 1 再比档位；满足的档位各自修正
func (e *Expert) updateValueFactors(tile Tile, factor float64) {
	count := countTile(e.hand, tile) + 1
	vf := &e.weights.ValueFactors
	if count >= 4 {
		vf.FourOfAKind = clamp(vf.FourOfAKind*factor, ValueFactorMin, ValueFactorMax)
	}
	if count >= 3 {
		vf.ThreeOfAKind = clamp(vf.ThreeOfAKind*factor, ValueFactorMin, ValueFactorMax)
	}
	if count >= 2 {
		vf.Pair = clamp(vf.Pair*factor, ValueFactorMin, ValueFactorMax)
	}
	if e.isSequencePart(tile) {
		vf.Sequence = clamp(vf.Sequence*factor, ValueFactorMin, ValueFactorMax)
	}
}

// updateTileWeights 弃牌本身用更陡的 1.2/0.8（直接证据权重更高），
// 两侧邻张用 1.1/0.9
func (e *Expert) updateTileWeights(tile Tile, isWinning bool) {
	tw := e.weights.TileWeights

	self := 0.8
	neighbor := 0.9
	if isWinning {
		self = 1.2
		neighbor = 1.1
	}
	tw[tile] = clamp(tw[tile]*self, TileWeightMin, TileWeightMax)

	for _, offset := range []int{-1, 1} {
		adjacent := tile.Shift(offset)
		if !adjacent.InRange() {
			continue
		}
		tw[adjacent] = clamp(tw[adjacent]*neighbor, TileWeightMin, TileWeightMax)
	}
}

func (e *Expert) updatePositionWeights(rank int, factor float64) {
	pw := e.weights.PositionWeights
	pw[rank] = clamp(pw[rank]*factor, PositionWeightMin, PositionWeightMax)
}

func removeTile(tiles []Tile, target Tile) []Tile {
	for i, t := range tiles {
		if t == target {
			return append(tiles[:i], tiles[i+1:]...)
		}
	}
	return tiles
}

// ---- 展示用只读视图 ----

// Hand 手牌副本，展示层用
func (e *Expert) Hand() []Tile {
	return append([]Tile(nil), e.hand...)
}

// OwnDiscards 自家弃牌副本
func (e *Expert) OwnDiscards() []Tile {
	return append([]Tile(nil), e.ownDiscards...)
}

// DiscardPile 公共弃牌堆副本
func (e *Expert) DiscardPile() []Tile {
	return append([]Tile(nil), e.discardPile...)
}

// LastDiscard 最近一次弃牌，第二个返回值表示是否已有弃牌
func (e *Expert) LastDiscard() (Tile, bool) {
	return e.lastDiscard.Tile, e.lastDiscard.Valid
}

// Weights 当前权重表，展示层只读使用
func (e *Expert) Weights() *WeightState {
	return e.weights
}
