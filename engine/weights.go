package engine

// 各权重表的取值边界，所有变更操作都必须截断到边界内
const (
	TileWeightMin = 0.5
	TileWeightMax = 2.0

	PositionWeightMin = -3.0
	PositionWeightMax = 3.0

	RiskFactorMin = -10.0
	RiskFactorMax = 20.0

	ValueFactorMin = 0.5
	ValueFactorMax = 3.0
)

// RiskFactors 风险因子：四个具名标量加一个按已现张数索引的碰牌风险表
// be_ponged 未覆盖的张数（3、4）按 0 处理
type RiskFactors struct {
	BeEaten          float64         `json:"be_eaten"`          // 被吃风险（邻张出现在弃牌堆）
	BePonged         map[int]float64 `json:"be_ponged"`         // 被碰风险，键为该牌已现张数
	BeKonged         float64         `json:"be_konged"`         // 被杠风险（一张未现）
	BeWinningTile    float64         `json:"be_winning_tile"`   // 可能点炮
	AlreadyDiscarded float64         `json:"already_discarded"` // 已打过同张，跟打更安全（默认为负）
}

// ValueFactors 牌型价值系数
// 初始值故意大于截断上限，首次相关更新后收敛进 [0.5, 3.0]
type ValueFactors struct {
	FourOfAKind  float64 `json:"four_of_a_kind"`
	ThreeOfAKind float64 `json:"three_of_a_kind"`
	Pair         float64 `json:"pair"`
	Sequence     float64 `json:"sequence"`
	Single       float64 `json:"single"`
}

// WeightState 全部可学习参数，对应快照文件的四个顶层字段
type WeightState struct {
	TileWeights     map[Tile]float64 `json:"tile_weights"`
	PositionWeights map[int]float64  `json:"position_weights"`
	RiskFactors     RiskFactors      `json:"risk_factors"`
	ValueFactors    ValueFactors     `json:"value_factors"`
}

// DefaultWeightState 内置初始权重
// 边张初始权重低、中张高；位置权重对 1/9 和 2/8 施加惩罚
func DefaultWeightState() *WeightState {
	tileWeights := make(map[Tile]float64, 27)
	for _, t := range AllTiles() {
		tileWeights[t] = defaultTileWeight(t.Rank)
	}
	return &WeightState{
		TileWeights: tileWeights,
		PositionWeights: map[int]float64{
			1: -2, 2: -1, 3: 1, 4: 1, 5: 1, 6: 1, 7: 1, 8: -1, 9: -2,
		},
		RiskFactors: RiskFactors{
			BeEaten:          2,
			BePonged:         map[int]float64{0: 8, 1: 4, 2: 0},
			BeKonged:         4,
			BeWinningTile:    10,
			AlreadyDiscarded: -5,
		},
		ValueFactors: ValueFactors{
			FourOfAKind:  20,
			ThreeOfAKind: 15,
			Pair:         10,
			Sequence:     5,
			Single:       1,
		},
	}
}

func defaultTileWeight(rank int) float64 {
	switch rank {
	case 1, 9:
		return 0.8
	case 2, 8:
		return 0.9
	case 3, 7:
		return 1.2
	default:
		return 1.5
	}
}

// Clone 深拷贝，测试和快照对比用
func (w *WeightState) Clone() *WeightState {
	c := &WeightState{
		TileWeights:     make(map[Tile]float64, len(w.TileWeights)),
		PositionWeights: make(map[int]float64, len(w.PositionWeights)),
		RiskFactors:     w.RiskFactors,
		ValueFactors:    w.ValueFactors,
	}
	for k, v := range w.TileWeights {
		c.TileWeights[k] = v
	}
	for k, v := range w.PositionWeights {
		c.PositionWeights[k] = v
	}
	c.RiskFactors.BePonged = make(map[int]float64, len(w.RiskFactors.BePonged))
	for k, v := range w.RiskFactors.BePonged {
		c.RiskFactors.BePonged[k] = v
	}
	return c
}

// scale 所有风险标量和 be_ponged 表项统一乘 factor 并截断
// 风险自调节和胜负复盘共用这一条路径，保证每个嵌套项都被截断
func (rf *RiskFactors) scale(factor float64) {
	rf.BeEaten = clamp(rf.BeEaten*factor, RiskFactorMin, RiskFactorMax)
	rf.BeKonged = clamp(rf.BeKonged*factor, RiskFactorMin, RiskFactorMax)
	rf.BeWinningTile = clamp(rf.BeWinningTile*factor, RiskFactorMin, RiskFactorMax)
	rf.AlreadyDiscarded = clamp(rf.AlreadyDiscarded*factor, RiskFactorMin, RiskFactorMax)
	for count, v := range rf.BePonged {
		rf.BePonged[count] = clamp(v*factor, RiskFactorMin, RiskFactorMax)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
