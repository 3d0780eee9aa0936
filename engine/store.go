package engine

import (
	"encoding/json"
	"os"

	"github.com/shinkiyuusei/MahjongExpertSystem/log"
)

// DefaultSnapshotPath 缺省的权重快照文件
const DefaultSnapshotPath = "mahjong_weights.json"

// Store 权重快照的读写，单进程独占，不加锁
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultSnapshotPath
	}
	return &Store{path: path}
}

// snapshot 用指针/空值区分"字段缺失"和"字段为空"：
// 快照里出现的顶层字段整表替换缺省值，缺失的字段保留缺省值，永不做字段内合并
type snapshot struct {
	TileWeights     map[Tile]float64 `json:"tile_weights"`
	PositionWeights map[int]float64  `json:"position_weights"`
	RiskFactors     *RiskFactors     `json:"risk_factors"`
	ValueFactors    *ValueFactors    `json:"value_factors"`
}

// Load 读取快照，文件缺失或损坏时回退到内置缺省权重，绝不向调用方抛错
func (s *Store) Load() *WeightState {
	state := DefaultWeightState()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("未找到权重文件 %s，使用默认权重", s.path)
		} else {
			log.Error("读取权重文件失败，使用默认权重: %v", err)
		}
		return state
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Error("权重文件损坏，使用默认权重: %v", err)
		return state
	}

	if snap.TileWeights != nil {
		state.TileWeights = snap.TileWeights
	}
	if snap.PositionWeights != nil {
		state.PositionWeights = snap.PositionWeights
	}
	if snap.RiskFactors != nil {
		state.RiskFactors = *snap.RiskFactors
		if state.RiskFactors.BePonged == nil {
			state.RiskFactors.BePonged = make(map[int]float64)
		}
	}
	if snap.ValueFactors != nil {
		state.ValueFactors = *snap.ValueFactors
	}
	return state
}

// Save 整体重写快照文件，尽力而为：失败只记日志，内存状态仍然有效
func (s *Store) Save(state *WeightState) {
	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		log.Error("权重序列化失败: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		log.Error("保存权重文件失败: %v", err)
	}
}
