package trainer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
	"github.com/shinkiyuusei/MahjongExpertSystem/log"
)

// DefaultDataPath 缺省的训练数据文件
const DefaultDataPath = "training_data.json"

// Round 一轮历史牌局记录，牌面以 "5条" 形式的字符串存储
type Round struct {
	DiscardPile []engine.Tile `json:"discard_pile"`
	MyDiscards  []engine.Tile `json:"my_discards"`
	MyHand      []engine.Tile `json:"my_hand"`
	NewTile     *engine.Tile  `json:"new_tile"`
	IsWinning   bool          `json:"is_winning"`
}

// Trainer 批量训练器：把历史牌局逐轮喂给引擎做离线复盘
// 复盘对象是引擎自己的选择，不是当时实际打出的牌
type Trainer struct {
	expert *engine.Expert
}

func NewTrainer(expert *engine.Expert) *Trainer {
	return &Trainer{expert: expert}
}

// TrainFile 读取训练数据文件并回放全部轮次
// 先整体解析再逐轮应用：文件缺失或损坏直接报错，引擎状态不会被污染
func (tr *Trainer) TrainFile(path string) (int, error) {
	if path == "" {
		path = DefaultDataPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("training data file %s not found", path)
		}
		return 0, fmt.Errorf("read training data: %v", err)
	}

	var rounds []Round
	if err := json.Unmarshal(data, &rounds); err != nil {
		return 0, fmt.Errorf("parse training data: %v", err)
	}

	applied, err := tr.Train(rounds)
	if err != nil {
		return applied, err
	}
	log.Info("权重训练完成，共回放 %d 轮，已保存更新后的权重", applied)
	return applied, nil
}

// Train 逐轮回放：更新局面 → 引擎选牌 → 登记为复盘对象 → 按胜负复盘
// 训练只做选牌不真正出牌，手牌保持原样
func (tr *Trainer) Train(rounds []Round) (int, error) {
	for i, round := range rounds {
		tr.expert.UpdateState(round.DiscardPile, round.MyDiscards, round.MyHand, round.NewTile)

		tile, ok := tr.expert.ChooseDiscard()
		if !ok {
			return i, fmt.Errorf("round %d: empty hand", i)
		}
		tr.expert.SetLastDiscard(tile)
		tr.expert.UpdateExperience(round.IsWinning)

		log.Debug("第 %d 轮: 引擎选择 %s, 胜负 %v", i+1, tile, round.IsWinning)
	}
	return len(rounds), nil
}
