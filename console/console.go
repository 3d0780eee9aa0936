package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
)

// Console 交互式推演模式
// 终端版的策略窗口：先录入局面，再让引擎出牌、标记胜负
type Console struct {
	expert *engine.Expert

	hand    []engine.Tile
	pile    []engine.Tile
	mine    []engine.Tile
	newTile *engine.Tile
}

// Run 启动交互循环，quit 或输入流结束时返回
func Run(expert *engine.Expert) {
	c := &Console{expert: expert}

	fmt.Println("麻将出牌策略系统（交互模式）")
	fmt.Println("输入 help 查看可用命令")

	c.inputLoop()
	fmt.Println("再见！")
}

// inputLoop 处理用户输入的命令
func (c *Console) inputLoop() {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		if cmd == "quit" {
			return
		}

		if err := c.handleCommand(cmd); err != nil {
			fmt.Printf("错误: %v\n", err)
		}
	}
}

func (c *Console) handleCommand(cmd string) error {
	verb, rest := cmd, ""
	if idx := strings.IndexAny(cmd, " \t"); idx >= 0 {
		verb, rest = cmd[:idx], strings.TrimSpace(cmd[idx:])
	}

	switch verb {
	case "hand":
		tiles, err := engine.ParseTiles(rest)
		if err != nil {
			return err
		}
		c.hand = tiles
		fmt.Printf("手牌: %s\n", engine.FormatTiles(c.hand))
	case "draw":
		if rest == "" {
			c.newTile = nil
			fmt.Println("已清除新摸的牌")
			return nil
		}
		t, err := engine.ParseTile(rest)
		if err != nil {
			return err
		}
		c.newTile = &t
		fmt.Printf("新摸的牌: %s\n", t)
	case "pile":
		tiles, err := engine.ParseTiles(rest)
		if err != nil {
			return err
		}
		c.pile = tiles
		fmt.Printf("弃牌堆: %s\n", engine.FormatTiles(c.pile))
	case "mine":
		tiles, err := engine.ParseTiles(rest)
		if err != nil {
			return err
		}
		c.mine = tiles
		fmt.Printf("自家弃牌: %s\n", engine.FormatTiles(c.mine))
	case "play":
		tile, ok := c.expert.Play(c.pile, c.mine, c.hand, c.newTile)
		if !ok {
			return fmt.Errorf("empty hand")
		}
		fmt.Printf("建议打出: %s\n", tile)

		// 出牌后的状态写回本地缓冲，便于连续推演
		c.hand = c.expert.Hand()
		engine.SortTiles(c.hand)
		c.mine = c.expert.OwnDiscards()
		c.newTile = nil
		fmt.Printf("剩余手牌: %s\n", engine.FormatTiles(c.hand))
	case "win":
		c.expert.UpdateExperience(true)
		fmt.Println("已标记胡牌，更新相关权重")
	case "lose":
		c.expert.UpdateExperience(false)
		fmt.Println("已标记未胡牌，更新相关权重")
	case "state":
		c.printState()
	case "weights":
		c.printWeights()
	case "help":
		printHelp()
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
	return nil
}

func (c *Console) printState() {
	fmt.Printf("手牌:     %s\n", engine.FormatTiles(c.hand))
	if c.newTile != nil {
		fmt.Printf("新摸的牌: %s\n", *c.newTile)
	} else {
		fmt.Println("新摸的牌: 无")
	}
	fmt.Printf("弃牌堆:   %s\n", engine.FormatTiles(c.pile))
	fmt.Printf("自家弃牌: %s\n", engine.FormatTiles(c.mine))
	if tile, ok := c.expert.LastDiscard(); ok {
		fmt.Printf("最近弃牌: %s\n", tile)
	}
}

func (c *Console) printWeights() {
	ws := c.expert.Weights()
	fmt.Printf("位置权重: %v\n", ws.PositionWeights)
	fmt.Printf("价值系数: 杠%.2f 刻%.2f 对%.2f 顺%.2f 单%.2f\n",
		ws.ValueFactors.FourOfAKind, ws.ValueFactors.ThreeOfAKind,
		ws.ValueFactors.Pair, ws.ValueFactors.Sequence, ws.ValueFactors.Single)
	fmt.Printf("风险系数: 吃%.2f 杠%.2f 炮%.2f 跟%.2f 碰%v\n",
		ws.RiskFactors.BeEaten, ws.RiskFactors.BeKonged,
		ws.RiskFactors.BeWinningTile, ws.RiskFactors.AlreadyDiscarded,
		ws.RiskFactors.BePonged)
	if tile, ok := c.expert.LastDiscard(); ok {
		fmt.Printf("最后打出的牌 %s 的权重: %.2f\n", tile, ws.TileWeights[tile])
	}
}

func printHelp() {
	fmt.Println("可用命令:")
	fmt.Println("  hand 1万,2万,3条   设置当前手牌")
	fmt.Println("  draw 5条           设置新摸到的牌（不带参数则清除）")
	fmt.Println("  pile 1万,9筒       设置公共弃牌堆")
	fmt.Println("  mine 2条           设置自己已打出的牌")
	fmt.Println("  play               让引擎选择出牌")
	fmt.Println("  win / lose         标记本轮胜负并更新权重")
	fmt.Println("  state              查看当前局面")
	fmt.Println("  weights            查看当前权重")
	fmt.Println("  quit               退出")
}
