package gui

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
)

// ExpertWindow 出牌策略系统的主窗口
// 纯展示层：解析输入、调用引擎公开接口、回显结果和权重，不带任何决策逻辑
type ExpertWindow struct {
	expert *engine.Expert
	window fyne.Window

	handEntry     *widget.Entry
	newTileEntry  *widget.Entry
	pileEntry     *widget.Entry
	discardsEntry *widget.Entry

	resultLabel  *widget.Label
	weightsLabel *widget.Label
}

// NewExpertWindow 创建主窗口
func NewExpertWindow(fyneApp fyne.App, expert *engine.Expert) *ExpertWindow {
	ew := &ExpertWindow{
		expert: expert,
	}

	ew.window = fyneApp.NewWindow("麻将出牌策略系统")
	ew.createUI()
	ew.window.Resize(fyne.NewSize(720, 640))

	return ew
}

// createUI 创建 UI 组件
func (ew *ExpertWindow) createUI() {
	ew.handEntry = widget.NewEntry()
	ew.handEntry.SetPlaceHolder("当前手牌 (逗号分隔)，如 1万,2万,3条")

	ew.newTileEntry = widget.NewEntry()
	ew.newTileEntry.SetPlaceHolder("新摸到的牌，可留空")

	ew.pileEntry = widget.NewEntry()
	ew.pileEntry.SetPlaceHolder("弃牌堆 (逗号分隔)")

	ew.discardsEntry = widget.NewEntry()
	ew.discardsEntry.SetPlaceHolder("自己已打出的牌 (逗号分隔)")

	playBtn := widget.NewButton("选择出牌", func() {
		ew.runPlay()
	})
	winBtn := widget.NewButton("本轮胡牌", func() {
		ew.markResult(true)
	})
	loseBtn := widget.NewButton("本轮未胡牌", func() {
		ew.markResult(false)
	})

	buttonContainer := container.NewHBox(playBtn, winBtn, loseBtn)

	ew.resultLabel = widget.NewLabel("")
	ew.resultLabel.Alignment = fyne.TextAlignCenter

	ew.weightsLabel = widget.NewLabel("")
	ew.weightsLabel.Wrapping = fyne.TextWrapWord
	ew.weightsLabel.Alignment = fyne.TextAlignLeading
	weightsScroll := container.NewScroll(ew.weightsLabel)
	weightsScroll.SetMinSize(fyne.NewSize(680, 240))

	mainContainer := container.NewVBox(
		&widget.Card{
			Title: "局面输入",
			Content: container.NewVBox(
				ew.handEntry,
				ew.newTileEntry,
				ew.pileEntry,
				ew.discardsEntry,
			),
		},
		&widget.Card{
			Title:   "操作",
			Content: buttonContainer,
		},
		&widget.Card{
			Title:   "系统建议出牌",
			Content: ew.resultLabel,
		},
		&widget.Card{
			Title:   "当前权重",
			Content: weightsScroll,
		},
	)

	ew.window.SetContent(mainContainer)
	ew.refreshWeights()
}

// runPlay 解析四个输入框，让引擎出一张牌，并把出牌后的手牌/弃牌写回输入框
func (ew *ExpertWindow) runPlay() {
	hand, err := engine.ParseTiles(ew.handEntry.Text)
	if err != nil {
		ew.showError(err)
		return
	}
	pile, err := engine.ParseTiles(ew.pileEntry.Text)
	if err != nil {
		ew.showError(err)
		return
	}
	mine, err := engine.ParseTiles(ew.discardsEntry.Text)
	if err != nil {
		ew.showError(err)
		return
	}

	var newTile *engine.Tile
	if s := strings.TrimSpace(ew.newTileEntry.Text); s != "" {
		t, err := engine.ParseTile(s)
		if err != nil {
			ew.showError(err)
			return
		}
		newTile = &t
	}

	tile, ok := ew.expert.Play(pile, mine, hand, newTile)
	if !ok {
		ew.resultLabel.SetText("错误: 手牌为空")
		return
	}
	ew.resultLabel.SetText(tile.String())

	// 把出牌后的状态写回输入框，方便连续推演
	// 摸到的牌已并入手牌，新牌输入框随之清空
	remaining := ew.expert.Hand()
	engine.SortTiles(remaining)
	ew.handEntry.SetText(joinTiles(remaining))
	ew.newTileEntry.SetText("")
	ew.discardsEntry.SetText(joinTiles(ew.expert.OwnDiscards()))

	ew.refreshWeights()
}

// markResult 标记本轮胜负并触发复盘
func (ew *ExpertWindow) markResult(isWinning bool) {
	ew.expert.UpdateExperience(isWinning)
	if isWinning {
		ew.resultLabel.SetText("已标记胡牌，更新相关权重！")
	} else {
		ew.resultLabel.SetText("已标记未胡牌，更新相关权重！")
	}
	ew.refreshWeights()
}

func (ew *ExpertWindow) showError(err error) {
	ew.resultLabel.SetText(fmt.Sprintf("错误: %v", err))
}

// refreshWeights 更新权重显示区域
func (ew *ExpertWindow) refreshWeights() {
	ws := ew.expert.Weights()

	var b strings.Builder
	b.WriteString("位置权重: " + formatPositionWeights(ws.PositionWeights) + "\n")
	b.WriteString("价值评估系数: " + formatValueFactors(ws.ValueFactors) + "\n")
	b.WriteString("风险评估系数: " + formatRiskFactors(ws.RiskFactors) + "\n")

	if tile, ok := ew.expert.LastDiscard(); ok {
		b.WriteString(fmt.Sprintf("\n最后打出的牌 %s 的权重: %.2f\n", tile, ws.TileWeights[tile]))
		b.WriteString("相邻牌权重: ")
		for _, offset := range []int{-1, 0, 1} {
			adjacent := tile.Shift(offset)
			if !adjacent.InRange() {
				continue
			}
			b.WriteString(fmt.Sprintf("%s:%.2f ", adjacent, ws.TileWeights[adjacent]))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("\n暂无最后打出的牌信息\n")
	}

	ew.weightsLabel.SetText(b.String())
}

// Show 显示窗口
func (ew *ExpertWindow) Show() {
	ew.window.Show()
}

func joinTiles(tiles []engine.Tile) string {
	parts := make([]string, 0, len(tiles))
	for _, t := range tiles {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

func formatPositionWeights(pw map[int]float64) string {
	parts := make([]string, 0, len(pw))
	for rank := engine.RankMin; rank <= engine.RankMax; rank++ {
		if v, ok := pw[rank]; ok {
			parts = append(parts, fmt.Sprintf("%d:%.2f", rank, v))
		}
	}
	return strings.Join(parts, " ")
}

func formatValueFactors(vf engine.ValueFactors) string {
	return fmt.Sprintf("杠:%.2f 刻:%.2f 对:%.2f 顺:%.2f 单:%.2f",
		vf.FourOfAKind, vf.ThreeOfAKind, vf.Pair, vf.Sequence, vf.Single)
}

func formatRiskFactors(rf engine.RiskFactors) string {
	counts := make([]int, 0, len(rf.BePonged))
	for count := range rf.BePonged {
		counts = append(counts, count)
	}
	sort.Ints(counts)
	ponged := make([]string, 0, len(counts))
	for _, count := range counts {
		ponged = append(ponged, fmt.Sprintf("%d:%.2f", count, rf.BePonged[count]))
	}
	return fmt.Sprintf("吃:%.2f 碰:{%s} 杠:%.2f 炮:%.2f 跟:%.2f",
		rf.BeEaten, strings.Join(ponged, " "), rf.BeKonged,
		rf.BeWinningTile, rf.AlreadyDiscarded)
}
