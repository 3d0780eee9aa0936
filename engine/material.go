package engine

import (
	"fmt"
	"sort"
	"strings"
)

type Suit int

const (
	SuitWan  Suit = iota // 万子
	SuitTiao             // 条子
	SuitTong             // 筒子
)

const (
	RankMin = 1
	RankMax = 9
)

func (s Suit) String() string {
	switch s {
	case SuitWan:
		return "万"
	case SuitTiao:
		return "条"
	case SuitTong:
		return "筒"
	default:
		return "未知"
	}
}

// Tile 一张数牌，值语义，可直接作为 map 键比较
// 本系统只有三门数牌（万/条/筒 各 1-9），没有字牌
type Tile struct {
	Rank int
	Suit Suit
}

func (t Tile) String() string {
	return fmt.Sprintf("%d%s", t.Rank, t.Suit)
}

// Shift 同花色偏移 offset 位的牌，可能越界（越界牌不会出现在任何牌堆里，
// 成员判断自然失败，调用方不需要额外检查）
func (t Tile) Shift(offset int) Tile {
	return Tile{Rank: t.Rank + offset, Suit: t.Suit}
}

// InRange 点数是否在 1-9 之间
func (t Tile) InRange() bool {
	return t.Rank >= RankMin && t.Rank <= RankMax
}

func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(text []byte) error {
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTile 解析 "5条" 形式的牌面文本
// 引擎内部不校验牌面（调用方保证合法），解析只发生在输入边界上
func ParseTile(s string) (Tile, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) != 2 {
		return Tile{}, fmt.Errorf("invalid tile %q", s)
	}
	if runes[0] < '1' || runes[0] > '9' {
		return Tile{}, fmt.Errorf("invalid tile rank %q", s)
	}
	rank := int(runes[0] - '0')
	switch string(runes[1]) {
	case "万":
		return Tile{Rank: rank, Suit: SuitWan}, nil
	case "条":
		return Tile{Rank: rank, Suit: SuitTiao}, nil
	case "筒":
		return Tile{Rank: rank, Suit: SuitTong}, nil
	default:
		return Tile{}, fmt.Errorf("invalid tile suit %q", s)
	}
}

// ParseTiles 解析逗号分隔的一组牌面（GUI/命令行输入），空串得到空切片
func ParseTiles(s string) ([]Tile, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})
	tiles := make([]Tile, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			continue
		}
		t, err := ParseTile(field)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

// FormatTiles 以逗号分隔输出一组牌面
func FormatTiles(tiles []Tile) string {
	parts := make([]string, 0, len(tiles))
	for _, t := range tiles {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ",")
}

// AllTiles 27 种牌，按 万 条 筒、点数从小到大排列
func AllTiles() []Tile {
	tiles := make([]Tile, 0, 27)
	for _, suit := range []Suit{SuitWan, SuitTiao, SuitTong} {
		for rank := RankMin; rank <= RankMax; rank++ {
			tiles = append(tiles, Tile{Rank: rank, Suit: suit})
		}
	}
	return tiles
}

// SortTiles 按花色（万<条<筒）再按点数排序，只用于显示，不影响出牌决策
func SortTiles(tiles []Tile) {
	sort.SliceStable(tiles, func(i, j int) bool {
		if tiles[i].Suit != tiles[j].Suit {
			return tiles[i].Suit < tiles[j].Suit
		}
		return tiles[i].Rank < tiles[j].Rank
	})
}

func countTile(tiles []Tile, target Tile) int {
	n := 0
	for _, t := range tiles {
		if t == target {
			n++
		}
	}
	return n
}

func containsTile(tiles []Tile, target Tile) bool {
	for _, t := range tiles {
		if t == target {
			return true
		}
	}
	return false
}
