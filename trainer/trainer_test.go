package trainer

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/shinkiyuusei/MahjongExpertSystem/engine"
)

func newTestExpert(t *testing.T) *engine.Expert {
	t.Helper()
	return engine.NewExpert(engine.NewStore(filepath.Join(t.TempDir(), "weights.json")))
}

func mustTile(t *testing.T, s string) engine.Tile {
	t.Helper()
	tile, err := engine.ParseTile(s)
	if err != nil {
		t.Fatalf("parse tile %q: %v", s, err)
	}
	return tile
}

func writeData(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "training_data.json")
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrainFile_Missing(t *testing.T) {
	ex := newTestExpert(t)
	before := ex.Weights().Clone()

	n, err := NewTrainer(ex).TrainFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rounds, got %d", n)
	}
	if !reflect.DeepEqual(before, ex.Weights()) {
		t.Fatalf("weights should stay untouched on a missing file")
	}
}

func TestTrainFile_Malformed(t *testing.T) {
	ex := newTestExpert(t)
	before := ex.Weights().Clone()
	path := writeData(t, `[{"my_hand": ["1万"`)

	n, err := NewTrainer(ex).TrainFile(path)
	if err == nil || !strings.Contains(err.Error(), "parse training data") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rounds, got %d", n)
	}
	if !reflect.DeepEqual(before, ex.Weights()) {
		t.Fatalf("weights should stay untouched on a malformed file")
	}
}

func TestTrainFile_ReplaysRounds(t *testing.T) {
	// Single-tile hands force the choice, so every weight movement is
	// known in advance. Round one exercises the drawn-tile merge.
	path := writeData(t, `[
		{"discard_pile": [], "my_discards": [], "my_hand": [], "new_tile": "1万", "is_winning": true},
		{"discard_pile": ["3条"], "my_discards": ["3条"], "my_hand": ["3条"], "new_tile": null, "is_winning": false}
	]`)

	ex := newTestExpert(t)
	n, err := NewTrainer(ex).TrainFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rounds, got %d", n)
	}

	w := ex.Weights()
	// Round 1 win on 1万: 0.8*1.2, its only in-range neighbor 2万 0.9*1.1.
	if !almostEqual(w.TileWeights[mustTile(t, "1万")], 0.96) {
		t.Fatalf("1万 expected 0.96, got %v", w.TileWeights[mustTile(t, "1万")])
	}
	if !almostEqual(w.TileWeights[mustTile(t, "2万")], 0.99) {
		t.Fatalf("2万 expected 0.99, got %v", w.TileWeights[mustTile(t, "2万")])
	}
	if !almostEqual(w.PositionWeights[1], -2.2) {
		t.Fatalf("position 1 expected -2.2, got %v", w.PositionWeights[1])
	}
	// Round 2 loss on 3条: 1.2*0.8, neighbors 0.9*0.9 and 1.5*0.9.
	if !almostEqual(w.TileWeights[mustTile(t, "3条")], 0.96) {
		t.Fatalf("3条 expected 0.96, got %v", w.TileWeights[mustTile(t, "3条")])
	}
	if !almostEqual(w.TileWeights[mustTile(t, "2条")], 0.81) {
		t.Fatalf("2条 expected 0.81, got %v", w.TileWeights[mustTile(t, "2条")])
	}
	if !almostEqual(w.TileWeights[mustTile(t, "4条")], 1.35) {
		t.Fatalf("4条 expected 1.35, got %v", w.TileWeights[mustTile(t, "4条")])
	}
	if !almostEqual(w.PositionWeights[3], 0.9) {
		t.Fatalf("position 3 expected 0.9, got %v", w.PositionWeights[3])
	}
	// Pair factor capped by the win, then eased by the loss.
	if !almostEqual(w.ValueFactors.Pair, 2.7) {
		t.Fatalf("pair expected 2.7, got %v", w.ValueFactors.Pair)
	}
	if w.ValueFactors.FourOfAKind != 20 {
		t.Fatalf("four_of_a_kind should stay initial, got %v", w.ValueFactors.FourOfAKind)
	}
	// Risk chart: inflate 1.1 (round 1 scan), deflate 0.9 (win), deflate
	// 0.9 (round 2 scan), inflate 1.1 (loss).
	if !almostEqual(w.RiskFactors.BeEaten, 1.9602) {
		t.Fatalf("be_eaten expected 1.9602, got %v", w.RiskFactors.BeEaten)
	}

	// Replay reinforces the engine's own choice and never discards.
	last, valid := ex.LastDiscard()
	if !valid || last != mustTile(t, "3条") {
		t.Fatalf("last discard expected 3条, got %v (%v)", last, valid)
	}
	hand := ex.Hand()
	if len(hand) != 1 || hand[0] != mustTile(t, "3条") {
		t.Fatalf("hand should survive replay intact, got %v", hand)
	}
}

func TestTrain_EmptyHandRound(t *testing.T) {
	path := writeData(t, `[
		{"discard_pile": [], "my_discards": [], "my_hand": ["1万"], "new_tile": null, "is_winning": true},
		{"discard_pile": [], "my_discards": [], "my_hand": [], "new_tile": null, "is_winning": false}
	]`)

	ex := newTestExpert(t)
	n, err := NewTrainer(ex).TrainFile(path)
	if err == nil || !strings.Contains(err.Error(), "round 1") {
		t.Fatalf("expected empty-hand error for round 1, got %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied round before the failure, got %d", n)
	}
}

func TestTrain_DefaultPathOnEmpty(t *testing.T) {
	// An empty path falls back to the conventional file name, which
	// does not exist inside the test directory.
	ex := newTestExpert(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	defer os.Chdir(wd)
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_, trainErr := NewTrainer(ex).TrainFile("")
	if trainErr == nil || !strings.Contains(trainErr.Error(), DefaultDataPath) {
		t.Fatalf("expected error naming %s, got %v", DefaultDataPath, trainErr)
	}
}
