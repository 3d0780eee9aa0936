package engine

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "weights.json"))
	got := s.Load()
	if !reflect.DeepEqual(got, DefaultWeightState()) {
		t.Fatalf("missing file should load defaults, got %+v", got)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got := NewStore(path).Load()
	if !reflect.DeepEqual(got, DefaultWeightState()) {
		t.Fatalf("corrupt file should load defaults, got %+v", got)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	s := NewStore(path)

	state := DefaultWeightState()
	state.TileWeights[mustTile(t, "1万")] = 1.23
	state.PositionWeights[9] = -2.5
	state.RiskFactors.BePonged[1] = 3.3
	state.ValueFactors.Pair = 2.5

	s.Save(state)
	got := s.Load()
	if !reflect.DeepEqual(got, state) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", state, got)
	}
}

func TestStore_LoadPartialSnapshot(t *testing.T) {
	// A present top-level field replaces its whole default table,
	// absent fields keep the built-in defaults.
	path := filepath.Join(t.TempDir(), "weights.json")
	payload := `{"tile_weights": {"1万": 1.9}, "risk_factors": {"be_eaten": 7}}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got := NewStore(path).Load()

	if len(got.TileWeights) != 1 || !almostEqual(got.TileWeights[mustTile(t, "1万")], 1.9) {
		t.Fatalf("tile weights expected only 1万=1.9, got %v", got.TileWeights)
	}
	if !almostEqual(got.RiskFactors.BeEaten, 7) {
		t.Fatalf("be_eaten expected 7, got %v", got.RiskFactors.BeEaten)
	}
	if got.RiskFactors.BeKonged != 0 {
		t.Fatalf("be_konged expected 0 after table replacement, got %v", got.RiskFactors.BeKonged)
	}
	if got.RiskFactors.BePonged == nil || len(got.RiskFactors.BePonged) != 0 {
		t.Fatalf("be_ponged expected empty map, got %v", got.RiskFactors.BePonged)
	}

	def := DefaultWeightState()
	if !reflect.DeepEqual(got.PositionWeights, def.PositionWeights) {
		t.Fatalf("position weights should stay default, got %v", got.PositionWeights)
	}
	if got.ValueFactors != def.ValueFactors {
		t.Fatalf("value factors should stay default, got %+v", got.ValueFactors)
	}
}

func TestStore_EmptyPathUsesDefault(t *testing.T) {
	s := NewStore("")
	if s.path != DefaultSnapshotPath {
		t.Fatalf("expected default path %s, got %s", DefaultSnapshotPath, s.path)
	}
}
