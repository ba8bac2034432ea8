package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnemyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enemy_list.yaml")
	yaml := `enemies:
  - id: 1
    name: minnow
    level: 1
    spawn_weight: 3.0
    wave_eligible: true
    reward: 1.0
  - id: 2
    name: shark
    level: 5
    spawn_weight: 1.0
    max_concurrent: 2
    reward: 10.0
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadEnemyTable(path)
	if err != nil {
		t.Fatalf("LoadEnemyTable: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tbl.Count())
	}

	shark := tbl.Get(2)
	if shark == nil || shark.Name != "shark" || shark.Level != 5 || shark.MaxConcurrent != 2 {
		t.Fatalf("Get(2) = %+v", shark)
	}
	if tbl.Get(99) != nil {
		t.Fatal("Get(99) returned a template for an unknown id")
	}

	// All preserves authoring order.
	all := tbl.All()
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("All order = %v", all)
	}
}

func TestLoadEnemyTableMissingFile(t *testing.T) {
	if _, err := LoadEnemyTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestNewEnemyTableValidation(t *testing.T) {
	cases := []struct {
		name      string
		templates []EnemyTemplate
	}{
		{"empty catalog", nil},
		{"level below 1", []EnemyTemplate{{ID: 1, Name: "x", Level: 0, SpawnWeight: 1}}},
		{"zero weight", []EnemyTemplate{{ID: 1, Name: "x", Level: 1, SpawnWeight: 0}}},
		{"negative weight", []EnemyTemplate{{ID: 1, Name: "x", Level: 1, SpawnWeight: -2}}},
		{"negative concurrency", []EnemyTemplate{{ID: 1, Name: "x", Level: 1, SpawnWeight: 1, MaxConcurrent: -1}}},
		{"duplicate id", []EnemyTemplate{
			{ID: 1, Name: "x", Level: 1, SpawnWeight: 1},
			{ID: 1, Name: "y", Level: 2, SpawnWeight: 1},
		}},
	}
	for _, c := range cases {
		if _, err := NewEnemyTable(c.templates); err == nil {
			t.Errorf("%s: accepted", c.name)
		}
	}
}
