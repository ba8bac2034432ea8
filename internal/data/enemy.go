package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyTemplate holds static data for an enemy type loaded from YAML.
// Templates are authored data and treated as immutable after load; many
// spawned agents share one template.
type EnemyTemplate struct {
	ID            int32   `yaml:"id"`
	Name          string  `yaml:"name"`
	Level         int     `yaml:"level"`
	SpawnWeight   float64 `yaml:"spawn_weight"`
	MaxConcurrent int     `yaml:"max_concurrent"` // 0 = unbounded
	WaveEligible  bool    `yaml:"wave_eligible"`
	Reward        float64 `yaml:"reward"` // experience granted when consumed
}

type enemyListFile struct {
	Enemies []EnemyTemplate `yaml:"enemies"`
}

// EnemyTable holds all enemy templates indexed by ID.
type EnemyTable struct {
	templates map[int32]*EnemyTemplate
	ordered   []*EnemyTemplate // authoring order, used for deterministic selection scans
}

// LoadEnemyTable loads enemy templates from a YAML file and validates them.
// A catalog with zero definitions is a configuration error and fails fast
// here rather than at each spawn tick.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	return NewEnemyTable(f.Enemies)
}

// NewEnemyTable builds a table from in-memory templates. Exposed for tests
// and for hosts that author catalogs programmatically.
func NewEnemyTable(templates []EnemyTemplate) (*EnemyTable, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("enemy catalog is empty")
	}
	t := &EnemyTable{
		templates: make(map[int32]*EnemyTemplate, len(templates)),
		ordered:   make([]*EnemyTemplate, 0, len(templates)),
	}
	for i := range templates {
		e := &templates[i]
		if err := validateTemplate(e); err != nil {
			return nil, err
		}
		if _, dup := t.templates[e.ID]; dup {
			return nil, fmt.Errorf("enemy %d (%s): duplicate id", e.ID, e.Name)
		}
		t.templates[e.ID] = e
		t.ordered = append(t.ordered, e)
	}
	return t, nil
}

func validateTemplate(e *EnemyTemplate) error {
	if e.Level < 1 {
		return fmt.Errorf("enemy %d (%s): level must be >= 1, got %d", e.ID, e.Name, e.Level)
	}
	if e.SpawnWeight <= 0 {
		return fmt.Errorf("enemy %d (%s): spawn_weight must be > 0, got %g", e.ID, e.Name, e.SpawnWeight)
	}
	if e.MaxConcurrent < 0 {
		return fmt.Errorf("enemy %d (%s): max_concurrent must be >= 0, got %d", e.ID, e.Name, e.MaxConcurrent)
	}
	return nil
}

// Get returns the template for an enemy ID, or nil if not found.
func (t *EnemyTable) Get(id int32) *EnemyTemplate {
	return t.templates[id]
}

// All returns templates in authoring order. Callers must not mutate them.
func (t *EnemyTable) All() []*EnemyTemplate {
	return t.ordered
}

// Count returns the number of loaded templates.
func (t *EnemyTable) Count() int {
	return len(t.templates)
}
