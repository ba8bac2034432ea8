package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	tuning := filepath.Join(dir, "tuning")
	if err := os.MkdirAll(tuning, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tuning, "curves.lua"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMissingScriptDirUsesBuiltins(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.SpawnRate(1.0); got != builtin.SpawnRate(1.0) {
		t.Fatalf("SpawnRate(1) = %v, want builtin %v", got, builtin.SpawnRate(1.0))
	}
	if got := e.Weight(0.5); got != builtin.Weight(0.5) {
		t.Fatalf("Weight(0.5) = %v, want builtin %v", got, builtin.Weight(0.5))
	}
}

func TestScriptedCurvesOverrideBuiltins(t *testing.T) {
	dir := writeScript(t, `
function spawn_rate_curve(d) return 1 + d end
function density_curve(d) return 2 end
function weight_curve(t) return t end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.SpawnRate(0.5); got != 1.5 {
		t.Fatalf("SpawnRate(0.5) = %v, want 1.5", got)
	}
	if got := e.Density(0.0); got != 2 {
		t.Fatalf("Density(0) = %v, want 2", got)
	}
	if got := e.Weight(0.25); got != 0.25 {
		t.Fatalf("Weight(0.25) = %v, want 0.25", got)
	}
}

// Rate and density multipliers divide the base interval. A script returning
// zero would stretch it to +Inf and silently stall spawning, so results below
// the documented minimums are clamped.
func TestScriptResultsClampedToCurveDomains(t *testing.T) {
	dir := writeScript(t, `
function spawn_rate_curve(d) return 0 end
function density_curve(d) return -3 end
function weight_curve(t) return -5 end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.SpawnRate(0.5); got != 1 {
		t.Fatalf("SpawnRate clamped = %v, want 1", got)
	}
	if got := e.Density(0.5); got != 1 {
		t.Fatalf("Density clamped = %v, want 1", got)
	}
	if got := e.Weight(0.3); got != 0 {
		t.Fatalf("Weight clamped = %v, want 0", got)
	}
}

func TestNonNumberResultFallsBackToBuiltin(t *testing.T) {
	dir := writeScript(t, `
function spawn_rate_curve(d) return "fast" end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.SpawnRate(1.0); got != builtin.SpawnRate(1.0) {
		t.Fatalf("SpawnRate = %v, want builtin %v", got, builtin.SpawnRate(1.0))
	}
}
