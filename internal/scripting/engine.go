package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
)

// builtin supplies the fallback curves when a script is absent or broken.
var builtin spawn.DefaultCurves

// Engine wraps a single gopher-lua VM for authored tuning logic: Go executes
// the spawn director, Lua decides the shape of its curves. Single-goroutine
// access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	// resolved once at load; nil when the script does not define the global
	weightFn    lua.LValue
	spawnRateFn lua.LValue
	densityFn   lua.LValue
}

// NewEngine creates a Lua engine and loads all tuning scripts from the given
// directory. Missing directories are fine — every curve has a built-in
// fallback, so a scriptless install still runs.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(filepath.Join(scriptsDir, "tuning")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load tuning scripts: %w", err)
	}

	e.weightFn = e.lookup("weight_curve")
	e.spawnRateFn = e.lookup("spawn_rate_curve")
	e.densityFn = e.lookup("density_curve")
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) lookup(name string) lua.LValue {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Debug("lua tuning function not defined, using builtin", zap.String("fn", name))
		return nil
	}
	return fn
}

// call runs a one-float-in, one-float-out tuning function. Errors fall back
// to the provided default so a broken script degrades instead of wedging the
// spawn loop.
func (e *Engine) call(name string, fn lua.LValue, arg, fallback float64) float64 {
	if fn == nil {
		return fallback
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(arg)); err != nil {
		e.log.Error("lua tuning call failed", zap.String("fn", name), zap.Error(err))
		return fallback
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua tuning function returned non-number", zap.String("fn", name))
		return fallback
	}
	return float64(n)
}

// Weight implements spawn.Curves over the weight_curve global. Weights are
// non-negative; a script returning less is clamped to 0.
func (e *Engine) Weight(t float64) float64 {
	w := e.call("weight_curve", e.weightFn, t, builtin.Weight(t))
	if w < 0 {
		return 0
	}
	return w
}

// SpawnRate implements spawn.Curves over the spawn_rate_curve global. Rate
// multipliers divide the base interval, so a script returning < 1 would
// stretch intervals toward infinity; clamp to the documented minimum.
func (e *Engine) SpawnRate(d float64) float64 {
	return atLeastOne(e.call("spawn_rate_curve", e.spawnRateFn, d, builtin.SpawnRate(d)))
}

// Density implements spawn.Curves over the density_curve global. Same
// minimum as SpawnRate.
func (e *Engine) Density(d float64) float64 {
	return atLeastOne(e.call("density_curve", e.densityFn, d, builtin.Density(d)))
}

func atLeastOne(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}

// Close shuts down the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
