package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ntploc21/chomp-champ-sub000/internal/config"
	"github.com/ntploc21/chomp-champ-sub000/internal/core/event"
	coresys "github.com/ntploc21/chomp-champ-sub000/internal/core/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/data"
	"github.com/ntploc21/chomp-champ-sub000/internal/persist"
	"github.com/ntploc21/chomp-champ-sub000/internal/scripting"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
	"github.com/ntploc21/chomp-champ-sub000/internal/system"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Chomp Champ  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       大魚吃小魚 · Go 生成調度守護        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(編號: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	// Use rune count for CJK width calculation (each CJK char = 2 columns)
	displayWidth := 0
	for _, r := range title {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	lineLen := 46 - displayWidth - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	// Use display width for CJK characters
	displayWidth := 0
	for _, r := range label {
		if r > 0x7F {
			displayWidth += 2
		} else {
			displayWidth++
		}
	}
	dotsLen := 42 - displayWidth - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main daemon logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/chompd.toml"
	if p := os.Getenv("CHOMPD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations. An empty DSN means the
	// session runs without telemetry persistence.
	var sessionRepo *persist.SessionRepo
	var sessionID int64
	if cfg.Database.DSN != "" {
		printSection("資料庫")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")

		sessionRepo = persist.NewSessionRepo(db)
		sessionID, err = sessionRepo.Begin(ctx, cfg.Server.ID)
		if err != nil {
			return fmt.Errorf("begin session row: %w", err)
		}
		fmt.Println()
	}

	// 4. Load enemy catalog
	printSection("資料載入")

	enemyTable, err := data.LoadEnemyTable(cfg.Data.EnemyList)
	if err != nil {
		return fmt.Errorf("load enemy table: %w", err)
	}
	printStat("敵人模板", enemyTable.Count())

	// 5. Initialize Lua tuning engine. Go executes the director, Lua decides
	// the shape of its curves; no scripts dir means built-in curves.
	var curves spawn.Curves = spawn.DefaultCurves{}
	if cfg.Scripts.Dir != "" {
		luaEngine, err := scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer luaEngine.Close()
		curves = luaEngine
		printOK("Lua 腳本載入完成")
	}
	fmt.Println()

	// 6. Seed the session RNG
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// 7. Create world state and event bus
	bounds := world.Rect{HalfW: cfg.Sim.BoundsHalfW, HalfH: cfg.Sim.BoundsHalfH}
	ws := world.NewState(bounds, cfg.Sim.ViewHalfW, cfg.Sim.ViewHalfH)
	bus := event.NewBus()

	// 8. Create the spawn director
	sched, err := spawn.NewScheduler(spawnConfig(cfg, &bounds), enemyTable, ws, curves, rng, log)
	if err != nil {
		return fmt.Errorf("spawn scheduler: %w", err)
	}
	sched.Hooks.AgentSpawned = func(a spawn.AgentSnapshot, wave bool) {
		event.Emit(bus, event.AgentSpawned{AgentID: uint64(a.ID), DefID: a.DefID, Level: a.Level, Wave: wave})
	}
	sched.Hooks.LevelUp = func(newLevel int) {
		event.Emit(bus, event.SubjectLevelUp{NewLevel: newLevel})
	}
	event.Subscribe(bus, func(ev event.AgentDefeated) {
		sched.OnAgentDefeated(ev.Level, ev.Reward)
	})
	event.Subscribe(bus, func(ev event.SubjectLevelUp) {
		log.Info("威脅等級提升", zap.Int("level", ev.NewLevel))
	})
	event.Subscribe(bus, func(ev event.SubjectBumped) {
		log.Debug("撞上強敵", zap.Uint64("agent", ev.AgentID), zap.Int("agent_level", ev.AgentLevel))
	})
	sched.Start()

	// 9. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(system.NewDispatchSystem(bus))
	runner.Register(system.NewSessionSystem(ws, sched, enemyTable, bus, rng, cfg.Sim))
	runner.Register(system.NewSpawnDirectorSystem(sched))
	runner.Register(system.NewTelemetrySystem(sched, ws, log, cfg.Sim.TelemetryTicks))

	// Checkpoint roughly every 30 seconds of wall clock.
	persistTicks := int(30 * time.Second / cfg.Sim.TickRate)
	persistSys := system.NewPersistenceSystem(sched, ws, sessionRepo, sessionID, cfg.Server.ID, log, persistTicks)
	runner.Register(persistSys)

	// 10. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	var sessionEnd <-chan time.Time
	if cfg.Sim.SessionLength > 0 {
		sessionEnd = time.After(cfg.Sim.SessionLength)
	}

	console := newConsole(sched, ws, enemyTable, sessionRepo, log)

	printSection("守護程序就緒")
	printReady(fmt.Sprintf("場次開始 (tick: %s, seed: %d)", cfg.Sim.TickRate, seed))
	if cfg.Sim.SessionLength > 0 {
		printReady(fmt.Sprintf("場次長度 %s", cfg.Sim.SessionLength))
	}
	printReady("主控台: spawn / wave / gate / stats / level / defs / history / quit")
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
		case line := <-console.Lines:
			if console.Handle(line) {
				return shutdown(sched, persistSys, log, "console quit")
			}
		case <-sessionEnd:
			log.Info("場次時間到", zap.Duration("length", cfg.Sim.SessionLength))
			return shutdown(sched, persistSys, log, "session length reached")
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			return shutdown(sched, persistSys, log, sig.String())
		}
	}
}

// shutdown stops the director and writes the final session checkpoint.
func shutdown(sched *spawn.Scheduler, persistSys *system.PersistenceSystem, log *zap.Logger, reason string) error {
	sched.Stop()
	persistSys.FinalSave()
	log.Info("守護程序已停止", zap.String("reason", reason))
	return nil
}

// spawnConfig flattens the TOML sections into the director's config.
func spawnConfig(cfg *config.Config, bounds *world.Rect) spawn.Config {
	mode, err := spawn.ParseMode(cfg.Progression.Mode)
	if err != nil {
		mode = spawn.ModeKillCount
	}
	return spawn.Config{
		MaxActive:        cfg.Spawn.MaxActive,
		BaseInterval:     cfg.Spawn.BaseInterval,
		IntervalJitter:   cfg.Spawn.IntervalJitter,
		AheadRange:       cfg.Spawn.AheadRange,
		BehindRange:      cfg.Spawn.BehindRange,
		PreyEmphasis:     cfg.Spawn.PreyEmphasis,
		WaveChance:       cfg.Spawn.WaveChance,
		WaveSizeMin:      cfg.Spawn.WaveSizeMin,
		WaveSizeMax:      cfg.Spawn.WaveSizeMax,
		WaveRadius:       cfg.Spawn.WaveRadius,
		MaxSpawnsPerTick: cfg.Spawn.MaxSpawnsPerTick,
		CleanupInterval:  cfg.Spawn.CleanupInterval,
		CullDistance:     cfg.Spawn.CullDistance,
		RampTime:         cfg.Spawn.RampTime,
		LevelCap:         cfg.Spawn.LevelCap,
		Pool: spawn.PoolConfig{
			InitialSize:  cfg.Pool.InitialSize,
			SoftCapacity: cfg.Pool.SoftCapacity,
			HardCapacity: cfg.Pool.HardCapacity,
		},
		Placement: spawn.PlacementConfig{
			ExclusionRadius: cfg.Placement.ExclusionRadius,
			SpawnDistance:   cfg.Placement.SpawnDistance,
			EdgeBuffer:      cfg.Placement.EdgeBuffer,
			Slack:           cfg.Placement.Slack,
			MaxAttempts:     cfg.Placement.MaxAttempts,
			Bounds:          bounds,
		},
		Progression: spawn.ProgressionConfig{
			Mode:         mode,
			MaxLevel:     cfg.Progression.MaxLevel,
			KillBase:     cfg.Progression.KillBase,
			KillPerLevel: cfg.Progression.KillPerLevel,
			ExpBase:      cfg.Progression.ExpBase,
			ExpPerLevel:  cfg.Progression.ExpPerLevel,
			TimeBase:     cfg.Progression.TimeBase,
			TimePerLevel: cfg.Progression.TimePerLevel,
		},
		Difficulty: spawn.DifficultyConfig{
			Interval:        cfg.Difficulty.Interval,
			DetectionRadius: cfg.Difficulty.DetectionRadius,
			StressThreshold: cfg.Difficulty.StressThreshold,
			EaseFactor:      cfg.Difficulty.EaseFactor,
			TightenFactor:   cfg.Difficulty.TightenFactor,
			MinBaseInterval: cfg.Difficulty.MinBaseInterval,
		},
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
