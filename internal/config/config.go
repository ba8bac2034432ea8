package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logging     LoggingConfig     `toml:"logging"`
	Sim         SimConfig         `toml:"sim"`
	Spawn       SpawnConfig       `toml:"spawn"`
	Pool        PoolConfig        `toml:"pool"`
	Progression ProgressionConfig `toml:"progression"`
	Placement   PlacementConfig   `toml:"placement"`
	Difficulty  DifficultyConfig  `toml:"difficulty"`
	Scripts     ScriptsConfig     `toml:"scripts"`
	Data        DataConfig        `toml:"data"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = session persistence disabled
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// SimConfig drives the host loop and the subject simulation around the
// spawn director.
type SimConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	SessionLength  time.Duration `toml:"session_length"` // 0 = run until signal
	Seed           int64         `toml:"seed"`           // 0 = seed from clock
	BoundsHalfW    float64       `toml:"bounds_half_w"`
	BoundsHalfH    float64       `toml:"bounds_half_h"`
	ViewHalfW      float64       `toml:"view_half_w"`
	ViewHalfH      float64       `toml:"view_half_h"`
	SubjectSpeed   float64       `toml:"subject_speed"` // units/second wander speed
	EatRadius      float64       `toml:"eat_radius"`
	TelemetryTicks int           `toml:"telemetry_ticks"` // log stats every N ticks
}

// SpawnConfig is the per-session spawn director tuning. Intervals are in
// game-time seconds, not wall clock.
type SpawnConfig struct {
	MaxActive        int     `toml:"max_active"`
	BaseInterval     float64 `toml:"base_interval"`
	IntervalJitter   float64 `toml:"interval_jitter"`
	AheadRange       int     `toml:"ahead_range"`
	BehindRange      int     `toml:"behind_range"`
	PreyEmphasis     float64 `toml:"prey_emphasis"` // weight multiplier for levels at or below the subject's
	WaveChance       float64 `toml:"wave_chance"`
	WaveSizeMin      int     `toml:"wave_size_min"`
	WaveSizeMax      int     `toml:"wave_size_max"`
	WaveRadius       float64 `toml:"wave_radius"`
	MaxSpawnsPerTick int     `toml:"max_spawns_per_tick"`
	CleanupInterval  float64 `toml:"cleanup_interval"`
	CullDistance     float64 `toml:"cull_distance"`
	RampTime         float64 `toml:"ramp_time"`  // seconds of session time to reach full time-based difficulty
	LevelCap         int     `toml:"level_cap"`  // level at which level-based difficulty saturates
}

type PoolConfig struct {
	InitialSize  int `toml:"initial_size"`
	SoftCapacity int `toml:"soft_capacity"`
	HardCapacity int `toml:"hard_capacity"`
}

type ProgressionConfig struct {
	Mode         string  `toml:"mode"` // killcount | experience | time | hybrid
	MaxLevel     int     `toml:"max_level"`
	KillBase     int     `toml:"kill_base"`
	KillPerLevel int     `toml:"kill_per_level"`
	ExpBase      float64 `toml:"exp_base"`
	ExpPerLevel  float64 `toml:"exp_per_level"`
	TimeBase     float64 `toml:"time_base"`
	TimePerLevel float64 `toml:"time_per_level"`
}

type PlacementConfig struct {
	ExclusionRadius float64 `toml:"exclusion_radius"`
	SpawnDistance   float64 `toml:"spawn_distance"`
	EdgeBuffer      float64 `toml:"edge_buffer"`
	Slack           float64 `toml:"slack"`
	MaxAttempts     int     `toml:"max_attempts"`
}

type DifficultyConfig struct {
	Interval        float64 `toml:"interval"` // adaptive check cadence, game-time seconds
	DetectionRadius float64 `toml:"detection_radius"`
	StressThreshold float64 `toml:"stress_threshold"`
	EaseFactor      float64 `toml:"ease_factor"`
	TightenFactor   float64 `toml:"tighten_factor"`
	MinBaseInterval float64 `toml:"min_base_interval"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"` // empty = lua tuning disabled, built-in curves
}

type DataConfig struct {
	EnemyList string `toml:"enemy_list"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "chomp-champ",
			ID:   1,
		},
		Database: DatabaseConfig{
			DSN:             "", // opt-in
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sim: SimConfig{
			TickRate:       50 * time.Millisecond,
			SessionLength:  0,
			BoundsHalfW:    120,
			BoundsHalfH:    120,
			ViewHalfW:      16,
			ViewHalfH:      9,
			SubjectSpeed:   6,
			EatRadius:      1.5,
			TelemetryTicks: 100,
		},
		Spawn: SpawnConfig{
			MaxActive:        24,
			BaseInterval:     2.0,
			IntervalJitter:   0.4,
			AheadRange:       2,
			BehindRange:      3,
			PreyEmphasis:     2.0,
			WaveChance:       0.15,
			WaveSizeMin:      3,
			WaveSizeMax:      6,
			WaveRadius:       4,
			MaxSpawnsPerTick: 6,
			CleanupInterval:  2.0,
			CullDistance:     60,
			RampTime:         300,
			LevelCap:         10,
		},
		Pool: PoolConfig{
			InitialSize:  8,
			SoftCapacity: 24,
			HardCapacity: 40,
		},
		Progression: ProgressionConfig{
			Mode:         "killcount",
			MaxLevel:     10,
			KillBase:     5,
			KillPerLevel: 3,
			ExpBase:      50,
			ExpPerLevel:  35,
			TimeBase:     45,
			TimePerLevel: 20,
		},
		Placement: PlacementConfig{
			ExclusionRadius: 8,
			SpawnDistance:   20,
			EdgeBuffer:      2,
			Slack:           6,
			MaxAttempts:     15,
		},
		Difficulty: DifficultyConfig{
			Interval:        5.0,
			DetectionRadius: 12,
			StressThreshold: 0.6,
			EaseFactor:      1.2,
			TightenFactor:   0.9,
			MinBaseInterval: 0.25,
		},
		Scripts: ScriptsConfig{
			Dir: "scripts",
		},
		Data: DataConfig{
			EnemyList: "data/yaml/enemy_list.yaml",
		},
	}
}
