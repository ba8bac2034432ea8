package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ntploc21/chomp-champ-sub000/internal/data"
	"github.com/ntploc21/chomp-champ-sub000/internal/persist"
	"github.com/ntploc21/chomp-champ-sub000/internal/spawn"
	"github.com/ntploc21/chomp-champ-sub000/internal/world"
)

// console is the operator's stdin debug surface. A reader goroutine feeds
// complete lines into Lines; the game loop executes commands between ticks,
// so every command runs on the loop goroutine like any other mutation.
type console struct {
	Lines chan string

	sched   *spawn.Scheduler
	ws      *world.State
	enemies *data.EnemyTable
	repo    *persist.SessionRepo
	log     *zap.Logger
}

func newConsole(sched *spawn.Scheduler, ws *world.State, enemies *data.EnemyTable, repo *persist.SessionRepo, log *zap.Logger) *console {
	c := &console{
		Lines:   make(chan string, 4),
		sched:   sched,
		ws:      ws,
		enemies: enemies,
		repo:    repo,
		log:     log,
	}
	go c.readLoop()
	return c
}

func (c *console) readLoop() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.Lines <- line
	}
	// stdin closed (e.g. daemonized) — commands simply stop arriving
}

// Handle executes one command line. Returns true when the operator asked to
// quit.
func (c *console) Handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "spawn":
		n := intArg(args, 0, 1)
		done := 0
		for i := 0; i < n; i++ {
			if !c.sched.ForceSpawn(nil, 0) {
				break
			}
			done++
		}
		fmt.Printf("  spawned %d/%d (active %d)\n", done, n, c.sched.ActiveCount())
	case "wave":
		size := intArg(args, 0, 0)
		if c.sched.ForceWave(nil, size) {
			fmt.Printf("  wave spawned (active %d)\n", c.sched.ActiveCount())
		} else {
			fmt.Println("  wave refused (idle, at capacity, or no placement)")
		}
	case "gate":
		switch {
		case len(args) > 0 && args[0] == "on":
			c.sched.SetGate(true)
		case len(args) > 0 && args[0] == "off":
			c.sched.SetGate(false)
		default:
			fmt.Println("  usage: gate on|off")
			return false
		}
		fmt.Printf("  scheduler %s\n", c.sched.State())
	case "stats":
		st := c.sched.StatsSnapshot()
		fmt.Printf("  state=%s active=%d pooled=%d peak=%d\n",
			c.sched.State(), c.sched.ActiveCount(), c.sched.PooledCount(), st.PeakActive)
		fmt.Printf("  spawned=%d waves=%d defeated=%d culled=%d\n",
			st.Spawned, st.Waves, st.Defeated, st.Culled)
		fmt.Printf("  skipped: catalog=%d placement=%d pool=%d\n",
			st.SkippedEmptyCatalog, st.SkippedPlacement, st.SkippedPool)
		fmt.Printf("  consumed=%d bumps=%d difficulty=%.2f base_interval=%.2fs\n",
			c.ws.Subject.Consumed, c.ws.Subject.Bumps,
			c.sched.CurrentDifficulty(), c.sched.BaseInterval())
	case "level":
		fmt.Printf("  level %d, progress %.0f%%\n",
			c.sched.CurrentPlayerLevel(), c.sched.CurrentProgress()*100)
	case "defs":
		for _, def := range c.enemies.All() {
			wave := " "
			if def.WaveEligible {
				wave = "w"
			}
			fmt.Printf("  #%-3d %s lv%-2d weight=%.1f cap=%d %s\n",
				def.ID, def.Name, def.Level, def.SpawnWeight, def.MaxConcurrent, wave)
		}
	case "history":
		c.history(intArg(args, 0, 5))
	case "quit", "exit":
		return true
	default:
		fmt.Printf("  unknown command %q\n", cmd)
	}
	return false
}

func (c *console) history(n int) {
	if c.repo == nil {
		fmt.Println("  persistence disabled (no database dsn)")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := c.repo.Recent(ctx, n)
	if err != nil {
		c.log.Error("query session history", zap.Error(err))
		return
	}
	for _, row := range rows {
		state := "running"
		if row.EndedAt != nil {
			state = "ended"
		}
		fmt.Printf("  #%d %s %s dur=%.0fs level=%d kills=%d spawned=%d peak=%d\n",
			row.ID, row.StartedAt.Format("01-02 15:04"), state,
			row.DurationSeconds, row.FinalLevel, row.Kills, row.Spawned, row.PeakActive)
	}
}

func intArg(args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return def
	}
	return n
}
