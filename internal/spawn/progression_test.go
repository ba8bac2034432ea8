package spawn

import "testing"

func killConfig(maxLevel, base, perLevel int) ProgressionConfig {
	return ProgressionConfig{
		Mode:         ModeKillCount,
		MaxLevel:     maxLevel,
		KillBase:     base,
		KillPerLevel: perLevel,
		AheadRange:   1,
		BehindRange:  1,
		PreyEmphasis: 1.0,
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"killcount":  ModeKillCount,
		"kills":      ModeKillCount,
		"experience": ModeExperience,
		"exp":        ModeExperience,
		"time":       ModeTimeElapsed,
		"hybrid":     ModeHybrid,
	}
	for s, want := range cases {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("ParseMode accepted unknown mode")
	}
}

func TestKillModeLevelsUpAndResets(t *testing.T) {
	p := NewProgression(killConfig(3, 3, 0), DefaultCurves{}, nil)
	if p.Level() != 1 {
		t.Fatalf("starting level = %d, want 1", p.Level())
	}
	p.RecordKill(1)
	p.RecordKill(1)
	if p.Level() != 1 {
		t.Fatalf("leveled up after 2/3 kills")
	}
	p.RecordKill(1)
	if p.Level() != 2 {
		t.Fatalf("Level after 3 kills = %d, want 2", p.Level())
	}
	// Exactly one threshold advances exactly one level; counter resets.
	if p.Kills() != 0 {
		t.Fatalf("kill counter after level-up = %d, want 0", p.Kills())
	}
	for i := 0; i < 3; i++ {
		p.RecordKill(2)
	}
	if p.Level() != 3 {
		t.Fatalf("Level = %d, want 3", p.Level())
	}
}

func TestKillModeStopsAtMaxLevel(t *testing.T) {
	p := NewProgression(killConfig(2, 1, 0), DefaultCurves{}, nil)
	for i := 0; i < 10; i++ {
		p.RecordKill(1)
	}
	if p.Level() != 2 {
		t.Fatalf("Level = %d, want cap 2", p.Level())
	}
}

func TestKillThresholdGrowsWithLevel(t *testing.T) {
	p := NewProgression(killConfig(5, 2, 2), DefaultCurves{}, nil)
	p.RecordKill(1)
	p.RecordKill(1) // threshold at level 1: 2
	if p.Level() != 2 {
		t.Fatalf("Level = %d, want 2", p.Level())
	}
	p.RecordKill(1)
	p.RecordKill(1)
	p.RecordKill(1) // threshold at level 2: 4
	if p.Level() != 2 {
		t.Fatalf("leveled up after 3/4 kills at level 2")
	}
	p.RecordKill(1)
	if p.Level() != 3 {
		t.Fatalf("Level = %d, want 3", p.Level())
	}
}

func TestExperienceMode(t *testing.T) {
	p := NewProgression(ProgressionConfig{
		Mode:        ModeExperience,
		MaxLevel:    3,
		ExpBase:     10,
		ExpPerLevel: 0,
	}, DefaultCurves{}, nil)
	p.RecordExperience(6)
	if p.Level() != 1 {
		t.Fatal("leveled up early")
	}
	p.RecordExperience(4)
	if p.Level() != 2 {
		t.Fatalf("Level = %d, want 2", p.Level())
	}
	// Negative and zero rewards are ignored.
	p.RecordExperience(0)
	p.RecordExperience(-5)
	if p.Progress() != 0 {
		t.Fatalf("Progress after no-op rewards = %g, want 0", p.Progress())
	}
}

func TestTimeModeLevelsOnTick(t *testing.T) {
	p := NewProgression(ProgressionConfig{
		Mode:     ModeTimeElapsed,
		MaxLevel: 3,
		TimeBase: 10,
	}, DefaultCurves{}, nil)
	p.Tick(9)
	if p.Level() != 1 {
		t.Fatal("leveled up early")
	}
	p.Tick(1)
	if p.Level() != 2 {
		t.Fatalf("Level = %d, want 2", p.Level())
	}
}

func TestHybridAveragesKillAndExp(t *testing.T) {
	p := NewProgression(ProgressionConfig{
		Mode:     ModeHybrid,
		MaxLevel: 3,
		KillBase: 4,
		ExpBase:  10,
	}, DefaultCurves{}, nil)
	p.RecordKill(1)
	p.RecordKill(1) // kill progress 0.5
	p.RecordExperience(4)
	if p.Level() != 1 {
		t.Fatalf("leveled up at average %.2f", p.Progress())
	}
	p.RecordExperience(1) // exp progress 0.5 → average 0.5... still short
	if p.Level() != 1 {
		t.Fatal("leveled up below average 1.0")
	}
	p.RecordExperience(10) // exp progress 1.5 → average 1.0
	if p.Level() != 2 {
		t.Fatalf("Level = %d, want 2", p.Level())
	}
	if p.Kills() != 0 {
		t.Fatal("hybrid level-up did not reset kill counter")
	}
}

func TestLevelUpCallbackAndTableRebuild(t *testing.T) {
	var got []int
	p := NewProgression(killConfig(4, 1, 0), DefaultCurves{}, func(l int) {
		got = append(got, l)
	})
	p.RecordKill(1)
	p.RecordKill(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("callback levels = %v, want [2 3]", got)
	}
	min, max := p.Table().Window()
	if min != 2 || max != 4 {
		t.Fatalf("table window at level 3 = [%d,%d], want [2,4]", min, max)
	}
}
