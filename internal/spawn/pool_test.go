package spawn

import "testing"

func TestPoolPrewarm(t *testing.T) {
	p, err := NewPool(PoolConfig{InitialSize: 4, SoftCapacity: 5, HardCapacity: 8})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if got := p.FreeCount(); got != 4 {
		t.Fatalf("FreeCount = %d, want 4", got)
	}
	if got := p.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount = %d, want 0", got)
	}
}

func TestPoolConfigValidation(t *testing.T) {
	cases := []PoolConfig{
		{InitialSize: 0, SoftCapacity: 5, HardCapacity: 0},  // no hard cap
		{InitialSize: 0, SoftCapacity: 0, HardCapacity: 8},  // no soft cap
		{InitialSize: 0, SoftCapacity: 9, HardCapacity: 8},  // soft > hard
		{InitialSize: 6, SoftCapacity: 5, HardCapacity: 8},  // initial > soft
		{InitialSize: -1, SoftCapacity: 5, HardCapacity: 8}, // negative initial
	}
	for i, cfg := range cases {
		if _, err := NewPool(cfg); err == nil {
			t.Errorf("case %d: NewPool(%+v) accepted invalid config", i, cfg)
		}
	}
}

// A full acquire/release cycle at hard capacity retains every agent; pushing
// past hard capacity destroys the surplus on release instead of retaining it.
func TestPoolRetentionBound(t *testing.T) {
	p, err := NewPool(PoolConfig{InitialSize: 0, SoftCapacity: 5, HardCapacity: 8})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	agents := make([]*Agent, 0, 9)
	for i := 0; i < 8; i++ {
		a, ok := p.Acquire()
		if !ok {
			t.Fatalf("acquire %d refused below hard capacity", i)
		}
		agents = append(agents, a)
	}
	for _, a := range agents {
		p.Release(a)
	}
	if got := p.FreeCount(); got != 8 {
		t.Fatalf("FreeCount after cycle = %d, want 8", got)
	}

	// Burst one past hard capacity.
	agents = agents[:0]
	for i := 0; i < 9; i++ {
		a, ok := p.Acquire()
		if !ok {
			t.Fatalf("burst acquire %d refused", i)
		}
		agents = append(agents, a)
	}
	for _, a := range agents {
		p.Release(a)
	}
	if got := p.Total(); got != 8 {
		t.Fatalf("Total after burst cycle = %d, want 8 (one destroyed)", got)
	}
	if got := p.FreeCount(); got != 8 {
		t.Fatalf("FreeCount after burst cycle = %d, want 8", got)
	}
}

func TestPoolBurstCeiling(t *testing.T) {
	p, err := NewPool(PoolConfig{InitialSize: 0, SoftCapacity: 3, HardCapacity: 5})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	// Ceiling is hard+soft = 8 live handles.
	for i := 0; i < 8; i++ {
		if _, ok := p.Acquire(); !ok {
			t.Fatalf("acquire %d refused below burst ceiling", i)
		}
	}
	if _, ok := p.Acquire(); ok {
		t.Fatal("acquire past burst ceiling succeeded")
	}
	if got := p.ActiveCount(); got != 8 {
		t.Fatalf("ActiveCount = %d, want 8", got)
	}
}

// Destroying a slot bumps its generation, so an ID captured before the
// destroy never resolves to a recycled agent.
func TestPoolStaleHandle(t *testing.T) {
	p, err := NewPool(PoolConfig{InitialSize: 0, SoftCapacity: 2, HardCapacity: 2})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	held := make([]*Agent, 0, 2)
	for i := 0; i < 2; i++ {
		a, _ := p.Acquire()
		held = append(held, a)
	}
	burst, ok := p.Acquire() // third handle, over hard capacity
	if !ok {
		t.Fatal("burst acquire refused")
	}
	stale := burst.ID

	// Releasing while the others are active exceeds retention → destroyed.
	p.Release(burst)
	if got := p.Get(stale); got != nil {
		t.Fatalf("Get(stale) = %+v, want nil", got)
	}

	// Live handles still resolve.
	if got := p.Get(held[0].ID); got != held[0] {
		t.Fatal("live handle no longer resolves")
	}
}

func TestPoolAcquireClearsState(t *testing.T) {
	p, err := NewPool(PoolConfig{InitialSize: 1, SoftCapacity: 2, HardCapacity: 2})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	a, _ := p.Acquire()
	a.Level = 7
	a.Dead = true
	p.Release(a)

	b, _ := p.Acquire()
	if b.Level != 0 || b.Dead || b.Def != nil {
		t.Fatalf("recycled agent carries stale state: %+v", b)
	}
	if !b.Active {
		t.Fatal("acquired agent not active")
	}
}
