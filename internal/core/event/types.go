package event

// Session event types. IDs are the spawn director's agent handles, passed as
// raw uint64 so this package stays free of gameplay imports.

// AgentDefeated fires when the subject consumes an agent. Drives progression.
type AgentDefeated struct {
	AgentID uint64
	Level   int
	Reward  float64
}

// AgentSpawned fires for every agent the director places, singles and wave
// members alike.
type AgentSpawned struct {
	AgentID uint64
	DefID   int32
	Level   int
	Wave    bool
}

// SubjectLevelUp fires when the progression tracker advances a level.
type SubjectLevelUp struct {
	NewLevel int
}

// SubjectBumped fires when the subject contacts an agent too strong to eat.
type SubjectBumped struct {
	AgentID    uint64
	AgentLevel int
}
