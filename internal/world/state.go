package world

// SubjectInfo holds in-memory data for the session's subject (the player
// entity every spatial decision is relative to). Accessed only from the game
// loop goroutine — no locks needed.
type SubjectInfo struct {
	Pos      Vec2
	Heading  float64 // wander direction in radians
	Consumed int     // agents eaten this session
	Bumps    int     // contacts with agents too strong to eat
}

// State is the per-session world: the subject, the world bounds the subject
// may wander in, and the camera view region that follows it.
type State struct {
	Subject SubjectInfo

	bounds    Rect
	viewHalfW float64
	viewHalfH float64
}

// NewState creates a session world with the subject at the bounds center.
func NewState(bounds Rect, viewHalfW, viewHalfH float64) *State {
	return &State{
		Subject:   SubjectInfo{Pos: bounds.Center},
		bounds:    bounds,
		viewHalfW: viewHalfW,
		viewHalfH: viewHalfH,
	}
}

// Bounds returns the rectangle the subject is confined to.
func (s *State) Bounds() Rect { return s.bounds }

// SubjectPosition implements the spawn director's subject source.
func (s *State) SubjectPosition() Vec2 { return s.Subject.Pos }

// ViewRegion returns the camera rectangle centered on the subject. The second
// return mirrors the director contract: a session without a camera reports
// false and placement falls back to bounds or ring strategies.
func (s *State) ViewRegion() (Rect, bool) {
	if s.viewHalfW <= 0 || s.viewHalfH <= 0 {
		return Rect{}, false
	}
	return Rect{Center: s.Subject.Pos, HalfW: s.viewHalfW, HalfH: s.viewHalfH}, true
}
