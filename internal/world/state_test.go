package world

import "testing"

func TestStateSubjectStartsAtBoundsCenter(t *testing.T) {
	bounds := Rect{Center: Vec2{X: 5, Y: -5}, HalfW: 100, HalfH: 100}
	s := NewState(bounds, 16, 9)
	if s.SubjectPosition() != bounds.Center {
		t.Fatalf("subject at %v, want bounds center %v", s.SubjectPosition(), bounds.Center)
	}
}

func TestViewRegionFollowsSubject(t *testing.T) {
	s := NewState(Rect{HalfW: 100, HalfH: 100}, 16, 9)
	s.Subject.Pos = Vec2{X: 30, Y: 40}

	view, ok := s.ViewRegion()
	if !ok {
		t.Fatal("camera session reported no view region")
	}
	if view.Center != s.Subject.Pos || view.HalfW != 16 || view.HalfH != 9 {
		t.Fatalf("view = %+v", view)
	}
}

func TestViewRegionAbsentWithoutCamera(t *testing.T) {
	s := NewState(Rect{HalfW: 100, HalfH: 100}, 0, 0)
	if _, ok := s.ViewRegion(); ok {
		t.Fatal("cameraless session reported a view region")
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{HalfW: 10, HalfH: 10}
	cases := []struct{ in, want Vec2 }{
		{Vec2{X: 15, Y: 0}, Vec2{X: 10, Y: 0}},
		{Vec2{X: -15, Y: -20}, Vec2{X: -10, Y: -10}},
		{Vec2{X: 3, Y: 4}, Vec2{X: 3, Y: 4}},
	}
	for _, c := range cases {
		if got := r.Clamp(c.in); got != c.want {
			t.Errorf("Clamp(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
