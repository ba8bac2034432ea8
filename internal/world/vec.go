package world

import "math"

// Vec2 is a position in world units.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Dist returns the euclidean distance to o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Rect is an axis-aligned region described by its center and half extents.
// Used for the camera view region and the world bounds.
type Rect struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

func (r Rect) MinX() float64 { return r.Center.X - r.HalfW }
func (r Rect) MaxX() float64 { return r.Center.X + r.HalfW }
func (r Rect) MinY() float64 { return r.Center.Y - r.HalfH }
func (r Rect) MaxY() float64 { return r.Center.Y + r.HalfH }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Clamp returns p constrained to the rectangle.
func (r Rect) Clamp(p Vec2) Vec2 {
	if p.X < r.MinX() {
		p.X = r.MinX()
	} else if p.X > r.MaxX() {
		p.X = r.MaxX()
	}
	if p.Y < r.MinY() {
		p.Y = r.MinY()
	} else if p.Y > r.MaxY() {
		p.Y = r.MaxY()
	}
	return p
}
