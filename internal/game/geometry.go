package game

import "math"

// BaseRadius is the collision radius of a zero-score entity.
// An entity's radius grows by one world unit per point of score,
// so radius is strictly increasing in score.
const BaseRadius = 10.0

// Radius returns the collision radius for a given score.
func Radius(score int) float64 {
	return BaseRadius + float64(score)
}

// Distance returns the euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Overlaps reports whether two circles collide.
// The comparison is strict: entities whose edges exactly touch do NOT collide.
func Overlaps(x1, y1 float64, score1 int, x2, y2 float64, score2 int) bool {
	return Distance(x1, y1, x2, y2) < Radius(score1)+Radius(score2)
}
