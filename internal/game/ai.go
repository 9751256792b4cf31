package game

import "math"

// updateAI recomputes one AI snake's desired heading: seek the nearest orb,
// blend away from nearby threats, and near an edge override everything and
// head back to the interior. Boosting starts with a small per-tick
// probability when affordable.
func (st *State) updateAI(s *Snake) {
	if !s.Alive || len(s.Segments) == 0 {
		return
	}
	head := s.Head()

	// Dominant behavior: steer at the closest orb
	target := s.Dir
	bestDist := math.MaxFloat64
	for _, o := range st.Orbs {
		d := head.DistanceTo(o.Pos)
		if d < bestDist {
			bestDist = d
			target = math.Atan2(o.Pos.Y-head.Y, o.Pos.X-head.X)
		}
	}

	// Blend in avoidance for each living snake inside the danger radius.
	// A weighted average, not a potential field: the AI remains killable.
	for _, other := range st.snakes() {
		if other == s || !other.Alive || len(other.Segments) == 0 {
			continue
		}
		oh := other.Head()
		if head.DistanceTo(oh) > AIDangerRadius {
			continue
		}
		away := math.Atan2(head.Y-oh.Y, head.X-oh.X)
		target = blendAngles(target, away, AIAvoidWeight)
	}

	// Boundary avoidance trumps both: force travel toward the arena center
	if head.X < AIEdgeMargin || head.X > ArenaSize-AIEdgeMargin ||
		head.Y < AIEdgeMargin || head.Y > ArenaSize-AIEdgeMargin {
		target = math.Atan2(ArenaSize/2-head.Y, ArenaSize/2-head.X)
	}

	s.TargetDir = target

	if st.rng.Float64() < AIBoostChance {
		s.StartBoost()
	}
}

// blendAngles averages two headings with the given weight on b, working on
// unit vectors so the wrap at ±π does not skew the result.
func blendAngles(a, b, weightB float64) float64 {
	wa := 1 - weightB
	x := wa*math.Cos(a) + weightB*math.Cos(b)
	y := wa*math.Sin(a) + weightB*math.Sin(b)
	if x == 0 && y == 0 {
		return a
	}
	return math.Atan2(y, x)
}
