package game

import "math"

// Move advances a living snake by dt seconds: timer decay, speed derivation,
// bounded turning, head translation with soft/hard boundary handling, segment
// chasing, and segment-count reconciliation against Length.
func (s *Snake) Move(dt float64) {
	if !s.Alive || len(s.Segments) == 0 {
		return
	}

	// Timer decay, floored at zero
	s.GraceTime -= dt
	if s.GraceTime < 0 {
		s.GraceTime = 0
	}
	boosting := s.BoostTime > 0
	if boosting {
		s.BoostTime -= dt
		if s.BoostTime < 0 {
			s.BoostTime = 0
		}
		// Boost burns length, but never below the affordability threshold
		s.Length -= BoostCostPerSec * dt
		if s.Length < BoostMinLength {
			s.Length = BoostMinLength
		}
	}

	// Speed: boosting pins it at base*multiplier, otherwise it falls off as
	// length grows past the initial length, with a floor.
	base := s.baseSpeed()
	if boosting {
		s.Speed = base * BoostMultiplier
	} else {
		scale := InitialLength / s.Length
		if scale > 1 {
			scale = 1
		}
		if scale < SpeedLengthFloor {
			scale = SpeedLengthFloor
		}
		s.Speed = base * scale
	}

	// Turn toward TargetDir along the shorter angular path, never past it
	diff := normalizeAngle(s.TargetDir - s.Dir)
	maxTurn := TurnRate * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	s.Dir = normalizeAngle(s.Dir + diff)

	// Soft boundary: half speed near the edges
	head := s.Segments[0]
	speed := s.Speed
	if head.X < EdgeSlowMargin || head.X > ArenaSize-EdgeSlowMargin ||
		head.Y < EdgeSlowMargin || head.Y > ArenaSize-EdgeSlowMargin {
		speed *= 0.5
	}

	s.Segments[0].X = head.X + speed*dt*math.Cos(s.Dir)
	s.Segments[0].Y = head.Y + speed*dt*math.Sin(s.Dir)
	s.clampHead()

	// Each trailing segment chases its predecessor: pulled to exactly
	// SegmentSpacing along the connecting line when it lags farther than that.
	for i := 1; i < len(s.Segments); i++ {
		prev := s.Segments[i-1]
		cur := s.Segments[i]
		dist := cur.DistanceTo(prev)
		if dist > SegmentSpacing {
			t := SegmentSpacing / dist
			s.Segments[i] = Point{
				X: prev.X + (cur.X-prev.X)*t,
				Y: prev.Y + (cur.Y-prev.Y)*t,
			}
		}
	}

	s.reconcileSegments()
}

// reconcileSegments grows or trims the segment slice to match Length.
// New segments extrapolate from the tail's trailing direction.
func (s *Snake) reconcileSegments() {
	want := int(s.Length / SegmentSpacing)
	if want < 1 {
		want = 1
	}
	for len(s.Segments) < want {
		n := len(s.Segments)
		tail := s.Segments[n-1]
		var dx, dy float64
		if n >= 2 {
			prev := s.Segments[n-2]
			dx = tail.X - prev.X
			dy = tail.Y - prev.Y
			mag := math.Sqrt(dx*dx + dy*dy)
			if mag > 0 {
				dx = dx / mag * SegmentSpacing
				dy = dy / mag * SegmentSpacing
			}
		}
		s.Segments = append(s.Segments, Point{X: tail.X + dx, Y: tail.Y + dy})
	}
	if len(s.Segments) > want {
		s.Segments = s.Segments[:want]
	}
}
