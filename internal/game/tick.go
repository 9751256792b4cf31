package game

// Advance runs one simulation step for the given elapsed wall-clock
// milliseconds. The delta is clamped so a stalled scheduler cannot produce
// one unrealistic jump. Step order is fixed; see the pickup ordering note.
func (st *State) Advance(elapsedMS float64) {
	if st.MatchEnded {
		return
	}
	if elapsedMS > MaxTickDeltaMS {
		elapsedMS = MaxTickDeltaMS
	}
	dt := elapsedMS / 1000.0

	st.MatchTime += dt
	st.Tick++

	if st.MatchTime >= MatchDurationSec {
		st.MatchEnded = true
		st.Winner = st.ResolveWinner()
		return
	}

	// Respawns
	for _, s := range st.snakes() {
		if !s.Alive && st.MatchTime >= s.RespawnTime {
			s.spawn(st.rng, st.MatchTime)
		}
	}

	// AI headings (bot-mode opponent included)
	for _, s := range st.snakes() {
		if s.AI {
			st.updateAI(s)
		}
	}

	// Movement
	for _, s := range st.snakes() {
		s.Move(dt)
	}

	st.collectOrbs()
	st.resolveCollisions()
	st.maybeSpawnOrb()
}

// collectOrbs consumes any orb within pickup range of a living head.
// Snakes are visited in the fixed processing order, so when two heads contest
// one orb in the same tick the earlier snake wins and the later one simply
// finds it gone.
func (st *State) collectOrbs() {
	for _, s := range st.snakes() {
		if !s.Alive || len(s.Segments) == 0 {
			continue
		}
		head := s.Head()
		for i := 0; i < len(st.Orbs); {
			o := st.Orbs[i]
			if head.DistanceTo(o.Pos) <= o.PickupRadius() {
				s.Grow(o.Value)
				st.removeOrb(i)
				continue
			}
			i++
		}
	}
}

// ResolveWinner applies the tie-break order to the two human participants:
// length, then score, then kills, else a draw. AI snakes never win.
func (st *State) ResolveWinner() string {
	a, b := st.P1, st.P2
	if a.Length != b.Length {
		if a.Length > b.Length {
			return a.ID
		}
		return b.ID
	}
	if a.Score != b.Score {
		if a.Score > b.Score {
			return a.ID
		}
		return b.ID
	}
	if a.Kills != b.Kills {
		if a.Kills > b.Kills {
			return a.ID
		}
		return b.ID
	}
	return ""
}
