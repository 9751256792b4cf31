package game

// pendingDeath marks a snake for removal after the full pairwise scan.
// killer stays nil for symmetric head-to-head deaths.
type pendingDeath struct {
	victim *Snake
	killer *Snake
}

// resolveCollisions runs the pairwise scan and then applies all deaths at
// once. Resolving after the scan keeps the outcome independent of pair order:
// a snake marked dead still kills in the same tick.
func (st *State) resolveCollisions() {
	all := st.snakes()
	var deaths []pendingDeath
	dead := make(map[*Snake]bool)

	eligible := func(s *Snake) bool {
		return s.Alive && s.GraceTime <= 0 && len(s.Segments) > 0
	}

	for i, a := range all {
		if !eligible(a) {
			continue
		}
		for j, b := range all {
			if i == j || !eligible(b) {
				continue
			}
			ha := a.Head()
			hb := b.Head()
			// Cheap pre-check keeps dense arenas from going quadratic on
			// per-segment distance work.
			if ha.DistanceTo(hb) > InteractionRadius {
				continue
			}
			// Head-to-head is symmetric: both die, nobody is credited.
			// The reverse pair marks the same two snakes; dedupe via the set.
			if ha.DistanceTo(hb) < LethalRadius {
				if !dead[a] {
					dead[a] = true
					deaths = append(deaths, pendingDeath{victim: a})
				}
				if !dead[b] {
					dead[b] = true
					deaths = append(deaths, pendingDeath{victim: b})
				}
				continue
			}
			// Head-vs-body: a dies, b is credited. The first NeckSkip
			// segments are exempt so adjacent turning heads are not punished.
			if dead[a] {
				continue
			}
			for k := NeckSkip; k < len(b.Segments); k++ {
				if ha.DistanceTo(b.Segments[k]) < LethalRadius {
					dead[a] = true
					deaths = append(deaths, pendingDeath{victim: a, killer: b})
					break
				}
			}
		}
	}

	for _, d := range deaths {
		st.applyDeath(d)
	}
}

// applyDeath converts the victim's body into orbs, credits the killer, and
// resets the victim to the dead state.
func (st *State) applyDeath(d pendingDeath) {
	v := d.victim
	if !v.Alive {
		return
	}

	if len(v.Segments) > 0 {
		// Head becomes one large orb; every strideth remaining segment a
		// medium one. The stride widens for long bodies so a giant snake
		// cannot flood the arena.
		st.Orbs = append(st.Orbs, st.newDeathOrb(v.Segments[0], OrbLarge, v.Color))
		stride := DeathOrbStride
		if len(v.Segments)/stride > MaxDeathOrbs {
			stride = len(v.Segments) / MaxDeathOrbs
		}
		for i := stride; i < len(v.Segments); i += stride {
			st.Orbs = append(st.Orbs, st.newDeathOrb(v.Segments[i], OrbMedium, v.Color))
		}
	}

	if d.killer != nil {
		d.killer.Kills++
		if d.killer.Alive {
			d.killer.Length += v.Length * KillLengthBonusFactor
			d.killer.reconcileSegments()
		}
	}

	v.die(st.MatchTime)
}
