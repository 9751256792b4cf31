package game

import "testing"

func TestInitialOrbs_CountAndPlacement(t *testing.T) {
	st := NewState("orb-init-match", "alice", "bob", false, 0)
	if len(st.Orbs) != TargetOrbCount {
		t.Fatalf("initial orb count = %d, want %d", len(st.Orbs), TargetOrbCount)
	}
	for _, o := range st.Orbs {
		if o.Pos.X < SpawnMargin || o.Pos.X > ArenaSize-SpawnMargin ||
			o.Pos.Y < SpawnMargin || o.Pos.Y > ArenaSize-SpawnMargin {
			t.Fatalf("orb %s at (%f, %f) outside the spawn margin", o.ID, o.Pos.X, o.Pos.Y)
		}
		if o.Size < OrbSmall || o.Size > OrbLarge {
			t.Fatalf("orb %s has size tier %d", o.ID, o.Size)
		}
		if o.Value != float64(o.Size)*OrbValuePerTier {
			t.Fatalf("orb %s value %f does not match tier %d", o.ID, o.Value, o.Size)
		}
	}
}

func TestOrbValuesMonotonicInSize(t *testing.T) {
	if !(orbValue(OrbSmall) < orbValue(OrbMedium) && orbValue(OrbMedium) < orbValue(OrbLarge)) {
		t.Fatal("orb value is not monotonic in size tier")
	}
}

func TestReplenish_RespectsIntervalAndCeiling(t *testing.T) {
	st := NewState("orb-replenish-match", "alice", "bob", false, 0)
	st.Orbs = st.Orbs[:5]

	// Within the interval: no spawn
	st.MatchTime = 0.5
	st.lastOrbSpawn = 0.4
	st.maybeSpawnOrb()
	if len(st.Orbs) != 5 {
		t.Fatalf("spawned inside the minimum interval: %d orbs", len(st.Orbs))
	}

	// Interval elapsed: exactly one spawn
	st.MatchTime = 2.0
	st.maybeSpawnOrb()
	if len(st.Orbs) != 6 {
		t.Fatalf("orbs = %d, want 6 after one replenish", len(st.Orbs))
	}
	if st.lastOrbSpawn != 2.0 {
		t.Fatalf("lastOrbSpawn = %f, want 2.0", st.lastOrbSpawn)
	}

	// At the ceiling: never spawns
	ceiling := int(TargetOrbCount * OrbCeilingFactor)
	for len(st.Orbs) < ceiling {
		st.Orbs = append(st.Orbs, st.newRandomOrb(st.rng))
	}
	st.MatchTime = 100
	st.maybeSpawnOrb()
	if len(st.Orbs) != ceiling {
		t.Fatalf("spawned past the ceiling: %d orbs", len(st.Orbs))
	}
}

func TestOrbIDsSequentialPerMatch(t *testing.T) {
	a := NewState("orb-seq-match", "alice", "bob", false, 0)
	b := NewState("orb-seq-match", "alice", "bob", false, 0)
	for i := range a.Orbs {
		if a.Orbs[i].ID != b.Orbs[i].ID {
			t.Fatalf("orb IDs diverge at %d: %s vs %s", i, a.Orbs[i].ID, b.Orbs[i].ID)
		}
	}
}
