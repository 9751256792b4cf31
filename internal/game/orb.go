package game

import (
	"fmt"
	"math/rand"
)

// Orb size tiers. Value grows monotonically with size.
const (
	OrbSmall  = 1
	OrbMedium = 2
	OrbLarge  = 3
)

// Orb is a collectible growth item. Created by the world generator or by
// death conversion, destroyed on pickup.
type Orb struct {
	ID    string
	Pos   Point
	Size  int // OrbSmall/OrbMedium/OrbLarge
	Value float64
	Color string
}

var orbColors = []string{
	"#ff6b6b", "#ffd93d", "#6bcb77", "#4d96ff", "#ff922b",
	"#cc5de8", "#20c997", "#f06595", "#74c0fc", "#a9e34b",
}

// PickupRadius returns the distance inside which a head consumes this orb.
// Larger tiers are slightly easier to grab.
func (o *Orb) PickupRadius() float64 {
	return PickupRadiusBase + float64(o.Size)*PickupRadiusPerTier
}

// nextOrbID issues per-match sequential IDs so orb identity is part of the
// deterministic replay.
func (st *State) nextOrbID() string {
	st.orbSeq++
	return fmt.Sprintf("o%d", st.orbSeq)
}

func orbValue(size int) float64 {
	return float64(size) * OrbValuePerTier
}

// newRandomOrb scatters one orb uniformly inside the spawn margin with a
// uniformly random size tier, drawing only from the match RNG stream.
func (st *State) newRandomOrb(rng *rand.Rand) *Orb {
	size := OrbSmall + rng.Intn(3)
	return &Orb{
		ID: st.nextOrbID(),
		Pos: Point{
			X: SpawnMargin + rng.Float64()*(ArenaSize-2*SpawnMargin),
			Y: SpawnMargin + rng.Float64()*(ArenaSize-2*SpawnMargin),
		},
		Size:  size,
		Value: orbValue(size),
		Color: orbColors[rng.Intn(len(orbColors))],
	}
}

// newDeathOrb places an orb at a dead snake's former segment, keeping the
// snake's color.
func (st *State) newDeathOrb(pos Point, size int, color string) *Orb {
	return &Orb{
		ID:    st.nextOrbID(),
		Pos:   pos,
		Size:  size,
		Value: orbValue(size),
		Color: color,
	}
}

// spawnInitialOrbs fills the arena to the target count on match creation.
func (st *State) spawnInitialOrbs() {
	for i := 0; i < TargetOrbCount; i++ {
		st.Orbs = append(st.Orbs, st.newRandomOrb(st.rng))
	}
}

// maybeSpawnOrb replenishes one orb when under the ceiling, at most once per
// OrbSpawnIntervalSec.
func (st *State) maybeSpawnOrb() {
	if len(st.Orbs) >= int(TargetOrbCount*OrbCeilingFactor) {
		return
	}
	if st.MatchTime-st.lastOrbSpawn < OrbSpawnIntervalSec {
		return
	}
	st.Orbs = append(st.Orbs, st.newRandomOrb(st.rng))
	st.lastOrbSpawn = st.MatchTime
}

func (st *State) removeOrb(idx int) {
	st.Orbs = append(st.Orbs[:idx], st.Orbs[idx+1:]...)
}
