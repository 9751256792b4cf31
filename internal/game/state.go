package game

import (
	"fmt"
	"math/rand"
)

// State is the authoritative snapshot for one match. It is owned exclusively
// by its session and mutated only by Advance; nothing here locks.
type State struct {
	MatchID string

	P1 *Snake // first human participant
	P2 *Snake // second human participant, or the BOT sentinel in bot mode
	AI []*Snake

	Orbs []*Orb

	MatchTime  float64 // seconds of simulated time
	Tick       int
	MatchEnded bool
	Winner     string // participant ID, "" while running or on a draw

	lastOrbSpawn float64
	orbSeq       int
	rng          *rand.Rand
}

// NewState builds the initial game state for a match. In bot mode p2 is the
// BOT sentinel (AI-driven) and aiCount auxiliary snakes are added; the world
// seed derives from the match ID so identical matches replay identically.
func NewState(matchID, p1, p2 string, botMode bool, aiCount int) *State {
	rng := newMatchRand(matchID)
	st := &State{
		MatchID: matchID,
		rng:     rng,
	}
	st.P1 = NewSnake(p1, false, rng)
	st.P2 = NewSnake(p2, botMode, rng)
	for i := 0; i < aiCount; i++ {
		st.AI = append(st.AI, NewSnake(aiID(i), true, rng))
	}
	st.spawnInitialOrbs()
	return st
}

func aiID(i int) string {
	return fmt.Sprintf("ai-%d", i+1)
}

// snakes returns every entity in the fixed processing order: P1, P2, then the
// AI roster by index. Pickup contention and collision resolution rely on this
// order being stable.
func (st *State) snakes() []*Snake {
	out := make([]*Snake, 0, 2+len(st.AI))
	out = append(out, st.P1, st.P2)
	out = append(out, st.AI...)
	return out
}

// SnakeByID returns the human participant's snake, or nil for unknown IDs.
// AI snakes never accept external input.
func (st *State) SnakeByID(id string) *Snake {
	if st.P1.ID == id {
		return st.P1
	}
	if st.P2.ID == id && !st.P2.AI {
		return st.P2
	}
	return nil
}
