package protocol

import (
	"math"

	"orbduel-server/internal/game"
)

// SnakeDTO is the per-tick wire form of one snake. Segments are flat [x,y]
// pairs rounded to 1 decimal place to keep the payload small.
type SnakeDTO struct {
	ID       string       `json:"id"`
	Segments [][2]float64 `json:"segs"`
	Dir      float64      `json:"dir"`
	Length   float64      `json:"len"`
	Score    int          `json:"score"`
	Kills    int          `json:"kills"`
	Color    string       `json:"color"`
	Alive    bool         `json:"alive"`
	Boosting bool         `json:"boost,omitempty"`
	Grace    bool         `json:"grace,omitempty"`
	AI       bool         `json:"ai,omitempty"`
}

// OrbDTO is the wire form of one orb.
type OrbDTO struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  int     `json:"size"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// StateUpdateMsg is broadcast every tick while a match is active.
type StateUpdateMsg struct {
	Type      string     `json:"type"`
	MatchID   string     `json:"match_id"`
	Tick      int        `json:"tick"`
	MatchTime float64    `json:"t"`
	Snakes    []SnakeDTO `json:"snakes"`
	Orbs      []OrbDTO   `json:"orbs"`
}

// PlayerResult is one participant's line in the terminal summary.
type PlayerResult struct {
	Participant string  `json:"participant"`
	Length      float64 `json:"length"`
	Score       int     `json:"score"`
	Kills       int     `json:"kills"`
}

// FinalSummary is the authoritative result record, emitted exactly once per
// match. Proof is a fallback digest over the summary terms usable for
// settlement when no signatures were collected.
type FinalSummary struct {
	MatchID    string         `json:"match_id"`
	Winner     string         `json:"winner"` // "" on a draw
	Loser      string         `json:"loser"`
	Reason     string         `json:"reason"` // time_limit / forfeit / disconnect
	Stake      string         `json:"stake"`
	Duration   float64        `json:"duration"`
	Players    []PlayerResult `json:"players"`
	Proof      string         `json:"proof"`
	Signatures map[string]string `json:"signatures,omitempty"`
}

// GameOverMsg carries the terminal summary to both participants.
type GameOverMsg struct {
	Type    string       `json:"type"`
	Summary FinalSummary `json:"summary"`
}

// BuildStateUpdate converts the authoritative state into its wire form.
func BuildStateUpdate(st *game.State) StateUpdateMsg {
	msg := StateUpdateMsg{
		Type:      TypeStateUpdate,
		MatchID:   st.MatchID,
		Tick:      st.Tick,
		MatchTime: roundTo1(st.MatchTime),
		Snakes:    make([]SnakeDTO, 0, 2+len(st.AI)),
		Orbs:      make([]OrbDTO, 0, len(st.Orbs)),
	}
	for _, s := range append([]*game.Snake{st.P1, st.P2}, st.AI...) {
		pairs := make([][2]float64, len(s.Segments))
		for i, p := range s.Segments {
			pairs[i] = [2]float64{roundTo1(p.X), roundTo1(p.Y)}
		}
		msg.Snakes = append(msg.Snakes, SnakeDTO{
			ID:       s.ID,
			Segments: pairs,
			Dir:      roundTo1(s.Dir),
			Length:   roundTo1(s.Length),
			Score:    s.Score,
			Kills:    s.Kills,
			Color:    s.Color,
			Alive:    s.Alive,
			Boosting: s.BoostTime > 0,
			Grace:    s.GraceTime > 0,
			AI:       s.AI,
		})
	}
	for _, o := range st.Orbs {
		msg.Orbs = append(msg.Orbs, OrbDTO{
			ID:    o.ID,
			X:     roundTo1(o.Pos.X),
			Y:     roundTo1(o.Pos.Y),
			Size:  o.Size,
			Value: o.Value,
			Color: o.Color,
		})
	}
	return msg
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
