package game

import (
	"math"
	"math/rand"
)

// Point is a 2D world coordinate
type Point struct {
	X float64
	Y float64
}

func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Snake represents one controllable or AI entity.
// Segments are head-first; their count tracks Length/SegmentSpacing.
type Snake struct {
	ID       string
	Segments []Point // index 0 = head; empty while dead
	Dir      float64 // current heading, radians
	TargetDir float64 // desired heading; Dir converges toward it at TurnRate
	Length   float64 // world units; drives segment count and speed
	Speed    float64 // units/sec, derived each tick
	Color    string

	Alive       bool
	RespawnTime float64 // match-time at which a dead snake may respawn
	GraceTime   float64 // remaining invulnerability, seconds
	BoostTime   float64 // remaining boost, seconds

	Score int // orbs consumed
	Kills int

	AI bool // true for bot-mode opponents and auxiliary AI
}

// NewSnake creates a living snake at a random position inside the spawn
// margin, with a straight body trailing opposite its heading.
func NewSnake(id string, ai bool, rng *rand.Rand) *Snake {
	s := &Snake{
		ID:    id,
		Color: SnakeColors[rng.Intn(len(SnakeColors))],
		AI:    ai,
	}
	s.spawn(rng, 0)
	return s
}

// spawn (re)places the snake: fresh position and heading, reset length and
// grace. Respawn grants invulnerability; the initial spawn does too, which is
// harmless since nothing is adjacent yet.
func (s *Snake) spawn(rng *rand.Rand, matchTime float64) {
	x := SpawnMargin + rng.Float64()*(ArenaSize-2*SpawnMargin)
	y := SpawnMargin + rng.Float64()*(ArenaSize-2*SpawnMargin)
	angle := rng.Float64() * 2 * math.Pi

	s.Length = InitialLength
	s.Dir = angle
	s.TargetDir = angle // spawn is the one place heading snaps
	s.Alive = true
	s.GraceTime = GracePeriodSec
	s.BoostTime = 0
	s.RespawnTime = 0
	s.Speed = s.baseSpeed()

	n := int(s.Length / SegmentSpacing)
	if n < 1 {
		n = 1
	}
	s.Segments = make([]Point, n)
	for i := 0; i < n; i++ {
		s.Segments[i] = Point{
			X: x - float64(i)*SegmentSpacing*math.Cos(angle),
			Y: y - float64(i)*SegmentSpacing*math.Sin(angle),
		}
	}
	s.clampHead()
}

// die resets the snake to the dead state and schedules its respawn.
func (s *Snake) die(matchTime float64) {
	s.Alive = false
	s.Segments = nil
	s.BoostTime = 0
	s.RespawnTime = matchTime + RespawnDelaySec
}

func (s *Snake) Head() Point {
	return s.Segments[0]
}

func (s *Snake) baseSpeed() float64 {
	base := BaseSpeed
	if s.AI {
		base *= AISpeedFactor
	}
	return base
}

// StartBoost begins a boost burst if the snake can afford it.
// Returns false when already boosting or too short.
func (s *Snake) StartBoost() bool {
	if !s.Alive || s.BoostTime > 0 || s.Length < BoostMinLength {
		return false
	}
	s.BoostTime = BoostDurationSec
	return true
}

// Grow adds orb value to length and credits the score. Segments reconcile
// immediately so the body tracks length even when growth lands after the
// movement step.
func (s *Snake) Grow(value float64) {
	s.Length += value
	s.Score += ScorePerOrb
	s.reconcileSegments()
}

func (s *Snake) clampHead() {
	s.Segments[0].X = clamp(s.Segments[0].X, ClampMargin, ArenaSize-ClampMargin)
	s.Segments[0].Y = clamp(s.Segments[0].Y, ClampMargin, ArenaSize-ClampMargin)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeAngle wraps an angle into (-π, π]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
