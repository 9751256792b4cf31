package game

// Simulation tuning constants
const (
	// Tick
	TickRate       = 20 // simulation steps per second
	TickMS         = 1000 / TickRate
	MaxTickDeltaMS = 100.0 // clamp on elapsed time per step, guards against scheduler stalls

	// Match
	MatchDurationSec = 180.0

	// Arena: square map [0, ArenaSize] on both axes
	ArenaSize      = 3000.0
	ClampMargin    = 20.0  // heads are hard-clamped inside [ClampMargin, ArenaSize-ClampMargin]
	EdgeSlowMargin = 100.0 // within this distance of an edge, speed is halved
	SpawnMargin    = 200.0 // snakes and orbs spawn at least this far from the edges

	// Snake
	SegmentSpacing  = 10.0  // world units between consecutive segments
	InitialLength   = 100.0 // starting length in world units (10 segments)
	BaseSpeed       = 200.0 // units/sec for a human snake at initial length
	AISpeedFactor   = 0.92  // AI snakes run slightly below human base speed
	SpeedLengthFloor = 0.5  // longest snakes still move at this fraction of base
	TurnRate        = 4.0   // max radians/sec the heading may rotate

	// Boost
	BoostMultiplier  = 1.8  // speed factor while boosting
	BoostDurationSec = 1.5  // length of one boost burst
	BoostCostPerSec  = 15.0 // length burned per second of boosting
	BoostMinLength   = 60.0 // cannot start a boost below this length

	// Death / respawn
	RespawnDelaySec = 3.0
	GracePeriodSec  = 3.0 // post-spawn invulnerability

	// Orbs
	TargetOrbCount      = 40
	OrbCeilingFactor    = 1.5 // replenish while live count < TargetOrbCount * factor
	OrbSpawnIntervalSec = 1.0 // minimum gap between replenish spawns
	OrbValuePerTier     = 3.0 // value = tier * OrbValuePerTier
	PickupRadiusBase    = 12.0
	PickupRadiusPerTier = 2.0 // larger orbs are picked up from slightly farther away
	ScorePerOrb         = 1

	// Collision
	InteractionRadius    = 300.0 // head-to-head pre-check; farther pairs are skipped outright
	LethalRadius         = 12.0
	NeckSkip             = 3 // body segments nearest the head exempt from head-vs-body checks
	DeathOrbStride       = 2 // every Nth body segment becomes an orb on death
	MaxDeathOrbs         = 20
	KillLengthBonusFactor = 0.25 // killer gains this fraction of the victim's length

	// AI
	AIDangerRadius = 150.0 // living snakes inside this radius repel the AI heading
	AIAvoidWeight  = 0.6   // blend weight of the flee heading vs the seek heading
	AIEdgeMargin   = 150.0 // inside this margin the AI turns straight back to the interior
	AIBoostChance  = 0.01  // per-tick probability of starting a boost

	// Bot mode
	BotID          = "BOT" // sentinel opponent identifier for single-player sessions
	BotModeAICount = 3     // auxiliary AI snakes in a bot-mode match
)

// SnakeColors is the cosmetic palette; assigned at creation, reused for death orbs.
var SnakeColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#e91e63", "#00bcd4", "#8bc34a",
	"#ff5722", "#607d8b", "#795548", "#673ab7", "#03a9f4",
}
