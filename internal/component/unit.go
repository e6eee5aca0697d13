package component

import "github.com/l1jgo/tickbench/internal/core/ecs"

// Components are pure data, zero behaviour: all mutations happen in systems.

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

// Unit carries identity and the unit's private random stream.
type Unit struct {
	ID          uint32
	Seed        uint32
	Counter     uint32 // next position in the Seed stream
	SpawnTick   int64
	RespawnTick int64
}

// SimClock is the entity's local time: the number of ticks it has been
// advanced through.
type SimClock struct {
	Tick int64
}

// Health may go negative transiently; parallel damage updates HP atomically.
type Health struct {
	HP int32
}

// Damage holds combat stats. Cooldown <= 0 means the unit never attacks.
type Damage struct {
	Attack   int32
	Defence  int32
	Cooldown int32
}

// AttackEvent is an in-flight attack waiting TicksRemaining ticks to land.
type AttackEvent struct {
	Target         ecs.EntityID
	Damage         int32
	TicksRemaining int32
}
