package event

import "github.com/l1jgo/tickbench/internal/core/ecs"

// Unit lifecycle and combat events.

type UnitKilled struct {
	Entity ecs.EntityID
	UnitID uint32
	Tick   int64
}

type UnitRespawned struct {
	Old     ecs.EntityID
	OldUnit uint32
	NewUnit uint32
	Tick    int64
}

type AttackLaunched struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Tick     int64
}

// AttackLanded is emitted when an attack resolves against a live target.
type AttackLanded struct {
	Target ecs.EntityID
	Total  int32
	Tick   int64
}

// AttackFizzled is emitted when an attack resolves after its target died.
type AttackFizzled struct {
	Target ecs.EntityID
	Tick   int64
}
