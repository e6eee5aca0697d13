// Package formula holds the pure per-entity rules the systems delegate to:
// spawn role and loadout, attack flight time, velocity steering and sprite
// state. Implementations must be free of side effects and safe for
// concurrent use, since workers call them in parallel.
package formula

import "github.com/l1jgo/tickbench/internal/component"

// Loadout is everything a unit receives when its spawn resolves.
type Loadout struct {
	Health   component.Health
	Damage   component.Damage
	Sprite   component.Sprite
	Position component.Position
	Velocity component.Velocity
}

type Formulas interface {
	// ResolveRole decides the role of a spawning unit. Anything other than
	// RoleNPC, RoleHero or RoleMonster is a defect.
	ResolveRole(u component.Unit) component.Role
	Loadout(role component.Role, u component.Unit) Loadout
	// FlightTime is the number of ticks an attack takes to land.
	FlightTime(from, to component.Position) int32
	Velocity(pos component.Position, vel component.Velocity) component.Velocity
	Sprite(role component.Role, hp component.Health, dead bool, vel component.Velocity) component.Sprite
}
