package formula

import (
	"math"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/data"
	"github.com/l1jgo/tickbench/internal/mathx"
)

const (
	// ProjectileSpeed is the distance an attack covers per tick.
	ProjectileSpeed = 8.0
	// WoundedHP is the health below which a unit is drawn wounded.
	WoundedHP = 30
)

// Salts keep the per-field hashes of one unit independent.
const (
	saltRole uint32 = iota + 1
	saltHP
	saltAttack
	saltDefence
	saltCooldown
	saltX
	saltY
	saltHeading
)

// Table is the native Formulas implementation driven by a role table.
type Table struct {
	roles *data.RoleTable
}

func NewTable(roles *data.RoleTable) *Table {
	return &Table{roles: roles}
}

func (t *Table) Roles() *data.RoleTable { return t.roles }

func (t *Table) ResolveRole(u component.Unit) component.Role {
	roll := mathx.Hash2(u.Seed, u.ID, saltRole) % t.roles.TotalWeight()
	return t.roles.Pick(roll)
}

func (t *Table) Loadout(role component.Role, u component.Unit) Loadout {
	tpl := t.roles.Get(role)
	if tpl == nil {
		return Loadout{}
	}
	w := t.roles.World
	heading := unitFloat(u, saltHeading) * 2 * math.Pi
	speed := math.Min(tpl.Speed, w.MaxSpeed)
	vel := component.Velocity{DX: speed * math.Cos(heading), DY: speed * math.Sin(heading)}
	hp := component.Health{HP: sample(u, saltHP, tpl.HP)}
	return Loadout{
		Health: hp,
		Damage: component.Damage{
			Attack:   sample(u, saltAttack, tpl.Attack),
			Defence:  sample(u, saltDefence, tpl.Defence),
			Cooldown: sample(u, saltCooldown, tpl.Cooldown),
		},
		Position: component.Position{
			X: unitFloat(u, saltX) * w.Width,
			Y: unitFloat(u, saltY) * w.Height,
		},
		Velocity: vel,
		Sprite:   t.Sprite(role, hp, false, vel),
	}
}

func (t *Table) FlightTime(from, to component.Position) int32 {
	d := math.Hypot(to.X-from.X, to.Y-from.Y)
	ticks := int32(math.Ceil(d / ProjectileSpeed))
	return max(ticks, 1)
}

// Velocity reflects the heading off the arena walls.
func (t *Table) Velocity(pos component.Position, vel component.Velocity) component.Velocity {
	w := t.roles.World
	if nx := pos.X + vel.DX; nx < 0 || nx >= w.Width {
		vel.DX = -vel.DX
	}
	if ny := pos.Y + vel.DY; ny < 0 || ny >= w.Height {
		vel.DY = -vel.DY
	}
	return vel
}

func (t *Table) Sprite(role component.Role, hp component.Health, dead bool, vel component.Velocity) component.Sprite {
	var g component.Glyph
	switch role {
	case component.RoleNPC:
		g = component.GlyphNPC
	case component.RoleHero:
		g = component.GlyphHero
	case component.RoleMonster:
		g = component.GlyphMonster
	}
	if vel.DX != 0 || vel.DY != 0 {
		g |= component.GlyphMoving
	}
	if hp.HP < WoundedHP {
		g |= component.GlyphWounded
	}
	if dead {
		g = g&^component.GlyphMoving | component.GlyphDead
	}
	return component.Sprite{Glyph: g}
}

func sample(u component.Unit, salt uint32, r data.Range) int32 {
	span := uint32(r.Max()-r.Min()) + 1
	return r.Min() + int32(mathx.Hash2(u.Seed, u.ID, salt)%span)
}

func unitFloat(u component.Unit, salt uint32) float64 {
	return float64(mathx.Hash2(u.Seed, u.ID, salt)) / (1 << 32)
}
