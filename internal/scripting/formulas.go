package scripting

import (
	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/formula"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Script hooks. Each one is optional; anything the scripts leave undefined
// falls through to the base formulas.
const (
	fnResolveRole = "resolve_role" // (unit) -> "npc" | "hero" | "monster"
	fnFlightTime  = "flight_time"  // (from, to) -> ticks
	fnUnitStats   = "unit_stats"   // (role, unit) -> {hp, attack, defence, cooldown}
)

// Formulas overlays Lua hooks on a base formula set.
type Formulas struct {
	formula.Formulas
	engine *Engine
	log    *zap.Logger

	role, flight, stats bool
}

func NewFormulas(base formula.Formulas, e *Engine, log *zap.Logger) *Formulas {
	return &Formulas{
		Formulas: base,
		engine:   e,
		log:      log,
		role:     e.Has(fnResolveRole),
		flight:   e.Has(fnFlightTime),
		stats:    e.Has(fnUnitStats),
	}
}

func (f *Formulas) unitTable(u component.Unit) *lua.LTable {
	return f.engine.NewTable(map[string]float64{
		"id":      float64(u.ID),
		"seed":    float64(u.Seed),
		"counter": float64(u.Counter),
	})
}

// ResolveRole maps the script's answer onto a Role. A failing script or an
// unrecognised name yields RoleNone, which the spawn system treats as fatal.
func (f *Formulas) ResolveRole(u component.Unit) component.Role {
	if !f.role {
		return f.Formulas.ResolveRole(u)
	}
	ret, err := f.engine.Call(fnResolveRole, f.unitTable(u))
	if err != nil {
		f.log.Error("lua resolve_role error", zap.Uint32("unit", u.ID), zap.Error(err))
		return component.RoleNone
	}
	return component.ParseRole(lua.LVAsString(ret))
}

func (f *Formulas) FlightTime(from, to component.Position) int32 {
	if !f.flight {
		return f.Formulas.FlightTime(from, to)
	}
	a := f.engine.NewTable(map[string]float64{"x": from.X, "y": from.Y})
	b := f.engine.NewTable(map[string]float64{"x": to.X, "y": to.Y})
	ret, err := f.engine.Call(fnFlightTime, a, b)
	if err != nil {
		f.log.Error("lua flight_time error", zap.Error(err))
		return f.Formulas.FlightTime(from, to)
	}
	return max(int32(lua.LVAsNumber(ret)), 1)
}

func (f *Formulas) Loadout(role component.Role, u component.Unit) formula.Loadout {
	kit := f.Formulas.Loadout(role, u)
	if !f.stats {
		return kit
	}
	ret, err := f.engine.Call(fnUnitStats, lua.LString(role.String()), f.unitTable(u))
	if err != nil {
		f.log.Error("lua unit_stats error", zap.Uint32("unit", u.ID), zap.Error(err))
		return kit
	}
	t, ok := ret.(*lua.LTable)
	if !ok {
		f.log.Error("lua unit_stats returned non-table", zap.Uint32("unit", u.ID))
		return kit
	}
	override := func(key string, dst *int32) {
		if v, ok := t.RawGetString(key).(lua.LNumber); ok {
			*dst = int32(v)
		}
	}
	override("hp", &kit.Health.HP)
	override("attack", &kit.Damage.Attack)
	override("defence", &kit.Damage.Defence)
	override("cooldown", &kit.Damage.Cooldown)
	kit.Sprite = f.Sprite(role, kit.Health, false, kit.Velocity)
	return kit
}
