package formula

import (
	"testing"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T) *Table {
	t.Helper()
	roles, err := data.DefaultRoleTable()
	require.NoError(t, err)
	return NewTable(roles)
}

func TestResolveRoleIsPureAndValid(t *testing.T) {
	tbl := newTable(t)
	counts := make(map[component.Role]int)
	for i := uint32(0); i < 1000; i++ {
		u := component.Unit{ID: i, Seed: i}
		r := tbl.ResolveRole(u)
		require.True(t, r.Valid())
		require.Equal(t, r, tbl.ResolveRole(u))
		counts[r]++
	}
	assert.Len(t, counts, 3)
	assert.Greater(t, counts[component.RoleNPC], counts[component.RoleHero])
}

func TestLoadoutStaysWithinTemplate(t *testing.T) {
	tbl := newTable(t)
	for i := uint32(0); i < 200; i++ {
		u := component.Unit{ID: i, Seed: i * 31}
		role := tbl.ResolveRole(u)
		tpl := tbl.Roles().Get(role)
		lo := tbl.Loadout(role, u)
		assert.GreaterOrEqual(t, lo.Health.HP, tpl.HP.Min())
		assert.LessOrEqual(t, lo.Health.HP, tpl.HP.Max())
		assert.GreaterOrEqual(t, lo.Damage.Cooldown, tpl.Cooldown.Min())
		assert.LessOrEqual(t, lo.Damage.Cooldown, tpl.Cooldown.Max())
		assert.GreaterOrEqual(t, lo.Position.X, 0.0)
		assert.Less(t, lo.Position.X, tbl.Roles().World.Width)
		assert.Equal(t, lo, tbl.Loadout(role, u))
	}
	assert.Equal(t, Loadout{}, tbl.Loadout(component.RoleNone, component.Unit{}))
}

func TestFlightTime(t *testing.T) {
	tbl := newTable(t)
	origin := component.Position{}
	assert.Equal(t, int32(1), tbl.FlightTime(origin, origin))
	assert.Equal(t, int32(1), tbl.FlightTime(origin, component.Position{X: 8}))
	assert.Equal(t, int32(2), tbl.FlightTime(origin, component.Position{X: 8.5}))
	assert.Equal(t, int32(3), tbl.FlightTime(origin, component.Position{X: 12, Y: 16}))
}

func TestVelocityReflectsAtWalls(t *testing.T) {
	tbl := newTable(t)
	v := tbl.Velocity(component.Position{X: 0.5, Y: 100}, component.Velocity{DX: -1, DY: 1})
	assert.Equal(t, component.Velocity{DX: 1, DY: 1}, v)
	v = tbl.Velocity(component.Position{X: 100, Y: 255.5}, component.Velocity{DX: 1, DY: 1})
	assert.Equal(t, component.Velocity{DX: 1, DY: -1}, v)
}

func TestSpriteState(t *testing.T) {
	tbl := newTable(t)
	moving := component.Velocity{DX: 1}
	s := tbl.Sprite(component.RoleHero, component.Health{HP: 100}, false, moving)
	assert.Equal(t, component.GlyphHero|component.GlyphMoving, s.Glyph)
	s = tbl.Sprite(component.RoleMonster, component.Health{HP: -3}, true, moving)
	assert.Equal(t, component.GlyphMonster|component.GlyphWounded|component.GlyphDead, s.Glyph)
}
