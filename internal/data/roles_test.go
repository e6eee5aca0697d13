package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoleTable(t *testing.T) {
	tbl, err := DefaultRoleTable()
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Count())
	assert.Equal(t, uint32(10), tbl.TotalWeight())
	assert.Equal(t, 256.0, tbl.World.Width)

	hero := tbl.Get(component.RoleHero)
	require.NotNil(t, hero)
	assert.Equal(t, Range{12, 20}, hero.Attack)
	assert.Equal(t, int32(3), hero.Cooldown.Min())
}

func TestPickFollowsCumulativeWeights(t *testing.T) {
	tbl, err := DefaultRoleTable()
	require.NoError(t, err)
	assert.Equal(t, component.RoleNPC, tbl.Pick(0))
	assert.Equal(t, component.RoleNPC, tbl.Pick(5))
	assert.Equal(t, component.RoleHero, tbl.Pick(6))
	assert.Equal(t, component.RoleMonster, tbl.Pick(7))
	assert.Equal(t, component.RoleMonster, tbl.Pick(9))
	assert.Equal(t, component.RoleNone, tbl.Pick(10))
}

func TestLoadRoleTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
world: {width: 10, height: 20, max_speed: 1}
roles:
  - {role: monster, weight: 1, hp: [5, 5], attack: [1, 2], defence: [0, 0], cooldown: [1, 1], speed: 2}
`), 0o644))
	tbl, err := LoadRoleTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Count())
	assert.Equal(t, component.RoleMonster, tbl.Pick(0))
	assert.Equal(t, 20.0, tbl.World.Height)
}

func TestParseRoleTableRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown role":   "world: {width: 1, height: 1}\nroles: [{role: dragon, weight: 1}]",
		"duplicate role": "world: {width: 1, height: 1}\nroles: [{role: npc, weight: 1}, {role: npc, weight: 1}]",
		"zero weight":    "world: {width: 1, height: 1}\nroles: [{role: npc, weight: 0}]",
		"inverted range": "world: {width: 1, height: 1}\nroles: [{role: npc, weight: 1, hp: [9, 1]}]",
		"no bounds":      "roles: [{role: npc, weight: 1}]",
		"not yaml":       "roles: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoleTable([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadRoleTableMissingFile(t *testing.T) {
	_, err := LoadRoleTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
