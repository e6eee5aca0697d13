package world

import (
	"testing"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateCreatesSpawningUnits(t *testing.T) {
	st := NewState(2, nil)
	st.Populate(5)
	require.Equal(t, 5, st.ECS.Len())
	require.Equal(t, 5, st.Units.Len())
	for i, id := range st.Units.Entities() {
		u, _ := st.Units.Get(id)
		assert.Equal(t, component.Unit{ID: uint32(i), Seed: uint32(i)}, *u)
		assert.True(t, st.ECS.HasTag(id, component.TagSpawning))
		assert.Equal(t, component.RoleNone, st.Role(id))
		c, ok := st.Clocks.Get(id)
		require.True(t, ok)
		assert.Zero(t, c.Tick)
	}
}

func TestFindUnit(t *testing.T) {
	st := NewState(1, nil)
	st.Populate(3)
	id, ok := st.FindUnit(2)
	require.True(t, ok)
	st.ECS.AddTag(id, component.TagRoleHero)
	assert.Equal(t, component.RoleHero, st.Role(id))
	_, ok = st.FindUnit(7)
	assert.False(t, ok)
}
