package component

import "github.com/l1jgo/tickbench/internal/core/ecs"

const (
	TagSpawning ecs.Tag = iota
	TagDead
	TagRoleNPC
	TagRoleHero
	TagRoleMonster
)

// RoleTags is the mask of every role tag.
var RoleTags = TagRoleNPC.Mask() | TagRoleHero.Mask() | TagRoleMonster.Mask()

// Role is decided once when a unit spawns and never changes afterwards.
type Role uint8

const (
	RoleNone Role = iota
	RoleNPC
	RoleHero
	RoleMonster
)

var roleNames = [...]string{"none", "npc", "hero", "monster"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Valid reports whether r is one of the three spawnable roles.
func (r Role) Valid() bool {
	return r >= RoleNPC && r <= RoleMonster
}

// Tag maps a valid role to its tag.
func (r Role) Tag() (ecs.Tag, bool) {
	switch r {
	case RoleNPC:
		return TagRoleNPC, true
	case RoleHero:
		return TagRoleHero, true
	case RoleMonster:
		return TagRoleMonster, true
	}
	return 0, false
}

// ParseRole accepts the lower-case names used in data files and scripts.
func ParseRole(s string) Role {
	for i, name := range roleNames {
		if i > 0 && name == s {
			return Role(i)
		}
	}
	return RoleNone
}

// RoleOf reads the role back from a tag mask.
func RoleOf(tags ecs.TagMask) Role {
	switch {
	case tags.Has(TagRoleNPC):
		return RoleNPC
	case tags.Has(TagRoleHero):
		return RoleHero
	case tags.Has(TagRoleMonster):
		return RoleMonster
	}
	return RoleNone
}
