package data

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/l1jgo/tickbench/internal/component"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

// Range is an inclusive [min, max] pair written as a two-element YAML list.
type Range [2]int32

func (r Range) Min() int32 { return r[0] }
func (r Range) Max() int32 { return r[1] }

// RoleTemplate holds the spawn stats of one role.
type RoleTemplate struct {
	Name     string  `yaml:"role"`
	Weight   uint32  `yaml:"weight"`
	HP       Range   `yaml:"hp"`
	Attack   Range   `yaml:"attack"`
	Defence  Range   `yaml:"defence"`
	Cooldown Range   `yaml:"cooldown"`
	Speed    float64 `yaml:"speed"`

	Role component.Role `yaml:"-"`
}

// WorldBounds is the arena units move in.
type WorldBounds struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	MaxSpeed float64 `yaml:"max_speed"`
}

type roleFile struct {
	World WorldBounds    `yaml:"world"`
	Roles []RoleTemplate `yaml:"roles"`
}

// RoleTable holds all role templates indexed by Role.
type RoleTable struct {
	World       WorldBounds
	templates   map[component.Role]*RoleTemplate
	order       []*RoleTemplate // file order, for weighted picks
	totalWeight uint32
}

// LoadRoleTable loads role templates from a YAML file. An empty path loads
// the built-in table.
func LoadRoleTable(path string) (*RoleTable, error) {
	if path == "" {
		return DefaultRoleTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role table: %w", err)
	}
	return ParseRoleTable(raw)
}

// DefaultRoleTable parses the embedded roles.yaml.
func DefaultRoleTable() (*RoleTable, error) {
	return ParseRoleTable(defaultRoles)
}

func ParseRoleTable(raw []byte) (*RoleTable, error) {
	var f roleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse role table: %w", err)
	}
	if f.World.Width <= 0 || f.World.Height <= 0 {
		return nil, fmt.Errorf("role table: world bounds must be positive, got %vx%v", f.World.Width, f.World.Height)
	}
	t := &RoleTable{
		World:     f.World,
		templates: make(map[component.Role]*RoleTemplate, len(f.Roles)),
	}
	for i := range f.Roles {
		tpl := &f.Roles[i]
		tpl.Role = component.ParseRole(tpl.Name)
		if !tpl.Role.Valid() {
			return nil, fmt.Errorf("role table: unknown role %q", tpl.Name)
		}
		if _, dup := t.templates[tpl.Role]; dup {
			return nil, fmt.Errorf("role table: duplicate role %q", tpl.Name)
		}
		for _, r := range []Range{tpl.HP, tpl.Attack, tpl.Defence, tpl.Cooldown} {
			if r.Min() > r.Max() {
				return nil, fmt.Errorf("role table: %s has inverted range %v", tpl.Name, r)
			}
		}
		t.templates[tpl.Role] = tpl
		t.order = append(t.order, tpl)
		t.totalWeight += tpl.Weight
	}
	if t.totalWeight == 0 {
		return nil, fmt.Errorf("role table: total weight is zero")
	}
	return t, nil
}

// Get returns the template for a role.
func (t *RoleTable) Get(r component.Role) *RoleTemplate {
	return t.templates[r]
}

// Pick maps a roll in [0, TotalWeight) to a role by cumulative weight.
func (t *RoleTable) Pick(roll uint32) component.Role {
	for _, tpl := range t.order {
		if roll < tpl.Weight {
			return tpl.Role
		}
		roll -= tpl.Weight
	}
	return component.RoleNone
}

func (t *RoleTable) TotalWeight() uint32 { return t.totalWeight }

// Count returns the number of loaded templates.
func (t *RoleTable) Count() int {
	return len(t.templates)
}
