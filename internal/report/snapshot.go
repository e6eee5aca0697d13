package report

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"

	"github.com/l1jgo/tickbench/internal/component"
	"github.com/l1jgo/tickbench/internal/core/ecs"
	"github.com/l1jgo/tickbench/internal/world"
	"golang.org/x/crypto/blake2b"
)

// UnitState is the comparable state of one unit entity.
type UnitState struct {
	Entity      ecs.EntityID
	UnitID      uint32
	Seed        uint32
	Counter     uint32
	SpawnTick   int64
	RespawnTick int64
	Clock       int64
	HP          int32
	Pos         component.Position
	Tags        ecs.TagMask
}

// AttackState is the comparable state of one in-flight attack.
type AttackState struct {
	Entity         ecs.EntityID
	Target         ecs.EntityID
	Damage         int32
	TicksRemaining int32
}

// Snapshot is a canonical, order-independent copy of a world state.
type Snapshot struct {
	Tick    int64
	Live    int
	Units   []UnitState
	Attacks []AttackState
}

// Capture copies st sorted by entity id, so two runs that reached the same
// state capture identical snapshots whatever their store layout.
func Capture(st *world.State) Snapshot {
	snap := Snapshot{
		Tick:    st.Tick,
		Live:    st.ECS.Len(),
		Units:   make([]UnitState, 0, st.Units.Len()),
		Attacks: make([]AttackState, 0, st.Attacks.Len()),
	}
	st.Units.Each(func(id ecs.EntityID, u *component.Unit) {
		us := UnitState{
			Entity:      id,
			UnitID:      u.ID,
			Seed:        u.Seed,
			Counter:     u.Counter,
			SpawnTick:   u.SpawnTick,
			RespawnTick: u.RespawnTick,
			Tags:        st.ECS.Tags(id),
		}
		if c, ok := st.Clocks.Get(id); ok {
			us.Clock = c.Tick
		}
		if h, ok := st.Healths.Get(id); ok {
			us.HP = h.HP
		}
		if p, ok := st.Positions.Get(id); ok {
			us.Pos = *p
		}
		snap.Units = append(snap.Units, us)
	})
	st.Attacks.Each(func(id ecs.EntityID, a *component.AttackEvent) {
		snap.Attacks = append(snap.Attacks, AttackState{
			Entity:         id,
			Target:         a.Target,
			Damage:         a.Damage,
			TicksRemaining: a.TicksRemaining,
		})
	})
	sort.Slice(snap.Units, func(i, j int) bool { return snap.Units[i].Entity < snap.Units[j].Entity })
	sort.Slice(snap.Attacks, func(i, j int) bool { return snap.Attacks[i].Entity < snap.Attacks[j].Entity })
	return snap
}

// Digest is a BLAKE2b-256 hash over every field of the snapshot.
type Digest [blake2b.Size256]byte

func (d Digest) String() string { return hex.EncodeToString(d[:8]) }

func (s Snapshot) Digest() Digest {
	buf := make([]byte, 0, 16+len(s.Units)*72+len(s.Attacks)*24)
	le := binary.LittleEndian
	buf = le.AppendUint64(buf, uint64(s.Tick))
	buf = le.AppendUint64(buf, uint64(s.Live))
	for _, u := range s.Units {
		buf = le.AppendUint64(buf, uint64(u.Entity))
		buf = le.AppendUint32(buf, u.UnitID)
		buf = le.AppendUint32(buf, u.Seed)
		buf = le.AppendUint32(buf, u.Counter)
		buf = le.AppendUint64(buf, uint64(u.SpawnTick))
		buf = le.AppendUint64(buf, uint64(u.RespawnTick))
		buf = le.AppendUint64(buf, uint64(u.Clock))
		buf = le.AppendUint32(buf, uint32(u.HP))
		buf = le.AppendUint64(buf, math.Float64bits(u.Pos.X))
		buf = le.AppendUint64(buf, math.Float64bits(u.Pos.Y))
		buf = append(buf, byte(u.Tags))
	}
	for _, a := range s.Attacks {
		buf = le.AppendUint64(buf, uint64(a.Entity))
		buf = le.AppendUint64(buf, uint64(a.Target))
		buf = le.AppendUint32(buf, uint32(a.Damage))
		buf = le.AppendUint32(buf, uint32(a.TicksRemaining))
	}
	return blake2b.Sum256(buf)
}

// Diff lists up to limit human-readable differences between two snapshots.
func Diff(a, b Snapshot, limit int) []string {
	var out []string
	add := func(format string, args ...any) bool {
		out = append(out, fmt.Sprintf(format, args...))
		return len(out) < limit
	}
	if a.Tick != b.Tick && !add("tick %d != %d", a.Tick, b.Tick) {
		return out
	}
	if a.Live != b.Live && !add("live %d != %d", a.Live, b.Live) {
		return out
	}
	if len(a.Units) != len(b.Units) && !add("units %d != %d", len(a.Units), len(b.Units)) {
		return out
	}
	for i := 0; i < min(len(a.Units), len(b.Units)); i++ {
		if a.Units[i] != b.Units[i] && !add("unit[%d] %+v != %+v", i, a.Units[i], b.Units[i]) {
			return out
		}
	}
	if len(a.Attacks) != len(b.Attacks) && !add("attacks %d != %d", len(a.Attacks), len(b.Attacks)) {
		return out
	}
	for i := 0; i < min(len(a.Attacks), len(b.Attacks)); i++ {
		if a.Attacks[i] != b.Attacks[i] && !add("attack[%d] %+v != %+v", i, a.Attacks[i], b.Attacks[i]) {
			return out
		}
	}
	return out
}
