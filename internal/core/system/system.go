package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseSpawn    Phase = iota // 0: resolve Spawning units
	PhaseRespawn               // 1: replace Dead units whose clock is due
	PhaseKill                  // 2: tag units at or below zero health
	PhaseRender                // 3: hand drawable state to the renderer
	PhaseSprite                // 4: derive sprite state
	PhaseDamage                // 5: count down and resolve attacks
	PhaseAttack                // 6: select targets and launch attacks
	PhaseMovement              // 7: integrate positions
	PhaseVelocity              // 8: steer
	PhaseClock                 // 9: advance per-entity clocks
)

var phaseNames = [...]string{
	"spawn", "respawn", "kill", "render", "sprite",
	"damage", "attack", "movement", "velocity", "clock",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "phase?"
}

// System is the interface every pipeline system implements. Update processes
// one tick; any structural change goes through the world's command buffer and
// becomes visible only after the runner flushes it.
type System interface {
	Phase() Phase
	Update(tick int64) error
}
