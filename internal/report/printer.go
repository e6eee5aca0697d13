package report

import (
	"io"
	"sort"
	"time"

	coresys "github.com/l1jgo/tickbench/internal/core/system"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Result describes one completed benchmark run.
type Result struct {
	Mode     string
	Workers  int
	Entities int
	Ticks    int
	Elapsed  time.Duration
	Digest   Digest
	Tally    *Tally
	Frame    Frame
	Phases   map[coresys.Phase]time.Duration
}

// TicksPerSecond is the run's throughput.
func (r Result) TicksPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ticks) / r.Elapsed.Seconds()
}

// Print writes a human-readable summary with grouped digits.
func Print(w io.Writer, r Result) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "── %s (%d workers) ──\n", r.Mode, r.Workers)
	p.Fprintf(w, "  entities  %d\n", r.Entities)
	p.Fprintf(w, "  ticks     %d in %v (%.1f ticks/s)\n", r.Ticks, r.Elapsed.Round(time.Microsecond), r.TicksPerSecond())
	p.Fprintf(w, "  digest    %s\n", r.Digest)
	if r.Tally != nil {
		t := r.Tally
		p.Fprintf(w, "  attacks   %d launched, %d landed, %d fizzled, %d damage\n", t.Launched, t.Landed, t.Fizzled, t.DamageDealt)
		p.Fprintf(w, "  deaths    %d killed, %d respawned\n", t.Killed, t.Respawned)
	}
	f := r.Frame
	p.Fprintf(w, "  census    H %d  M %d  n %d  x %d (tick %d)\n", f.Heroes, f.Monsters, f.NPCs, f.Dead, f.Tick)
	if len(r.Phases) > 0 {
		phases := make([]coresys.Phase, 0, len(r.Phases))
		for ph := range r.Phases {
			phases = append(phases, ph)
		}
		sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })
		for _, ph := range phases {
			p.Fprintf(w, "    %-9s %v\n", ph, r.Phases[ph].Round(time.Microsecond))
		}
	}
}
