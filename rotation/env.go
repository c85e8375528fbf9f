package rotation

import (
	"github.com/nstehr/parselord/combo"
	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
)

// Env exposes tick state to candidate conditions, e.g.
//
//	!HasStatus(83) && Charges(83) == 2 && NextGCD() == 25771
//
// Ids are plain ints so table authors can write literals. HP values are
// percent; status times are seconds.
type Env struct {
	world  World
	agent  model.Agent
	target model.Target
	cfg    *config.Config
	combo  *combo.State
	next   func() uint32
}

func (e Env) HasStatus(id int) bool {
	_, ok := e.world.Status(uint32(id), 0)
	return ok
}

func (e Env) StatusRemaining(id int) float64 {
	s, ok := e.world.Status(uint32(id), 0)
	if !ok {
		return 0
	}
	return s.Remaining
}

func (e Env) StatusStacks(id int) int {
	s, _ := e.world.Status(uint32(id), 0)
	return s.Stacks
}

// TargetStatusRemaining reports the time left on the agent's own status on
// the target, 0 when absent.
func (e Env) TargetStatusRemaining(id int) float64 {
	s, ok := e.world.TargetStatus(uint32(id), e.agent.ID)
	if !ok {
		return 0
	}
	return s.Remaining
}

func (e Env) CanUse(id int) bool { return e.world.CanUse(uint32(id), 0) }

func (e Env) Charges(id int) int { return e.world.Charges(uint32(id)) }

func (e Env) Gauge(name string) int { return e.world.Gauge(name) }

func (e Env) InBurst() bool { return e.combo != nil && e.combo.InBurstWindow }

func (e Env) Phase() string {
	if e.combo == nil {
		return string(combo.Idle)
	}
	return string(e.combo.Phase())
}

func (e Env) SelfHP() float64 { return e.agent.HPFraction() * 100 }

func (e Env) TargetHP() float64 { return e.target.HPFraction() * 100 }

func (e Env) MP() int { return e.agent.MP }

// PartyBelow counts living party members at or under pct percent health.
func (e Env) PartyBelow(pct int) int {
	return partyBelow(e.world.Party(), float64(pct))
}

func (e Env) Toggle(id string) bool {
	if e.cfg == nil {
		return false
	}
	v, _ := e.cfg.Toggle(id)
	return v
}

// NextGCD previews the single-target combo step, upgrade-resolved. It is 0
// while a preview is already running.
func (e Env) NextGCD() int {
	if e.next == nil {
		return 0
	}
	return int(e.next())
}

func partyBelow(party []model.PartyMember, pct float64) int {
	n := 0
	for _, p := range party {
		if !p.Dead && p.HPFraction()*100 <= pct {
			n++
		}
	}
	return n
}

// lowestBelow picks the living party member with the lowest health at or
// under pct percent.
func lowestBelow(party []model.PartyMember, pct float64) (model.PartyMember, bool) {
	var (
		best  model.PartyMember
		found bool
	)
	for _, p := range party {
		if p.Dead || p.MaxHP <= 0 {
			continue
		}
		hp := p.HPFraction() * 100
		if hp > pct {
			continue
		}
		if !found || hp < best.HPFraction()*100 {
			best, found = p, true
		}
	}
	return best, found
}
