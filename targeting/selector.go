// Package targeting picks a new hostile target when the current one is gone.
package targeting

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
)

// Tank job ids, used by the tank-assist policy.
var tankJobs = map[uint32]bool{19: true, 21: true, 32: true, 37: true}

// World is the slice of the frame mirror the selector needs.
type World interface {
	LocalAgent() (model.Agent, bool)
	Target() (model.Target, bool)
	Party() []model.PartyMember
	Hostiles() []model.Hostile
	SetTarget(h model.Hostile)
}

type ConfigSource interface {
	Snapshot() config.Config
}

// Selector keeps a valid hostile targeted according to the configured policy.
// A valid current target is never replaced.
type Selector struct {
	world World
	cfg   ConfigSource
}

func NewSelector(world World, cfg ConfigSource) *Selector {
	return &Selector{world: world, cfg: cfg}
}

// Refresh is idempotent within a tick.
func (s *Selector) Refresh() error {
	cfg := s.cfg.Snapshot()
	pol := cfg.Targeting
	if pol.Priority == config.TargetNone || pol.Priority == "" || !pol.AutoSwitch {
		return nil
	}
	agent, ok := s.world.LocalAgent()
	if !ok {
		return nil
	}
	current, hasCurrent := s.world.Target()
	if hasCurrent && current.Valid() {
		return nil
	}
	if cfg.InCombatOnly && !agent.InCombat {
		return nil
	}

	var (
		best  model.Hostile
		found bool
	)
	switch pol.Priority {
	case config.TargetTankAssist:
		best, found = s.tankTarget()
	case config.TargetNearest, config.TargetLowestHP, config.TargetHighestMaxHP:
		best, found = pick(pol, s.candidates(agent, pol.Range), agent.Position)
	default:
		return fmt.Errorf("unknown target priority %q", pol.Priority)
	}
	if !found || (hasCurrent && best.ID == current.ID) {
		return nil
	}
	slog.Debug("auto target", "policy", pol.Priority, "id", best.ID, "name", best.Name)
	s.world.SetTarget(best)
	return nil
}

func (s *Selector) candidates(agent model.Agent, rng float64) []model.Hostile {
	var out []model.Hostile
	for _, h := range s.world.Hostiles() {
		if !h.Targetable || !h.Alive() {
			continue
		}
		if rng > 0 && agent.Position.Distance(h.Position) > rng {
			continue
		}
		// Out of combat, never pull something that is not already fighting.
		if !agent.InCombat && !h.InCombat {
			continue
		}
		out = append(out, h)
	}
	return out
}

func pick(pol config.Targeting, cands []model.Hostile, from model.Vec3) (model.Hostile, bool) {
	if len(cands) == 0 {
		return model.Hostile{}, false
	}
	dist := func(h model.Hostile) float64 { return from.Distance(h.Position) }
	var less func(a, b model.Hostile) int
	switch pol.Priority {
	case config.TargetNearest:
		less = func(a, b model.Hostile) int { return cmp.Compare(dist(a), dist(b)) }
	case config.TargetLowestHP:
		less = func(a, b model.Hostile) int { return cmp.Compare(a.HP, b.HP) }
	case config.TargetHighestMaxHP:
		less = func(a, b model.Hostile) int {
			if c := cmp.Compare(b.MaxHP, a.MaxHP); c != 0 {
				return c
			}
			return cmp.Compare(dist(a), dist(b))
		}
	}
	slices.SortStableFunc(cands, less)
	return cands[0], true
}

// tankTarget follows the first party tank whose target is a live hostile.
func (s *Selector) tankTarget() (model.Hostile, bool) {
	hostiles := s.world.Hostiles()
	for _, p := range s.world.Party() {
		if !tankJobs[p.JobID] || p.TargetID == 0 {
			continue
		}
		for _, h := range hostiles {
			if h.ID == p.TargetID && h.Targetable && h.Alive() {
				return h, true
			}
		}
	}
	return model.Hostile{}, false
}
