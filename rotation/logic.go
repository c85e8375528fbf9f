package rotation

import (
	"log/slog"

	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/parselord/combo"
	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

// JobLogic runs one Job table against the tick's world. It owns the job's
// combo state; nothing else writes to it.
type JobLogic struct {
	job    Job
	world  World
	stacks StackGate
	combo  *combo.State

	previewing bool
}

// NewJobLogic compiles the table's conditions. gate may be nil, in which case
// no priority stack gating applies.
func NewJobLogic(job Job, world World, gate StackGate) (*JobLogic, error) {
	j := job.clone()
	if err := j.compile(); err != nil {
		return nil, err
	}
	return &JobLogic{job: j, world: world, stacks: gate, combo: combo.New()}, nil
}

func (l *JobLogic) JobID() uint32 { return l.job.ID }
func (l *JobLogic) Name() string  { return l.job.Name }

// Combo exposes the combo state for diagnostics.
func (l *JobLogic) Combo() *combo.State { return l.combo }

func (l *JobLogic) Enabled(cfg *config.Config) bool {
	if l.job.EnabledToggle == "" {
		return true
	}
	v, _ := cfg.Toggle(l.job.EnabledToggle)
	return v
}

func (l *JobLogic) Fallback() model.ActionChoice { return l.job.Fallback }

// Observe advances the combo state. It runs every tick whether or not the job
// is enabled or active, so a pull that ends while it is idle still resets it.
func (l *JobLogic) Observe(dt float64, inCombat bool) { l.combo.Update(dt, inCombat) }

func (l *JobLogic) NextAction(cfg config.Config) (model.ActionChoice, bool) {
	if !l.Enabled(&cfg) {
		return model.ActionChoice{}, false
	}
	agent, ok := l.world.LocalAgent()
	if !ok {
		return model.ActionChoice{}, false
	}

	if !agent.InCombat {
		return model.ActionChoice{}, false
	}
	target, ok := l.world.Target()
	if !ok || !target.Valid() {
		return model.ActionChoice{}, false
	}

	l.combo.LastResolvedActionID = l.world.ResolvedActionID(l.world.LastResolvedActionID())
	l.advanceOpener()

	env := Env{world: l.world, agent: agent, target: target, cfg: &cfg, combo: l.combo}
	env.next = l.previewNext(env)
	in := l.stackInputs(agent, target)

	if c, ok := l.pick(l.job.PreWeave, env, &cfg, in); ok {
		return c, true
	}
	if l.world.WeaveWindowOpen() {
		if c, ok := l.pick(l.job.Weave, env, &cfg, in); ok {
			return c, true
		}
	}
	if c, ok := l.pick(l.job.PrePrimary, env, &cfg, in); ok {
		return c, true
	}
	if c, ok := l.openerStep(); ok {
		return c, true
	}
	if l.useAoE(&cfg) {
		return l.walk(l.job.AoE, env)
	}
	return l.walk(l.job.SingleTarget, env)
}

func (l *JobLogic) advanceOpener() {
	if l.combo.OpenerFinished || l.combo.Phase() != combo.Opener {
		return
	}
	steps := l.job.Opener
	if l.combo.OpenerStep < len(steps) {
		want := l.world.ResolvedActionID(steps[l.combo.OpenerStep].ActionID)
		if l.combo.LastResolvedActionID == want {
			l.combo.OpenerStep++
		}
	}
	if l.combo.OpenerStep >= len(steps) {
		l.combo.OpenerFinished = true
		slog.Debug("opener finished", "job", l.job.Name, "steps", len(steps))
	}
}

func (l *JobLogic) openerStep() (model.ActionChoice, bool) {
	if l.combo.OpenerFinished || l.combo.OpenerStep >= len(l.job.Opener) {
		return model.ActionChoice{}, false
	}
	return l.job.Opener[l.combo.OpenerStep], true
}

func (l *JobLogic) useAoE(cfg *config.Config) bool {
	if !cfg.UseAoE || l.job.AoE.Starter.ActionID == 0 {
		return false
	}
	if l.job.AoEToggle != "" {
		if v, _ := cfg.Toggle(l.job.AoEToggle); !v {
			return false
		}
	}
	threshold := cfg.AoETargetCount
	if l.job.AoEThreshold != "" {
		if v, ok := cfg.Threshold(l.job.AoEThreshold); ok {
			threshold = v
		}
	}
	if threshold <= 0 {
		return false
	}
	return l.world.HostileCountAround(l.job.AoERadius) >= threshold
}

// pick returns the first candidate in list that passes its toggle, its
// condition, the oracle and its priority stack.
func (l *JobLogic) pick(list []Candidate, env Env, cfg *config.Config, in stacks.Inputs) (model.ActionChoice, bool) {
	for i := range list {
		c := &list[i]
		choice, ok := l.admit(c, env, cfg)
		if !ok {
			continue
		}
		if !l.world.CanUse(choice.ActionID, choice.TargetOverride) {
			continue
		}
		if l.stacks != nil {
			st := l.stacks.StackForAbility(l.job.ID, l.job.Role, choice.ActionID)
			if !l.stacks.Eligible(st, in) {
				continue
			}
		}
		return choice, true
	}
	return model.ActionChoice{}, false
}

// admit applies the toggle, condition and heal-target rules of c.
func (l *JobLogic) admit(c *Candidate, env Env, cfg *config.Config) (model.ActionChoice, bool) {
	if c.Toggle != "" {
		if v, _ := cfg.Toggle(c.Toggle); !v {
			return model.ActionChoice{}, false
		}
	}
	if !l.when(c, env) {
		return model.ActionChoice{}, false
	}
	choice := c.Action
	if c.HealBelow > 0 {
		p, ok := lowestBelow(l.world.Party(), c.HealBelow)
		if !ok {
			return model.ActionChoice{}, false
		}
		choice.TargetOverride = p.ID
	}
	return choice, true
}

func (l *JobLogic) when(c *Candidate, env Env) bool {
	if c.program == nil {
		return true
	}
	out, err := vm.Run(c.program, env)
	if err != nil {
		slog.Debug("candidate condition error", "job", l.job.Name, "action", c.Action.Name, "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// walk selects the next step of a combo chain.
func (l *JobLogic) walk(ch Chain, env Env) (model.ActionChoice, bool) {
	for i := range ch.Shortcuts {
		if c, ok := l.comboStep(&ch.Shortcuts[i], env); ok {
			return c, true
		}
	}
	last := l.combo.LastResolvedActionID
	if last != 0 {
		for _, link := range ch.Links {
			if !l.matches(link.From, last) {
				continue
			}
			for i := range link.Next {
				if c, ok := l.comboStep(&link.Next[i], env); ok {
					return c, true
				}
			}
		}
	}
	if ch.Starter.ActionID == 0 {
		return model.ActionChoice{}, false
	}
	return ch.Starter, true
}

func (l *JobLogic) comboStep(c *Candidate, env Env) (model.ActionChoice, bool) {
	choice, ok := l.admit(c, env, env.cfg)
	if !ok {
		return model.ActionChoice{}, false
	}
	if c.CheckUsable && !l.world.CanUse(choice.ActionID, choice.TargetOverride) {
		return model.ActionChoice{}, false
	}
	return choice, true
}

func (l *JobLogic) matches(from []uint32, last uint32) bool {
	for _, id := range from {
		if id == last || l.world.ResolvedActionID(id) == last {
			return true
		}
	}
	return false
}

// previewNext lets conditions ask which single-target step comes next.
func (l *JobLogic) previewNext(env Env) func() uint32 {
	return func() uint32 {
		if l.previewing {
			return 0
		}
		l.previewing = true
		defer func() { l.previewing = false }()
		c, ok := l.walk(l.job.SingleTarget, env)
		if !ok {
			return 0
		}
		return l.world.ResolvedActionID(c.ActionID)
	}
}

func (l *JobLogic) stackInputs(agent model.Agent, target model.Target) stacks.Inputs {
	party := l.world.Party()
	return stacks.Inputs{
		PartyBelow:  func(pct float64) int { return partyBelow(party, pct) },
		TargetHPPct: target.HPFraction() * 100,
		SelfHPPct:   agent.HPFraction() * 100,
		InCombat:    agent.InCombat,
	}
}
