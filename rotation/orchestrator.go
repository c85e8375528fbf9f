package rotation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/metrics"
	"github.com/nstehr/parselord/model"
)

// Orchestrator runs the per-tick gate sequence and dispatches to the job's
// Role. It mutates only its own Diagnostics and is driven from one goroutine.
type Orchestrator struct {
	cfg      ConfigSource
	state    GameState
	targeter Targeter
	roles    map[uint32]Role

	trail Diagnostics
}

// NewOrchestrator wires the collaborators. targeter may be nil.
func NewOrchestrator(cfg ConfigSource, state GameState, targeter Targeter, roles ...Role) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		state:    state,
		targeter: targeter,
		roles:    make(map[uint32]Role, len(roles)),
	}
	for _, r := range roles {
		o.roles[r.JobID()] = r
	}
	return o
}

// Diagnostics returns the trail of the most recent tick.
func (o *Orchestrator) Diagnostics() Diagnostics { return o.trail }

// Role returns the registered decision logic for jobID.
func (o *Orchestrator) Role(jobID uint32) (Role, bool) {
	r, ok := o.roles[jobID]
	return r, ok
}

// NextAction decides this tick's action. It never panics and never returns an
// error; every failure ends up as a Reason in the trail.
func (o *Orchestrator) NextAction() (model.ActionChoice, bool) {
	start := time.Now()
	cfg := o.cfg.Snapshot()

	choice, ok, reason, job := o.decide(cfg)

	o.trail.Reason = reason
	if ok {
		o.trail.LastChosenActionID = choice.ActionID
		o.trail.LastChosenActionName = choice.Name
	}
	metrics.RecordTick(job, reason.Label(), time.Since(start))
	return choice, ok
}

func (o *Orchestrator) decide(cfg config.Config) (model.ActionChoice, bool, Reason, string) {
	none := model.ActionChoice{}
	o.observe()
	if !cfg.Enabled {
		o.fail(ReasonConfigGate)
		return none, false, ReasonConfigGate, ""
	}

	o.refreshTarget()

	agent, ok := o.state.LocalAgent()
	if !ok {
		o.fail(ReasonStateUnavailable)
		return none, false, ReasonStateUnavailable, ""
	}
	role, ok := o.roles[agent.JobID]
	if !ok {
		o.fail(ReasonUnsupportedJob)
		return none, false, ReasonUnsupportedJob, ""
	}

	choice, ok, recovered := o.invoke(role, cfg)
	if recovered {
		o.fail(ReasonLogicFault)
		return none, false, ReasonLogicFault, role.Name()
	}
	if ok {
		o.trail.LastFailureReason = ReasonOK.String()
		return choice, true, ReasonOK, role.Name()
	}

	reason := o.diagnose(role, &cfg, agent)
	if reason == ReasonLogicFault && cfg.DiagnosticFallback {
		fb := role.Fallback()
		if fb.ActionID != 0 {
			o.trail.LastFailureReason = fallbackReason(fb.Name)
			metrics.RecordFallback(role.Name())
			slog.Warn("job logic produced nothing, using diagnostic fallback", "job", role.Name(), "action", fb.Name)
			return fb, true, ReasonFallback, role.Name()
		}
	}
	o.fail(reason)
	return none, false, reason, role.Name()
}

// invoke is the fault boundary: a panicking role yields none for this tick
// and recovered reports it, so the tick is a LogicFault whatever the gates say.
func (o *Orchestrator) invoke(role Role, cfg config.Config) (choice model.ActionChoice, ok, recovered bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job logic panicked", "job", role.Name(), "panic", fmt.Sprint(r))
			metrics.RecordFault(role.Name())
			choice, ok, recovered = model.ActionChoice{}, false, true
		}
	}()
	choice, ok = role.NextAction(cfg)
	return choice, ok, false
}

// observe feeds the combat flag to every role, including ones not dispatched
// this tick because the rotation is off or the agent is on another job.
func (o *Orchestrator) observe() {
	agent, ok := o.state.LocalAgent()
	if !ok {
		return
	}
	dt := o.state.Delta()
	for _, r := range o.roles {
		func() {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("job logic observe panicked", "job", r.Name(), "panic", fmt.Sprint(p))
					metrics.RecordFault(r.Name())
				}
			}()
			r.Observe(dt, agent.InCombat)
		}()
	}
}

func (o *Orchestrator) refreshTarget() {
	if o.targeter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("target refresh panicked", "panic", fmt.Sprint(r))
		}
	}()
	if err := o.targeter.Refresh(); err != nil {
		slog.Warn("target refresh failed", "error", err)
	}
}

func (o *Orchestrator) diagnose(role Role, cfg *config.Config, agent model.Agent) Reason {
	if !role.Enabled(cfg) {
		return ReasonRoleGate
	}
	if !agent.InCombat {
		return ReasonNotInCombat
	}
	if t, ok := o.state.Target(); !ok || !t.Valid() {
		return ReasonNoTarget
	}
	return ReasonLogicFault
}

func (o *Orchestrator) fail(r Reason) {
	o.trail.LastFailureReason = r.String()
}
