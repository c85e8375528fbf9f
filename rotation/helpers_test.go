package rotation

import (
	"testing"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

const (
	selfID   = 1
	targetID = 100
)

// combatFrame is an in-combat agent of the given job facing a healthy
// hostile target, with nothing usable and no weave window.
func combatFrame(jobID uint32) model.Frame {
	return model.Frame{
		Delta: 0.1,
		Agent: &model.Agent{
			ID: selfID, Name: "Tester", JobID: jobID,
			HP: 1000, MaxHP: 1000, MP: 10000, MaxMP: 10000,
			InCombat: true,
		},
		Target: &model.Target{
			ID: targetID, Name: "Dummy", HP: 5000, MaxHP: 5000,
			Hostile: true, Targetable: true,
			Position: model.Vec3{X: 3},
		},
		Actions: map[uint32]model.ActionStatus{},
		Gauges:  map[string]int{},
	}
}

func usable(f *model.Frame, ids ...uint32) {
	for _, id := range ids {
		st := f.Actions[id]
		st.Usable = true
		f.Actions[id] = st
	}
}

// enabledConfig turns automation and every shipped job on.
func enabledConfig() config.Config {
	cfg := config.Default()
	cfg.Enabled = true
	cfg.Dragoon.Enabled = true
	cfg.Paladin.Enabled = true
	cfg.WhiteMage.Enabled = true
	return cfg
}

func newLogic(t *testing.T, job Job, world World, gate StackGate) *JobLogic {
	t.Helper()
	l, err := NewJobLogic(job, world, gate)
	if err != nil {
		t.Fatalf("NewJobLogic(%s): %v", job.Name, err)
	}
	return l
}

// tick installs f, lets l observe it the way the orchestrator does, and asks
// l for an action.
func tick(l *JobLogic, m *model.Mirror, f model.Frame, cfg config.Config) (model.ActionChoice, bool) {
	m.Set(f)
	if f.Agent != nil {
		l.Observe(m.Delta(), f.Agent.InCombat)
	}
	return l.NextAction(cfg)
}

// denyGate rejects the listed actions and admits everything else.
type denyGate struct {
	deny map[uint32]bool
	seen []uint32
}

func (g *denyGate) StackForAbility(_ uint32, _ stacks.Role, actionID uint32) stacks.Stack {
	g.seen = append(g.seen, actionID)
	return stacks.Stack{Name: "test", Enabled: !g.deny[actionID]}
}

func (g *denyGate) Eligible(s stacks.Stack, _ stacks.Inputs) bool { return s.Enabled }
