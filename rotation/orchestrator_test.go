package rotation

import (
	"errors"
	"testing"

	"github.com/nstehr/parselord/combo"
	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
)

type staticConfig struct{ cfg config.Config }

func (s *staticConfig) Snapshot() config.Config { return s.cfg.Clone() }

type fakeRole struct {
	id       uint32
	enabled  bool
	choice   model.ActionChoice
	ok       bool
	panics   bool
	fallback model.ActionChoice
	calls    int
	observed []bool
}

func (r *fakeRole) JobID() uint32                    { return r.id }
func (r *fakeRole) Name() string                     { return "fake" }
func (r *fakeRole) Enabled(*config.Config) bool      { return r.enabled }
func (r *fakeRole) Fallback() model.ActionChoice     { return r.fallback }
func (r *fakeRole) Observe(_ float64, inCombat bool) { r.observed = append(r.observed, inCombat) }
func (r *fakeRole) NextAction(config.Config) (model.ActionChoice, bool) {
	r.calls++
	if r.panics {
		panic("boom")
	}
	return r.choice, r.ok
}

type countingTargeter struct {
	calls int
	err   error
	panic bool
}

func (t *countingTargeter) Refresh() error {
	t.calls++
	if t.panic {
		panic("targeting exploded")
	}
	return t.err
}

const fakeJob = 7

func newFixture(f model.Frame, role *fakeRole, cfg config.Config) (*Orchestrator, *model.Mirror, *countingTargeter) {
	m := model.NewMirror()
	m.Set(f)
	tg := &countingTargeter{}
	return NewOrchestrator(&staticConfig{cfg: cfg}, m, tg, role), m, tg
}

func okRole() *fakeRole {
	return &fakeRole{id: fakeJob, enabled: true, choice: model.NewAction(42, "Strike"), ok: true}
}

func TestConfigGateAlwaysWins(t *testing.T) {
	frames := map[string]func() model.Frame{
		"in combat":   func() model.Frame { return combatFrame(fakeJob) },
		"no agent":    func() model.Frame { f := combatFrame(fakeJob); f.Agent = nil; return f },
		"unknown job": func() model.Frame { return combatFrame(999) },
		"no target":   func() model.Frame { f := combatFrame(fakeJob); f.Target = nil; return f },
	}
	for name, frame := range frames {
		t.Run(name, func(t *testing.T) {
			role := okRole()
			o, _, tg := newFixture(frame(), role, config.Default())
			if c, ok := o.NextAction(); ok {
				t.Errorf("got %+v, want none", c)
			}
			d := o.Diagnostics()
			if d.Reason != ReasonConfigGate || d.LastFailureReason != "ConfigGate" {
				t.Errorf("reason = %v / %q, want ConfigGate", d.Reason, d.LastFailureReason)
			}
			if role.calls != 0 || tg.calls != 0 {
				t.Errorf("role calls %d, targeter calls %d; want no dispatch", role.calls, tg.calls)
			}
		})
	}
}

func TestUnsupportedJob(t *testing.T) {
	for _, inCombat := range []bool{true, false} {
		f := combatFrame(999)
		f.Agent.InCombat = inCombat
		role := okRole()
		o, _, _ := newFixture(f, role, enabledConfig())
		if _, ok := o.NextAction(); ok {
			t.Error("unsupported job returned an action")
		}
		if r := o.Diagnostics().Reason; r != ReasonUnsupportedJob {
			t.Errorf("inCombat=%v reason = %v, want UnsupportedJob", inCombat, r)
		}
		if role.calls != 0 {
			t.Error("role invoked for an unregistered job")
		}
	}
}

func TestStateUnavailableAfterTargeting(t *testing.T) {
	f := combatFrame(fakeJob)
	f.Agent = nil
	o, _, tg := newFixture(f, okRole(), enabledConfig())
	o.NextAction()
	if r := o.Diagnostics().Reason; r != ReasonStateUnavailable {
		t.Errorf("reason = %v, want StateUnavailable", r)
	}
	if tg.calls != 1 {
		t.Errorf("targeter calls = %d, want refresh before agent resolution", tg.calls)
	}
}

func TestTargetingFailureIsSwallowed(t *testing.T) {
	for _, tc := range []struct {
		name string
		tg   *countingTargeter
	}{
		{"error", &countingTargeter{err: errors.New("no candidates")}},
		{"panic", &countingTargeter{panic: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := model.NewMirror()
			m.Set(combatFrame(fakeJob))
			o := NewOrchestrator(&staticConfig{cfg: enabledConfig()}, m, tc.tg, okRole())
			c, ok := o.NextAction()
			if !ok || c.ActionID != 42 {
				t.Errorf("got %+v, %v; want Strike despite targeting %s", c, ok, tc.name)
			}
		})
	}
}

func TestOKUpdatesTrail(t *testing.T) {
	o, _, _ := newFixture(combatFrame(fakeJob), okRole(), enabledConfig())
	c, ok := o.NextAction()
	if !ok || c.ActionID != 42 {
		t.Fatalf("got %+v, %v", c, ok)
	}
	d := o.Diagnostics()
	if d.Reason != ReasonOK || d.LastFailureReason != "OK" || d.LastChosenActionID != 42 || d.LastChosenActionName != "Strike" {
		t.Errorf("trail = %+v", d)
	}
}

func TestDiagnoseOrder(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		mutate  func(f *model.Frame)
		want    Reason
	}{
		{"role disabled beats everything", false, func(f *model.Frame) { f.Agent.InCombat = false; f.Target = nil }, ReasonRoleGate},
		{"not in combat beats no target", true, func(f *model.Frame) { f.Agent.InCombat = false; f.Target = nil }, ReasonNotInCombat},
		{"no target", true, func(f *model.Frame) { f.Target = nil }, ReasonNoTarget},
		{"dead target", true, func(f *model.Frame) { f.Target.Dead = true }, ReasonNoTarget},
		{"logic fault", true, func(*model.Frame) {}, ReasonLogicFault},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := combatFrame(fakeJob)
			tc.mutate(&f)
			role := &fakeRole{id: fakeJob, enabled: tc.enabled}
			o, _, _ := newFixture(f, role, enabledConfig())
			if _, ok := o.NextAction(); ok {
				t.Fatal("got an action, want none")
			}
			d := o.Diagnostics()
			if d.Reason != tc.want || d.LastFailureReason != tc.want.String() {
				t.Errorf("reason = %v / %q, want %v", d.Reason, d.LastFailureReason, tc.want)
			}
		})
	}
}

func TestFaultIsolation(t *testing.T) {
	role := &fakeRole{id: fakeJob, enabled: true, panics: true}
	other := &fakeRole{id: fakeJob + 1, enabled: true, choice: model.NewAction(5, "Other"), ok: true}
	m := model.NewMirror()
	m.Set(combatFrame(fakeJob))
	o := NewOrchestrator(&staticConfig{cfg: enabledConfig()}, m, nil, role, other)

	if _, ok := o.NextAction(); ok {
		t.Fatal("panicking role produced an action")
	}
	if r := o.Diagnostics().Reason; r != ReasonLogicFault {
		t.Fatalf("reason = %v, want LogicFault", r)
	}

	// Another agent on the next tick is unaffected.
	m.Set(combatFrame(fakeJob + 1))
	if c, ok := o.NextAction(); !ok || c.ActionID != 5 {
		t.Errorf("next tick for another job = %+v, %v", c, ok)
	}

	// So is the same agent once its logic recovers.
	role.panics = false
	role.choice, role.ok = model.NewAction(6, "Recovered"), true
	m.Set(combatFrame(fakeJob))
	if c, ok := o.NextAction(); !ok || c.ActionID != 6 {
		t.Errorf("recovered tick = %+v, %v", c, ok)
	}
}

func TestDiagnosticFallback(t *testing.T) {
	fb := model.NewAction(75, "True Thrust")
	tests := []struct {
		name     string
		flag     bool
		noTarget bool
		wantOK   bool
		want     string
	}{
		{"flag off", false, false, false, "LogicFault"},
		{"flag on", true, false, true, "LogicFault (diagnostic fallback: True Thrust)"},
		{"only on logic fault", true, true, false, "NoTarget"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := combatFrame(fakeJob)
			if tc.noTarget {
				f.Target = nil
			}
			cfg := enabledConfig()
			cfg.DiagnosticFallback = tc.flag
			role := &fakeRole{id: fakeJob, enabled: true, fallback: fb}
			o, _, _ := newFixture(f, role, cfg)
			c, ok := o.NextAction()
			if ok != tc.wantOK || (ok && c != fb) {
				t.Errorf("got %+v, %v; want ok=%v", c, ok, tc.wantOK)
			}
			if got := o.Diagnostics().LastFailureReason; got != tc.want {
				t.Errorf("reason = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOrchestratorWithBuiltinLogic(t *testing.T) {
	m := model.NewMirror()
	logics, err := NewJobLogics(Builtin(), m, nil)
	if err != nil {
		t.Fatal(err)
	}
	roles := make([]Role, len(logics))
	for i, l := range logics {
		roles[i] = l
	}
	o := NewOrchestrator(&staticConfig{cfg: enabledConfig()}, m, nil, roles...)

	m.Set(combatFrame(JobPaladin))
	if c, ok := o.NextAction(); !ok || c.ActionID != pldFastBlade {
		t.Errorf("paladin tick = %+v, %v; want Fast Blade", c, ok)
	}

	f := combatFrame(JobDragoon)
	f.Agent.InCombat = false
	m.Set(f)
	o.NextAction()
	if r := o.Diagnostics().Reason; r != ReasonNotInCombat {
		t.Errorf("reason = %v, want NotInCombat", r)
	}
}

func TestPanicIsLogicFaultWhateverTheGates(t *testing.T) {
	tests := []struct {
		name     string
		disabled bool
		mutate   func(f *model.Frame)
	}{
		{"in combat", false, func(*model.Frame) {}},
		{"out of combat", false, func(f *model.Frame) { f.Agent.InCombat = false }},
		{"no target", false, func(f *model.Frame) { f.Target = nil }},
		{"role disabled", true, func(*model.Frame) {}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := combatFrame(fakeJob)
			tc.mutate(&f)
			role := &fakeRole{id: fakeJob, enabled: !tc.disabled, panics: true, fallback: model.NewAction(75, "True Thrust")}
			cfg := enabledConfig()
			cfg.DiagnosticFallback = true
			o, _, _ := newFixture(f, role, cfg)
			if c, ok := o.NextAction(); ok {
				t.Errorf("got %+v, want none after a panic", c)
			}
			d := o.Diagnostics()
			if d.Reason != ReasonLogicFault || d.LastFailureReason != "LogicFault" {
				t.Errorf("reason = %v / %q, want LogicFault", d.Reason, d.LastFailureReason)
			}
		})
	}
}

func TestEveryRoleObservesEveryTick(t *testing.T) {
	active := okRole()
	idle := &fakeRole{id: fakeJob + 1, enabled: true}
	m := model.NewMirror()
	f := combatFrame(fakeJob)
	m.Set(f)
	sc := &staticConfig{cfg: config.Default()}
	o := NewOrchestrator(sc, m, nil, active, idle)

	o.NextAction() // rotation off
	sc.cfg = enabledConfig()
	f.Agent.InCombat = false
	m.Set(f)
	o.NextAction()

	for _, r := range []*fakeRole{active, idle} {
		if len(r.observed) != 2 || !r.observed[0] || r.observed[1] {
			t.Errorf("job %d observed %v, want [true false]", r.id, r.observed)
		}
	}
	if active.calls != 1 || idle.calls != 0 {
		t.Errorf("dispatch calls = %d/%d, want 1/0", active.calls, idle.calls)
	}
}

func TestComboSeesPullEndWhileNotDispatched(t *testing.T) {
	tests := []struct {
		name string
		// idle arranges the out-of-combat tick that ends the first pull.
		idle func(cfg *config.Config, f *model.Frame)
	}{
		{"job toggle off", func(cfg *config.Config, _ *model.Frame) { cfg.Dragoon.Enabled = false }},
		{"rotation off", func(cfg *config.Config, _ *model.Frame) { cfg.Enabled = false }},
		{"switched job", func(_ *config.Config, f *model.Frame) { f.Agent.JobID = JobPaladin }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := model.NewMirror()
			logics, err := NewJobLogics(Builtin(), m, nil)
			if err != nil {
				t.Fatal(err)
			}
			roles := make([]Role, len(logics))
			var drg *JobLogic
			for i, l := range logics {
				roles[i] = l
				if l.JobID() == JobDragoon {
					drg = l
				}
			}
			sc := &staticConfig{cfg: enabledConfig()}
			o := NewOrchestrator(sc, m, nil, roles...)

			f := combatFrame(JobDragoon)
			f.Delta = 10
			for range 4 {
				m.Set(f)
				o.NextAction()
			}
			if got := drg.Combo().TimeInCombat; got != 30 {
				t.Fatalf("first pull time = %v, want 30", got)
			}

			idle := combatFrame(JobDragoon)
			idle.Delta = 10
			idle.Agent.InCombat = false
			tc.idle(&sc.cfg, &idle)
			m.Set(idle)
			o.NextAction()

			sc.cfg = enabledConfig()
			m.Set(f)
			o.NextAction()
			c := drg.Combo()
			if c.TimeInCombat != 0 || c.Phase() != combo.Opener {
				t.Errorf("second pull starts at %v in %s, want 0 in opener", c.TimeInCombat, c.Phase())
			}
		})
	}
}
