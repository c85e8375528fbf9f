package targeting

import (
	"testing"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
)

type staticConfig struct{ cfg config.Config }

func (s staticConfig) Snapshot() config.Config { return s.cfg }

func pack() []model.Hostile {
	return []model.Hostile{
		{ID: 10, Name: "near", HP: 900, MaxHP: 1000, Targetable: true, InCombat: true, Position: model.Vec3{X: 3}},
		{ID: 11, Name: "weak", HP: 100, MaxHP: 1000, Targetable: true, InCombat: true, Position: model.Vec3{X: 10}},
		{ID: 12, Name: "big", HP: 5000, MaxHP: 9000, Targetable: true, InCombat: true, Position: model.Vec3{X: 20}},
		{ID: 13, Name: "far", HP: 1, MaxHP: 99999, Targetable: true, InCombat: true, Position: model.Vec3{X: 40}},
		{ID: 14, Name: "dead", HP: 0, MaxHP: 1000, Targetable: true, Dead: true, Position: model.Vec3{X: 1}},
		{ID: 15, Name: "hidden", HP: 1, MaxHP: 1000, Targetable: false, Position: model.Vec3{X: 1}},
	}
}

func frame() model.Frame {
	return model.Frame{
		Agent:    &model.Agent{ID: 1, JobID: 22, HP: 1, MaxHP: 1, InCombat: true},
		Hostiles: pack(),
	}
}

func policy(p config.TargetPriority) config.Config {
	cfg := config.Default()
	cfg.Targeting.Priority = p
	return cfg
}

func TestRefreshPolicies(t *testing.T) {
	tests := []struct {
		priority config.TargetPriority
		want     uint64
	}{
		{config.TargetNearest, 10},
		{config.TargetLowestHP, 11},
		{config.TargetHighestMaxHP, 12}, // 13 is out of range
	}
	for _, tc := range tests {
		t.Run(string(tc.priority), func(t *testing.T) {
			m := model.NewMirror()
			m.Set(frame())
			s := NewSelector(m, staticConfig{policy(tc.priority)})
			if err := s.Refresh(); err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			id, ok := m.Retarget()
			if !ok || id != tc.want {
				t.Errorf("retarget = %d, %v; want %d", id, ok, tc.want)
			}
			if tgt, _ := m.Target(); tgt.ID != tc.want || !tgt.Valid() {
				t.Errorf("mirror target = %+v", tgt)
			}
		})
	}
}

func TestRefreshKeepsValidTarget(t *testing.T) {
	m := model.NewMirror()
	f := frame()
	f.Target = &model.Target{ID: 12, HP: 5, MaxHP: 10, Hostile: true, Targetable: true}
	m.Set(f)
	if err := NewSelector(m, staticConfig{policy(config.TargetNearest)}).Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Retarget(); ok {
		t.Error("valid target was replaced")
	}
}

func TestRefreshReplacesDeadTarget(t *testing.T) {
	m := model.NewMirror()
	f := frame()
	f.Target = &model.Target{ID: 14, HP: 0, MaxHP: 1000, Hostile: true, Targetable: true, Dead: true}
	m.Set(f)
	_ = NewSelector(m, staticConfig{policy(config.TargetNearest)}).Refresh()
	if id, _ := m.Retarget(); id != 10 {
		t.Errorf("retarget = %d, want 10", id)
	}
}

func TestRefreshNoOps(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func() config.Config
		mutate func(f *model.Frame)
	}{
		{"policy none", func() config.Config { return policy(config.TargetNone) }, nil},
		{"auto switch off", func() config.Config {
			c := policy(config.TargetNearest)
			c.Targeting.AutoSwitch = false
			return c
		}, nil},
		{"no agent", func() config.Config { return policy(config.TargetNearest) }, func(f *model.Frame) { f.Agent = nil }},
		{"in combat only", func() config.Config { return policy(config.TargetNearest) }, func(f *model.Frame) { f.Agent.InCombat = false }},
		{"nothing in range", func() config.Config {
			c := policy(config.TargetNearest)
			c.Targeting.Range = 2
			return c
		}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := model.NewMirror()
			f := frame()
			if tc.mutate != nil {
				tc.mutate(&f)
			}
			m.Set(f)
			if err := NewSelector(m, staticConfig{tc.cfg()}).Refresh(); err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			if id, ok := m.Retarget(); ok {
				t.Errorf("retargeted to %d, want no change", id)
			}
		})
	}
}

func TestOutOfCombatSkipsIdleHostiles(t *testing.T) {
	m := model.NewMirror()
	f := frame()
	f.Agent.InCombat = false
	f.Hostiles[0].InCombat = false
	m.Set(f)
	cfg := policy(config.TargetNearest)
	cfg.InCombatOnly = false
	_ = NewSelector(m, staticConfig{cfg}).Refresh()
	if id, _ := m.Retarget(); id != 11 {
		t.Errorf("retarget = %d, want 11 (nearest already fighting)", id)
	}
}

func TestTankAssist(t *testing.T) {
	m := model.NewMirror()
	f := frame()
	f.Party = []model.PartyMember{
		{ID: 1, JobID: 22, TargetID: 10},
		{ID: 2, JobID: 21, TargetID: 14}, // warrior on a dead target
		{ID: 3, JobID: 19, TargetID: 12},
	}
	m.Set(f)
	if err := NewSelector(m, staticConfig{policy(config.TargetTankAssist)}).Refresh(); err != nil {
		t.Fatal(err)
	}
	if id, _ := m.Retarget(); id != 12 {
		t.Errorf("retarget = %d, want the paladin's target 12", id)
	}
}

func TestUnknownPolicy(t *testing.T) {
	m := model.NewMirror()
	m.Set(frame())
	if err := NewSelector(m, staticConfig{policy("random")}).Refresh(); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}
