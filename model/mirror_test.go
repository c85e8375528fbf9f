package model

import (
	"math"
	"testing"
)

func testFrame() Frame {
	return Frame{
		Agent: &Agent{
			ID: 1, Name: "Tester", JobID: 22, HP: 500, MaxHP: 1000,
			Statuses: []Status{{ID: 1914, Remaining: 12, SourceID: 1}, {ID: 116, Remaining: 5, Stacks: 2, SourceID: 9}},
		},
		Target: &Target{
			ID: 100, HP: 10, MaxHP: 10, Hostile: true, Targetable: true,
			Statuses: []Status{{ID: 2720, Remaining: 20, SourceID: 1}},
		},
		Party: []PartyMember{{ID: 1}, {ID: 2}, {ID: 3, Dead: true}},
		Hostiles: []Hostile{
			{ID: 100, HP: 10, Targetable: true, Position: Vec3{X: 2}},
			{ID: 101, HP: 10, Targetable: true, Position: Vec3{X: 6}},
			{ID: 102, HP: 0, Dead: true, Targetable: true, Position: Vec3{X: 1}},
			{ID: 103, HP: 10, Targetable: false, Position: Vec3{X: 1}},
		},
		Actions: map[uint32]ActionStatus{
			75:   {Usable: true, ResolvedID: 16479},
			3557: {Usable: true, Charges: 2},
			83:   {Usable: false, Cooldown: 14.5},
		},
		PrimaryLock: 1.2,
		ComboAction: 75,
		Gauges:      map[string]int{"drg.focus": 2},
	}
}

func TestCanUse(t *testing.T) {
	m := NewMirror()
	m.Set(testFrame())

	tests := []struct {
		name     string
		action   uint32
		targetID uint64
		want     bool
	}{
		{"usable, current target", 75, 0, true},
		{"usable, self", 75, 1, true},
		{"usable, party member", 75, 2, true},
		{"usable, dead party member", 75, 3, false},
		{"usable, unknown entity", 75, 999, false},
		{"usable, dead hostile", 75, 102, false},
		{"unusable", 83, 0, false},
		{"absent from table", 12345, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.CanUse(tc.action, tc.targetID); got != tc.want {
				t.Errorf("CanUse(%d, %d) = %v, want %v", tc.action, tc.targetID, got, tc.want)
			}
		})
	}
}

func TestActionQueries(t *testing.T) {
	m := NewMirror()
	m.Set(testFrame())

	if got := m.ResolvedActionID(75); got != 16479 {
		t.Errorf("ResolvedActionID(75) = %d", got)
	}
	if got := m.ResolvedActionID(3557); got != 3557 {
		t.Errorf("ResolvedActionID without upgrade = %d, want identity", got)
	}
	if got := m.LastResolvedActionID(); got != 16479 {
		t.Errorf("LastResolvedActionID = %d", got)
	}
	if got := m.ChargesOrCooldownRemaining(3557); got != 2 {
		t.Errorf("charges = %v, want 2", got)
	}
	if got := m.ChargesOrCooldownRemaining(83); got != 14.5 {
		t.Errorf("cooldown = %v, want 14.5", got)
	}
	if m.Gauge("drg.focus") != 2 || m.Gauge("missing") != 0 {
		t.Error("gauge lookup")
	}
}

func TestWeaveWindow(t *testing.T) {
	tests := []struct {
		lock float64
		want bool
	}{
		{1.2, true},
		{0.61, true},
		{0.6, false},
		{0, false},
	}
	m := NewMirror()
	for _, tc := range tests {
		m.Set(Frame{PrimaryLock: tc.lock})
		if got := m.WeaveWindowOpen(); got != tc.want {
			t.Errorf("lock %.2f: WeaveWindowOpen = %v, want %v", tc.lock, got, tc.want)
		}
	}
}

func TestDeltaDefault(t *testing.T) {
	m := NewMirror()
	m.Set(Frame{})
	if got := m.Delta(); got != 1.0/60 {
		t.Errorf("Delta = %v, want one 60 Hz frame", got)
	}
	m.Set(Frame{Delta: 0.25})
	if got := m.Delta(); got != 0.25 {
		t.Errorf("Delta = %v", got)
	}
}

func TestStatusSourceFilter(t *testing.T) {
	m := NewMirror()
	m.Set(testFrame())

	if _, ok := m.Status(1914, 1); !ok {
		t.Error("own status not found")
	}
	if _, ok := m.Status(116, 1); ok {
		t.Error("status from another source matched")
	}
	if s, ok := m.Status(116, 0); !ok || s.Stacks != 2 {
		t.Errorf("any-source lookup = %+v, %v", s, ok)
	}
	if _, ok := m.TargetStatus(2720, 1); !ok {
		t.Error("target status not found")
	}
}

func TestPartyFallsBackToSelf(t *testing.T) {
	m := NewMirror()
	f := testFrame()
	f.Party = nil
	m.Set(f)
	p := m.Party()
	if len(p) != 1 || p[0].ID != 1 || p[0].HP != 500 {
		t.Errorf("Party = %+v, want the agent alone", p)
	}

	m.Set(Frame{})
	if p := m.Party(); p != nil {
		t.Errorf("Party without agent = %+v", p)
	}
}

func TestHostileCountAround(t *testing.T) {
	m := NewMirror()
	m.Set(testFrame())
	if got := m.HostileCountAround(5); got != 1 {
		t.Errorf("count within 5 = %d, want 1", got)
	}
	if got := m.HostileCountAround(10); got != 2 {
		t.Errorf("count within 10 = %d, want 2", got)
	}
}

func TestSetTargetClearedByNextFrame(t *testing.T) {
	m := NewMirror()
	f := testFrame()
	f.Target = nil
	m.Set(f)

	m.SetTarget(f.Hostiles[1])
	if id, ok := m.Retarget(); !ok || id != 101 {
		t.Fatalf("Retarget = %d, %v", id, ok)
	}
	if tgt, ok := m.Target(); !ok || tgt.ID != 101 || !tgt.Valid() {
		t.Errorf("Target = %+v, %v", tgt, ok)
	}

	m.Set(testFrame())
	if _, ok := m.Retarget(); ok {
		t.Error("retarget survived a new frame")
	}
}

func TestFacing(t *testing.T) {
	a := Agent{Position: Vec3{X: 1, Z: 1}}
	tests := []struct {
		name     string
		rotation float64
		point    Vec3
		want     bool
	}{
		{"ahead", 0, Vec3{X: 1, Z: 5}, true},
		{"behind", 0, Vec3{X: 1, Z: -3}, false},
		{"beside", 0, Vec3{X: 5, Z: 1}, false},
		{"turned toward +X", math.Pi / 2, Vec3{X: 5, Z: 1}, true},
		{"inside the cone", 0, Vec3{X: 2, Z: 3}, true},
		{"outside the cone", 0, Vec3{X: 3, Z: 2}, false},
		{"height ignored", 0, Vec3{X: 1, Y: 40, Z: 2}, true},
		{"same spot", 0, Vec3{X: 1, Y: 3, Z: 1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a.Rotation = tc.rotation
			if got := a.Facing(tc.point); got != tc.want {
				t.Errorf("Facing(%+v) at %.2f rad = %v, want %v", tc.point, tc.rotation, got, tc.want)
			}
		})
	}
}
