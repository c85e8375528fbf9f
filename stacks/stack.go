// Package stacks implements operator-defined priority stacks: named bundles of
// gating conditions per job and role, and per-action bindings that pick which
// stack gates a specific action.
package stacks

import "fmt"

// Role selects one of the three stack sets a job carries.
type Role int

const (
	DPS Role = iota
	Heal
	Tank
)

func (r Role) String() string {
	switch r {
	case DPS:
		return "DPS"
	case Heal:
		return "Heal"
	case Tank:
		return "Tank"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole accepts the names produced by Role.String or their lowercase form.
func ParseRole(s string) (Role, error) {
	switch s {
	case "DPS", "dps":
		return DPS, nil
	case "Heal", "heal":
		return Heal, nil
	case "Tank", "tank":
		return Tank, nil
	}
	return DPS, fmt.Errorf("unknown role %q", s)
}

// ConditionKind names a gating rule. Parameters live in the generic
// ThresholdPct/Count/Expr slots; slots a kind does not use are ignored.
type ConditionKind string

const (
	Always               ConditionKind = "always"
	InCombat             ConditionKind = "in_combat"
	TargetHpBelowPct     ConditionKind = "target_hp_below_pct"
	SelfHpBelowPct       ConditionKind = "self_hp_below_pct"
	PartyMembersBelowPct ConditionKind = "party_members_below_pct"
	TargetIsBoss         ConditionKind = "target_is_boss" // placeholder: always passes
	Expression           ConditionKind = "expression"
)

// Modifier key bits carried for the host's execution layer.
const (
	ModShift uint32 = 1 << iota
	ModCtrl
	ModAlt
)

type Condition struct {
	Enabled      bool          `yaml:"enabled"`
	Kind         ConditionKind `yaml:"kind"`
	ThresholdPct float64       `yaml:"threshold_pct,omitempty"`
	Count        int           `yaml:"count,omitempty"`
	Flag         bool          `yaml:"flag,omitempty"`
	Note         string        `yaml:"note,omitempty"`
	Expr         string        `yaml:"expr,omitempty"`
}

// Stack is one selectable policy variant. ModifierKeys, BlockOriginal,
// CheckRange and CheckCooldown are read by the host, never by the evaluator.
type Stack struct {
	Name          string      `yaml:"name"`
	Enabled       bool        `yaml:"enabled"`
	ModifierKeys  uint32      `yaml:"modifier_keys,omitempty"`
	BlockOriginal bool        `yaml:"block_original"`
	CheckRange    bool        `yaml:"check_range"`
	CheckCooldown bool        `yaml:"check_cooldown"`
	Conditions    []Condition `yaml:"conditions"`
}

// Binding maps one action to one stack of its role.
type Binding struct {
	ActionID   uint32 `yaml:"action_id"`
	Label      string `yaml:"label,omitempty"`
	StackIndex int    `yaml:"stack_index"`
}

type RoleConfig struct {
	DefaultStackIndex int       `yaml:"default_stack_index"`
	Stacks            []Stack   `yaml:"stacks"`
	Bindings          []Binding `yaml:"bindings"`
}

type JobConfig struct {
	JobID uint32     `yaml:"job_id"`
	DPS   RoleConfig `yaml:"dps"`
	Heal  RoleConfig `yaml:"heal"`
	Tank  RoleConfig `yaml:"tank"`
}

// role returns a pointer into job for in-place edits. Unknown roles map to DPS.
func (j *JobConfig) role(r Role) *RoleConfig {
	switch r {
	case Heal:
		return &j.Heal
	case Tank:
		return &j.Tank
	}
	return &j.DPS
}

// Clone returns a deep copy so callers never alias the stored tree.
func (j JobConfig) Clone() JobConfig {
	j.DPS = j.DPS.Clone()
	j.Heal = j.Heal.Clone()
	j.Tank = j.Tank.Clone()
	return j
}

func (r RoleConfig) Clone() RoleConfig {
	out := RoleConfig{DefaultStackIndex: r.DefaultStackIndex}
	if r.Stacks != nil {
		out.Stacks = make([]Stack, len(r.Stacks))
		for i, s := range r.Stacks {
			out.Stacks[i] = s.Clone()
		}
	}
	if r.Bindings != nil {
		out.Bindings = append([]Binding(nil), r.Bindings...)
	}
	return out
}

func (s Stack) Clone() Stack {
	if s.Conditions != nil {
		s.Conditions = append([]Condition(nil), s.Conditions...)
	}
	return s
}

// clampIndices keeps every index of r inside [0, len(r.Stacks)).
// Callers must ensure the role has at least one stack first.
func (r *RoleConfig) clampIndices() {
	last := len(r.Stacks) - 1
	r.DefaultStackIndex = clampInt(r.DefaultStackIndex, 0, last)
	for i := range r.Bindings {
		r.Bindings[i].StackIndex = clampInt(r.Bindings[i].StackIndex, 0, last)
	}
}

// ensureDefaults repairs a role that lost all its stacks. It reports whether
// anything changed.
func (r *RoleConfig) ensureDefaults() bool {
	changed := false
	if len(r.Stacks) == 0 {
		r.Stacks = []Stack{{Name: "Default", Enabled: true, CheckRange: true, CheckCooldown: true}}
		r.DefaultStackIndex = 0
		changed = true
	}
	before := r.DefaultStackIndex
	beforeBinds := append([]Binding(nil), r.Bindings...)
	r.clampIndices()
	if r.DefaultStackIndex != before {
		changed = true
	}
	for i := range r.Bindings {
		if r.Bindings[i] != beforeBinds[i] {
			changed = true
		}
	}
	return changed
}

func seedRole(r *RoleConfig, name string) {
	r.DefaultStackIndex = 0
	r.Stacks = append(r.Stacks,
		Stack{
			Name:          name + " Default",
			Enabled:       true,
			CheckRange:    true,
			CheckCooldown: true,
			Conditions:    []Condition{{Enabled: true, Kind: Always, Note: "Always"}},
		},
		Stack{
			Name:          name + " Emergency",
			Enabled:       true,
			CheckRange:    true,
			CheckCooldown: true,
			Conditions:    []Condition{{Enabled: true, Kind: InCombat, Note: "Only in combat"}},
		},
	)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
