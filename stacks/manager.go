package stacks

import (
	"fmt"
	"log/slog"
	"slices"
)

// Store owns the persisted stack tree. Edit runs fn under the store's single
// write lock and persists the tree when fn reports a change. A persistence
// failure is returned after fn's changes are already applied in memory.
type Store interface {
	Edit(fn func(jobs map[uint32]*JobConfig) (changed bool, err error)) error
}

// Manager resolves and evaluates priority stacks. It never executes actions;
// it only answers which stack applies to an action and whether it is eligible.
// Every value it returns is a deep copy of the stored tree.
type Manager struct {
	store Store
	exprs *exprCache
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, exprs: newExprCache()}
}

// GetOrCreateJob returns the job's stacks, seeding and persisting defaults
// the first time a job id is seen.
func (m *Manager) GetOrCreateJob(jobID uint32) JobConfig {
	var out JobConfig
	err := m.store.Edit(func(jobs map[uint32]*JobConfig) (bool, error) {
		job, changed := getOrCreate(jobs, jobID)
		out = job.Clone()
		return changed, nil
	})
	if err != nil {
		slog.Error("persist priority stacks failed", "job", jobID, "error", err)
	}
	return out
}

// Role picks one role's config out of a job. Unknown roles map to DPS.
func (m *Manager) Role(job JobConfig, role Role) RoleConfig {
	return job.role(role).Clone()
}

// StackForAbility resolves the stack bound to actionID, or the role default.
func (m *Manager) StackForAbility(jobID uint32, role Role, actionID uint32) Stack {
	var out Stack
	err := m.store.Edit(func(jobs map[uint32]*JobConfig) (bool, error) {
		job, changed := getOrCreate(jobs, jobID)
		rc := job.role(role)

		idx := rc.DefaultStackIndex
		if b, ok := findBinding(rc.Bindings, actionID); ok {
			idx = rc.Bindings[b].StackIndex
		}
		if rc.ensureDefaults() {
			changed = true
		}
		idx = clampInt(idx, 0, len(rc.Stacks)-1)
		out = rc.Stacks[idx].Clone()
		return changed, nil
	})
	if err != nil {
		slog.Error("persist priority stacks failed", "job", jobID, "error", err)
	}
	return out
}

// EvaluateStack reports whether stack is eligible. partyBelow is the caller's
// count of party members under the relevant threshold; HP values are percent.
func (m *Manager) EvaluateStack(stack Stack, partyBelow int, targetHpPct, selfHpPct float64, inCombat bool) bool {
	return m.Eligible(stack, Inputs{
		PartyBelow:  func(float64) int { return partyBelow },
		TargetHPPct: targetHpPct,
		SelfHPPct:   selfHpPct,
		InCombat:    inCombat,
	})
}

// Inputs is the game state a stack is evaluated against.
type Inputs struct {
	// PartyBelow counts party members at or under a percent threshold.
	PartyBelow  func(pct float64) int
	TargetHPPct float64
	SelfHPPct   float64
	InCombat    bool
}

// Eligible is EvaluateStack with per-condition party counting.
func (m *Manager) Eligible(stack Stack, in Inputs) bool {
	if !stack.Enabled {
		return false
	}
	for _, c := range stack.Conditions {
		if !c.Enabled {
			continue
		}
		if !m.passes(c, in) {
			return false
		}
	}
	return true
}

func (m *Manager) passes(c Condition, in Inputs) bool {
	switch c.Kind {
	case Always:
		return true
	case InCombat:
		return in.InCombat
	case TargetHpBelowPct:
		return in.TargetHPPct <= c.ThresholdPct
	case SelfHpBelowPct:
		return in.SelfHPPct <= c.ThresholdPct
	case PartyMembersBelowPct:
		n := 0
		if in.PartyBelow != nil {
			n = in.PartyBelow(c.ThresholdPct)
		}
		return n >= c.Count
	case TargetIsBoss:
		// Boss classification is not available from the host yet.
		return true
	case Expression:
		return m.exprs.eval(c.Expr, in)
	}
	slog.Warn("unknown stack condition kind", "kind", c.Kind)
	return true
}

// --- structural edits ---

// AddStack appends a stack to a role and returns its index.
func (m *Manager) AddStack(jobID uint32, role Role, s Stack) (int, error) {
	idx := -1
	err := m.edit(jobID, role, func(rc *RoleConfig) error {
		rc.Stacks = append(rc.Stacks, s.Clone())
		idx = len(rc.Stacks) - 1
		return nil
	})
	return idx, err
}

// RemoveStack deletes a stack. Removing the last stack leaves a synthesized
// Default stack so the role is never empty.
func (m *Manager) RemoveStack(jobID uint32, role Role, index int) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		if index < 0 || index >= len(rc.Stacks) {
			return fmt.Errorf("stack index %d out of range [0, %d)", index, len(rc.Stacks))
		}
		rc.Stacks = slices.Delete(rc.Stacks, index, index+1)
		return nil
	})
}

func (m *Manager) SetStackEnabled(jobID uint32, role Role, index int, enabled bool) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		if index < 0 || index >= len(rc.Stacks) {
			return fmt.Errorf("stack index %d out of range [0, %d)", index, len(rc.Stacks))
		}
		rc.Stacks[index].Enabled = enabled
		return nil
	})
}

func (m *Manager) AddCondition(jobID uint32, role Role, stackIndex int, c Condition) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		if stackIndex < 0 || stackIndex >= len(rc.Stacks) {
			return fmt.Errorf("stack index %d out of range [0, %d)", stackIndex, len(rc.Stacks))
		}
		rc.Stacks[stackIndex].Conditions = append(rc.Stacks[stackIndex].Conditions, c)
		return nil
	})
}

func (m *Manager) SetCondition(jobID uint32, role Role, stackIndex, condIndex int, c Condition) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		conds, err := conditionsAt(rc, stackIndex, condIndex)
		if err != nil {
			return err
		}
		conds[condIndex] = c
		return nil
	})
}

func (m *Manager) RemoveCondition(jobID uint32, role Role, stackIndex, condIndex int) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		conds, err := conditionsAt(rc, stackIndex, condIndex)
		if err != nil {
			return err
		}
		rc.Stacks[stackIndex].Conditions = slices.Delete(conds, condIndex, condIndex+1)
		return nil
	})
}

// Bind points actionID at a stack, replacing any existing binding for it.
func (m *Manager) Bind(jobID uint32, role Role, actionID uint32, label string, stackIndex int) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		b := Binding{ActionID: actionID, Label: label, StackIndex: stackIndex}
		if i, ok := findBinding(rc.Bindings, actionID); ok {
			rc.Bindings[i] = b
		} else {
			rc.Bindings = append(rc.Bindings, b)
		}
		return nil
	})
}

func (m *Manager) Unbind(jobID uint32, role Role, actionID uint32) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		rc.Bindings = slices.DeleteFunc(rc.Bindings, func(b Binding) bool { return b.ActionID == actionID })
		return nil
	})
}

func (m *Manager) SetDefaultStack(jobID uint32, role Role, index int) error {
	return m.edit(jobID, role, func(rc *RoleConfig) error {
		rc.DefaultStackIndex = index
		return nil
	})
}

// edit applies fn to one role and re-establishes the index invariant before
// the change is persisted.
func (m *Manager) edit(jobID uint32, role Role, fn func(rc *RoleConfig) error) error {
	return m.store.Edit(func(jobs map[uint32]*JobConfig) (bool, error) {
		job, _ := getOrCreate(jobs, jobID)
		rc := job.role(role)
		if err := fn(rc); err != nil {
			return false, err
		}
		rc.ensureDefaults()
		return true, nil
	})
}

func getOrCreate(jobs map[uint32]*JobConfig, jobID uint32) (*JobConfig, bool) {
	job, ok := jobs[jobID]
	changed := false
	if !ok || job == nil {
		job = &JobConfig{JobID: jobID}
		seedRole(&job.DPS, DPS.String())
		seedRole(&job.Heal, Heal.String())
		seedRole(&job.Tank, Tank.String())
		jobs[jobID] = job
		changed = true
	}
	for _, r := range []Role{DPS, Heal, Tank} {
		if job.role(r).ensureDefaults() {
			changed = true
		}
	}
	return job, changed
}

func findBinding(bs []Binding, actionID uint32) (int, bool) {
	for i, b := range bs {
		if b.ActionID == actionID {
			return i, true
		}
	}
	return -1, false
}

func conditionsAt(rc *RoleConfig, stackIndex, condIndex int) ([]Condition, error) {
	if stackIndex < 0 || stackIndex >= len(rc.Stacks) {
		return nil, fmt.Errorf("stack index %d out of range [0, %d)", stackIndex, len(rc.Stacks))
	}
	conds := rc.Stacks[stackIndex].Conditions
	if condIndex < 0 || condIndex >= len(conds) {
		return nil, fmt.Errorf("condition index %d out of range [0, %d)", condIndex, len(conds))
	}
	return conds, nil
}
