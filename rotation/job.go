package rotation

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

// Job is the static decision table for one job. JobLogic walks it in a fixed
// order: PreWeave, Weave (only while the weave window is open), PrePrimary,
// the opener, then the AoE or single-target chain.
type Job struct {
	ID   uint32
	Name string
	Role stacks.Role

	EnabledToggle string  // config toggle id gating the whole job
	AoEToggle     string  // config toggle id for the AoE chain
	AoEThreshold  string  // config threshold id: hostiles needed for AoE
	AoERadius     float64 // yalms around the agent

	PreWeave   []Candidate
	Weave      []Candidate
	PrePrimary []Candidate

	// Opener steps are primary actions; a step counts as done once it shows up
	// as the last resolved action.
	Opener []model.ActionChoice

	SingleTarget Chain
	AoE          Chain

	Fallback model.ActionChoice
}

// Candidate is one entry of a priority list or a combo step.
type Candidate struct {
	Action model.ActionChoice

	// When is an expr condition over Env. Empty means always.
	When string
	// Toggle, if set, names a config toggle that must be on.
	Toggle string
	// HealBelow, when positive, redirects the action to the lowest-health
	// party member at or under this percent. Nobody qualifying skips it.
	HealBelow float64
	// CheckUsable asks the oracle before returning a combo step. Priority
	// list entries are always checked.
	CheckUsable bool

	program *vm.Program
}

// Chain is a combo graph. Shortcuts (procs, finishers) are tried before
// Links; with no match the chain restarts at Starter.
type Chain struct {
	Shortcuts []Candidate
	Links     []Link
	Starter   model.ActionChoice
}

// Link continues the combo when the last resolved action is one of From.
// Next is tried in order; its last entry should be unconditional.
type Link struct {
	From []uint32
	Next []Candidate
}

// compile builds every When program against Env. A table that fails to
// compile is a programming error and is reported at construction time.
func (j *Job) compile() error {
	lists := []struct {
		name  string
		items []Candidate
	}{
		{"pre-weave", j.PreWeave},
		{"weave", j.Weave},
		{"pre-primary", j.PrePrimary},
		{"single-target shortcut", j.SingleTarget.Shortcuts},
		{"aoe shortcut", j.AoE.Shortcuts},
	}
	for _, ch := range []struct {
		name  string
		chain Chain
	}{{"single-target link", j.SingleTarget}, {"aoe link", j.AoE}} {
		for _, l := range ch.chain.Links {
			lists = append(lists, struct {
				name  string
				items []Candidate
			}{ch.name, l.Next})
		}
	}
	for _, list := range lists {
		for i := range list.items {
			c := &list.items[i]
			if c.When == "" {
				continue
			}
			prog, err := expr.Compile(c.When, expr.Env(Env{}), expr.AsBool())
			if err != nil {
				return fmt.Errorf("compile %s %s %q: %w", j.Name, list.name, c.Action.Name, err)
			}
			c.program = prog
		}
	}
	return nil
}

// clone copies the table deeply enough that compiling never writes into a
// shared package-level table.
func (j Job) clone() Job {
	j.PreWeave = cloneCandidates(j.PreWeave)
	j.Weave = cloneCandidates(j.Weave)
	j.PrePrimary = cloneCandidates(j.PrePrimary)
	j.Opener = append([]model.ActionChoice(nil), j.Opener...)
	j.SingleTarget = j.SingleTarget.clone()
	j.AoE = j.AoE.clone()
	return j
}

func (c Chain) clone() Chain {
	c.Shortcuts = cloneCandidates(c.Shortcuts)
	links := make([]Link, len(c.Links))
	for i, l := range c.Links {
		links[i] = Link{From: append([]uint32(nil), l.From...), Next: cloneCandidates(l.Next)}
	}
	c.Links = links
	return c
}

func cloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	return append([]Candidate(nil), in...)
}

func step(id uint32, name string) Candidate {
	return Candidate{Action: model.NewAction(id, name)}
}
