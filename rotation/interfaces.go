// Package rotation picks at most one action per control tick. The
// Orchestrator runs the fixed gate sequence and diagnoses empty ticks; a
// JobLogic per job walks that job's static decision table.
package rotation

import (
	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

// Oracle answers action availability questions for the current tick.
type Oracle interface {
	CanUse(actionID uint32, targetID uint64) bool
	ResolvedActionID(actionID uint32) uint32
	WeaveWindowOpen() bool
	PrimaryLockRemaining() float64
	ChargesOrCooldownRemaining(actionID uint32) float64
	Charges(actionID uint32) int
	LastResolvedActionID() uint32
}

// GameState reads the agent, its target and its surroundings.
type GameState interface {
	LocalAgent() (model.Agent, bool)
	Target() (model.Target, bool)
	Party() []model.PartyMember
	Status(statusID uint32, sourceID uint64) (model.Status, bool)
	TargetStatus(statusID uint32, sourceID uint64) (model.Status, bool)
	HostileCountAround(radius float64) int
	Gauge(name string) int
	// Delta is the elapsed time in seconds since the previous tick.
	Delta() float64
}

// World is what a Mirror provides: both views over the same frame.
type World interface {
	Oracle
	GameState
}

// Targeter refreshes the current target before dispatch. It may fail; the
// orchestrator logs and continues.
type Targeter interface {
	Refresh() error
}

// Sink carries out a chosen action. A false result is never retried in the
// same tick.
type Sink interface {
	Attempt(choice model.ActionChoice) bool
}

// ConfigSource hands out an immutable config snapshot per tick.
type ConfigSource interface {
	Snapshot() config.Config
}

// StackGate resolves and evaluates the priority stack guarding an action.
// *stacks.Manager implements it.
type StackGate interface {
	StackForAbility(jobID uint32, role stacks.Role, actionID uint32) stacks.Stack
	Eligible(stack stacks.Stack, in stacks.Inputs) bool
}

// Role is the decision logic for one job.
type Role interface {
	JobID() uint32
	Name() string
	// NextAction returns the proposed action, or false for none. It does not
	// panic by contract; the orchestrator still guards the call.
	NextAction(cfg config.Config) (model.ActionChoice, bool)
	Enabled(cfg *config.Config) bool
	// Observe is called on every registered role once per tick, before
	// dispatch and whichever job is active, so combat edges are never missed.
	Observe(dt float64, inCombat bool)
	// Fallback is the fixed action offered when diagnostic fallback is on.
	Fallback() model.ActionChoice
}
