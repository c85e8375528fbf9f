// Package combo tracks the per-agent combo position and the coarse combat
// phase that job logic uses to time bursts and openers.
package combo

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/looplab/fsm"
)

// Phase is the coarse combat phase.
type Phase string

const (
	Idle     Phase = "idle"
	Opener   Phase = "opener"
	Burst    Phase = "burst"
	Filler   Phase = "filler"
	Downtime Phase = "downtime" // declared; no transition enters it yet
)

const (
	eventEngage    = "engage"
	eventBurst     = "burst"
	eventFill      = "fill"
	eventDisengage = "disengage"
)

// BurstCycle is the raid-buff alignment period in seconds.
const BurstCycle = 120.0

// BurstLength is how long the burst window stays open at the start of each cycle.
const BurstLength = 20.0

// State is owned by exactly one job logic instance. It is created on first
// use, reset on the combat-start edge and dropped with the agent.
type State struct {
	LastResolvedActionID uint32
	TimeInCombat         float64
	OpenerStep           int
	OpenerFinished       bool
	InBurstWindow        bool
	InCombat             bool

	machine *fsm.FSM
}

func New() *State {
	return &State{
		machine: fsm.NewFSM(
			string(Idle),
			fsm.Events{
				{Name: eventEngage, Src: []string{string(Idle)}, Dst: string(Opener)},
				{Name: eventBurst, Src: []string{string(Opener), string(Filler)}, Dst: string(Burst)},
				{Name: eventFill, Src: []string{string(Opener), string(Burst)}, Dst: string(Filler)},
				{Name: eventDisengage, Src: []string{string(Opener), string(Burst), string(Filler), string(Downtime)}, Dst: string(Idle)},
			},
			fsm.Callbacks{},
		),
	}
}

func (s *State) Phase() Phase { return Phase(s.machine.Current()) }

// Update advances the machine by one tick of dt seconds.
func (s *State) Update(dt float64, inCombat bool) {
	if !inCombat {
		if s.InCombat || s.Phase() != Idle {
			s.fire(eventDisengage)
		}
		s.reset()
		return
	}

	if !s.InCombat {
		s.InCombat = true
		s.TimeInCombat = 0
		s.OpenerStep = 0
		s.OpenerFinished = false
		s.fire(eventEngage)
	} else {
		s.TimeInCombat += dt
	}

	s.InBurstWindow = InBurstWindow(s.TimeInCombat)

	if s.OpenerFinished {
		if s.InBurstWindow {
			s.fire(eventBurst)
		} else {
			s.fire(eventFill)
		}
	}
}

// InBurstWindow reports whether t seconds into combat falls in a burst window.
//
// The cycle >= BurstCycle disjunct can never hold because math.Mod keeps the
// cycle below BurstCycle, so the window is only [0, 20] of every cycle. The
// formula is kept as is; widening it would change rotation timing.
func InBurstWindow(t float64) bool {
	cycle := math.Mod(t, BurstCycle)
	return (cycle >= 0 && cycle <= BurstLength) || cycle >= BurstCycle
}

func (s *State) reset() {
	s.InCombat = false
	s.TimeInCombat = 0
	s.InBurstWindow = false
	s.OpenerFinished = false
	s.OpenerStep = 0
	s.LastResolvedActionID = 0
}

func (s *State) fire(event string) {
	if !s.machine.Can(event) {
		return
	}
	err := s.machine.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		slog.Warn("combo phase transition failed", "event", event, "phase", s.Phase(), "error", err)
	}
}
