package model

// WeaveThreshold is the primary-lock time (seconds) that must remain for a
// secondary action to fit without delaying the next primary action.
const WeaveThreshold = 0.6

// Mirror holds the latest host frame and answers availability and game state
// queries against it. One Mirror is built per connection and handed by
// reference to the orchestrator, the targeting selector and every job logic.
// It is owned by the connection's read loop and is not safe for concurrent use.
type Mirror struct {
	frame    Frame
	retarget uint64
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Set installs the frame for the current tick and clears any pending retarget.
func (m *Mirror) Set(f Frame) {
	m.frame = f
	m.retarget = 0
}

func (m *Mirror) Frame() Frame { return m.frame }

// Delta returns the frame's elapsed time, defaulting to one 60 Hz frame.
func (m *Mirror) Delta() float64 {
	if m.frame.Delta <= 0 {
		return 1.0 / 60
	}
	return m.frame.Delta
}

// --- Action availability ---

func (m *Mirror) CanUse(actionID uint32, targetID uint64) bool {
	st, ok := m.frame.Actions[actionID]
	if !ok || !st.Usable {
		return false
	}
	if targetID == 0 {
		return true
	}
	return m.knows(targetID)
}

func (m *Mirror) ResolvedActionID(actionID uint32) uint32 {
	if st, ok := m.frame.Actions[actionID]; ok && st.ResolvedID != 0 {
		return st.ResolvedID
	}
	return actionID
}

func (m *Mirror) WeaveWindowOpen() bool {
	return m.PrimaryLockRemaining() > WeaveThreshold
}

func (m *Mirror) PrimaryLockRemaining() float64 { return m.frame.PrimaryLock }

func (m *Mirror) Charges(actionID uint32) int {
	return m.frame.Actions[actionID].Charges
}

// ChargesOrCooldownRemaining returns the available charge count when at least
// one charge is ready, otherwise the seconds until the next charge.
func (m *Mirror) ChargesOrCooldownRemaining(actionID uint32) float64 {
	st := m.frame.Actions[actionID]
	if st.Charges > 0 {
		return float64(st.Charges)
	}
	return st.Cooldown
}

func (m *Mirror) LastResolvedActionID() uint32 {
	if m.frame.ComboAction == 0 {
		return 0
	}
	return m.ResolvedActionID(m.frame.ComboAction)
}

// --- Game state ---

func (m *Mirror) LocalAgent() (Agent, bool) {
	if m.frame.Agent == nil {
		return Agent{}, false
	}
	return *m.frame.Agent, true
}

func (m *Mirror) Target() (Target, bool) {
	if m.frame.Target == nil {
		return Target{}, false
	}
	return *m.frame.Target, true
}

// Party falls back to the agent alone when the host reports no party.
func (m *Mirror) Party() []PartyMember {
	if len(m.frame.Party) > 0 {
		return m.frame.Party
	}
	a, ok := m.LocalAgent()
	if !ok {
		return nil
	}
	return []PartyMember{{ID: a.ID, Name: a.Name, JobID: a.JobID, HP: a.HP, MaxHP: a.MaxHP, Dead: a.Dead, Position: a.Position}}
}

func (m *Mirror) Hostiles() []Hostile { return m.frame.Hostiles }

// Status looks up a status on the agent. sourceID 0 matches any source.
func (m *Mirror) Status(statusID uint32, sourceID uint64) (Status, bool) {
	if m.frame.Agent == nil {
		return Status{}, false
	}
	return findStatus(m.frame.Agent.Statuses, statusID, sourceID)
}

// TargetStatus looks up a status on the current target. sourceID 0 matches any source.
func (m *Mirror) TargetStatus(statusID uint32, sourceID uint64) (Status, bool) {
	if m.frame.Target == nil {
		return Status{}, false
	}
	return findStatus(m.frame.Target.Statuses, statusID, sourceID)
}

func (m *Mirror) HostileCountAround(radius float64) int {
	a, ok := m.LocalAgent()
	if !ok {
		return 0
	}
	n := 0
	for _, h := range m.frame.Hostiles {
		if h.Targetable && h.Alive() && a.Position.Distance(h.Position) <= radius {
			n++
		}
	}
	return n
}

func (m *Mirror) Gauge(name string) int { return m.frame.Gauges[name] }

// --- Targeting ---

// SetTarget switches the current target to a known hostile and records the
// change so it can be reported back to the host with the tick's reply.
func (m *Mirror) SetTarget(h Hostile) {
	m.frame.Target = &Target{
		ID:         h.ID,
		Name:       h.Name,
		HP:         h.HP,
		MaxHP:      h.MaxHP,
		Hostile:    true,
		Targetable: h.Targetable,
		Dead:       h.Dead,
		Position:   h.Position,
	}
	m.retarget = h.ID
}

// Retarget returns the target chosen by SetTarget during this tick, if any.
func (m *Mirror) Retarget() (uint64, bool) {
	return m.retarget, m.retarget != 0
}

func (m *Mirror) knows(id uint64) bool {
	if m.frame.Agent != nil && m.frame.Agent.ID == id {
		return true
	}
	if m.frame.Target != nil && m.frame.Target.ID == id {
		return true
	}
	for _, p := range m.frame.Party {
		if p.ID == id {
			return !p.Dead
		}
	}
	for _, h := range m.frame.Hostiles {
		if h.ID == id {
			return h.Alive()
		}
	}
	return false
}

func findStatus(list []Status, statusID uint32, sourceID uint64) (Status, bool) {
	for _, s := range list {
		if s.ID == statusID && (sourceID == 0 || s.SourceID == sourceID) {
			return s, true
		}
	}
	return Status{}, false
}
