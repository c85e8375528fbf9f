package model

import "math"

// Frame is the per-tick snapshot the host plugin streams to the sidecar.
type Frame struct {
	Tick          int                     `json:"tick"`
	Delta         float64                 `json:"delta"` // seconds since the previous frame
	Agent         *Agent                  `json:"agent"`
	Target        *Target                 `json:"target"`
	Party         []PartyMember           `json:"party"`
	Hostiles      []Hostile               `json:"hostiles"`
	Actions       map[uint32]ActionStatus `json:"actions"`
	PrimaryLock   float64                 `json:"primaryLock"`   // GCD seconds remaining
	AnimationLock float64                 `json:"animationLock"` // informational only
	ComboAction   uint32                  `json:"comboAction"`
	Gauges        map[string]int          `json:"gauges"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Agent struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	JobID    uint32   `json:"jobId"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"maxHp"`
	MP       int      `json:"mp"`
	MaxMP    int      `json:"maxMp"`
	InCombat bool     `json:"inCombat"`
	Casting  bool     `json:"casting"`
	Dead     bool     `json:"dead"`
	Position Vec3     `json:"position"`
	// Rotation is the heading in radians; zero faces +Z.
	Rotation float64  `json:"rotation"`
	Statuses []Status `json:"statuses"`
}

// FacingThreshold is the minimum cosine between the agent's heading and the
// direction to a point for the agent to count as facing it.
const FacingThreshold = 0.5

// Facing reports whether p lies within the agent's forward cone on the
// ground plane. A point on top of the agent is never faced.
func (a Agent) Facing(p Vec3) bool {
	dx, dz := p.X-a.Position.X, p.Z-a.Position.Z
	dist := math.Hypot(dx, dz)
	if dist == 0 {
		return false
	}
	dot := (dx*math.Sin(a.Rotation) + dz*math.Cos(a.Rotation)) / dist
	return dot > FacingThreshold
}

// HPFraction reports full health when MaxHP is unknown.
func (a Agent) HPFraction() float64 { return fraction(a.HP, a.MaxHP) }

type Target struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	HP         int      `json:"hp"`
	MaxHP      int      `json:"maxHp"`
	Hostile    bool     `json:"hostile"`
	Targetable bool     `json:"targetable"`
	Dead       bool     `json:"dead"`
	Position   Vec3     `json:"position"`
	Statuses   []Status `json:"statuses"`
}

func (t Target) HPFraction() float64 { return fraction(t.HP, t.MaxHP) }

// Valid reports whether the target can be attacked this tick.
func (t Target) Valid() bool {
	return t.Hostile && t.Targetable && !t.Dead && t.HP > 0
}

type PartyMember struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	JobID    uint32 `json:"jobId"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Dead     bool   `json:"dead"`
	TargetID uint64 `json:"targetId"`
	Position Vec3   `json:"position"`
}

func (p PartyMember) HPFraction() float64 { return fraction(p.HP, p.MaxHP) }

// Hostile is a battle NPC visible to the agent, used by targeting and AoE density checks.
type Hostile struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Targetable bool   `json:"targetable"`
	Dead       bool   `json:"dead"`
	InCombat   bool   `json:"inCombat"`
	Position   Vec3   `json:"position"`
}

func (h Hostile) Alive() bool { return !h.Dead && h.HP > 0 }

type Status struct {
	ID        uint32  `json:"id"`
	Remaining float64 `json:"remaining"`
	Stacks    int     `json:"stacks"`
	SourceID  uint64  `json:"sourceId"`
}

// ActionStatus is the host's answer to "can this run now" for one action id.
type ActionStatus struct {
	Usable     bool    `json:"usable"`
	ResolvedID uint32  `json:"resolvedId,omitempty"` // current upgrade of the base id
	Cooldown   float64 `json:"cooldown"`             // seconds until the next charge
	Charges    int     `json:"charges"`
}

func fraction(cur, max int) float64 {
	if max <= 0 {
		return 1
	}
	return float64(cur) / float64(max)
}
