package config

import (
	"fmt"
	"sort"
)

// Toggle is a typed accessor for one boolean setting. Job tables and operator
// commands refer to settings by ID only; there is no reflection.
type Toggle struct {
	ID    string
	Label string
	Get   func(c *Config) bool
	Set   func(c *Config, v bool)
}

// Threshold is a typed accessor for one integer setting.
type Threshold struct {
	ID    string
	Label string
	Get   func(c *Config) int
	Set   func(c *Config, v int)
}

var toggles = []Toggle{
	{"enabled", "Automation enabled", func(c *Config) bool { return c.Enabled }, func(c *Config, v bool) { c.Enabled = v }},
	{"in_combat_only", "Auto-target only in combat", func(c *Config) bool { return c.InCombatOnly }, func(c *Config, v bool) { c.InCombatOnly = v }},
	{"use_aoe", "Use AoE rotations", func(c *Config) bool { return c.UseAoE }, func(c *Config, v bool) { c.UseAoE = v }},
	{"diagnostic_fallback", "Diagnostic fallback action", func(c *Config) bool { return c.DiagnosticFallback }, func(c *Config, v bool) { c.DiagnosticFallback = v }},
	{"targeting.auto_switch", "Auto-switch targets", func(c *Config) bool { return c.Targeting.AutoSwitch }, func(c *Config, v bool) { c.Targeting.AutoSwitch = v }},

	{"drg.enabled", "Dragoon", func(c *Config) bool { return c.Dragoon.Enabled }, func(c *Config, v bool) { c.Dragoon.Enabled = v }},
	{"drg.lance_charge", "Lance Charge", func(c *Config) bool { return c.Dragoon.LanceCharge }, func(c *Config, v bool) { c.Dragoon.LanceCharge = v }},
	{"drg.battle_litany", "Battle Litany", func(c *Config) bool { return c.Dragoon.BattleLitany }, func(c *Config, v bool) { c.Dragoon.BattleLitany = v }},
	{"drg.life_surge", "Life Surge", func(c *Config) bool { return c.Dragoon.LifeSurge }, func(c *Config, v bool) { c.Dragoon.LifeSurge = v }},
	{"drg.high_jump", "High Jump", func(c *Config) bool { return c.Dragoon.HighJump }, func(c *Config, v bool) { c.Dragoon.HighJump = v }},
	{"drg.dragonfire_dive", "Dragonfire Dive", func(c *Config) bool { return c.Dragoon.DragonfireDive }, func(c *Config, v bool) { c.Dragoon.DragonfireDive = v }},
	{"drg.geirskogul", "Geirskogul", func(c *Config) bool { return c.Dragoon.Geirskogul }, func(c *Config, v bool) { c.Dragoon.Geirskogul = v }},
	{"drg.wyrmwind_thrust", "Wyrmwind Thrust", func(c *Config) bool { return c.Dragoon.WyrmwindThrust }, func(c *Config, v bool) { c.Dragoon.WyrmwindThrust = v }},
	{"drg.aoe", "Dragoon AoE", func(c *Config) bool { return c.Dragoon.AoE }, func(c *Config, v bool) { c.Dragoon.AoE = v }},

	{"pld.enabled", "Paladin", func(c *Config) bool { return c.Paladin.Enabled }, func(c *Config, v bool) { c.Paladin.Enabled = v }},
	{"pld.sheltron", "Sheltron", func(c *Config) bool { return c.Paladin.Sheltron }, func(c *Config, v bool) { c.Paladin.Sheltron = v }},
	{"pld.fight_or_flight", "Fight or Flight", func(c *Config) bool { return c.Paladin.FightOrFlight }, func(c *Config, v bool) { c.Paladin.FightOrFlight = v }},
	{"pld.requiescat", "Requiescat", func(c *Config) bool { return c.Paladin.Requiescat }, func(c *Config, v bool) { c.Paladin.Requiescat = v }},
	{"pld.aoe", "Paladin AoE", func(c *Config) bool { return c.Paladin.AoE }, func(c *Config, v bool) { c.Paladin.AoE = v }},

	{"whm.enabled", "White Mage", func(c *Config) bool { return c.WhiteMage.Enabled }, func(c *Config, v bool) { c.WhiteMage.Enabled = v }},
	{"whm.benediction", "Benediction", func(c *Config) bool { return c.WhiteMage.Benediction }, func(c *Config, v bool) { c.WhiteMage.Benediction = v }},
	{"whm.tetragrammaton", "Tetragrammaton", func(c *Config) bool { return c.WhiteMage.Tetragrammaton }, func(c *Config, v bool) { c.WhiteMage.Tetragrammaton = v }},
	{"whm.presence_of_mind", "Presence of Mind", func(c *Config) bool { return c.WhiteMage.PresenceOfMind }, func(c *Config, v bool) { c.WhiteMage.PresenceOfMind = v }},
	{"whm.aoe", "White Mage AoE", func(c *Config) bool { return c.WhiteMage.AoE }, func(c *Config, v bool) { c.WhiteMage.AoE = v }},
}

var thresholds = []Threshold{
	{"aoe_target_count", "AoE target count", func(c *Config) int { return c.AoETargetCount }, func(c *Config, v int) { c.AoETargetCount = v }},
	{"drg.aoe_threshold", "Dragoon AoE threshold", func(c *Config) int { return c.Dragoon.AoEThreshold }, func(c *Config, v int) { c.Dragoon.AoEThreshold = v }},
	{"pld.aoe_threshold", "Paladin AoE threshold", func(c *Config) int { return c.Paladin.AoEThreshold }, func(c *Config, v int) { c.Paladin.AoEThreshold = v }},
	{"whm.aoe_threshold", "White Mage AoE threshold", func(c *Config) int { return c.WhiteMage.AoEThreshold }, func(c *Config, v int) { c.WhiteMage.AoEThreshold = v }},
}

var (
	toggleByID    = index(toggles, func(t Toggle) string { return t.ID })
	thresholdByID = index(thresholds, func(t Threshold) string { return t.ID })
)

func index[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}

// Toggle reads a boolean setting. ok is false for unknown ids.
func (c *Config) Toggle(id string) (v, ok bool) {
	t, ok := toggleByID[id]
	if !ok {
		return false, false
	}
	return t.Get(c), true
}

func (c *Config) SetToggle(id string, v bool) error {
	t, ok := toggleByID[id]
	if !ok {
		return fmt.Errorf("unknown toggle %q", id)
	}
	t.Set(c, v)
	return nil
}

// Threshold reads an integer setting. ok is false for unknown ids.
func (c *Config) Threshold(id string) (int, bool) {
	t, ok := thresholdByID[id]
	if !ok {
		return 0, false
	}
	return t.Get(c), true
}

func (c *Config) SetThreshold(id string, v int) error {
	t, ok := thresholdByID[id]
	if !ok {
		return fmt.Errorf("unknown threshold %q", id)
	}
	t.Set(c, v)
	return nil
}

// HasToggle reports whether id names a registered toggle.
func HasToggle(id string) bool {
	_, ok := toggleByID[id]
	return ok
}

func HasThreshold(id string) bool {
	_, ok := thresholdByID[id]
	return ok
}

// ToggleIDs lists every toggle id in sorted order.
func ToggleIDs() []string {
	ids := make([]string, 0, len(toggles))
	for _, t := range toggles {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}
