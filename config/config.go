// Package config holds the operator configuration: global gates, targeting
// policy, per-job toggles and the priority stack tree.
package config

import "github.com/nstehr/parselord/stacks"

// TargetPriority selects how the targeting selector picks a new enemy.
type TargetPriority string

const (
	TargetNone         TargetPriority = "none"
	TargetNearest      TargetPriority = "nearest"
	TargetLowestHP     TargetPriority = "lowest_hp"
	TargetHighestMaxHP TargetPriority = "highest_max_hp"
	TargetTankAssist   TargetPriority = "tank_assist"
)

type Config struct {
	Version int `yaml:"version"`

	Enabled        bool `yaml:"enabled"`
	InCombatOnly   bool `yaml:"in_combat_only"`
	UseAoE         bool `yaml:"use_aoe"`
	AoETargetCount int  `yaml:"aoe_target_count"`

	// DiagnosticFallback substitutes a fixed per-job action when job logic
	// produces nothing for no diagnosable reason. Diagnostic aid only.
	DiagnosticFallback bool `yaml:"diagnostic_fallback"`

	Targeting Targeting `yaml:"targeting"`

	Dragoon   Dragoon   `yaml:"dragoon"`
	Paladin   Paladin   `yaml:"paladin"`
	WhiteMage WhiteMage `yaml:"white_mage"`

	PriorityStacks map[uint32]*stacks.JobConfig `yaml:"priority_stacks"`
}

type Targeting struct {
	Priority   TargetPriority `yaml:"priority"`
	AutoSwitch bool           `yaml:"auto_switch"`
	Range      float64        `yaml:"range"`
	Angle      float64        `yaml:"angle"`
}

type Dragoon struct {
	Enabled        bool `yaml:"enabled"`
	LanceCharge    bool `yaml:"lance_charge"`
	BattleLitany   bool `yaml:"battle_litany"`
	LifeSurge      bool `yaml:"life_surge"`
	HighJump       bool `yaml:"high_jump"`
	DragonfireDive bool `yaml:"dragonfire_dive"`
	Geirskogul     bool `yaml:"geirskogul"`
	WyrmwindThrust bool `yaml:"wyrmwind_thrust"`
	AoE            bool `yaml:"aoe"`
	AoEThreshold   int  `yaml:"aoe_threshold"`
}

type Paladin struct {
	Enabled       bool `yaml:"enabled"`
	Sheltron      bool `yaml:"sheltron"`
	FightOrFlight bool `yaml:"fight_or_flight"`
	Requiescat    bool `yaml:"requiescat"`
	AoE           bool `yaml:"aoe"`
	AoEThreshold  int  `yaml:"aoe_threshold"`
}

type WhiteMage struct {
	Enabled        bool `yaml:"enabled"`
	Benediction    bool `yaml:"benediction"`
	Tetragrammaton bool `yaml:"tetragrammaton"`
	PresenceOfMind bool `yaml:"presence_of_mind"`
	AoE            bool `yaml:"aoe"`
	AoEThreshold   int  `yaml:"aoe_threshold"`
}

// Default mirrors a fresh install: automation and every job start disabled.
func Default() Config {
	return Config{
		Enabled:        false,
		InCombatOnly:   true,
		UseAoE:         true,
		AoETargetCount: 3,
		Targeting: Targeting{
			Priority:   TargetNearest,
			AutoSwitch: true,
			Range:      25,
			Angle:      180,
		},
		Dragoon: Dragoon{
			LanceCharge: true, BattleLitany: true, LifeSurge: true,
			HighJump: true, DragonfireDive: true, Geirskogul: true, WyrmwindThrust: true,
			AoE: true, AoEThreshold: 3,
		},
		Paladin: Paladin{
			Sheltron: true, FightOrFlight: true, Requiescat: true,
			AoE: true, AoEThreshold: 3,
		},
		WhiteMage: WhiteMage{
			Benediction: true, Tetragrammaton: true, PresenceOfMind: true,
			AoE: true, AoEThreshold: 3,
		},
		PriorityStacks: make(map[uint32]*stacks.JobConfig),
	}
}

// Clone deep-copies the config, including the priority stack tree.
func (c Config) Clone() Config {
	out := c
	out.PriorityStacks = make(map[uint32]*stacks.JobConfig, len(c.PriorityStacks))
	for id, job := range c.PriorityStacks {
		if job == nil {
			continue
		}
		j := job.Clone()
		out.PriorityStacks[id] = &j
	}
	return out
}
