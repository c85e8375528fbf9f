package rotation

import (
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

const JobDragoon = 22

// Dragoon action ids.
const (
	drgTrueThrust     = 75
	drgVorpalThrust   = 78
	drgDisembowel     = 87
	drgFullThrust     = 84
	drgChaosThrust    = 88
	drgWheelingThrust = 3556
	drgFangAndClaw    = 3554
	drgRaidenThrust   = 16479
	drgLanceBarrage   = 36954
	drgSpiralBlow     = 36955
	drgHeavensThrust  = 25771
	drgChaoticSpring  = 25772
	drgDrakesbane     = 36949

	drgDoomSpike       = 86
	drgDraconianFury   = 25770
	drgSonicThrust     = 7397
	drgCoerthanTorment = 16477

	drgHighJump        = 16478
	drgMirageDive      = 7399
	drgDragonfireDive  = 96
	drgRiseOfTheDragon = 36952
	drgStardiver       = 16480
	drgStarcross       = 36953
	drgGeirskogul      = 3555
	drgNastrond        = 7400
	drgWyrmwindThrust  = 25773

	drgLanceCharge  = 85
	drgBattleLitany = 3557
	drgLifeSurge    = 83
)

// Dragoon returns the Dragoon decision table. Condition ids:
// 2720 Power Surge, 2719 Chaotic Spring dot, 1243 Dive Ready,
// 3848 Dragon's Flight, 3849 Starcross Ready, 3847 Drakesbane Ready,
// 116 Life of the Dragon, 83 Life Surge.
func Dragoon() Job {
	return Job{
		ID:            JobDragoon,
		Name:          "Dragoon",
		Role:          stacks.DPS,
		EnabledToggle: "drg.enabled",
		AoEToggle:     "drg.aoe",
		AoEThreshold:  "drg.aoe_threshold",
		AoERadius:     10,

		Weave: []Candidate{
			{Action: model.SelfAction(drgLanceCharge, "Lance Charge"), Toggle: "drg.lance_charge"},
			{Action: model.SelfAction(drgBattleLitany, "Battle Litany"), Toggle: "drg.battle_litany", When: `InBurst()`},
			{
				Action: model.SelfAction(drgLifeSurge, "Life Surge"),
				Toggle: "drg.life_surge",
				// Only on finishers, keeping one charge back outside burst.
				When: `!HasStatus(83) && NextGCD() in [25771, 84, 36949, 16477] && (Charges(83) == 2 || (Charges(83) == 1 && InBurst()))`,
			},
			{Action: model.NewAction(drgRiseOfTheDragon, "Rise of the Dragon"), When: `HasStatus(3848)`},
			{Action: model.NewAction(drgStarcross, "Starcross"), When: `HasStatus(3849)`},
			{Action: model.NewAction(drgMirageDive, "Mirage Dive"), When: `HasStatus(1243)`},
			{Action: model.NewAction(drgHighJump, "High Jump"), Toggle: "drg.high_jump"},
			{Action: model.NewAction(drgGeirskogul, "Geirskogul"), Toggle: "drg.geirskogul"},
			{Action: model.NewAction(drgDragonfireDive, "Dragonfire Dive"), Toggle: "drg.dragonfire_dive"},
			{Action: model.NewAction(drgNastrond, "Nastrond"), When: `HasStatus(116)`},
			{Action: model.NewAction(drgStardiver, "Stardiver"), When: `HasStatus(116)`},
			{Action: model.NewAction(drgWyrmwindThrust, "Wyrmwind Thrust"), Toggle: "drg.wyrmwind_thrust", When: `Gauge("drg.focus") >= 2`},
		},

		SingleTarget: Chain{
			Shortcuts: []Candidate{
				{Action: model.NewAction(drgDrakesbane, "Drakesbane"), When: `HasStatus(3847)`},
			},
			Links: []Link{
				{From: []uint32{drgWheelingThrust}, Next: []Candidate{step(drgFangAndClaw, "Fang and Claw")}},
				{From: []uint32{drgFangAndClaw}, Next: []Candidate{step(drgDrakesbane, "Drakesbane")}},
				{
					From: []uint32{drgChaosThrust, drgChaoticSpring, drgFullThrust, drgHeavensThrust},
					Next: []Candidate{step(drgWheelingThrust, "Wheeling Thrust")},
				},
				{From: []uint32{drgDisembowel, drgSpiralBlow}, Next: []Candidate{step(drgChaosThrust, "Chaotic Spring")}},
				{From: []uint32{drgVorpalThrust, drgLanceBarrage}, Next: []Candidate{step(drgFullThrust, "Heavens' Thrust")}},
				{
					From: []uint32{drgTrueThrust, drgRaidenThrust},
					Next: []Candidate{
						// Refresh Power Surge and the dot before they fall off.
						{Action: model.NewAction(drgDisembowel, "Spiral Blow"), When: `StatusRemaining(2720) < 6 || TargetStatusRemaining(2719) < 6`},
						step(drgVorpalThrust, "Lance Barrage"),
					},
				},
			},
			Starter: model.NewAction(drgTrueThrust, "True Thrust"),
		},

		AoE: Chain{
			Links: []Link{
				{From: []uint32{drgSonicThrust}, Next: []Candidate{step(drgCoerthanTorment, "Coerthan Torment")}},
				{From: []uint32{drgDoomSpike, drgDraconianFury}, Next: []Candidate{step(drgSonicThrust, "Sonic Thrust")}},
			},
			Starter: model.NewAction(drgDoomSpike, "Draconian Fury"),
		},

		Fallback: model.NewAction(drgTrueThrust, "True Thrust"),
	}
}
