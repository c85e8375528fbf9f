package rotation

import (
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

const JobPaladin = 19

const (
	pldFastBlade      = 9
	pldRiotBlade      = 15
	pldRoyalAuthority = 3539
	pldGoringBlade    = 3538
	pldAtonement      = 16460
	pldSupplication   = 36918
	pldSepulchre      = 36919
	pldHolySpirit     = 7384
	pldConfiteor      = 16459
	pldTotalEclipse   = 7381
	pldProminence     = 16457
	pldHolyCircle     = 16458

	pldFightOrFlight = 20
	pldRequiescat    = 7383
	pldImperator     = 36921
	pldSpiritsWithin = 29
	pldExpiacion     = 25747
	pldCircleOfScorn = 23
	pldIntervene     = 16461
	pldBladeOfHonor  = 36922
	pldSheltron      = 3542
	pldHolySheltron  = 25746
)

// Paladin returns the Paladin decision table. Condition ids:
// 76 Fight or Flight, 1368 Requiescat, 3019 Confiteor Ready,
// 1902 Atonement Ready, 3827 Supplication Ready, 3828 Sepulchre Ready,
// 3831 Blade of Honor Ready, 2673 Divine Might.
func Paladin() Job {
	const sheltronWhen = `Gauge("pld.oath") >= 80 || (Gauge("pld.oath") >= 50 && SelfHP() < 70)`
	return Job{
		ID:            JobPaladin,
		Name:          "Paladin",
		Role:          stacks.Tank,
		EnabledToggle: "pld.enabled",
		AoEToggle:     "pld.aoe",
		AoEThreshold:  "pld.aoe_threshold",
		AoERadius:     5,

		PreWeave: []Candidate{
			{Action: model.SelfAction(pldHolySheltron, "Holy Sheltron"), Toggle: "pld.sheltron", When: sheltronWhen},
			{Action: model.SelfAction(pldSheltron, "Sheltron"), Toggle: "pld.sheltron", When: sheltronWhen},
		},

		Weave: []Candidate{
			{Action: model.SelfAction(pldFightOrFlight, "Fight or Flight"), Toggle: "pld.fight_or_flight"},
			{Action: model.NewAction(pldImperator, "Imperator"), Toggle: "pld.requiescat", When: `HasStatus(76)`},
			{Action: model.NewAction(pldRequiescat, "Requiescat"), Toggle: "pld.requiescat", When: `HasStatus(76)`},
			{Action: model.NewAction(pldBladeOfHonor, "Blade of Honor"), When: `HasStatus(3831)`},
			{Action: model.NewAction(pldExpiacion, "Expiacion")},
			{Action: model.NewAction(pldSpiritsWithin, "Spirits Within")},
			{Action: model.NewAction(pldCircleOfScorn, "Circle of Scorn")},
			{Action: model.NewAction(pldIntervene, "Intervene"), When: `HasStatus(76)`},
		},

		SingleTarget: Chain{
			Shortcuts: []Candidate{
				{Action: model.NewAction(pldConfiteor, "Confiteor Combo"), When: `HasStatus(3019) || HasStatus(1368)`},
				{Action: model.NewAction(pldHolySpirit, "Holy Spirit"), When: `HasStatus(2673)`},
				{Action: model.NewAction(pldGoringBlade, "Goring Blade"), When: `HasStatus(76)`, CheckUsable: true},
				{Action: model.NewAction(pldSepulchre, "Sepulchre"), When: `HasStatus(3828)`},
				{Action: model.NewAction(pldSupplication, "Supplication"), When: `HasStatus(3827)`},
				{Action: model.NewAction(pldAtonement, "Atonement"), When: `HasStatus(1902)`},
			},
			Links: []Link{
				{From: []uint32{pldRiotBlade}, Next: []Candidate{step(pldRoyalAuthority, "Royal Authority")}},
				{From: []uint32{pldFastBlade}, Next: []Candidate{step(pldRiotBlade, "Riot Blade")}},
			},
			Starter: model.NewAction(pldFastBlade, "Fast Blade"),
		},

		AoE: Chain{
			Shortcuts: []Candidate{
				{Action: model.NewAction(pldConfiteor, "Confiteor (AoE)"), When: `HasStatus(3019) || HasStatus(1368)`},
				{Action: model.NewAction(pldHolyCircle, "Holy Circle"), When: `HasStatus(2673)`},
			},
			Links: []Link{
				{From: []uint32{pldTotalEclipse}, Next: []Candidate{step(pldProminence, "Prominence")}},
			},
			Starter: model.NewAction(pldTotalEclipse, "Total Eclipse"),
		},

		Fallback: model.NewAction(pldFastBlade, "Fast Blade"),
	}
}
