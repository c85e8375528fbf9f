package rotation

import (
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/stacks"
)

const JobWhiteMage = 24

const (
	whmGlareIII        = 25859
	whmGlareIV         = 37009
	whmDia             = 16532
	whmHolyIII         = 25860
	whmAfflatusMisery  = 16535
	whmCureII          = 135
	whmMedicaIII       = 37010
	whmAfflatusSolace  = 16531
	whmAfflatusRapture = 16534

	whmAssize         = 3571
	whmPresenceOfMind = 136
	whmLucidDreaming  = 7562
	whmBenediction    = 140
	whmTetragrammaton = 3570
	whmDivineCaress   = 37011
)

// WhiteMage returns the White Mage decision table: emergency heals first,
// then weaves, then standard and AoE heals, then damage. Condition ids:
// 1871 Dia, 3879 Sacred Sight, 3878 Divine Grace.
func WhiteMage() Job {
	return Job{
		ID:            JobWhiteMage,
		Name:          "White Mage",
		Role:          stacks.Heal,
		EnabledToggle: "whm.enabled",
		AoEToggle:     "whm.aoe",
		AoEThreshold:  "whm.aoe_threshold",
		AoERadius:     8,

		PreWeave: []Candidate{
			{Action: model.NewAction(whmBenediction, "Benediction (Emergency)"), Toggle: "whm.benediction", HealBelow: 30},
			{Action: model.NewAction(whmTetragrammaton, "Tetra (Emergency)"), Toggle: "whm.tetragrammaton", HealBelow: 30},
			{Action: model.NewAction(whmAfflatusSolace, "Solace (Emergency)"), When: `Gauge("whm.lily") > 0`, HealBelow: 30},
		},

		Weave: []Candidate{
			{Action: model.SelfAction(whmLucidDreaming, "Lucid Dreaming"), When: `MP() < 7000`},
			{Action: model.SelfAction(whmPresenceOfMind, "Presence of Mind"), Toggle: "whm.presence_of_mind"},
			{Action: model.SelfAction(whmAssize, "Assize")},
			{Action: model.SelfAction(whmDivineCaress, "Divine Caress"), When: `HasStatus(3878)`},
		},

		PrePrimary: []Candidate{
			{Action: model.NewAction(whmAfflatusSolace, "Solace"), When: `Gauge("whm.lily") > 0`, HealBelow: 70},
			{Action: model.NewAction(whmCureII, "Cure II"), HealBelow: 60},
			{Action: model.SelfAction(whmAfflatusRapture, "Rapture"), When: `PartyBelow(80) >= 3 && Gauge("whm.lily") > 0`},
			{Action: model.SelfAction(whmMedicaIII, "Medica III"), When: `PartyBelow(80) >= 3`},
		},

		SingleTarget: Chain{
			Shortcuts: []Candidate{
				{Action: model.NewAction(whmGlareIV, "Glare IV"), When: `HasStatus(3879)`, CheckUsable: true},
				{Action: model.NewAction(whmDia, "Dia"), When: `TargetStatusRemaining(1871) < 3`, CheckUsable: true},
				{Action: model.NewAction(whmAfflatusMisery, "Afflatus Misery"), When: `Gauge("whm.blood_lily") >= 3`, CheckUsable: true},
			},
			Starter: model.NewAction(whmGlareIII, "Glare III"),
		},

		AoE: Chain{
			Shortcuts: []Candidate{
				{Action: model.NewAction(whmAfflatusMisery, "Afflatus Misery (AoE)"), When: `Gauge("whm.blood_lily") >= 3`, CheckUsable: true},
				{Action: model.NewAction(whmGlareIV, "Glare IV (AoE)"), When: `HasStatus(3879)`, CheckUsable: true},
			},
			Starter: model.NewAction(whmHolyIII, "Holy III"),
		},

		Fallback: model.NewAction(whmGlareIII, "Glare III"),
	}
}
