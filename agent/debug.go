package agent

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/parselord/combo"
)

// Dump renders the session state as text. It reads the latest frame and
// the diagnostic trail but never runs a tick, so combo timers stay put.
func (a *Agent) Dump() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("========================================")
	line("      PARSELORD DEBUG DUMP")
	line("========================================")
	line("Time: %s", time.Now().Format(time.RFC3339))
	line("Host version: %s", a.Version)
	line("")

	line("--- PLAYER STATE ---")
	agent, hasAgent := a.mirror.LocalAgent()
	if hasAgent {
		line("Name: %s", agent.Name)
		line("Job ID: %d", agent.JobID)
		line("HP: %d/%d (%.1f%%)", agent.HP, agent.MaxHP, agent.HPFraction()*100)
		line("MP: %d/%d", agent.MP, agent.MaxMP)
		line("In Combat: %t", agent.InCombat)
		line("Is Casting: %t", agent.Casting)
		line("Is Dead: %t", agent.Dead)
	} else {
		line("Local player is not available")
	}
	line("")

	line("--- TARGET STATE ---")
	if t, ok := a.mirror.Target(); ok {
		line("Name: %s (ID: %d)", t.Name, t.ID)
		if hasAgent {
			line("Distance: %.2fy", agent.Position.Distance(t.Position))
			line("Facing Target: %t", agent.Facing(t.Position))
		}
		line("Is Hostile: %t", t.Hostile)
		line("Target HP: %d/%d", t.HP, t.MaxHP)
		line("Valid: %t", t.Valid())
	} else {
		line("No target selected")
	}
	line("Hostiles visible: %d", len(a.mirror.Hostiles()))
	line("")

	line("--- ACTION STATE ---")
	frame := a.mirror.Frame()
	line("Animation Lock: %.3fs", frame.AnimationLock)
	line("GCD Remaining: %.3fs", a.mirror.PrimaryLockRemaining())
	line("Can Weave: %t", a.mirror.WeaveWindowOpen())
	line("Combo Action: %d", frame.ComboAction)
	line("Combo Action (Adjusted): %d", a.mirror.LastResolvedActionID())
	line("")

	line("--- ROTATION STATE ---")
	d := a.orch.Diagnostics()
	line("Last Reason: %s", d.Reason.Label())
	line("Last Failure Reason: %s", d.LastFailureReason)
	line("Last Chosen Action ID: %d", d.LastChosenActionID)
	line("Last Chosen Action Name: %s", d.LastChosenActionName)
	if hasAgent {
		if role, ok := a.orch.Role(agent.JobID); ok {
			if c, ok := role.(interface{ Combo() *combo.State }); ok {
				line("Phase: %s", c.Combo().Phase())
			}
		}
	}
	line("")

	cfg := a.store.Snapshot()
	line("--- GATE CHECK SUMMARY ---")
	line("Config.Enabled: %t", cfg.Enabled)
	if hasAgent {
		if role, ok := a.orch.Role(agent.JobID); ok {
			line("Job %d (%s) Enabled: %t", agent.JobID, role.Name(), role.Enabled(&cfg))
		} else {
			line("Job %d: unsupported", agent.JobID)
		}
		line("Player InCombat: %t", agent.InCombat)
	}
	t, ok := a.mirror.Target()
	line("Has Valid Target: %t", ok && t.Valid())
	line("")

	line("--- CONFIGURATION ---")
	if path := a.store.Path(); path != "" {
		line("Path: %s", path)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		line("Failed to serialize config: %v", err)
	} else {
		b.Write(out)
	}
	return b.String()
}
