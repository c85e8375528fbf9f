package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/ipc"
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/telemetry"
)

var usage = []string{
	"usage:",
	"  toggle               enable or disable the rotation",
	"  set <id> on|off      change a toggle",
	"  set <id> <n>         change a threshold",
	"  diag                 gate checks and the last decision",
	"  test <actionId>      check and attempt one action",
	"  debug                full state dump",
}

// HandleCommand runs one operator command and replies with text lines.
// Commands share the read loop with frames, so they see the latest tick.
func (a *Agent) HandleCommand(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.CommandMessage
	if err := env.Decode(&cmd); err != nil {
		return nil, err
	}

	fields := strings.Fields(strings.ToLower(cmd.Text))
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}
	_, span := telemetry.StartCommandSpan(context.Background(), a.Player, name)
	defer span.End()

	var (
		lines []string
		err   error
	)
	switch name {
	case "toggle":
		lines, err = a.toggle()
	case "set":
		lines, err = a.set(fields[1:])
	case "diag":
		lines = a.diag()
	case "test":
		lines = a.test(fields[1:])
	case "debug", "dbg":
		lines = strings.Split(strings.TrimRight(a.Dump(), "\n"), "\n")
	default:
		lines = usage
	}
	if err != nil {
		telemetry.RecordError(span, err)
		slog.Warn("command failed", "player", a.Player, "command", cmd.Text, "error", err)
		lines = []string{"error: " + err.Error()}
	}

	reply, err := ipc.NewEnvelope(ipc.TypeReply, ipc.ReplyMessage{Lines: lines})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (a *Agent) toggle() ([]string, error) {
	var enabled bool
	err := a.store.Update(func(c *config.Config) error {
		c.Enabled = !c.Enabled
		enabled = c.Enabled
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("rotation toggled", "player", a.Player, "enabled", enabled)
	if enabled {
		return []string{"rotation enabled"}, nil
	}
	return []string{"rotation disabled"}, nil
}

func (a *Agent) set(args []string) ([]string, error) {
	if len(args) != 2 {
		return usage, nil
	}
	id, value := args[0], args[1]

	switch {
	case config.HasToggle(id):
		var on bool
		switch value {
		case "on", "true", "1":
			on = true
		case "off", "false", "0":
		default:
			return nil, fmt.Errorf("toggle %s wants on or off, got %q", id, value)
		}
		if err := a.store.Update(func(c *config.Config) error { return c.SetToggle(id, on) }); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("%s = %s", id, onOff(on))}, nil

	case config.HasThreshold(id):
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("threshold %s wants a positive number, got %q", id, value)
		}
		if err := a.store.Update(func(c *config.Config) error { return c.SetThreshold(id, n) }); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("%s = %d", id, n)}, nil
	}
	return nil, fmt.Errorf("unknown setting %q", id)
}

func (a *Agent) diag() []string {
	cfg := a.store.Snapshot()
	agent, ok := a.mirror.LocalAgent()
	if !ok {
		return []string{"player is not available"}
	}
	target, hasTarget := a.mirror.Target()
	d := a.orch.Diagnostics()

	lines := []string{
		"=== diagnostic ===",
		fmt.Sprintf("Enabled=%t JobId=%d InCombat=%t HasTarget=%t", cfg.Enabled, agent.JobID, agent.InCombat, hasTarget && target.Valid()),
	}
	if role, ok := a.orch.Role(agent.JobID); ok {
		lines = append(lines, fmt.Sprintf("JobEnabled=%t (%s)", role.Enabled(&cfg), role.Name()))
	} else {
		lines = append(lines, "JobEnabled=false (unsupported job)")
	}
	lines = append(lines,
		fmt.Sprintf("LastChoice: Action=%d Name=%s", d.LastChosenActionID, d.LastChosenActionName),
		fmt.Sprintf("FailureReason: %s", d.LastFailureReason),
		fmt.Sprintf("GCDRem=%.3f CanWeave=%t", a.mirror.PrimaryLockRemaining(), a.mirror.WeaveWindowOpen()),
		fmt.Sprintf("ComboAction=%d Adjusted=%d", a.mirror.Frame().ComboAction, a.mirror.LastResolvedActionID()),
	)
	return lines
}

// test checks one action against the current frame and, when usable,
// attempts it through the same sink the rotation uses.
func (a *Agent) test(args []string) []string {
	if len(args) != 1 {
		return []string{"usage: test <actionId>", "example: test 75  (True Thrust)"}
	}
	id64, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return []string{"usage: test <actionId>", "example: test 75  (True Thrust)"}
	}
	id := uint32(id64)

	var targetID uint64
	if t, ok := a.mirror.Target(); ok {
		targetID = t.ID
	}
	canUse := a.mirror.CanUse(id, targetID)
	lines := []string{fmt.Sprintf("TEST actionId=%d canUse=%t", id, canUse)}
	if canUse {
		executed := a.sink.Attempt(model.NewAction(id, fmt.Sprintf("test %d", id)))
		return append(lines, fmt.Sprintf("TEST actionId=%d executed=%t", id, executed))
	}

	adjusted := a.mirror.ResolvedActionID(id)
	return append(lines,
		fmt.Sprintf("TEST adjusted=%d (may differ from input)", adjusted),
		fmt.Sprintf("TEST canUseAdjusted=%t", a.mirror.CanUse(adjusted, targetID)),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
