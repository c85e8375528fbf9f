package rotation

import "fmt"

// Reason classifies the outcome of one tick.
type Reason int

const (
	ReasonOK Reason = iota
	ReasonConfigGate
	ReasonRoleGate
	ReasonStateUnavailable
	ReasonUnsupportedJob
	ReasonNotInCombat
	ReasonNoTarget
	ReasonLogicFault
	ReasonFallback
)

var reasonNames = map[Reason]string{
	ReasonOK:               "OK",
	ReasonConfigGate:       "ConfigGate",
	ReasonRoleGate:         "RoleGate",
	ReasonStateUnavailable: "StateUnavailable",
	ReasonUnsupportedJob:   "UnsupportedJob",
	ReasonNotInCombat:      "NotInCombat",
	ReasonNoTarget:         "NoTarget",
	ReasonLogicFault:       "LogicFault",
	ReasonFallback:         "LogicFault (diagnostic fallback)",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Label is the short metric label for r.
func (r Reason) Label() string {
	if r == ReasonFallback {
		return "fallback"
	}
	return r.String()
}

// Diagnostics is the trail left by the most recent tick. It is overwritten
// every tick and never read by decision code.
type Diagnostics struct {
	Reason               Reason
	LastFailureReason    string
	LastChosenActionID   uint32
	LastChosenActionName string
}

func fallbackReason(name string) string {
	return fmt.Sprintf("LogicFault (diagnostic fallback: %s)", name)
}
