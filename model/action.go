package model

// ActionChoice is the single action proposed for a tick. It is a value and is
// never queued; the next tick decides again from scratch.
type ActionChoice struct {
	ActionID       uint32 `json:"actionId"`
	Name           string `json:"name"`
	TargetsSelf    bool   `json:"targetsSelf"`
	TargetOverride uint64 `json:"targetOverride,omitempty"` // 0 = current target
}

func NewAction(id uint32, name string) ActionChoice {
	return ActionChoice{ActionID: id, Name: name}
}

func SelfAction(id uint32, name string) ActionChoice {
	return ActionChoice{ActionID: id, Name: name, TargetsSelf: true}
}
