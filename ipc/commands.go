package ipc

import "github.com/nstehr/parselord/model"

// ActionMessage answers a frame with the action the host should attempt.
// Retarget, when set, asks the host to switch targets first.
type ActionMessage struct {
	Tick     int                `json:"tick"`
	Action   model.ActionChoice `json:"action"`
	Retarget uint64             `json:"retarget,omitempty"`
}

// CommandMessage is an operator chat command forwarded by the host, e.g.
// "toggle" or "test 75".
type CommandMessage struct {
	Text string `json:"text"`
}

type ReplyMessage struct {
	Lines []string `json:"lines"`
}
