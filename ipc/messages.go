package ipc

import "github.com/nstehr/parselord/model"

// These constants must stay in sync with the host plugin's message types.
const (
	TypeHello   = "hello"
	TypeAck     = "ack"
	TypeFrame   = "frame"
	TypeAction  = "action"
	TypeCommand = "command"
	TypeReply   = "reply"
)

type HelloMessage struct {
	Player  string `json:"player"`
	JobID   uint32 `json:"jobId"`
	Version string `json:"version,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
	// Jobs lists the job ids the sidecar has decision logic for.
	Jobs []uint32 `json:"jobs,omitempty"`
}

// FrameMessage is one control tick's snapshot.
type FrameMessage = model.Frame
