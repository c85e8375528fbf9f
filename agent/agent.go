package agent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nstehr/parselord/config"
	"github.com/nstehr/parselord/ipc"
	"github.com/nstehr/parselord/metrics"
	"github.com/nstehr/parselord/model"
	"github.com/nstehr/parselord/rotation"
	"github.com/nstehr/parselord/stacks"
	"github.com/nstehr/parselord/targeting"
	"github.com/nstehr/parselord/telemetry"
)

// Agent owns the decision-making for a single host session. All of its
// state is driven from the connection's read loop.
type Agent struct {
	Conn    *ipc.Connection
	Player  string
	Version string

	store  *config.Store
	mirror *model.Mirror
	orch   *rotation.Orchestrator
	sink   rotation.Sink
	jobs   []uint32
}

// New builds the per-connection pipeline: one Mirror shared by targeting,
// the orchestrator and every built-in job logic.
func New(conn *ipc.Connection, store *config.Store) (*Agent, error) {
	mirror := model.NewMirror()
	logics, err := rotation.NewJobLogics(rotation.Builtin(), mirror, stacks.NewManager(store))
	if err != nil {
		return nil, fmt.Errorf("build job logic: %w", err)
	}

	roles := make([]rotation.Role, len(logics))
	jobs := make([]uint32, len(logics))
	for i, l := range logics {
		roles[i] = l
		jobs[i] = l.JobID()
	}
	slices.Sort(jobs)

	a := &Agent{
		Conn:   conn,
		store:  store,
		mirror: mirror,
		orch:   rotation.NewOrchestrator(store, mirror, targeting.NewSelector(mirror, store), roles...),
		jobs:   jobs,
	}
	a.sink = &connSink{agent: a}
	return a, nil
}

// Serve registers the session handlers and blocks until the connection closes.
func (a *Agent) Serve() {
	a.Conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	a.Conn.RegisterHandler(ipc.TypeFrame, a.HandleFrame)
	a.Conn.RegisterHandler(ipc.TypeCommand, a.HandleCommand)

	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()
	a.Conn.ReadLoop()
}

// Jobs lists the job ids this agent has decision logic for, ascending.
func (a *Agent) Jobs() []uint32 { return a.jobs }

// HandleHello completes the handshake so the host knows the sidecar is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	a.Player = hello.Player
	a.Version = hello.Version
	a.Conn.Player = hello.Player
	slog.Info("player identified", "player", a.Player, "job", hello.JobID, "version", a.Version)

	if !slices.Contains(a.jobs, hello.JobID) {
		slog.Warn("no decision logic for job", "player", a.Player, "job", hello.JobID)
	}

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Jobs: a.jobs})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleFrame installs the frame, runs one tick and sends the chosen action.
// A retarget without an action is still reported so the host can switch.
func (a *Agent) HandleFrame(env ipc.Envelope) (*ipc.Envelope, error) {
	var frame ipc.FrameMessage
	if err := env.Decode(&frame); err != nil {
		return nil, err
	}

	var jobID uint32
	if frame.Agent != nil {
		jobID = frame.Agent.JobID
	}
	_, span := telemetry.StartFrameSpan(context.Background(), a.Player, frame.Tick, jobID)

	a.mirror.Set(frame)
	choice, ok := a.orch.NextAction()
	reason := a.orch.Diagnostics().Reason

	sent := false
	if ok {
		sent = a.sink.Attempt(choice)
	} else if id, retarget := a.mirror.Retarget(); retarget {
		if err := a.Conn.Send(ipc.TypeAction, ipc.ActionMessage{Tick: frame.Tick, Retarget: id}); err != nil {
			telemetry.RecordError(span, err)
			slog.Warn("failed to send retarget", "player", a.Player, "error", err)
		}
	}

	slog.Debug("tick",
		"player", a.Player,
		"tick", frame.Tick,
		"job", jobID,
		"reason", reason.Label(),
		"action", choice.Name,
		"sent", sent,
	)
	telemetry.EndFrameSpan(span, reason.Label(), choice.ActionID, sent)
	return nil, nil
}

// connSink sends the chosen action back to the host as one action envelope.
type connSink struct {
	agent *Agent
}

var _ rotation.Sink = (*connSink)(nil)

func (s *connSink) Attempt(choice model.ActionChoice) bool {
	a := s.agent
	msg := ipc.ActionMessage{Tick: a.mirror.Frame().Tick, Action: choice}
	if id, ok := a.mirror.Retarget(); ok {
		msg.Retarget = id
	}

	err := a.Conn.Send(ipc.TypeAction, msg)
	metrics.RecordActionSent(a.jobName(), err == nil)
	if err != nil {
		slog.Warn("failed to send action", "player", a.Player, "action", choice.Name, "error", err)
		return false
	}
	return true
}

func (a *Agent) jobName() string {
	agent, ok := a.mirror.LocalAgent()
	if !ok {
		return ""
	}
	if r, ok := a.orch.Role(agent.JobID); ok {
		return r.Name()
	}
	return ""
}
