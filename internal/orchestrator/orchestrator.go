package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

// Agent is one background worker the orchestrator schedules.
type Agent interface {
	ID() string
	Name() string
	Interval() time.Duration
	// Run performs one pass and returns the number of items it processed.
	Run(ctx context.Context) (int, error)
}

// RunRecorder persists run records. Implemented by app.AgentRunService.
type RunRecorder interface {
	Begin(ctx context.Context, agentID, trigger string) (domain.AgentRun, error)
	Finish(ctx context.Context, run domain.AgentRun, items int, runErr error) (domain.AgentRun, error)
}

type agentState struct {
	agent Agent
	busy  chan struct{}
}

// Orchestrator owns the agent registry and runs each agent on its interval.
// Runs never overlap per agent; a manual trigger during a scheduled run
// reports busy instead of queueing.
type Orchestrator struct {
	order    []string
	agents   map[string]*agentState
	recorder RunRecorder
	logger   zerolog.Logger
}

func New(recorder RunRecorder, logger zerolog.Logger, agents ...Agent) (*Orchestrator, error) {
	o := &Orchestrator{
		agents:   make(map[string]*agentState, len(agents)),
		recorder: recorder,
		logger:   logger,
	}
	for _, agent := range agents {
		if _, exists := o.agents[agent.ID()]; exists {
			return nil, fmt.Errorf("duplicate agent id %q", agent.ID())
		}
		st := &agentState{agent: agent, busy: make(chan struct{}, 1)}
		o.agents[agent.ID()] = st
		o.order = append(o.order, agent.ID())
	}
	return o, nil
}

// AgentInfo describes a registered agent for the status endpoint.
type AgentInfo struct {
	ID       string
	Name     string
	Interval time.Duration
}

// Agents lists registered agents in registration order.
func (o *Orchestrator) Agents() []AgentInfo {
	out := make([]AgentInfo, 0, len(o.order))
	for _, id := range o.order {
		a := o.agents[id].agent
		out = append(out, AgentInfo{ID: a.ID(), Name: a.Name(), Interval: a.Interval()})
	}
	return out
}

// Known reports whether an agent with the given ID is registered.
func (o *Orchestrator) Known(agentID string) bool {
	_, ok := o.agents[agentID]
	return ok
}

// Start runs every agent loop until ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range o.order {
		st := o.agents[id]
		g.Go(func() error {
			o.loop(ctx, st)
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) loop(ctx context.Context, st *agentState) {
	ticker := time.NewTicker(st.agent.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := o.execute(ctx, st, domain.RunTriggerSchedule); err != nil && err != domain.ErrAgentBusy {
				o.logger.Error().Err(err).Str("agent", st.agent.ID()).Msg("scheduled run failed")
			}
		}
	}
}

// Trigger runs one agent immediately and returns its finished run record.
func (o *Orchestrator) Trigger(ctx context.Context, agentID string) (domain.AgentRun, error) {
	st, ok := o.agents[agentID]
	if !ok {
		return domain.AgentRun{}, domain.ErrAgentNotFound
	}
	return o.execute(ctx, st, domain.RunTriggerManual)
}

func (o *Orchestrator) execute(ctx context.Context, st *agentState, trigger string) (domain.AgentRun, error) {
	select {
	case st.busy <- struct{}{}:
	default:
		return domain.AgentRun{}, domain.ErrAgentBusy
	}
	defer func() { <-st.busy }()

	run, err := o.recorder.Begin(ctx, st.agent.ID(), trigger)
	if err != nil {
		return domain.AgentRun{}, fmt.Errorf("record run start: %w", err)
	}

	started := time.Now()
	items, runErr := o.run(ctx, st.agent)
	elapsed := time.Since(started)

	finished, err := o.recorder.Finish(ctx, run, items, runErr)
	if err != nil {
		return domain.AgentRun{}, fmt.Errorf("record run finish: %w", err)
	}

	evt := o.logger.Info()
	if runErr != nil {
		evt = o.logger.Error().Err(runErr)
	}
	evt.
		Str("agent", st.agent.ID()).
		Str("trigger", trigger).
		Int("items", items).
		Dur("duration", elapsed).
		Msg("agent run finished")

	return finished, nil
}

// run shields the orchestrator from agent panics, converting them into
// failed runs.
func (o *Orchestrator) run(ctx context.Context, agent Agent) (items int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panic: %v", r)
		}
	}()
	return agent.Run(ctx)
}
