package app

import (
	"context"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type AgentRunRepository interface {
	CreateRun(ctx context.Context, run domain.AgentRun) error
	FinishRun(ctx context.Context, run domain.AgentRun) error
	ListRuns(ctx context.Context, agentID string, limit int) ([]domain.AgentRun, error)
	LatestRuns(ctx context.Context) ([]domain.AgentRun, error)
}

// AgentRunService persists the execution history of background agents.
type AgentRunService struct {
	repo  AgentRunRepository
	clock clock.Clock
}

func NewAgentRunService(repo AgentRunRepository, clk clock.Clock) *AgentRunService {
	return &AgentRunService{
		repo:  repo,
		clock: clk,
	}
}

// Begin records the start of a run and returns it in the running state.
func (s *AgentRunService) Begin(ctx context.Context, agentID, trigger string) (domain.AgentRun, error) {
	if agentID == "" {
		return domain.AgentRun{}, domain.ErrInvalidID
	}

	run := domain.AgentRun{
		ID:        newID(),
		AgentID:   agentID,
		Status:    domain.AgentRunStatusRunning,
		Trigger:   trigger,
		StartedAt: s.clock.Now(),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return domain.AgentRun{}, err
	}
	return run, nil
}

// Finish closes a run as succeeded or failed depending on runErr.
func (s *AgentRunService) Finish(ctx context.Context, run domain.AgentRun, items int, runErr error) (domain.AgentRun, error) {
	finished := s.clock.Now()
	run.FinishedAt = &finished
	run.ItemsProcessed = items
	if runErr != nil {
		run.Status = domain.AgentRunStatusFailed
		run.Error = runErr.Error()
	} else {
		run.Status = domain.AgentRunStatusSucceeded
	}

	if err := s.repo.FinishRun(ctx, run); err != nil {
		return domain.AgentRun{}, err
	}
	return run, nil
}

const defaultRunHistory = 20

// History returns the most recent runs for one agent, newest first.
func (s *AgentRunService) History(ctx context.Context, agentID string, limit int) ([]domain.AgentRun, error) {
	if agentID == "" {
		return nil, domain.ErrInvalidID
	}
	if limit <= 0 {
		limit = defaultRunHistory
	}
	return s.repo.ListRuns(ctx, agentID, limit)
}

// Latest returns the newest run per agent.
func (s *AgentRunService) Latest(ctx context.Context) ([]domain.AgentRun, error) {
	return s.repo.LatestRuns(ctx)
}
