package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type AgentRunRepository struct {
	querier
}

func NewAgentRunRepository(pool *pgxpool.Pool) *AgentRunRepository {
	return &AgentRunRepository{querier{pool: pool}}
}

const agentRunColumns = `id, agent_id, status, trigger_kind, items_processed, error, started_at, finished_at`

func (r *AgentRunRepository) CreateRun(ctx context.Context, run domain.AgentRun) error {
	const stmt = `
INSERT INTO agent_runs (id, agent_id, status, trigger_kind, items_processed, error, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		run.ID, run.AgentID, run.Status, run.Trigger, run.ItemsProcessed, run.Error, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create agent run: %w", err)
	}
	return nil
}

func (r *AgentRunRepository) FinishRun(ctx context.Context, run domain.AgentRun) error {
	const stmt = `
UPDATE agent_runs
SET status = $2, items_processed = $3, error = $4, finished_at = $5
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, run.ID, run.Status, run.ItemsProcessed, run.Error, run.FinishedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("finish agent run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish agent run: run %s not found", run.ID)
	}
	return nil
}

func (r *AgentRunRepository) ListRuns(ctx context.Context, agentID string, limit int) ([]domain.AgentRun, error) {
	query := `SELECT ` + agentRunColumns + ` FROM agent_runs WHERE agent_id = $1 ORDER BY started_at DESC, id LIMIT $2`

	rows, err := r.query(ctx, query, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list agent runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows, limit)
}

// LatestRuns returns the most recent run per agent.
func (r *AgentRunRepository) LatestRuns(ctx context.Context) ([]domain.AgentRun, error) {
	query := `SELECT DISTINCT ON (agent_id) ` + agentRunColumns + ` FROM agent_runs ORDER BY agent_id, started_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest agent runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows, 0)
}

func scanRuns(rows pgx.Rows, capacity int) ([]domain.AgentRun, error) {
	runs := make([]domain.AgentRun, 0, capacity)
	for rows.Next() {
		var run domain.AgentRun
		if err := rows.Scan(
			&run.ID, &run.AgentID, &run.Status, &run.Trigger,
			&run.ItemsProcessed, &run.Error, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan agent run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agent runs: %w", err)
	}
	return runs, nil
}
