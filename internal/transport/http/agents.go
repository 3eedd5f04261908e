package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/orchestrator"
)

// AgentController is the slice of the orchestrator the agent endpoints use.
type AgentController interface {
	Agents() []orchestrator.AgentInfo
	Known(agentID string) bool
	Trigger(ctx context.Context, agentID string) (domain.AgentRun, error)
}

// RunHistory is the slice of the run service the agent endpoints use.
type RunHistory interface {
	History(ctx context.Context, agentID string, limit int) ([]domain.AgentRun, error)
	Latest(ctx context.Context) ([]domain.AgentRun, error)
}

type agentRunResponse struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agent_id"`
	Status         string     `json:"status"`
	Trigger        string     `json:"trigger"`
	ItemsProcessed int        `json:"items_processed"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

func toAgentRunResponse(run domain.AgentRun) agentRunResponse {
	return agentRunResponse{
		ID:             run.ID,
		AgentID:        run.AgentID,
		Status:         string(run.Status),
		Trigger:        run.Trigger,
		ItemsProcessed: run.ItemsProcessed,
		Error:          run.Error,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}

type agentStatusResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Interval string            `json:"interval"`
	LastRun  *agentRunResponse `json:"last_run,omitempty"`
}

// HandleListAgents returns the registry merged with each agent's latest run.
func HandleListAgents(ctrl AgentController, history RunHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		latest, err := history.Latest(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		latestByAgent := make(map[string]domain.AgentRun, len(latest))
		for _, run := range latest {
			latestByAgent[run.AgentID] = run
		}

		agents := ctrl.Agents()
		resp := make([]agentStatusResponse, 0, len(agents))
		for _, a := range agents {
			status := agentStatusResponse{
				ID:       a.ID,
				Name:     a.Name,
				Interval: a.Interval.String(),
			}
			if run, ok := latestByAgent[a.ID]; ok {
				converted := toAgentRunResponse(run)
				status.LastRun = &converted
			}
			resp = append(resp, status)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleAgentItem routes /api/agents/{id}/run (manual trigger) and
// /api/agents/{id}/runs (history).
func HandleAgentItem(ctrl AgentController, history RunHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseItemActionPath(r.URL.Path, "agents")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if !ctrl.Known(id) {
			writeDomainError(w, domain.ErrAgentNotFound)
			return
		}

		switch {
		case action == "run" && r.Method == http.MethodPost:
			run, err := ctrl.Trigger(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusAccepted, toAgentRunResponse(run))
		case action == "runs" && r.Method == http.MethodGet:
			limit, _ := parsePage(r)
			runs, err := history.History(r.Context(), id, limit)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]agentRunResponse, 0, len(runs))
			for _, run := range runs {
				resp = append(resp, toAgentRunResponse(run))
			}
			writeJSON(w, http.StatusOK, resp)
		case action == "run" || action == "runs":
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}
