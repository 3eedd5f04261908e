package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/orchestrator"
)

type stubAgentController struct {
	agents  []orchestrator.AgentInfo
	run     domain.AgentRun
	err     error
	gotID   string
	trigger bool
}

func (s *stubAgentController) Agents() []orchestrator.AgentInfo {
	return s.agents
}

func (s *stubAgentController) Known(agentID string) bool {
	for _, a := range s.agents {
		if a.ID == agentID {
			return true
		}
	}
	return false
}

func (s *stubAgentController) Trigger(_ context.Context, agentID string) (domain.AgentRun, error) {
	s.gotID = agentID
	s.trigger = true
	return s.run, s.err
}

type stubRunHistory struct {
	runs   []domain.AgentRun
	latest []domain.AgentRun
	err    error
}

func (s *stubRunHistory) History(_ context.Context, _ string, _ int) ([]domain.AgentRun, error) {
	return s.runs, s.err
}

func (s *stubRunHistory) Latest(_ context.Context) ([]domain.AgentRun, error) {
	return s.latest, s.err
}

func registry() []orchestrator.AgentInfo {
	return []orchestrator.AgentInfo{
		{ID: "product-sync", Name: "Shopify product sync", Interval: 10 * time.Minute},
		{ID: "order-sync", Name: "Shopify order sync", Interval: 5 * time.Minute},
	}
}

func TestHandleListAgents(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := &stubAgentController{agents: registry()}
	history := &stubRunHistory{latest: []domain.AgentRun{
		{ID: "r-1", AgentID: "product-sync", Status: domain.AgentRunStatusSucceeded, StartedAt: now},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rec := httptest.NewRecorder()
	HandleListAgents(ctrl, history)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":"product-sync"`) || !strings.Contains(body, `"id":"order-sync"`) {
		t.Fatalf("expected both agents, got %s", body)
	}
	if !strings.Contains(body, `"last_run"`) {
		t.Fatalf("expected last_run for product-sync, got %s", body)
	}
}

func TestHandleAgentItem(t *testing.T) {
	t.Parallel()

	t.Run("manual trigger", func(t *testing.T) {
		ctrl := &stubAgentController{
			agents: registry(),
			run:    domain.AgentRun{ID: "r-1", AgentID: "product-sync", Status: domain.AgentRunStatusSucceeded},
		}

		req := httptest.NewRequest(http.MethodPost, "/api/agents/product-sync/run", nil)
		rec := httptest.NewRecorder()
		HandleAgentItem(ctrl, &stubRunHistory{})(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		if !ctrl.trigger || ctrl.gotID != "product-sync" {
			t.Fatalf("expected trigger for product-sync, got %+v", ctrl)
		}
	})

	t.Run("busy agent maps to 409", func(t *testing.T) {
		ctrl := &stubAgentController{agents: registry(), err: domain.ErrAgentBusy}

		req := httptest.NewRequest(http.MethodPost, "/api/agents/product-sync/run", nil)
		rec := httptest.NewRecorder()
		HandleAgentItem(ctrl, &stubRunHistory{})(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "agent_busy") {
			t.Fatalf("expected agent_busy code, got %s", rec.Body.String())
		}
	})

	t.Run("unknown agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/agents/nope/run", nil)
		rec := httptest.NewRecorder()
		HandleAgentItem(&stubAgentController{agents: registry()}, &stubRunHistory{})(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("run history", func(t *testing.T) {
		history := &stubRunHistory{runs: []domain.AgentRun{
			{ID: "r-1", AgentID: "order-sync", Status: domain.AgentRunStatusFailed, Error: "shopify responded 500"},
		}}

		req := httptest.NewRequest(http.MethodGet, "/api/agents/order-sync/runs", nil)
		rec := httptest.NewRecorder()
		HandleAgentItem(&stubAgentController{agents: registry()}, history)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "shopify responded 500") {
			t.Fatalf("expected failure message, got %s", rec.Body.String())
		}
	})

	t.Run("trigger requires POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/agents/order-sync/run", nil)
		rec := httptest.NewRecorder()
		HandleAgentItem(&stubAgentController{agents: registry()}, &stubRunHistory{})(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}
