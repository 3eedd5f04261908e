package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/app"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

// CampaignService is the minimal interface needed by the campaign endpoints.
type CampaignService interface {
	CreateCampaign(ctx context.Context, in app.CreateCampaignInput) (domain.Campaign, error)
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	ListCampaigns(ctx context.Context, status *domain.CampaignStatus) ([]domain.Campaign, error)
	LaunchCampaign(ctx context.Context, id string) (domain.Campaign, error)
	CancelCampaign(ctx context.Context, id string) (domain.Campaign, error)
}

type campaignResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	BudgetCents int64      `json:"budget_cents"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Status:      string(c.Status),
		BudgetCents: c.BudgetCents,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type createCampaignRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	BudgetCents int64  `json:"budget_cents"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
}

// HandleCampaigns returns an HTTP handler for campaign creation and listing.
func HandleCampaigns(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var status *domain.CampaignStatus
			if v := r.URL.Query().Get("status"); v != "" {
				s := domain.CampaignStatus(v)
				status = &s
			}
			campaigns, err := svc.ListCampaigns(r.Context(), status)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]campaignResponse, 0, len(campaigns))
			for _, c := range campaigns {
				resp = append(resp, toCampaignResponse(c))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createCampaignRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			startsAt, ok := parseOptionalTime(w, req.StartsAt)
			if !ok {
				return
			}
			endsAt, ok := parseOptionalTime(w, req.EndsAt)
			if !ok {
				return
			}

			campaign, err := svc.CreateCampaign(r.Context(), app.CreateCampaignInput{
				Name:        req.Name,
				Type:        domain.CampaignType(req.Type),
				BudgetCents: req.BudgetCents,
				StartsAt:    startsAt,
				EndsAt:      endsAt,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toCampaignResponse(campaign))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleCampaignItem routes /api/campaigns/{id} and its launch/cancel actions.
func HandleCampaignItem(svc CampaignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := parseItemPath(r.URL.Path, "campaigns"); ok {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			campaign, err := svc.GetCampaign(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
			return
		}

		id, action, ok := parseItemActionPath(r.URL.Path, "campaigns")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var (
			campaign domain.Campaign
			err      error
		)
		switch action {
		case "launch":
			campaign, err = svc.LaunchCampaign(r.Context(), id)
		case "cancel":
			campaign, err = svc.CancelCampaign(r.Context(), id)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCampaignResponse(campaign))
	}
}

func parseOptionalTime(w http.ResponseWriter, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, "timestamps must be RFC 3339")
		return nil, false
	}
	return &parsed, true
}
