package http

import (
	"encoding/json"
	"net/http"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

const (
	codeMethodNotAllowed       = "method_not_allowed"
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidID              = "invalid_id"
	codeInvalidSchedule        = "invalid_schedule"
	codeCampaignNameRequired   = "campaign_name_required"
	codeInvalidCampaignType    = "invalid_campaign_type"
	codeInvalidBudget          = "invalid_budget"
	codeCampaignNotFound       = "campaign_not_found"
	codeCampaignNotLaunchable  = "campaign_not_launchable"
	codeCampaignNotCancellable = "campaign_not_cancellable"
	codeCampaignNotActive      = "campaign_not_active"
	codeProductNotFound        = "product_not_found"
	codeOrderConflict          = "order_conflict"
	codeAgentNotFound          = "agent_not_found"
	codeAgentBusy              = "agent_busy"
	codeShopifyUnconfigured    = "shopify_unconfigured"
	codeUnauthorized           = "unauthorized"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps domain sentinel errors onto the HTTP taxonomy.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrCampaignNameRequired:
		writeError(w, http.StatusBadRequest, codeCampaignNameRequired, err.Error())
	case domain.ErrInvalidCampaignType:
		writeError(w, http.StatusBadRequest, codeInvalidCampaignType, err.Error())
	case domain.ErrInvalidBudget:
		writeError(w, http.StatusBadRequest, codeInvalidBudget, err.Error())
	case domain.ErrInvalidSchedule:
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, err.Error())
	case domain.ErrProductNotFound:
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case domain.ErrCampaignNotFound:
		writeError(w, http.StatusNotFound, codeCampaignNotFound, err.Error())
	case domain.ErrAgentNotFound:
		writeError(w, http.StatusNotFound, codeAgentNotFound, err.Error())
	case domain.ErrCampaignNotLaunchable:
		writeError(w, http.StatusConflict, codeCampaignNotLaunchable, err.Error())
	case domain.ErrCampaignNotCancellable:
		writeError(w, http.StatusConflict, codeCampaignNotCancellable, err.Error())
	case domain.ErrCampaignNotActive:
		writeError(w, http.StatusConflict, codeCampaignNotActive, err.Error())
	case domain.ErrOrderConflict:
		writeError(w, http.StatusConflict, codeOrderConflict, err.Error())
	case domain.ErrAgentBusy:
		writeError(w, http.StatusConflict, codeAgentBusy, err.Error())
	case domain.ErrShopifyUnconfigured:
		writeError(w, http.StatusServiceUnavailable, codeShopifyUnconfigured, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
