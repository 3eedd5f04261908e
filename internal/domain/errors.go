package domain

import "errors"

var (
	ErrInvalidID              = errors.New("invalid id")
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderConflict          = errors.New("order import conflict")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignNameRequired   = errors.New("campaign name required")
	ErrInvalidCampaignType    = errors.New("invalid campaign type")
	ErrInvalidBudget          = errors.New("invalid budget")
	ErrInvalidSchedule        = errors.New("invalid schedule")
	ErrCampaignNotLaunchable  = errors.New("campaign not launchable")
	ErrCampaignNotCancellable = errors.New("campaign not cancellable")
	ErrCampaignNotActive      = errors.New("campaign not active")
	ErrAgentNotFound          = errors.New("agent not found")
	ErrAgentBusy              = errors.New("agent run already in progress")
	ErrShopifyUnconfigured    = errors.New("shopify integration not configured")
)
