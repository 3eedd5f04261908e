package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

type CampaignType string

const (
	CampaignTypeEmail    CampaignType = "email"
	CampaignTypeSocial   CampaignType = "social"
	CampaignTypeDiscount CampaignType = "discount"
)

// Campaign is a marketing campaign managed by the orchestrator.
type Campaign struct {
	ID          string
	Name        string
	Type        CampaignType
	Status      CampaignStatus
	BudgetCents int64
	StartsAt    *time.Time
	EndsAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Launchable reports whether the campaign may transition to active.
func (c Campaign) Launchable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

// Cancellable reports whether the campaign may transition to cancelled.
func (c Campaign) Cancellable() bool {
	switch c.Status {
	case CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusActive:
		return true
	}
	return false
}

// ValidCampaignType reports whether t is one of the supported campaign types.
func ValidCampaignType(t CampaignType) bool {
	switch t {
	case CampaignTypeEmail, CampaignTypeSocial, CampaignTypeDiscount:
		return true
	}
	return false
}
