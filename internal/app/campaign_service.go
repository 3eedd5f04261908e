package app

import (
	"context"
	"time"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/clock"
	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type CampaignRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCampaign(ctx context.Context, campaign domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	GetCampaignForUpdate(ctx context.Context, id string) (domain.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus, updatedAt time.Time) error
	ListCampaigns(ctx context.Context, status *domain.CampaignStatus) ([]domain.Campaign, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Campaign, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}

type CampaignService struct {
	repo  CampaignRepository
	clock clock.Clock
}

func NewCampaignService(repo CampaignRepository, clk clock.Clock) *CampaignService {
	return &CampaignService{
		repo:  repo,
		clock: clk,
	}
}

type CreateCampaignInput struct {
	Name        string
	Type        domain.CampaignType
	BudgetCents int64
	StartsAt    *time.Time
	EndsAt      *time.Time
}

func (s *CampaignService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (domain.Campaign, error) {
	if in.Name == "" {
		return domain.Campaign{}, domain.ErrCampaignNameRequired
	}
	if !domain.ValidCampaignType(in.Type) {
		return domain.Campaign{}, domain.ErrInvalidCampaignType
	}
	if in.BudgetCents <= 0 {
		return domain.Campaign{}, domain.ErrInvalidBudget
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		return domain.Campaign{}, domain.ErrInvalidSchedule
	}

	now := s.clock.Now()
	status := domain.CampaignStatusDraft
	if in.StartsAt != nil {
		status = domain.CampaignStatusScheduled
	}

	campaign := domain.Campaign{
		ID:          newID(),
		Name:        in.Name,
		Type:        in.Type,
		Status:      status,
		BudgetCents: in.BudgetCents,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	if id == "" {
		return domain.Campaign{}, domain.ErrInvalidID
	}
	return s.repo.GetCampaign(ctx, id)
}

func (s *CampaignService) ListCampaigns(ctx context.Context, status *domain.CampaignStatus) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, status)
}

// LaunchCampaign activates a draft or scheduled campaign immediately.
func (s *CampaignService) LaunchCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	return s.transition(ctx, id, func(c domain.Campaign) (domain.CampaignStatus, error) {
		if !c.Launchable() {
			return "", domain.ErrCampaignNotLaunchable
		}
		return domain.CampaignStatusActive, nil
	})
}

// CancelCampaign cancels a campaign that has not yet finished.
func (s *CampaignService) CancelCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	return s.transition(ctx, id, func(c domain.Campaign) (domain.CampaignStatus, error) {
		if !c.Cancellable() {
			return "", domain.ErrCampaignNotCancellable
		}
		return domain.CampaignStatusCancelled, nil
	})
}

// CompleteCampaign marks an active campaign as finished.
func (s *CampaignService) CompleteCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	return s.transition(ctx, id, func(c domain.Campaign) (domain.CampaignStatus, error) {
		if c.Status != domain.CampaignStatusActive {
			return "", domain.ErrCampaignNotActive
		}
		return domain.CampaignStatusCompleted, nil
	})
}

func (s *CampaignService) transition(ctx context.Context, id string, next func(domain.Campaign) (domain.CampaignStatus, error)) (domain.Campaign, error) {
	if id == "" {
		return domain.Campaign{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Campaign

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		campaign, err := s.repo.GetCampaignForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		status, err := next(campaign)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateCampaignStatus(txCtx, id, status, now); err != nil {
			return err
		}
		campaign.Status = status
		campaign.UpdatedAt = now
		result = campaign
		return nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return result, nil
}

// ActivateDue flips every scheduled campaign whose start has passed to
// active. Used by the campaign-tick agent.
func (s *CampaignService) ActivateDue(ctx context.Context) (int, error) {
	return s.sweep(ctx, s.repo.ListDueScheduled, domain.CampaignStatusActive)
}

// CompleteExpired flips every active campaign whose end has passed to
// completed. Used by the campaign-tick agent.
func (s *CampaignService) CompleteExpired(ctx context.Context) (int, error) {
	return s.sweep(ctx, s.repo.ListExpiredActive, domain.CampaignStatusCompleted)
}

func (s *CampaignService) sweep(ctx context.Context, list func(context.Context, time.Time) ([]domain.Campaign, error), to domain.CampaignStatus) (int, error) {
	now := s.clock.Now()
	var flipped int

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		campaigns, err := list(txCtx, now)
		if err != nil {
			return err
		}
		for _, c := range campaigns {
			if err := s.repo.UpdateCampaignStatus(txCtx, c.ID, to, now); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return flipped, nil
}
