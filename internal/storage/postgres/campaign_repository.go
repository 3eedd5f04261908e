package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Royal-Equips-Org/royal-equips-orchestrator-sub002/internal/domain"
)

type CampaignRepository struct {
	querier
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{querier{pool: pool}}
}

func (r *CampaignRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const campaignColumns = `id, name, type, status, budget_cents, starts_at, ends_at, created_at, updated_at`

func (r *CampaignRepository) CreateCampaign(ctx context.Context, c domain.Campaign) error {
	const stmt = `
INSERT INTO campaigns (id, name, type, status, budget_cents, starts_at, ends_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		c.ID, c.Name, c.Type, c.Status, c.BudgetCents, c.StartsAt, c.EndsAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return r.getCampaign(ctx, query, id)
}

func (r *CampaignRepository) GetCampaignForUpdate(ctx context.Context, id string) (domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 FOR UPDATE`
	return r.getCampaign(ctx, query, id)
}

func (r *CampaignRepository) getCampaign(ctx context.Context, query, id string) (domain.Campaign, error) {
	var c domain.Campaign
	err := r.queryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Type, &c.Status, &c.BudgetCents,
		&c.StartsAt, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Campaign{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Campaign{}, domain.ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus, updatedAt time.Time) error {
	const stmt = `UPDATE campaigns SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status, updatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, status *domain.CampaignStatus) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC, id`
	args := []any{}
	if status != nil {
		query = `SELECT ` + campaignColumns + ` FROM campaigns WHERE status = $1 ORDER BY created_at DESC, id`
		args = append(args, *status)
	}
	return r.listCampaigns(ctx, query, args...)
}

func (r *CampaignRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE status = 'scheduled' AND starts_at <= $1 FOR UPDATE`
	return r.listCampaigns(ctx, query, now)
}

func (r *CampaignRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE status = 'active' AND ends_at IS NOT NULL AND ends_at <= $1 FOR UPDATE`
	return r.listCampaigns(ctx, query, now)
}

func (r *CampaignRepository) listCampaigns(ctx context.Context, query string, args ...any) ([]domain.Campaign, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Type, &c.Status, &c.BudgetCents,
			&c.StartsAt, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}
