package inmemory

import (
	"context"

	"github.com/quotekit/quotekit/internal/domain/campaign"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
)

// CampaignStore implements campaign.Repository
type CampaignStore struct {
	*Store[*campaign.SeasonalCampaign]
}

// NewCampaignStore creates a new in-memory campaign store
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{
		Store: NewStore[*campaign.SeasonalCampaign](),
	}
}

func copyCampaign(c *campaign.SeasonalCampaign) *campaign.SeasonalCampaign {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *CampaignStore) Create(ctx context.Context, c *campaign.SeasonalCampaign) error {
	if c == nil {
		return ierr.NewError("campaign cannot be nil").
			WithHint("Campaign cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.Store.Create(ctx, c.ID, copyCampaign(c))
}

func (s *CampaignStore) Get(ctx context.Context, id string) (*campaign.SeasonalCampaign, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("campaign not found").
			WithHint("Seasonal campaign not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCampaign(c), nil
}

func (s *CampaignStore) List(ctx context.Context, tenantID string) ([]*campaign.SeasonalCampaign, error) {
	matches := s.Store.List(ctx, func(_ context.Context, c *campaign.SeasonalCampaign) bool {
		return c.TenantID == tenantID && c.Status != types.StatusDeleted
	})
	result := make([]*campaign.SeasonalCampaign, len(matches))
	for i, c := range matches {
		result[i] = copyCampaign(c)
	}
	return result, nil
}

func (s *CampaignStore) Update(ctx context.Context, c *campaign.SeasonalCampaign) error {
	if c == nil {
		return ierr.NewError("campaign cannot be nil").
			WithHint("Campaign cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.Store.Update(ctx, c.ID, copyCampaign(c)); err != nil {
		return ierr.NewError("campaign not found").
			WithHint("Seasonal campaign not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *CampaignStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return ierr.NewError("campaign not found").
			WithHint("Seasonal campaign not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
