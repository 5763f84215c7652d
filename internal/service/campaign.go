package service

import (
	"context"
	"time"

	"github.com/quotekit/quotekit/internal/cache"
	"github.com/quotekit/quotekit/internal/domain/campaign"
	"github.com/quotekit/quotekit/internal/types"
)

// ExpiringSoonWindow marks campaigns within this much of their expiry
const ExpiringSoonWindow = 48 * time.Hour

// ActiveCampaign is a running campaign with its countdown state
type ActiveCampaign struct {
	Campaign     *campaign.SeasonalCampaign `json:"campaign"`
	Countdown    campaign.Countdown         `json:"countdown"`
	ExpiringSoon bool                       `json:"expiring_soon"`
}

// CampaignService administers time-boxed marketing campaigns and reports
// which ones are live right now
type CampaignService interface {
	CreateCampaign(ctx context.Context, c *campaign.SeasonalCampaign) (*campaign.SeasonalCampaign, error)
	GetCampaign(ctx context.Context, id string) (*campaign.SeasonalCampaign, error)
	ListCampaigns(ctx context.Context, tenantID string) ([]*campaign.SeasonalCampaign, error)
	UpdateCampaign(ctx context.Context, c *campaign.SeasonalCampaign) (*campaign.SeasonalCampaign, error)
	DeleteCampaign(ctx context.Context, id string) error

	// GetActive returns campaigns whose window contains now, each with a
	// countdown and an expiring-soon flag
	GetActive(ctx context.Context, tenantID string) ([]*ActiveCampaign, error)
}

type campaignService struct {
	ServiceParams
}

// NewCampaignService creates a new campaign service
func NewCampaignService(params ServiceParams) CampaignService {
	return &campaignService{ServiceParams: params}
}

func (s *campaignService) CreateCampaign(ctx context.Context, c *campaign.SeasonalCampaign) (*campaign.SeasonalCampaign, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.ID == "" {
		c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CAMPAIGN)
	}

	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateCampaignCache(ctx, c.TenantID)

	s.Logger.Infow("created seasonal campaign",
		"campaign_id", c.ID,
		"name", c.Name,
		"starts_at", c.StartsAt,
		"expires_at", c.ExpiresAt,
		"tenant_id", c.TenantID)

	return c, nil
}

func (s *campaignService) GetCampaign(ctx context.Context, id string) (*campaign.SeasonalCampaign, error) {
	return s.CampaignRepo.Get(ctx, id)
}

func (s *campaignService) ListCampaigns(ctx context.Context, tenantID string) ([]*campaign.SeasonalCampaign, error) {
	return s.CampaignRepo.List(ctx, tenantID)
}

func (s *campaignService) UpdateCampaign(ctx context.Context, c *campaign.SeasonalCampaign) (*campaign.SeasonalCampaign, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateCampaignCache(ctx, c.TenantID)
	return c, nil
}

func (s *campaignService) DeleteCampaign(ctx context.Context, id string) error {
	c, err := s.CampaignRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCampaignCache(ctx, c.TenantID)
	return nil
}

func (s *campaignService) GetActive(ctx context.Context, tenantID string) ([]*ActiveCampaign, error) {
	campaigns, err := s.tenantCampaigns(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	active := make([]*ActiveCampaign, 0, len(campaigns))
	for _, c := range campaigns {
		if !c.IsRunning(now) {
			continue
		}
		active = append(active, &ActiveCampaign{
			Campaign:     c,
			Countdown:    c.CountdownUntil(now),
			ExpiringSoon: c.ExpiresAt.Sub(now) < ExpiringSoonWindow,
		})
	}

	return active, nil
}

func (s *campaignService) tenantCampaigns(ctx context.Context, tenantID string) ([]*campaign.SeasonalCampaign, error) {
	key := cache.GenerateKey(cache.PrefixCampaign, tenantID)
	if cached, found := s.Cache.Get(ctx, key); found {
		if campaigns, ok := cached.([]*campaign.SeasonalCampaign); ok {
			return campaigns, nil
		}
	}

	campaigns, err := s.CampaignRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, campaigns, cache.DefaultExpiration)
	return campaigns, nil
}

func (s *campaignService) invalidateCampaignCache(ctx context.Context, tenantID string) {
	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixCampaign, tenantID))
}
