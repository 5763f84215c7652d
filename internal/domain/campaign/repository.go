package campaign

import (
	"context"
)

// Repository defines the interface for seasonal campaign data access
type Repository interface {
	Create(ctx context.Context, campaign *SeasonalCampaign) error
	Get(ctx context.Context, id string) (*SeasonalCampaign, error)
	List(ctx context.Context, tenantID string) ([]*SeasonalCampaign, error)
	Update(ctx context.Context, campaign *SeasonalCampaign) error
	Delete(ctx context.Context, id string) error
}
