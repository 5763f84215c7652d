package discountrule

import (
	"context"
)

// Repository defines the interface for auto discount rule data access
type Repository interface {
	Create(ctx context.Context, rule *AutoDiscountRule) error
	Get(ctx context.Context, id string) (*AutoDiscountRule, error)
	// ListActive returns published rules for a tenant ordered by descending
	// priority
	ListActive(ctx context.Context, tenantID string) ([]*AutoDiscountRule, error)
	List(ctx context.Context, tenantID string) ([]*AutoDiscountRule, error)
	Update(ctx context.Context, rule *AutoDiscountRule) error
	Delete(ctx context.Context, id string) error
}
