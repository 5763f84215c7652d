package discountcode

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for discount code data access
type Repository interface {
	Create(ctx context.Context, code *DiscountCode) error
	Get(ctx context.Context, id string) (*DiscountCode, error)
	// GetByCode looks up a code by its normalized value within a tenant
	GetByCode(ctx context.Context, tenantID string, code string) (*DiscountCode, error)
	List(ctx context.Context, tenantID string) ([]*DiscountCode, error)
	Update(ctx context.Context, code *DiscountCode) error
	Delete(ctx context.Context, id string) error

	// IncrementUsage atomically increments times_used and total_discount_given.
	// When maxUses is non-nil the increment is conditional: implementations
	// must fail with ErrInvalidOperation instead of exceeding the cap under
	// concurrent redemptions.
	IncrementUsage(ctx context.Context, id string, discountGiven decimal.Decimal, maxUses *int) error

	// CreateRedemption appends an immutable redemption record
	CreateRedemption(ctx context.Context, redemption *Redemption) error
	// CountRedemptionsByCustomer counts committed applications of a code by
	// one customer, matched by customer id or email
	CountRedemptionsByCustomer(ctx context.Context, codeID string, customerID string, customerEmail string) (int, error)
}
