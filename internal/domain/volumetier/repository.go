package volumetier

import (
	"context"

	"github.com/quotekit/quotekit/internal/types"
)

// Repository defines the interface for volume tier set data access
type Repository interface {
	Create(ctx context.Context, set *TierSet) error
	Get(ctx context.Context, id string) (*TierSet, error)
	// GetByMeasurement returns the tier set for a measurement type, preferring
	// one scoped to serviceType over an unscoped one
	GetByMeasurement(ctx context.Context, tenantID string, measurementType types.MeasurementType, serviceType string) (*TierSet, error)
	List(ctx context.Context, tenantID string) ([]*TierSet, error)
	Update(ctx context.Context, set *TierSet) error
	Delete(ctx context.Context, id string) error
}
