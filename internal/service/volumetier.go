package service

import (
	"context"

	"github.com/quotekit/quotekit/internal/domain/volumetier"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// TierResult is the resolved bracket for a measured value plus what the next
// bracket would offer, for upsell messaging.
type TierResult struct {
	SetID           string
	SetName         string
	MeasurementType types.MeasurementType
	Tier            volumetier.TierLevel
	DiscountPercent decimal.Decimal
	// DiscountAmount is value × percent for money-measured sets; for
	// quantity-measured sets the caller applies the percent to its own
	// subtotal and this stays zero
	DiscountAmount decimal.Decimal
	Stackable      bool

	NextTier            *volumetier.TierLevel
	AmountToNext        decimal.Decimal
	NextDiscountPercent decimal.Decimal
}

// VolumeTierService administers bracketed volume discounts and resolves a
// measured value to its bracket
type VolumeTierService interface {
	CreateTierSet(ctx context.Context, set *volumetier.TierSet) (*volumetier.TierSet, error)
	GetTierSet(ctx context.Context, id string) (*volumetier.TierSet, error)
	ListTierSets(ctx context.Context, tenantID string) ([]*volumetier.TierSet, error)
	UpdateTierSet(ctx context.Context, set *volumetier.TierSet) (*volumetier.TierSet, error)
	DeleteTierSet(ctx context.Context, id string) error

	// Calculate resolves value against the tier set configured for the
	// measurement type. A nil result means no tier set matched or the value
	// falls below the first bracket.
	Calculate(ctx context.Context, tenantID string, measurementType types.MeasurementType, value decimal.Decimal, serviceType string) (*TierResult, error)
}

type volumeTierService struct {
	ServiceParams
}

// NewVolumeTierService creates a new volume tier service
func NewVolumeTierService(params ServiceParams) VolumeTierService {
	return &volumeTierService{ServiceParams: params}
}

func (s *volumeTierService) CreateTierSet(ctx context.Context, set *volumetier.TierSet) (*volumetier.TierSet, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	if set.ID == "" {
		set.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_VOLUME_TIER_SET)
	}

	if err := s.TierSetRepo.Create(ctx, set); err != nil {
		return nil, err
	}

	s.Logger.Infow("created volume tier set",
		"tier_set_id", set.ID,
		"measurement_type", set.MeasurementType,
		"brackets", len(set.Tiers),
		"tenant_id", set.TenantID)

	return set, nil
}

func (s *volumeTierService) GetTierSet(ctx context.Context, id string) (*volumetier.TierSet, error) {
	return s.TierSetRepo.Get(ctx, id)
}

func (s *volumeTierService) ListTierSets(ctx context.Context, tenantID string) ([]*volumetier.TierSet, error) {
	return s.TierSetRepo.List(ctx, tenantID)
}

func (s *volumeTierService) UpdateTierSet(ctx context.Context, set *volumetier.TierSet) (*volumetier.TierSet, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if err := s.TierSetRepo.Update(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *volumeTierService) DeleteTierSet(ctx context.Context, id string) error {
	return s.TierSetRepo.Delete(ctx, id)
}

func (s *volumeTierService) Calculate(ctx context.Context, tenantID string, measurementType types.MeasurementType, value decimal.Decimal, serviceType string) (*TierResult, error) {
	set, err := s.TierSetRepo.GetByMeasurement(ctx, tenantID, measurementType, serviceType)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	tier, idx, found := set.Resolve(value)
	if !found {
		return nil, nil
	}

	result := &TierResult{
		SetID:           set.ID,
		SetName:         set.Name,
		MeasurementType: set.MeasurementType,
		Tier:            tier,
		DiscountPercent: tier.DiscountPercent,
		Stackable:       set.Stackable,
	}

	if set.MeasurementType == types.MeasurementTypeAmount {
		result.DiscountAmount = types.DiscountAmount(types.DiscountTypePercent, tier.DiscountPercent, value, nil)
	}

	if idx+1 < len(set.Tiers) {
		next := set.Tiers[idx+1]
		result.NextTier = &next
		result.AmountToNext = next.Min.Sub(value)
		result.NextDiscountPercent = next.DiscountPercent
	}

	return result, nil
}
