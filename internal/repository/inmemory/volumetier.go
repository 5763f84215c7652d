package inmemory

import (
	"context"

	"github.com/quotekit/quotekit/internal/domain/volumetier"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
)

// VolumeTierStore implements volumetier.Repository
type VolumeTierStore struct {
	*Store[*volumetier.TierSet]
}

// NewVolumeTierStore creates a new in-memory volume tier store
func NewVolumeTierStore() *VolumeTierStore {
	return &VolumeTierStore{
		Store: NewStore[*volumetier.TierSet](),
	}
}

func copyTierSet(t *volumetier.TierSet) *volumetier.TierSet {
	if t == nil {
		return nil
	}
	copied := *t
	copied.Tiers = append([]volumetier.TierLevel(nil), t.Tiers...)
	return &copied
}

func (s *VolumeTierStore) Create(ctx context.Context, set *volumetier.TierSet) error {
	if set == nil {
		return ierr.NewError("tier set cannot be nil").
			WithHint("Tier set cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.Store.Create(ctx, set.ID, copyTierSet(set))
}

func (s *VolumeTierStore) Get(ctx context.Context, id string) (*volumetier.TierSet, error) {
	set, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("tier set not found").
			WithHint("Volume tier set not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyTierSet(set), nil
}

func (s *VolumeTierStore) GetByMeasurement(ctx context.Context, tenantID string, measurementType types.MeasurementType, serviceType string) (*volumetier.TierSet, error) {
	matches := s.Store.List(ctx, func(_ context.Context, t *volumetier.TierSet) bool {
		return t.TenantID == tenantID &&
			t.MeasurementType == measurementType &&
			t.Status == types.StatusPublished
	})

	// A set scoped to the service type wins over an unscoped one
	var unscoped *volumetier.TierSet
	for _, set := range matches {
		if set.ServiceType != nil {
			if serviceType != "" && *set.ServiceType == serviceType {
				return copyTierSet(set), nil
			}
			continue
		}
		if unscoped == nil {
			unscoped = set
		}
	}
	if unscoped != nil {
		return copyTierSet(unscoped), nil
	}

	return nil, ierr.NewError("tier set not found").
		WithHint("No volume tier set is configured for this measurement").
		WithReportableDetails(map[string]any{
			"measurement_type": measurementType,
			"service_type":     serviceType,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *VolumeTierStore) List(ctx context.Context, tenantID string) ([]*volumetier.TierSet, error) {
	matches := s.Store.List(ctx, func(_ context.Context, t *volumetier.TierSet) bool {
		return t.TenantID == tenantID && t.Status != types.StatusDeleted
	})
	result := make([]*volumetier.TierSet, len(matches))
	for i, set := range matches {
		result[i] = copyTierSet(set)
	}
	return result, nil
}

func (s *VolumeTierStore) Update(ctx context.Context, set *volumetier.TierSet) error {
	if set == nil {
		return ierr.NewError("tier set cannot be nil").
			WithHint("Tier set cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.Store.Update(ctx, set.ID, copyTierSet(set)); err != nil {
		return ierr.NewError("tier set not found").
			WithHint("Volume tier set not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *VolumeTierStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return ierr.NewError("tier set not found").
			WithHint("Volume tier set not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
