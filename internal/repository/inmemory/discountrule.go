package inmemory

import (
	"context"
	"sort"

	"github.com/quotekit/quotekit/internal/domain/discountrule"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
)

// DiscountRuleStore implements discountrule.Repository
type DiscountRuleStore struct {
	*Store[*discountrule.AutoDiscountRule]
}

// NewDiscountRuleStore creates a new in-memory discount rule store
func NewDiscountRuleStore() *DiscountRuleStore {
	return &DiscountRuleStore{
		Store: NewStore[*discountrule.AutoDiscountRule](),
	}
}

func copyRule(r *discountrule.AutoDiscountRule) *discountrule.AutoDiscountRule {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (s *DiscountRuleStore) Create(ctx context.Context, r *discountrule.AutoDiscountRule) error {
	if r == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.Store.Create(ctx, r.ID, copyRule(r))
}

func (s *DiscountRuleStore) Get(ctx context.Context, id string) (*discountrule.AutoDiscountRule, error) {
	r, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("rule not found").
			WithHint("Discount rule not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyRule(r), nil
}

func (s *DiscountRuleStore) ListActive(ctx context.Context, tenantID string) ([]*discountrule.AutoDiscountRule, error) {
	matches := s.Store.List(ctx, func(_ context.Context, r *discountrule.AutoDiscountRule) bool {
		return r.TenantID == tenantID && r.Status == types.StatusPublished
	})

	result := make([]*discountrule.AutoDiscountRule, len(matches))
	for i, r := range matches {
		result[i] = copyRule(r)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority > result[j].Priority
	})
	return result, nil
}

func (s *DiscountRuleStore) List(ctx context.Context, tenantID string) ([]*discountrule.AutoDiscountRule, error) {
	matches := s.Store.List(ctx, func(_ context.Context, r *discountrule.AutoDiscountRule) bool {
		return r.TenantID == tenantID && r.Status != types.StatusDeleted
	})
	result := make([]*discountrule.AutoDiscountRule, len(matches))
	for i, r := range matches {
		result[i] = copyRule(r)
	}
	return result, nil
}

func (s *DiscountRuleStore) Update(ctx context.Context, r *discountrule.AutoDiscountRule) error {
	if r == nil {
		return ierr.NewError("rule cannot be nil").
			WithHint("Rule cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.Store.Update(ctx, r.ID, copyRule(r)); err != nil {
		return ierr.NewError("rule not found").
			WithHint("Discount rule not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *DiscountRuleStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return ierr.NewError("rule not found").
			WithHint("Discount rule not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
