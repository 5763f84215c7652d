package inmemory

import (
	"context"
	"sync"

	"github.com/quotekit/quotekit/internal/domain/discountcode"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// DiscountCodeStore implements discountcode.Repository
type DiscountCodeStore struct {
	*Store[*discountcode.DiscountCode]

	mu          sync.Mutex
	redemptions []*discountcode.Redemption
}

// NewDiscountCodeStore creates a new in-memory discount code store
func NewDiscountCodeStore() *DiscountCodeStore {
	return &DiscountCodeStore{
		Store: NewStore[*discountcode.DiscountCode](),
	}
}

func copyDiscountCode(c *discountcode.DiscountCode) *discountcode.DiscountCode {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *DiscountCodeStore) Create(ctx context.Context, c *discountcode.DiscountCode) error {
	if c == nil {
		return ierr.NewError("code cannot be nil").
			WithHint("Code cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.Store.Create(ctx, c.ID, copyDiscountCode(c))
}

func (s *DiscountCodeStore) Get(ctx context.Context, id string) (*discountcode.DiscountCode, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("code not found").
			WithHint("Discount code not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDiscountCode(c), nil
}

func (s *DiscountCodeStore) GetByCode(ctx context.Context, tenantID string, code string) (*discountcode.DiscountCode, error) {
	matches := s.Store.List(ctx, func(_ context.Context, c *discountcode.DiscountCode) bool {
		return c.TenantID == tenantID && c.Code == code
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("code not found").
			WithHint("Discount code not found").
			WithReportableDetails(map[string]any{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDiscountCode(matches[0]), nil
}

func (s *DiscountCodeStore) List(ctx context.Context, tenantID string) ([]*discountcode.DiscountCode, error) {
	matches := s.Store.List(ctx, func(_ context.Context, c *discountcode.DiscountCode) bool {
		return c.TenantID == tenantID && c.Status != types.StatusDeleted
	})
	result := make([]*discountcode.DiscountCode, len(matches))
	for i, c := range matches {
		result[i] = copyDiscountCode(c)
	}
	return result, nil
}

func (s *DiscountCodeStore) Update(ctx context.Context, c *discountcode.DiscountCode) error {
	if c == nil {
		return ierr.NewError("code cannot be nil").
			WithHint("Code cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.Store.Update(ctx, c.ID, copyDiscountCode(c)); err != nil {
		return ierr.NewError("code not found").
			WithHint("Discount code not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *DiscountCodeStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return ierr.NewError("code not found").
			WithHint("Discount code not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *DiscountCodeStore) IncrementUsage(ctx context.Context, id string, discountGiven decimal.Decimal, maxUses *int) error {
	// The lock spans read-check-write so the cap can never be exceeded by
	// concurrent redemptions
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return ierr.NewError("code not found").
			WithHint("Discount code not found").
			Mark(ierr.ErrNotFound)
	}

	if maxUses != nil && c.TimesUsed >= *maxUses {
		return ierr.NewError("usage limit reached").
			WithHint("This code has reached its usage limit").
			WithReportableDetails(map[string]any{
				"code_id":    id,
				"times_used": c.TimesUsed,
				"max_uses":   *maxUses,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	updated := copyDiscountCode(c)
	updated.TimesUsed++
	updated.TotalDiscountGiven = updated.TotalDiscountGiven.Add(discountGiven)
	return s.Store.Update(ctx, id, updated)
}

func (s *DiscountCodeStore) CreateRedemption(ctx context.Context, redemption *discountcode.Redemption) error {
	if redemption == nil {
		return ierr.NewError("redemption cannot be nil").
			WithHint("Redemption cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *redemption
	s.redemptions = append(s.redemptions, &copied)
	return nil
}

func (s *DiscountCodeStore) CountRedemptionsByCustomer(ctx context.Context, codeID string, customerID string, customerEmail string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range s.redemptions {
		if r.CodeID != codeID {
			continue
		}
		if customerID != "" && r.CustomerID == customerID {
			count++
			continue
		}
		if customerEmail != "" && r.CustomerEmail == customerEmail {
			count++
		}
	}
	return count, nil
}

// Clear removes all codes and redemptions
func (s *DiscountCodeStore) Clear() {
	s.mu.Lock()
	s.redemptions = nil
	s.mu.Unlock()
	s.Store.Clear()
}
