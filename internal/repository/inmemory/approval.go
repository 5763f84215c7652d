package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/quotekit/quotekit/internal/domain/approval"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
)

// ApprovalStore implements approval.Repository
type ApprovalStore struct {
	mu       sync.Mutex
	settings map[string]*approval.Settings
	requests *Store[*approval.Request]
}

// NewApprovalStore creates a new in-memory approval store
func NewApprovalStore() *ApprovalStore {
	return &ApprovalStore{
		settings: make(map[string]*approval.Settings),
		requests: NewStore[*approval.Request](),
	}
}

func copySettings(s *approval.Settings) *approval.Settings {
	if s == nil {
		return nil
	}
	copied := *s
	if s.RoleLimits != nil {
		copied.RoleLimits = make(map[string]approval.RoleLimit, len(s.RoleLimits))
		for role, limit := range s.RoleLimits {
			copied.RoleLimits[role] = limit
		}
	}
	return &copied
}

func copyRequest(r *approval.Request) *approval.Request {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (s *ApprovalStore) GetSettings(ctx context.Context, tenantID string) (*approval.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// No configuration means approval is never required; that is a valid
	// state, not an error
	return copySettings(s.settings[tenantID]), nil
}

func (s *ApprovalStore) UpsertSettings(ctx context.Context, settings *approval.Settings) error {
	if settings == nil {
		return ierr.NewError("settings cannot be nil").
			WithHint("Settings cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.TenantID] = copySettings(settings)
	return nil
}

func (s *ApprovalStore) CreateRequest(ctx context.Context, request *approval.Request) error {
	if request == nil {
		return ierr.NewError("request cannot be nil").
			WithHint("Request cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.requests.Create(ctx, request.ID, copyRequest(request))
}

func (s *ApprovalStore) GetRequest(ctx context.Context, id string) (*approval.Request, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("approval request not found").
			WithHint("Approval request not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyRequest(request), nil
}

func (s *ApprovalStore) ListPending(ctx context.Context, tenantID string) ([]*approval.Request, error) {
	matches := s.requests.List(ctx, func(_ context.Context, r *approval.Request) bool {
		return r.TenantID == tenantID && r.ApprovalStatus == types.ApprovalStatusPending
	})
	result := make([]*approval.Request, len(matches))
	for i, r := range matches {
		result[i] = copyRequest(r)
	}
	return result, nil
}

func (s *ApprovalStore) ListPendingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*approval.Request, error) {
	matches := s.requests.List(ctx, func(_ context.Context, r *approval.Request) bool {
		return r.TenantID == tenantID &&
			r.ApprovalStatus == types.ApprovalStatusPending &&
			!r.CreatedAt.After(cutoff)
	})
	result := make([]*approval.Request, len(matches))
	for i, r := range matches {
		result[i] = copyRequest(r)
	}
	return result, nil
}

func (s *ApprovalStore) UpdateRequest(ctx context.Context, request *approval.Request) error {
	if request == nil {
		return ierr.NewError("request cannot be nil").
			WithHint("Request cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.requests.Update(ctx, request.ID, copyRequest(request)); err != nil {
		return ierr.NewError("approval request not found").
			WithHint("Approval request not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// Clear removes all settings and requests
func (s *ApprovalStore) Clear() {
	s.mu.Lock()
	s.settings = make(map[string]*approval.Settings)
	s.mu.Unlock()
	s.requests.Clear()
}
