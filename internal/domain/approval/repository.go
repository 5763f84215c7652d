package approval

import (
	"context"
	"time"
)

// Repository defines the interface for approval settings and request data
// access
type Repository interface {
	// GetSettings returns nil with no error when the tenant has no approval
	// configuration; callers treat that as "approval never required"
	GetSettings(ctx context.Context, tenantID string) (*Settings, error)
	UpsertSettings(ctx context.Context, settings *Settings) error

	CreateRequest(ctx context.Context, request *Request) error
	GetRequest(ctx context.Context, id string) (*Request, error)
	ListPending(ctx context.Context, tenantID string) ([]*Request, error)
	// ListPendingOlderThan returns pending requests created at or before the
	// cutoff, for the external timeout sweep
	ListPendingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*Request, error)
	UpdateRequest(ctx context.Context, request *Request) error
}
