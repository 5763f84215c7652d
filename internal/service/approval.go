package service

import (
	"context"
	"time"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/approval"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/notifier"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ApprovalService decides whether a discount needs human sign-off and drives
// the approval request state machine. The decision function never fails; the
// timeout transitions are driven by an external periodic sweep calling
// ProcessTimeouts.
type ApprovalService interface {
	ConfigureSettings(ctx context.Context, settings *approval.Settings) (*approval.Settings, error)
	GetSettings(ctx context.Context, tenantID string) (*approval.Settings, error)

	// CheckApprovalRequired evaluates the limits in order: role percent,
	// role amount, global percent, global amount, order-total trigger. The
	// first violation wins and its reason is returned verbatim. All limits
	// are inclusive. No settings means approval is never required.
	CheckApprovalRequired(ctx context.Context, tenantID string, percent decimal.Decimal, amount decimal.Decimal, orderTotal decimal.Decimal, role string) (approval.Decision, error)

	CreateRequest(ctx context.Context, tenantID string, req dto.CreateApprovalRequest) (*dto.ApprovalRequestResponse, error)
	GetRequest(ctx context.Context, id string) (*dto.ApprovalRequestResponse, error)
	ListPending(ctx context.Context, tenantID string) ([]*dto.ApprovalRequestResponse, error)
	ReviewRequest(ctx context.Context, id string, req dto.ReviewApprovalRequest) (*dto.ApprovalRequestResponse, error)
	CancelRequest(ctx context.Context, id string) (*dto.ApprovalRequestResponse, error)

	// ProcessTimeouts expires and escalates pending requests past their
	// windows. Returns how many were expired and escalated.
	ProcessTimeouts(ctx context.Context, tenantID string) (int, int, error)
}

type approvalService struct {
	ServiceParams
}

// NewApprovalService creates a new approval service
func NewApprovalService(params ServiceParams) ApprovalService {
	return &approvalService{ServiceParams: params}
}

func (s *approvalService) ConfigureSettings(ctx context.Context, settings *approval.Settings) (*approval.Settings, error) {
	if settings.ID == "" {
		settings.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPROVAL_REQUEST)
	}
	if err := s.ApprovalRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *approvalService) GetSettings(ctx context.Context, tenantID string) (*approval.Settings, error) {
	return s.ApprovalRepo.GetSettings(ctx, tenantID)
}

func (s *approvalService) CheckApprovalRequired(ctx context.Context, tenantID string, percent decimal.Decimal, amount decimal.Decimal, orderTotal decimal.Decimal, role string) (approval.Decision, error) {
	settings, err := s.ApprovalRepo.GetSettings(ctx, tenantID)
	if err != nil && !ierr.IsNotFound(err) {
		return approval.Decision{}, err
	}

	return CheckApproval(settings, percent, amount, orderTotal, role), nil
}

// CheckApproval is the pure decision function. It always produces a
// determination and defaults to "not required" when settings are nil.
func CheckApproval(settings *approval.Settings, percent decimal.Decimal, amount decimal.Decimal, orderTotal decimal.Decimal, role string) approval.Decision {
	if settings == nil {
		return approval.Decision{Required: false}
	}

	if role != "" {
		if limit, ok := settings.RoleLimits[role]; ok {
			if limit.MaxPercent != nil && percent.GreaterThan(*limit.MaxPercent) {
				return approval.Decision{
					Required: true,
					Reason:   "Discount percent exceeds your role limit",
				}
			}
			if limit.MaxAmount != nil && amount.GreaterThan(*limit.MaxAmount) {
				return approval.Decision{
					Required: true,
					Reason:   "Discount amount exceeds your role limit",
				}
			}
		}
	}

	if settings.MaxPercentWithoutApproval != nil && percent.GreaterThan(*settings.MaxPercentWithoutApproval) {
		return approval.Decision{
			Required: true,
			Reason:   "Discount percent exceeds the approval threshold",
		}
	}

	if settings.MaxAmountWithoutApproval != nil && amount.GreaterThan(*settings.MaxAmountWithoutApproval) {
		return approval.Decision{
			Required: true,
			Reason:   "Discount amount exceeds the approval threshold",
		}
	}

	if settings.OrderTotalThreshold != nil && orderTotal.GreaterThanOrEqual(*settings.OrderTotalThreshold) {
		return approval.Decision{
			Required: true,
			Reason:   "Order total requires discount approval",
		}
	}

	return approval.Decision{Required: false}
}

func (s *approvalService) CreateRequest(ctx context.Context, tenantID string, req dto.CreateApprovalRequest) (*dto.ApprovalRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	request := &approval.Request{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPROVAL_REQUEST),
		ShortRef:        types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_APPROVAL),
		ProposalID:      req.ProposalID,
		RequestedBy:     types.GetUserID(ctx),
		ApproverID:      req.ApproverID,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		OrderTotal:      req.OrderTotal,
		Reason:          req.Reason,
		ApprovalStatus:  types.ApprovalStatusPending,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	request.TenantID = tenantID
	// Timeout sweeps measure age against the injected clock, so the request
	// must be stamped by the same source
	request.CreatedAt = s.Clock.Now()
	request.UpdatedAt = request.CreatedAt

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if err := s.ApprovalRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.EventApprovalRequested, request)

	s.Logger.Infow("created approval request",
		"request_id", request.ID,
		"short_ref", request.ShortRef,
		"proposal_id", request.ProposalID,
		"tenant_id", tenantID)

	return dto.NewApprovalRequestResponse(request), nil
}

func (s *approvalService) GetRequest(ctx context.Context, id string) (*dto.ApprovalRequestResponse, error) {
	request, err := s.ApprovalRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewApprovalRequestResponse(request), nil
}

func (s *approvalService) ListPending(ctx context.Context, tenantID string) ([]*dto.ApprovalRequestResponse, error) {
	requests, err := s.ApprovalRepo.ListPending(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return lo.Map(requests, func(r *approval.Request, _ int) *dto.ApprovalRequestResponse {
		return dto.NewApprovalRequestResponse(r)
	}), nil
}

func (s *approvalService) ReviewRequest(ctx context.Context, id string, req dto.ReviewApprovalRequest) (*dto.ApprovalRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	request, err := s.ApprovalRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.CanTransition() {
		return nil, ierr.NewError("request already resolved").
			WithHintf("This request is %s and cannot be reviewed", request.ApprovalStatus).
			WithReportableDetails(map[string]any{
				"request_id": request.ID,
				"status":     request.ApprovalStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	now := s.Clock.Now()
	switch req.Action {
	case types.ApprovalActionApprove:
		request.ApprovalStatus = types.ApprovalStatusApproved
	case types.ApprovalActionReject:
		request.ApprovalStatus = types.ApprovalStatusRejected
	case types.ApprovalActionCounter:
		// A counter resolves to approved with the reviewer's terms recorded
		request.ApprovalStatus = types.ApprovalStatusApproved
		request.CounterPercent = req.CounterPercent
		request.CounterAmount = req.CounterAmount
	}

	request.ReviewedBy = types.GetUserID(ctx)
	request.ReviewedAt = lo.ToPtr(now)
	request.ReviewNote = req.Note
	request.UpdatedAt = now

	if err := s.ApprovalRepo.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.EventApprovalReviewed, request)

	s.Logger.Infow("reviewed approval request",
		"request_id", request.ID,
		"action", req.Action,
		"status", request.ApprovalStatus)

	return dto.NewApprovalRequestResponse(request), nil
}

func (s *approvalService) CancelRequest(ctx context.Context, id string) (*dto.ApprovalRequestResponse, error) {
	request, err := s.ApprovalRepo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.CanTransition() {
		return nil, ierr.NewError("request already resolved").
			WithHintf("This request is %s and cannot be cancelled", request.ApprovalStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	request.ApprovalStatus = types.ApprovalStatusCancelled
	request.UpdatedAt = s.Clock.Now()

	if err := s.ApprovalRepo.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}

	return dto.NewApprovalRequestResponse(request), nil
}

func (s *approvalService) ProcessTimeouts(ctx context.Context, tenantID string) (int, int, error) {
	settings, err := s.ApprovalRepo.GetSettings(ctx, tenantID)
	if err != nil && !ierr.IsNotFound(err) {
		return 0, 0, err
	}
	if settings == nil || (settings.AutoRejectAfterHours <= 0 && settings.EscalationAfterHours <= 0) {
		return 0, 0, nil
	}

	pending, err := s.ApprovalRepo.ListPending(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}

	now := s.Clock.Now()
	expired, escalated := 0, 0

	for _, request := range pending {
		age := now.Sub(request.CreatedAt)

		if settings.AutoRejectAfterHours > 0 && age >= time.Duration(settings.AutoRejectAfterHours)*time.Hour {
			request.ApprovalStatus = types.ApprovalStatusExpired
			request.UpdatedAt = now
			if err := s.ApprovalRepo.UpdateRequest(ctx, request); err != nil {
				return expired, escalated, err
			}
			s.notify(ctx, notifier.EventApprovalExpired, request)
			expired++
			continue
		}

		if settings.EscalationAfterHours > 0 && !request.Escalated && age >= time.Duration(settings.EscalationAfterHours)*time.Hour {
			request.Escalated = true
			request.EscalatedAt = lo.ToPtr(now)
			if settings.EscalationApprover != "" {
				request.ApproverID = settings.EscalationApprover
			}
			request.UpdatedAt = now
			if err := s.ApprovalRepo.UpdateRequest(ctx, request); err != nil {
				return expired, escalated, err
			}
			s.notify(ctx, notifier.EventApprovalEscalated, request)
			escalated++
		}
	}

	return expired, escalated, nil
}

// notify dispatches fire-and-forget; a failure is logged and swallowed so it
// can never fail the calling operation
func (s *approvalService) notify(ctx context.Context, eventType notifier.EventType, request *approval.Request) {
	err := s.Notifier.Notify(ctx, notifier.Event{
		Type:     eventType,
		TenantID: request.TenantID,
		Payload: map[string]any{
			"request_id":  request.ID,
			"short_ref":   request.ShortRef,
			"proposal_id": request.ProposalID,
			"status":      request.ApprovalStatus,
		},
	})
	if err != nil {
		s.Logger.Warnw("notification dispatch failed",
			"event_type", eventType,
			"request_id", request.ID,
			"error", err)
	}
}
