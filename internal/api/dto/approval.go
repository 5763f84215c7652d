package dto

import (
	"time"

	"github.com/quotekit/quotekit/internal/domain/approval"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// CreateApprovalRequest opens a pending approval for a discount that
// exceeded a limit
type CreateApprovalRequest struct {
	ProposalID      string          `json:"proposal_id" validate:"required"`
	ApproverID      string          `json:"approver_id,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	Reason          string          `json:"reason,omitempty"`
}

func (r *CreateApprovalRequest) Validate() error {
	if r.ProposalID == "" {
		return ierr.NewError("proposal_id is required").
			WithHint("An approval request must reference a proposal").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReviewApprovalRequest resolves a pending request with an explicit action.
// Counter terms are only read when the action is counter.
type ReviewApprovalRequest struct {
	Action         types.ApprovalAction `json:"action" validate:"required,oneof=approve reject counter"`
	Note           string               `json:"note,omitempty"`
	CounterPercent *decimal.Decimal     `json:"counter_percent,omitempty"`
	CounterAmount  *decimal.Decimal     `json:"counter_amount,omitempty"`
}

func (r *ReviewApprovalRequest) Validate() error {
	if !r.Action.Validate() {
		return ierr.NewError("invalid review action").
			WithHint("Action must be approve, reject or counter").
			WithReportableDetails(map[string]any{
				"action": r.Action,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.Action == types.ApprovalActionCounter && r.CounterPercent == nil && r.CounterAmount == nil {
		return ierr.NewError("counter offer requires terms").
			WithHint("Provide a counter percent or amount").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ApprovalRequestResponse is the wire representation of an approval request
type ApprovalRequestResponse struct {
	ID              string               `json:"id"`
	ShortRef        string               `json:"short_ref"`
	ProposalID      string               `json:"proposal_id"`
	RequestedBy     string               `json:"requested_by"`
	ApproverID      string               `json:"approver_id,omitempty"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	DiscountAmount  decimal.Decimal      `json:"discount_amount"`
	OrderTotal      decimal.Decimal      `json:"order_total"`
	Reason          string               `json:"reason,omitempty"`
	ApprovalStatus  types.ApprovalStatus `json:"approval_status"`
	Escalated       bool                 `json:"escalated"`
	ReviewedBy      string               `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time           `json:"reviewed_at,omitempty"`
	ReviewNote      string               `json:"review_note,omitempty"`
	CounterPercent  *decimal.Decimal     `json:"counter_percent,omitempty"`
	CounterAmount   *decimal.Decimal     `json:"counter_amount,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// NewApprovalRequestResponse converts a domain request to its wire form
func NewApprovalRequestResponse(r *approval.Request) *ApprovalRequestResponse {
	if r == nil {
		return nil
	}
	return &ApprovalRequestResponse{
		ID:              r.ID,
		ShortRef:        r.ShortRef,
		ProposalID:      r.ProposalID,
		RequestedBy:     r.RequestedBy,
		ApproverID:      r.ApproverID,
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		OrderTotal:      r.OrderTotal,
		Reason:          r.Reason,
		ApprovalStatus:  r.ApprovalStatus,
		Escalated:       r.Escalated,
		ReviewedBy:      r.ReviewedBy,
		ReviewedAt:      r.ReviewedAt,
		ReviewNote:      r.ReviewNote,
		CounterPercent:  r.CounterPercent,
		CounterAmount:   r.CounterAmount,
		CreatedAt:       r.CreatedAt,
	}
}
