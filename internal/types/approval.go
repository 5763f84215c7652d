package types

// ApprovalStatus represents the state of an approval request.
// pending -> approved | rejected via a review action,
// pending -> expired via the timeout sweep,
// pending -> cancelled by the requester.
// Escalation is a flag on a still-pending request, not a status.
// All transitions are one-way; no state is re-enterable.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
	ApprovalStatusExpired   ApprovalStatus = "expired"
	ApprovalStatusCancelled ApprovalStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed
func (s ApprovalStatus) IsTerminal() bool {
	switch s {
	case ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusExpired, ApprovalStatusCancelled:
		return true
	}
	return false
}

// ApprovalAction is the explicit review action taken on a pending request.
// A counter action resolves the request to approved but additionally records
// the counter-offer terms.
type ApprovalAction string

const (
	ApprovalActionApprove ApprovalAction = "approve"
	ApprovalActionReject  ApprovalAction = "reject"
	ApprovalActionCounter ApprovalAction = "counter"
)

func (a ApprovalAction) Validate() bool {
	switch a {
	case ApprovalActionApprove, ApprovalActionReject, ApprovalActionCounter:
		return true
	}
	return false
}
