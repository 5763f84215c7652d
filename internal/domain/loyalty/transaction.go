package loyalty

import (
	"github.com/quotekit/quotekit/internal/types"
)

// Transaction is an immutable, append-only ledger entry. Points carries the
// signed delta; BalanceAfter snapshots the balance the account held once the
// entry was applied. For consecutive entries,
// BalanceAfter[n] == BalanceAfter[n-1] + Points[n].
type Transaction struct {
	ID           string                       `db:"id" json:"id"`
	AccountID    string                       `db:"account_id" json:"account_id"`
	CustomerID   string                       `db:"customer_id" json:"customer_id"`
	Type         types.LoyaltyTransactionType `db:"type" json:"type"`
	Points       int                          `db:"points" json:"points"`
	BalanceAfter int                          `db:"balance_after" json:"balance_after"`
	Description  string                       `db:"description" json:"description"`
	ProposalID   string                       `db:"proposal_id" json:"proposal_id,omitempty"`
	types.BaseModel
}
