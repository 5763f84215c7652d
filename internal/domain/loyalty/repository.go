package loyalty

import (
	"context"
)

// Repository defines the interface for loyalty program, account and ledger
// data access
type Repository interface {
	// Program configuration
	GetProgram(ctx context.Context, tenantID string) (*Program, error)
	UpsertProgram(ctx context.Context, program *Program) error

	// Accounts
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccountByCustomer(ctx context.Context, tenantID string, customerID string) (*Account, error)
	GetAccountByReferralCode(ctx context.Context, tenantID string, referralCode string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error

	// Ledger. AppendTransaction must write the transaction and the updated
	// account snapshot together.
	AppendTransaction(ctx context.Context, account *Account, txn *Transaction) error
	ListTransactions(ctx context.Context, accountID string, limit int) ([]*Transaction, error)

	// DebitPoints appends a negative-delta transaction only if the account's
	// balance still covers it: a compare-and-update so two concurrent
	// redemptions can never jointly overdraw the balance.
	DebitPoints(ctx context.Context, accountID string, points int, txn *Transaction) (*Account, error)
}
