package inmemory

import (
	"context"
	"sync"

	"github.com/quotekit/quotekit/internal/domain/loyalty"
	ierr "github.com/quotekit/quotekit/internal/errors"
)

// LoyaltyStore implements loyalty.Repository
type LoyaltyStore struct {
	mu           sync.Mutex
	programs     map[string]*loyalty.Program
	accounts     *Store[*loyalty.Account]
	transactions []*loyalty.Transaction
}

// NewLoyaltyStore creates a new in-memory loyalty store
func NewLoyaltyStore() *LoyaltyStore {
	return &LoyaltyStore{
		programs: make(map[string]*loyalty.Program),
		accounts: NewStore[*loyalty.Account](),
	}
}

func copyProgram(p *loyalty.Program) *loyalty.Program {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Tiers = append([]loyalty.Tier(nil), p.Tiers...)
	return &copied
}

func copyAccount(a *loyalty.Account) *loyalty.Account {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

func (s *LoyaltyStore) GetProgram(ctx context.Context, tenantID string) (*loyalty.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	program, ok := s.programs[tenantID]
	if !ok {
		return nil, ierr.NewError("program not found").
			WithHint("No loyalty program is configured").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyProgram(program), nil
}

func (s *LoyaltyStore) UpsertProgram(ctx context.Context, program *loyalty.Program) error {
	if program == nil {
		return ierr.NewError("program cannot be nil").
			WithHint("Program cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[program.TenantID] = copyProgram(program)
	return nil
}

func (s *LoyaltyStore) CreateAccount(ctx context.Context, account *loyalty.Account) error {
	if account == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.accounts.Create(ctx, account.ID, copyAccount(account))
}

func (s *LoyaltyStore) GetAccount(ctx context.Context, id string) (*loyalty.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHint("Loyalty account not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyAccount(account), nil
}

func (s *LoyaltyStore) GetAccountByCustomer(ctx context.Context, tenantID string, customerID string) (*loyalty.Account, error) {
	matches := s.accounts.List(ctx, func(_ context.Context, a *loyalty.Account) bool {
		return a.TenantID == tenantID && a.CustomerID == customerID
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("account not found").
			WithHint("Loyalty account not found").
			WithReportableDetails(map[string]any{
				"customer_id": customerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyAccount(matches[0]), nil
}

func (s *LoyaltyStore) GetAccountByReferralCode(ctx context.Context, tenantID string, referralCode string) (*loyalty.Account, error) {
	matches := s.accounts.List(ctx, func(_ context.Context, a *loyalty.Account) bool {
		return a.TenantID == tenantID && a.ReferralCode == referralCode
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("account not found").
			WithHint("No account carries this referral code").
			WithReportableDetails(map[string]any{
				"referral_code": referralCode,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyAccount(matches[0]), nil
}

func (s *LoyaltyStore) UpdateAccount(ctx context.Context, account *loyalty.Account) error {
	if account == nil {
		return ierr.NewError("account cannot be nil").
			WithHint("Account cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.accounts.Update(ctx, account.ID, copyAccount(account)); err != nil {
		return ierr.NewError("account not found").
			WithHint("Loyalty account not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *LoyaltyStore) AppendTransaction(ctx context.Context, account *loyalty.Account, txn *loyalty.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.Update(ctx, account.ID, copyAccount(account)); err != nil {
		return ierr.NewError("account not found").
			WithHint("Loyalty account not found").
			Mark(ierr.ErrNotFound)
	}

	copied := *txn
	s.transactions = append(s.transactions, &copied)
	return nil
}

func (s *LoyaltyStore) ListTransactions(ctx context.Context, accountID string, limit int) ([]*loyalty.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first
	result := make([]*loyalty.Transaction, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		txn := s.transactions[i]
		if txn.AccountID != accountID {
			continue
		}
		copied := *txn
		result = append(result, &copied)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *LoyaltyStore) DebitPoints(ctx context.Context, accountID string, points int, txn *loyalty.Transaction) (*loyalty.Account, error) {
	// The lock spans the balance check and the write so concurrent
	// redemptions can never jointly overdraw
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHint("Loyalty account not found").
			Mark(ierr.ErrNotFound)
	}

	if points > account.CurrentPoints {
		return nil, ierr.NewError("insufficient points").
			WithHint("The account balance no longer covers this redemption").
			WithReportableDetails(map[string]any{
				"points":  points,
				"balance": account.CurrentPoints,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	updated := copyAccount(account)
	updated.CurrentPoints -= points

	if err := s.accounts.Update(ctx, accountID, updated); err != nil {
		return nil, err
	}

	copied := *txn
	copied.BalanceAfter = updated.CurrentPoints
	s.transactions = append(s.transactions, &copied)

	return copyAccount(updated), nil
}

// Clear removes all programs, accounts and transactions
func (s *LoyaltyStore) Clear() {
	s.mu.Lock()
	s.programs = make(map[string]*loyalty.Program)
	s.transactions = nil
	s.mu.Unlock()
	s.accounts.Clear()
}
