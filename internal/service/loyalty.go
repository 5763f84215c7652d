package service

import (
	"context"
	"fmt"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LoyaltyService owns the points ledger: enrollment, earning, redemption and
// the tier discount an account contributes to calculations. Every balance
// change is an appended transaction; the balance is always the last
// transaction's snapshot.
type LoyaltyService interface {
	ConfigureProgram(ctx context.Context, program *loyalty.Program) (*loyalty.Program, error)
	GetProgram(ctx context.Context, tenantID string) (*loyalty.Program, error)

	Enroll(ctx context.Context, tenantID string, req dto.EnrollRequest) (*dto.LoyaltyAccountResponse, error)
	EarnPoints(ctx context.Context, tenantID string, req dto.EarnPointsRequest) (*dto.LoyaltyAccountResponse, error)
	RedeemPoints(ctx context.Context, tenantID string, req dto.RedeemPointsRequest) (*dto.RedeemPointsResponse, error)
	GetAccount(ctx context.Context, tenantID string, customerID string) (*dto.LoyaltyAccountResponse, error)
	ListTransactions(ctx context.Context, accountID string, limit int) ([]*loyalty.Transaction, error)

	// TierCandidate returns the customer's tier discount as a calculation
	// candidate, or nil when the customer is not enrolled, the program is
	// inactive, or the tier carries no discount.
	TierCandidate(ctx context.Context, tenantID string, customerID string) (*CandidateDiscount, error)
}

type loyaltyService struct {
	ServiceParams
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(params ServiceParams) LoyaltyService {
	return &loyaltyService{ServiceParams: params}
}

func (s *loyaltyService) ConfigureProgram(ctx context.Context, program *loyalty.Program) (*loyalty.Program, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}

	if program.ID == "" {
		program.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_ACCOUNT)
	}

	if err := s.LoyaltyRepo.UpsertProgram(ctx, program); err != nil {
		return nil, err
	}

	s.Logger.Infow("configured loyalty program",
		"program_id", program.ID,
		"tenant_id", program.TenantID,
		"tiers", len(program.Tiers))

	return program, nil
}

func (s *loyaltyService) GetProgram(ctx context.Context, tenantID string) (*loyalty.Program, error) {
	return s.LoyaltyRepo.GetProgram(ctx, tenantID)
}

func (s *loyaltyService) Enroll(ctx context.Context, tenantID string, req dto.EnrollRequest) (*dto.LoyaltyAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := s.activeProgram(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	existing, err := s.LoyaltyRepo.GetAccountByCustomer(ctx, tenantID, req.CustomerID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("customer already enrolled").
			WithHint("This customer already has a loyalty account").
			WithReportableDetails(map[string]any{
				"customer_id": req.CustomerID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	baseTier := program.TierFor(0)
	account := &loyalty.Account{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_ACCOUNT),
		CustomerID:          req.CustomerID,
		ReferralCode:        types.GenerateShortIDWithPrefix("REF-"),
		ReferredBy:          req.ReferredBy,
		TotalSpent:          decimal.Zero,
		CurrentTier:         baseTier.Name,
		TierDiscountPercent: baseTier.DiscountPercent,
		BaseModel:           types.GetDefaultBaseModel(ctx),
	}
	account.TenantID = tenantID

	if err := s.LoyaltyRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if program.SignupBonus > 0 {
		if err := s.credit(ctx, program, account, program.SignupBonus,
			types.LoyaltyTransactionSignupBonus, "Signup bonus", ""); err != nil {
			return nil, err
		}
	}

	// A resolvable referrer code credits the referrer, not the new account.
	// An unknown code is ignored rather than failing enrollment.
	if req.ReferredBy != "" && program.ReferralBonus > 0 {
		referrer, err := s.LoyaltyRepo.GetAccountByReferralCode(ctx, tenantID, req.ReferredBy)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
		if referrer != nil {
			if err := s.credit(ctx, program, referrer, program.ReferralBonus,
				types.LoyaltyTransactionReferralBonus,
				fmt.Sprintf("Referral bonus for %s", req.CustomerID), ""); err != nil {
				return nil, err
			}
		}
	}

	s.Logger.Infow("enrolled loyalty account",
		"account_id", account.ID,
		"customer_id", account.CustomerID,
		"tenant_id", tenantID)

	return dto.NewLoyaltyAccountResponse(account), nil
}

func (s *loyaltyService) EarnPoints(ctx context.Context, tenantID string, req dto.EarnPointsRequest) (*dto.LoyaltyAccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := s.activeProgram(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	account, err := s.enrolledAccount(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	points := int(req.OrderAmount.Mul(program.PointsPerDollar).IntPart()) + req.BonusPoints

	now := s.Clock.Now()
	account.TotalOrders++
	account.TotalSpent = account.TotalSpent.Add(req.OrderAmount)
	if account.FirstOrderAt == nil {
		account.FirstOrderAt = lo.ToPtr(now)
	}
	account.LastOrderAt = lo.ToPtr(now)

	if err := s.credit(ctx, program, account, points,
		types.LoyaltyTransactionEarned,
		fmt.Sprintf("Points for order of %s", req.OrderAmount.StringFixed(2)),
		req.ProposalID); err != nil {
		return nil, err
	}

	return dto.NewLoyaltyAccountResponse(account), nil
}

func (s *loyaltyService) RedeemPoints(ctx context.Context, tenantID string, req dto.RedeemPointsRequest) (*dto.RedeemPointsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := s.activeProgram(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	account, err := s.enrolledAccount(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if req.Points < program.MinRedeemPoints {
		return nil, ierr.NewError("below minimum redemption").
			WithHintf("At least %d points must be redeemed at once", program.MinRedeemPoints).
			WithReportableDetails(map[string]any{
				"points":            req.Points,
				"min_redeem_points": program.MinRedeemPoints,
			}).
			Mark(ierr.ErrValidation)
	}

	if req.Points > account.CurrentPoints {
		return nil, ierr.NewError("insufficient points").
			WithHintf("The account holds %d points", account.CurrentPoints).
			WithReportableDetails(map[string]any{
				"points":  req.Points,
				"balance": account.CurrentPoints,
			}).
			Mark(ierr.ErrValidation)
	}

	value := types.RoundToCents(decimal.NewFromInt(int64(req.Points)).Mul(program.RedemptionValue))

	txn := &loyalty.Transaction{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_TRANSACTION),
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
		Type:        types.LoyaltyTransactionRedeemed,
		Points:      -req.Points,
		Description: fmt.Sprintf("Redeemed %d points for %s", req.Points, value.StringFixed(2)),
		ProposalID:  req.ProposalID,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	txn.TenantID = tenantID

	// Compare-and-update in the repository so concurrent redemptions can
	// never jointly overdraw the balance
	updated, err := s.LoyaltyRepo.DebitPoints(ctx, account.ID, req.Points, txn)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("redeemed loyalty points",
		"account_id", account.ID,
		"points", req.Points,
		"value", value,
		"balance_after", updated.CurrentPoints)

	return &dto.RedeemPointsResponse{
		PointsRedeemed: req.Points,
		DiscountValue:  value,
		BalanceAfter:   updated.CurrentPoints,
	}, nil
}

func (s *loyaltyService) GetAccount(ctx context.Context, tenantID string, customerID string) (*dto.LoyaltyAccountResponse, error) {
	account, err := s.LoyaltyRepo.GetAccountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return dto.NewLoyaltyAccountResponse(account), nil
}

func (s *loyaltyService) ListTransactions(ctx context.Context, accountID string, limit int) ([]*loyalty.Transaction, error) {
	return s.LoyaltyRepo.ListTransactions(ctx, accountID, limit)
}

func (s *loyaltyService) TierCandidate(ctx context.Context, tenantID string, customerID string) (*CandidateDiscount, error) {
	if customerID == "" {
		return nil, nil
	}

	program, err := s.LoyaltyRepo.GetProgram(ctx, tenantID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if program == nil || !program.IsActive {
		return nil, nil
	}

	account, err := s.LoyaltyRepo.GetAccountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if account.TierDiscountPercent.IsZero() {
		return nil, nil
	}

	return &CandidateDiscount{
		Source:        types.DiscountSourceLoyaltyTier,
		SourceID:      account.ID,
		Name:          fmt.Sprintf("%s tier discount", account.CurrentTier),
		DiscountType:  types.DiscountTypePercent,
		DiscountValue: account.TierDiscountPercent,
		Stackable:     true,
		Priority:      priorityLoyaltyTier,
		CanApply:      true,
	}, nil
}

// credit appends a positive ledger entry and persists the refreshed account
// snapshot. The tier is recomputed from lifetime earned points, never from
// the spendable balance.
func (s *loyaltyService) credit(ctx context.Context, program *loyalty.Program, account *loyalty.Account, points int, txnType types.LoyaltyTransactionType, description string, proposalID string) error {
	account.CurrentPoints += points
	account.LifetimeEarned += points

	tier := program.TierFor(account.LifetimeEarned)
	account.CurrentTier = tier.Name
	account.TierDiscountPercent = tier.DiscountPercent

	txn := &loyalty.Transaction{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOYALTY_TRANSACTION),
		AccountID:    account.ID,
		CustomerID:   account.CustomerID,
		Type:         txnType,
		Points:       points,
		BalanceAfter: account.CurrentPoints,
		Description:  description,
		ProposalID:   proposalID,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	txn.TenantID = account.TenantID

	return s.LoyaltyRepo.AppendTransaction(ctx, account, txn)
}

func (s *loyaltyService) activeProgram(ctx context.Context, tenantID string) (*loyalty.Program, error) {
	program, err := s.LoyaltyRepo.GetProgram(ctx, tenantID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("loyalty program not configured").
				WithHint("No loyalty program exists for this organization").
				Mark(ierr.ErrValidation)
		}
		return nil, err
	}

	if !program.IsActive {
		return nil, ierr.NewError("loyalty program inactive").
			WithHint("The loyalty program is currently disabled").
			Mark(ierr.ErrValidation)
	}

	return program, nil
}

// enrolledAccount loads an account or surfaces "not enrolled" as a
// validation failure rather than a bare not-found
func (s *loyaltyService) enrolledAccount(ctx context.Context, tenantID string, customerID string) (*loyalty.Account, error) {
	account, err := s.LoyaltyRepo.GetAccountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("customer not enrolled").
				WithHint("The customer has no loyalty account").
				WithReportableDetails(map[string]any{
					"customer_id": customerID,
				}).
				Mark(ierr.ErrValidation)
		}
		return nil, err
	}
	return account, nil
}
