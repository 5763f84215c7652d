package service

import (
	"testing"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/testutil"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoyaltyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LoyaltyService
}

func TestLoyaltyService(t *testing.T) {
	suite.Run(t, new(LoyaltyServiceSuite))
}

func (s *LoyaltyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewLoyaltyService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *LoyaltyServiceSuite) configureProgram() *loyalty.Program {
	program := &loyalty.Program{
		Name:            "Rewards",
		PointsPerDollar: decimal.NewFromInt(1),
		SignupBonus:     100,
		ReferralBonus:   250,
		RedemptionValue: decimal.NewFromFloat(0.01),
		MinRedeemPoints: 500,
		IsActive:        true,
		Tiers: []loyalty.Tier{
			{Name: "Bronze", MinPoints: 0, DiscountPercent: decimal.Zero},
			{Name: "Silver", MinPoints: 1000, DiscountPercent: decimal.NewFromInt(5)},
			{Name: "Gold", MinPoints: 5000, DiscountPercent: decimal.NewFromInt(10)},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	configured, err := s.service.ConfigureProgram(s.GetContext(), program)
	s.Require().NoError(err)
	return configured
}

func (s *LoyaltyServiceSuite) TestConfigureProgramValidatesTiers() {
	program := &loyalty.Program{
		PointsPerDollar: decimal.NewFromInt(1),
		RedemptionValue: decimal.NewFromFloat(0.01),
		Tiers: []loyalty.Tier{
			{Name: "Silver", MinPoints: 1000, DiscountPercent: decimal.NewFromInt(5)},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	_, err := s.service.ConfigureProgram(s.GetContext(), program)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LoyaltyServiceSuite) TestEnrollCreditsSignupBonus() {
	s.configureProgram()

	account, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)
	s.Equal(100, account.CurrentPoints)
	s.Equal(100, account.LifetimeEarned)
	s.Equal("Bronze", account.CurrentTier)
	s.NotEmpty(account.ReferralCode)

	// Double enrollment is rejected
	_, err = s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *LoyaltyServiceSuite) TestEnrollWithReferralCreditsReferrer() {
	s.configureProgram()

	referrer, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)

	referred, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-2",
		ReferredBy: referrer.ReferralCode,
	})
	s.NoError(err)
	s.Equal(100, referred.CurrentPoints)

	updated, err := s.service.GetAccount(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Equal(350, updated.CurrentPoints)
}

func (s *LoyaltyServiceSuite) TestEnrollIgnoresUnknownReferralCode() {
	s.configureProgram()

	account, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
		ReferredBy: "REF-UNKNOWN",
	})
	s.NoError(err)
	s.Equal(100, account.CurrentPoints)
}

func (s *LoyaltyServiceSuite) TestEarnPointsUpgradesTier() {
	s.configureProgram()
	_, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)

	account, err := s.service.EarnPoints(s.GetContext(), types.DefaultTenantID, dto.EarnPointsRequest{
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(950),
	})
	s.NoError(err)
	// 100 signup + 950 earned crosses the Silver threshold
	s.Equal(1050, account.CurrentPoints)
	s.Equal(1050, account.LifetimeEarned)
	s.Equal("Silver", account.CurrentTier)
	s.True(account.TierDiscountPercent.Equal(decimal.NewFromInt(5)))
	s.Equal(1, account.TotalOrders)
	s.NotNil(account.FirstOrderAt)
}

func (s *LoyaltyServiceSuite) TestRedeemPointsChecksFloorAndBalance() {
	s.configureProgram()
	_, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)
	_, err = s.service.EarnPoints(s.GetContext(), types.DefaultTenantID, dto.EarnPointsRequest{
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(900),
	})
	s.NoError(err)

	_, err = s.service.RedeemPoints(s.GetContext(), types.DefaultTenantID, dto.RedeemPointsRequest{
		CustomerID: "cust-1",
		Points:     400,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.RedeemPoints(s.GetContext(), types.DefaultTenantID, dto.RedeemPointsRequest{
		CustomerID: "cust-1",
		Points:     5000,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	result, err := s.service.RedeemPoints(s.GetContext(), types.DefaultTenantID, dto.RedeemPointsRequest{
		CustomerID: "cust-1",
		Points:     600,
	})
	s.NoError(err)
	s.Equal(600, result.PointsRedeemed)
	s.True(result.DiscountValue.Equal(decimal.NewFromInt(6)))
	s.Equal(400, result.BalanceAfter)
}

func (s *LoyaltyServiceSuite) TestLedgerBalancesChain() {
	s.configureProgram()
	enrolled, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)
	_, err = s.service.EarnPoints(s.GetContext(), types.DefaultTenantID, dto.EarnPointsRequest{
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(900),
	})
	s.NoError(err)
	_, err = s.service.RedeemPoints(s.GetContext(), types.DefaultTenantID, dto.RedeemPointsRequest{
		CustomerID: "cust-1",
		Points:     500,
	})
	s.NoError(err)

	transactions, err := s.service.ListTransactions(s.GetContext(), enrolled.ID, 0)
	s.NoError(err)
	s.Len(transactions, 3)

	// Ledger returns newest first; each entry's balance is the previous
	// balance plus its signed delta, ending at the live account balance
	balance := 0
	for i := len(transactions) - 1; i >= 0; i-- {
		balance += transactions[i].Points
		s.Equal(balance, transactions[i].BalanceAfter)
	}

	account, err := s.service.GetAccount(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Equal(balance, account.CurrentPoints)
	s.Equal(500, account.CurrentPoints)
}

func (s *LoyaltyServiceSuite) TestTierCandidate() {
	s.configureProgram()

	// Not enrolled: no candidate, no error
	candidate, err := s.service.TierCandidate(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Nil(candidate)

	_, err = s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)

	// Bronze carries no discount: still no candidate
	candidate, err = s.service.TierCandidate(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Nil(candidate)

	_, err = s.service.EarnPoints(s.GetContext(), types.DefaultTenantID, dto.EarnPointsRequest{
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(2000),
	})
	s.NoError(err)

	candidate, err = s.service.TierCandidate(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Require().NotNil(candidate)
	s.Equal(types.DiscountSourceLoyaltyTier, candidate.Source)
	s.True(candidate.Stackable)
	s.True(candidate.DiscountValue.Equal(decimal.NewFromInt(5)))
}

func (s *LoyaltyServiceSuite) TestInactiveProgramBlocksEarning() {
	program := s.configureProgram()
	_, err := s.service.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: "cust-1",
	})
	s.NoError(err)

	program.IsActive = false
	_, err = s.service.ConfigureProgram(s.GetContext(), program)
	s.NoError(err)

	_, err = s.service.EarnPoints(s.GetContext(), types.DefaultTenantID, dto.EarnPointsRequest{
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	candidate, err := s.service.TierCandidate(s.GetContext(), types.DefaultTenantID, "cust-1")
	s.NoError(err)
	s.Nil(candidate)
}
