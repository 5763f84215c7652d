package service

import (
	"testing"
	"time"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/approval"
	"github.com/quotekit/quotekit/internal/domain/campaign"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	"github.com/quotekit/quotekit/internal/domain/discountrule"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	"github.com/quotekit/quotekit/internal/domain/volumetier"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/testutil"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DiscountOrchestratorSuite struct {
	testutil.BaseServiceTestSuite
	orchestrator DiscountOrchestrator
	codes        PromoCodeService
	rules        RuleEvaluationService
	loyaltySvc   LoyaltyService
	tiers        VolumeTierService
	campaigns    CampaignService
	approvals    ApprovalService
}

func TestDiscountOrchestrator(t *testing.T) {
	suite.Run(t, new(DiscountOrchestratorSuite))
}

func (s *DiscountOrchestratorSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := testServiceParams(&s.BaseServiceTestSuite)
	s.orchestrator = NewDiscountOrchestrator(params)
	s.codes = NewPromoCodeService(params)
	s.rules = NewRuleEvaluationService(params)
	s.loyaltySvc = NewLoyaltyService(params)
	s.tiers = NewVolumeTierService(params)
	s.campaigns = NewCampaignService(params)
	s.approvals = NewApprovalService(params)
}

func (s *DiscountOrchestratorSuite) dctx(subtotal int64) *dto.DiscountContext {
	return &dto.DiscountContext{
		TenantID: types.DefaultTenantID,
		Subtotal: decimal.NewFromInt(subtotal),
	}
}

func (s *DiscountOrchestratorSuite) seedCode(code string, percent int64, maxAmount *int64) {
	c := &discountcode.DiscountCode{
		Code:      code,
		Type:      types.DiscountTypePercent,
		Value:     decimal.NewFromInt(percent),
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	if maxAmount != nil {
		c.MaxDiscountAmount = lo.ToPtr(decimal.NewFromInt(*maxAmount))
	}
	_, err := s.codes.CreateCode(s.GetContext(), c)
	s.Require().NoError(err)
}

func (s *DiscountOrchestratorSuite) seedVolumeTiers(stackable bool) {
	_, err := s.tiers.CreateTierSet(s.GetContext(), &volumetier.TierSet{
		Name:            "Order size discounts",
		MeasurementType: types.MeasurementTypeAmount,
		Stackable:       stackable,
		Tiers: []volumetier.TierLevel{
			{Min: decimal.NewFromInt(1000), Max: lo.ToPtr(decimal.NewFromInt(5000)), DiscountPercent: decimal.NewFromInt(5)},
			{Min: decimal.NewFromInt(5000), Max: lo.ToPtr(decimal.NewFromInt(10000)), DiscountPercent: decimal.NewFromInt(8)},
			{Min: decimal.NewFromInt(10000), Max: nil, DiscountPercent: decimal.NewFromInt(12)},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *DiscountOrchestratorSuite) seedLoyaltyMember(customerID string, tierPercent int64) {
	_, err := s.loyaltySvc.ConfigureProgram(s.GetContext(), &loyalty.Program{
		Name:            "Rewards",
		PointsPerDollar: decimal.NewFromInt(1),
		RedemptionValue: decimal.NewFromFloat(0.01),
		IsActive:        true,
		Tiers: []loyalty.Tier{
			{Name: "Member", MinPoints: 0, DiscountPercent: decimal.NewFromInt(tierPercent)},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	_, err = s.loyaltySvc.Enroll(s.GetContext(), types.DefaultTenantID, dto.EnrollRequest{
		CustomerID: customerID,
	})
	s.Require().NoError(err)
}

func (s *DiscountOrchestratorSuite) TestNoCandidatesLeavesSubtotalUntouched() {
	result, err := s.orchestrator.Calculate(s.GetContext(), s.dctx(1234))
	s.NoError(err)
	s.Empty(result.AvailableDiscounts)
	s.Empty(result.AppliedDiscounts)
	s.True(result.FinalSubtotal.Equal(result.OriginalSubtotal))
	s.True(result.TotalDiscount.IsZero())
	s.False(result.RequiresApproval)
}

func (s *DiscountOrchestratorSuite) TestPromoCodeWithCap() {
	s.seedCode("SUMMER10", 10, lo.ToPtr(int64(500)))

	dctx := s.dctx(10000)
	dctx.PromoCode = "SUMMER10"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Require().Len(result.AppliedDiscounts, 1)
	s.Equal(types.DiscountSourcePromoCode, result.AppliedDiscounts[0].Source)
	s.True(result.AppliedDiscounts[0].Amount.Equal(decimal.NewFromInt(500)))
	s.True(result.TotalDiscount.Equal(decimal.NewFromInt(500)))
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(9500)))
}

func (s *DiscountOrchestratorSuite) TestInvalidCodeSurfacesAsUnapplicable() {
	dctx := s.dctx(1000)
	dctx.PromoCode = "NOPE"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Empty(result.AppliedDiscounts)
	s.Require().Len(result.AvailableDiscounts, 1)
	s.False(result.AvailableDiscounts[0].CanApply)
	s.Equal("Invalid discount code", result.AvailableDiscounts[0].Reason)
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(1000)))
}

func (s *DiscountOrchestratorSuite) TestBestNonStackableBeatsStackableSum() {
	// Volume tier: 12% of 10,000 = 1,200 as a single exclusive discount
	s.seedVolumeTiers(false)
	// Loyalty tier: 10% of 10,000 = 1,000 stackable
	s.seedLoyaltyMember("cust-1", 10)

	dctx := s.dctx(10000)
	dctx.CustomerID = "cust-1"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Len(result.AvailableDiscounts, 2)
	s.Require().Len(result.AppliedDiscounts, 1)
	s.Equal(types.DiscountSourceVolumeTier, result.AppliedDiscounts[0].Source)
	s.True(result.TotalDiscount.Equal(decimal.NewFromInt(1200)))
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(8800)))
}

func (s *DiscountOrchestratorSuite) TestStackableSumBeatsNonStackable() {
	// Volume tier: 5% of 4,000 = 200 exclusive
	s.seedVolumeTiers(false)
	// Loyalty 10% of 4,000 = 400 stackable wins even alone
	s.seedLoyaltyMember("cust-1", 10)

	dctx := s.dctx(4000)
	dctx.CustomerID = "cust-1"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Require().Len(result.AppliedDiscounts, 1)
	s.Equal(types.DiscountSourceLoyaltyTier, result.AppliedDiscounts[0].Source)
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(3600)))
}

func (s *DiscountOrchestratorSuite) TestSequentialApplicationAgainstRunningSubtotal() {
	ten := &discountrule.AutoDiscountRule{
		Name:          "big order",
		RuleType:      types.RuleTypeOrderMinimum,
		Condition:     discountrule.Condition{OrderMinimum: &discountrule.OrderMinimumCondition{MinAmount: decimal.NewFromInt(500)}},
		DiscountType:  types.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(10),
		Priority:      100,
		Stackable:     true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	_, err := s.rules.CreateRule(s.GetContext(), ten)
	s.Require().NoError(err)

	five := &discountrule.AutoDiscountRule{
		Name:          "welcome",
		RuleType:      types.RuleTypeFirstOrder,
		Condition:     discountrule.Condition{FirstOrder: &discountrule.FirstOrderCondition{}},
		DiscountType:  types.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(5),
		Priority:      50,
		Stackable:     true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	_, err = s.rules.CreateRule(s.GetContext(), five)
	s.Require().NoError(err)

	dctx := s.dctx(1000)
	dctx.IsNewCustomer = true
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	// 10% of 1,000 = 100, then 5% of the remaining 900 = 45
	s.Require().Len(result.AppliedDiscounts, 2)
	s.Equal("big order", result.AppliedDiscounts[0].Name)
	s.True(result.AppliedDiscounts[0].Amount.Equal(decimal.NewFromInt(100)))
	s.True(result.AppliedDiscounts[0].AppliedToSubtotal.Equal(decimal.NewFromInt(1000)))
	s.Equal(1, result.AppliedDiscounts[0].Position)

	s.Equal("welcome", result.AppliedDiscounts[1].Name)
	s.True(result.AppliedDiscounts[1].Amount.Equal(decimal.NewFromInt(45)))
	s.True(result.AppliedDiscounts[1].AppliedToSubtotal.Equal(decimal.NewFromInt(900)))
	s.Equal(2, result.AppliedDiscounts[1].Position)

	s.True(result.TotalDiscount.Equal(decimal.NewFromInt(145)))
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(855)))
}

func (s *DiscountOrchestratorSuite) TestRuleNotStackingWithCodesCompetes() {
	rule := &discountrule.AutoDiscountRule{
		Name:           "exclusive promo",
		RuleType:       types.RuleTypeOrderMinimum,
		Condition:      discountrule.Condition{OrderMinimum: &discountrule.OrderMinimumCondition{MinAmount: decimal.NewFromInt(500)}},
		DiscountType:   types.DiscountTypePercent,
		DiscountValue:  decimal.NewFromInt(20),
		Stackable:      true,
		StackWithCodes: false,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	_, err := s.rules.CreateRule(s.GetContext(), rule)
	s.Require().NoError(err)

	s.seedCode("TEN", 10, nil)

	// Without a code the rule stacks normally
	result, err := s.orchestrator.Calculate(s.GetContext(), s.dctx(1000))
	s.NoError(err)
	s.Require().Len(result.AppliedDiscounts, 1)
	s.Equal("exclusive promo", result.AppliedDiscounts[0].Name)

	// With a valid code entered, the rule competes and its 200 beats the
	// code's 100
	dctx := s.dctx(1000)
	dctx.PromoCode = "TEN"
	result, err = s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)
	s.Require().Len(result.AppliedDiscounts, 1)
	s.Equal(types.DiscountSourceAutoRule, result.AppliedDiscounts[0].Source)
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(800)))
}

func (s *DiscountOrchestratorSuite) TestCampaignStacksWithCodeInPriorityOrder() {
	now := s.GetNow()
	_, err := s.campaigns.CreateCampaign(s.GetContext(), &campaign.SeasonalCampaign{
		Name:          "Spring push",
		DiscountType:  types.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(10),
		StartsAt:      now.Add(-24 * time.Hour),
		ExpiresAt:     now.Add(7 * 24 * time.Hour),
		IsActive:      true,
		Stackable:     true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	s.seedCode("TEN", 10, nil)

	dctx := s.dctx(1000)
	dctx.PromoCode = "TEN"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	// Campaign first (higher priority), then the code on the reduced subtotal
	s.Require().Len(result.AppliedDiscounts, 2)
	s.Equal(types.DiscountSourceCampaign, result.AppliedDiscounts[0].Source)
	s.True(result.AppliedDiscounts[0].Amount.Equal(decimal.NewFromInt(100)))
	s.Equal(types.DiscountSourcePromoCode, result.AppliedDiscounts[1].Source)
	s.True(result.AppliedDiscounts[1].Amount.Equal(decimal.NewFromInt(90)))
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(810)))
}

func (s *DiscountOrchestratorSuite) TestCampaignBelowMinimumIsVisibleButUnapplied() {
	now := s.GetNow()
	_, err := s.campaigns.CreateCampaign(s.GetContext(), &campaign.SeasonalCampaign{
		Name:           "Big spender",
		DiscountType:   types.DiscountTypePercent,
		DiscountValue:  decimal.NewFromInt(15),
		MinOrderAmount: lo.ToPtr(decimal.NewFromInt(5000)),
		StartsAt:       now.Add(-24 * time.Hour),
		ExpiresAt:      now.Add(7 * 24 * time.Hour),
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	result, err := s.orchestrator.Calculate(s.GetContext(), s.dctx(1000))
	s.NoError(err)

	s.Empty(result.AppliedDiscounts)
	s.Require().Len(result.AvailableDiscounts, 1)
	s.False(result.AvailableDiscounts[0].CanApply)
	s.Contains(result.AvailableDiscounts[0].Reason, "Order must be at least")
}

func (s *DiscountOrchestratorSuite) TestManualDiscountAppliesLastAndTriggersApproval() {
	_, err := s.approvals.ConfigureSettings(s.GetContext(), &approval.Settings{
		MaxPercentWithoutApproval: lo.ToPtr(decimal.NewFromInt(10)),
		BaseModel:                 types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	s.seedCode("TEN", 10, nil)

	dctx := s.dctx(1000)
	dctx.PromoCode = "TEN"
	dctx.ManualDiscount = &dto.ManualDiscountInput{
		Type:   types.DiscountTypePercent,
		Value:  decimal.NewFromInt(15),
		Reason: "Price match",
	}
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Require().Len(result.AppliedDiscounts, 2)
	manual := result.AppliedDiscounts[1]
	s.Equal(types.DiscountSourceManual, manual.Source)
	s.Equal("Price match", manual.Name)
	// 15% of the remaining 900
	s.True(manual.Amount.Equal(decimal.NewFromInt(135)))
	s.True(manual.RequiresApproval)

	s.True(result.RequiresApproval)
	s.Equal("Discount percent exceeds the approval threshold", result.ApprovalReason)
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(765)))
}

func (s *DiscountOrchestratorSuite) TestManualFixedDiscountWithinLimits() {
	_, err := s.approvals.ConfigureSettings(s.GetContext(), &approval.Settings{
		MaxPercentWithoutApproval: lo.ToPtr(decimal.NewFromInt(10)),
		BaseModel:                 types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	dctx := s.dctx(1000)
	dctx.ManualDiscount = &dto.ManualDiscountInput{
		Type:  types.DiscountTypeFixed,
		Value: decimal.NewFromInt(50),
	}
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Require().Len(result.AppliedDiscounts, 1)
	s.False(result.RequiresApproval)
	s.True(result.FinalSubtotal.Equal(decimal.NewFromInt(950)))
}

func (s *DiscountOrchestratorSuite) TestManualPercentOverHundredRejected() {
	dctx := s.dctx(1000)
	dctx.ManualDiscount = &dto.ManualDiscountInput{
		Type:  types.DiscountTypePercent,
		Value: decimal.NewFromInt(150),
	}
	_, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *DiscountOrchestratorSuite) TestManualFixedDiscountClampsAtSubtotal() {
	dctx := s.dctx(1000)
	dctx.ManualDiscount = &dto.ManualDiscountInput{
		Type:  types.DiscountTypeFixed,
		Value: decimal.NewFromInt(2000),
	}
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	// The discount can empty the order but never drive it negative
	s.Require().Len(result.AppliedDiscounts, 1)
	s.True(result.AppliedDiscounts[0].Amount.Equal(decimal.NewFromInt(1000)))
	s.True(result.FinalSubtotal.IsZero())
	s.True(result.TotalDiscount.Equal(decimal.NewFromInt(1000)))
}

func (s *DiscountOrchestratorSuite) TestNextVolumeTierUpsell() {
	s.seedVolumeTiers(false)

	result, err := s.orchestrator.Calculate(s.GetContext(), s.dctx(4200))
	s.NoError(err)

	s.Require().Len(result.UpsellSuggestions, 1)
	s.Equal(dto.UpsellTypeNextVolumeTier, result.UpsellSuggestions[0].Type)
	s.Contains(result.UpsellSuggestions[0].Message, "800")
}

func (s *DiscountOrchestratorSuite) TestLoyaltyEnrollmentUpsell() {
	_, err := s.loyaltySvc.ConfigureProgram(s.GetContext(), &loyalty.Program{
		Name:            "Rewards",
		PointsPerDollar: decimal.NewFromInt(1),
		RedemptionValue: decimal.NewFromFloat(0.01),
		IsActive:        true,
		Tiers: []loyalty.Tier{
			{Name: "Member", MinPoints: 0, DiscountPercent: decimal.Zero},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	dctx := s.dctx(1000)
	dctx.CustomerID = "cust-new"
	result, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	s.Require().Len(result.UpsellSuggestions, 1)
	s.Equal(dto.UpsellTypeLoyaltyEnrollment, result.UpsellSuggestions[0].Type)
}

func (s *DiscountOrchestratorSuite) TestCalculateIsReadOnly() {
	s.seedCode("TEN", 10, nil)

	dctx := s.dctx(1000)
	dctx.PromoCode = "TEN"
	first, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)
	second, err := s.orchestrator.Calculate(s.GetContext(), dctx)
	s.NoError(err)

	// Same context, same result: no usage was recorded by calculating
	s.True(first.FinalSubtotal.Equal(second.FinalSubtotal))
	codes, err := s.codes.ListCodes(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Require().Len(codes, 1)
	s.Equal(0, codes[0].TimesUsed)
}
