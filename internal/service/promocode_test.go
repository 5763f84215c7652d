package service

import (
	"testing"
	"time"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/testutil"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PromoCodeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PromoCodeService
}

func TestPromoCodeService(t *testing.T) {
	suite.Run(t, new(PromoCodeServiceSuite))
}

func (s *PromoCodeServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPromoCodeService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *PromoCodeServiceSuite) newCode(code string) *discountcode.DiscountCode {
	return &discountcode.DiscountCode{
		Code:      code,
		Type:      types.DiscountTypePercent,
		Value:     decimal.NewFromInt(10),
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
}

func (s *PromoCodeServiceSuite) TestCreateCodeNormalizesAndRejectsDuplicates() {
	created, err := s.service.CreateCode(s.GetContext(), s.newCode("  summer10 "))
	s.NoError(err)
	s.Equal("SUMMER10", created.Code)
	s.NotEmpty(created.ID)

	_, err = s.service.CreateCode(s.GetContext(), s.newCode("Summer10"))
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PromoCodeServiceSuite) TestValidateIsCaseInsensitive() {
	_, err := s.service.CreateCode(s.GetContext(), s.newCode("SUMMER10"))
	s.NoError(err)

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "summer10",
		OrderAmount: decimal.NewFromInt(200),
	})
	s.NoError(err)
	s.True(result.Valid)
	s.Equal("SUMMER10", result.Code)
	s.True(result.DiscountAmount.Equal(decimal.NewFromInt(20)))
}

func (s *PromoCodeServiceSuite) TestValidateUnknownCode() {
	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "NOPE",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Equal("Invalid discount code", result.Reason)
}

func (s *PromoCodeServiceSuite) TestValidateWindow() {
	now := s.GetNow()

	notStarted := s.newCode("SOON")
	notStarted.StartsAt = lo.ToPtr(now.Add(24 * time.Hour))
	_, err := s.service.CreateCode(s.GetContext(), notStarted)
	s.NoError(err)

	expired := s.newCode("LATE")
	expired.ExpiresAt = lo.ToPtr(now.Add(-time.Hour))
	_, err = s.service.CreateCode(s.GetContext(), expired)
	s.NoError(err)

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "SOON",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Equal("This code is not active yet", result.Reason)

	result, err = s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "LATE",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Equal("This code has expired", result.Reason)
}

func (s *PromoCodeServiceSuite) TestValidateMinOrderAmount() {
	code := s.newCode("BIG50")
	code.MinOrderAmount = lo.ToPtr(decimal.NewFromInt(500))
	_, err := s.service.CreateCode(s.GetContext(), code)
	s.NoError(err)

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "BIG50",
		OrderAmount: decimal.NewFromInt(499),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Contains(result.Reason, "Order must be at least")

	result, err = s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "BIG50",
		OrderAmount: decimal.NewFromInt(500),
	})
	s.NoError(err)
	s.True(result.Valid)
}

func (s *PromoCodeServiceSuite) TestValidateMaxDiscountCap() {
	code := s.newCode("SUMMER10")
	code.MaxDiscountAmount = lo.ToPtr(decimal.NewFromInt(500))
	_, err := s.service.CreateCode(s.GetContext(), code)
	s.NoError(err)

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "SUMMER10",
		OrderAmount: decimal.NewFromInt(10000),
	})
	s.NoError(err)
	s.True(result.Valid)
	// 10% of 10,000 is 1,000 but the cap holds it at 500
	s.True(result.DiscountAmount.Equal(decimal.NewFromInt(500)))
}

func (s *PromoCodeServiceSuite) TestValidatePerCustomerCap() {
	code := s.newCode("ONCE")
	code.MaxUsesPerCustomer = lo.ToPtr(1)
	created, err := s.service.CreateCode(s.GetContext(), code)
	s.NoError(err)

	err = s.service.RecordUsage(s.GetContext(), &discountcode.Redemption{
		CodeID:         created.ID,
		CustomerID:     "cust-1",
		OrderAmount:    decimal.NewFromInt(100),
		DiscountAmount: decimal.NewFromInt(10),
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	})
	s.NoError(err)

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "ONCE",
		CustomerID:  "cust-1",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Equal("You have already used this code the maximum number of times", result.Reason)

	// A different customer is unaffected
	result, err = s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "ONCE",
		CustomerID:  "cust-2",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.True(result.Valid)
}

func (s *PromoCodeServiceSuite) TestRecordUsageEnforcesTotalCap() {
	code := s.newCode("LIMITED")
	code.MaxUsesTotal = lo.ToPtr(1)
	created, err := s.service.CreateCode(s.GetContext(), code)
	s.NoError(err)

	redemption := func(customer string) *discountcode.Redemption {
		return &discountcode.Redemption{
			CodeID:         created.ID,
			CustomerID:     customer,
			OrderAmount:    decimal.NewFromInt(100),
			DiscountAmount: decimal.NewFromInt(10),
			BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
		}
	}

	s.NoError(s.service.RecordUsage(s.GetContext(), redemption("cust-1")))

	err = s.service.RecordUsage(s.GetContext(), redemption("cust-2"))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	result, err := s.service.Validate(s.GetContext(), dto.ValidateCodeRequest{
		TenantID:    types.DefaultTenantID,
		Code:        "LIMITED",
		OrderAmount: decimal.NewFromInt(100),
	})
	s.NoError(err)
	s.False(result.Valid)
	s.Equal("This code has reached its usage limit", result.Reason)
}

func (s *PromoCodeServiceSuite) TestRecordUsageAccumulatesTotals() {
	created, err := s.service.CreateCode(s.GetContext(), s.newCode("TRACKED"))
	s.NoError(err)

	for i := 0; i < 3; i++ {
		s.NoError(s.service.RecordUsage(s.GetContext(), &discountcode.Redemption{
			CodeID:         created.ID,
			CustomerID:     "cust-1",
			OrderAmount:    decimal.NewFromInt(100),
			DiscountAmount: decimal.NewFromInt(10),
			BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
		}))
	}

	code, err := s.service.GetCode(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(3, code.TimesUsed)
	s.True(code.TotalDiscountGiven.Equal(decimal.NewFromInt(30)))
}
