package service

import (
	"testing"
	"time"

	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/approval"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/testutil"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ApprovalService
}

func TestApprovalService(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewApprovalService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *ApprovalServiceSuite) configureSettings() *approval.Settings {
	settings := &approval.Settings{
		MaxPercentWithoutApproval: lo.ToPtr(decimal.NewFromInt(15)),
		MaxAmountWithoutApproval:  lo.ToPtr(decimal.NewFromInt(1000)),
		OrderTotalThreshold:       lo.ToPtr(decimal.NewFromInt(50000)),
		RoleLimits: map[string]approval.RoleLimit{
			"estimator": {
				MaxPercent: lo.ToPtr(decimal.NewFromInt(5)),
				MaxAmount:  lo.ToPtr(decimal.NewFromInt(250)),
			},
		},
		EscalationAfterHours: 24,
		AutoRejectAfterHours: 72,
		EscalationApprover:   "user_manager",
		BaseModel:            types.GetDefaultBaseModel(s.GetContext()),
	}
	configured, err := s.service.ConfigureSettings(s.GetContext(), settings)
	s.Require().NoError(err)
	return configured
}

func (s *ApprovalServiceSuite) TestCheckApprovalWithoutSettings() {
	decision, err := s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromInt(90), decimal.NewFromInt(100000), decimal.NewFromInt(200000), "estimator")
	s.NoError(err)
	s.False(decision.Required)
}

func (s *ApprovalServiceSuite) TestCheckApprovalLimitsAreInclusive() {
	s.configureSettings()

	// Exactly at the global percent limit: allowed
	decision, err := s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromInt(15), decimal.NewFromInt(150), decimal.NewFromInt(1000), "")
	s.NoError(err)
	s.False(decision.Required)

	// Just above: approval required
	decision, err = s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromFloat(15.01), decimal.NewFromInt(150), decimal.NewFromInt(1000), "")
	s.NoError(err)
	s.True(decision.Required)
	s.Equal("Discount percent exceeds the approval threshold", decision.Reason)
}

func (s *ApprovalServiceSuite) TestCheckApprovalRoleLimitCheckedFirst() {
	s.configureSettings()

	// 10% clears the global limit but exceeds the estimator's 5%
	decision, err := s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(1000), "estimator")
	s.NoError(err)
	s.True(decision.Required)
	s.Equal("Discount percent exceeds your role limit", decision.Reason)

	// A role with no configured limit falls through to the global thresholds
	decision, err = s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(1000), "owner")
	s.NoError(err)
	s.False(decision.Required)
}

func (s *ApprovalServiceSuite) TestCheckApprovalOrderTotalTrigger() {
	s.configureSettings()

	// A tiny discount on a huge order still needs sign-off; this trigger is
	// greater-or-equal, unlike the limit checks
	decision, err := s.service.CheckApprovalRequired(s.GetContext(), types.DefaultTenantID,
		decimal.NewFromInt(1), decimal.NewFromInt(500), decimal.NewFromInt(50000), "")
	s.NoError(err)
	s.True(decision.Required)
	s.Equal("Order total requires discount approval", decision.Reason)
}

func (s *ApprovalServiceSuite) createRequest() *dto.ApprovalRequestResponse {
	request, err := s.service.CreateRequest(s.GetContext(), types.DefaultTenantID, dto.CreateApprovalRequest{
		ProposalID:      "prop-1",
		DiscountPercent: decimal.NewFromInt(20),
		DiscountAmount:  decimal.NewFromInt(2000),
		OrderTotal:      decimal.NewFromInt(10000),
		Reason:          "Repeat customer negotiation",
	})
	s.Require().NoError(err)
	return request
}

func (s *ApprovalServiceSuite) TestRequestLifecycleApprove() {
	s.configureSettings()
	created := s.createRequest()
	s.Equal(types.ApprovalStatusPending, created.ApprovalStatus)
	s.NotEmpty(created.ShortRef)

	pending, err := s.service.ListPending(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Len(pending, 1)

	reviewed, err := s.service.ReviewRequest(s.GetContext(), created.ID, dto.ReviewApprovalRequest{
		Action: types.ApprovalActionApprove,
		Note:   "ok for this customer",
	})
	s.NoError(err)
	s.Equal(types.ApprovalStatusApproved, reviewed.ApprovalStatus)
	s.Equal("ok for this customer", reviewed.ReviewNote)
	s.NotNil(reviewed.ReviewedAt)

	// Terminal states cannot be re-reviewed
	_, err = s.service.ReviewRequest(s.GetContext(), created.ID, dto.ReviewApprovalRequest{
		Action: types.ApprovalActionReject,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ApprovalServiceSuite) TestRequestLifecycleCounter() {
	s.configureSettings()
	created := s.createRequest()

	reviewed, err := s.service.ReviewRequest(s.GetContext(), created.ID, dto.ReviewApprovalRequest{
		Action:         types.ApprovalActionCounter,
		CounterPercent: lo.ToPtr(decimal.NewFromInt(12)),
	})
	s.NoError(err)
	s.Equal(types.ApprovalStatusApproved, reviewed.ApprovalStatus)
	s.Require().NotNil(reviewed.CounterPercent)
	s.True(reviewed.CounterPercent.Equal(decimal.NewFromInt(12)))
}

func (s *ApprovalServiceSuite) TestCounterRequiresTerms() {
	s.configureSettings()
	created := s.createRequest()

	_, err := s.service.ReviewRequest(s.GetContext(), created.ID, dto.ReviewApprovalRequest{
		Action: types.ApprovalActionCounter,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ApprovalServiceSuite) TestCancelRequest() {
	s.configureSettings()
	created := s.createRequest()

	cancelled, err := s.service.CancelRequest(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.ApprovalStatusCancelled, cancelled.ApprovalStatus)

	pending, err := s.service.ListPending(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Empty(pending)
}

func (s *ApprovalServiceSuite) TestProcessTimeoutsEscalatesThenExpires() {
	s.configureSettings()
	created := s.createRequest()

	// Inside both windows: nothing happens
	expired, escalated, err := s.service.ProcessTimeouts(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal(0, expired)
	s.Equal(0, escalated)

	// Past the escalation window
	s.GetClock().Advance(25 * time.Hour)
	expired, escalated, err = s.service.ProcessTimeouts(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal(0, expired)
	s.Equal(1, escalated)

	request, err := s.service.GetRequest(s.GetContext(), created.ID)
	s.NoError(err)
	s.True(request.Escalated)
	s.Equal("user_manager", request.ApproverID)
	s.Equal(types.ApprovalStatusPending, request.ApprovalStatus)

	// Escalation happens once
	s.GetClock().Advance(time.Hour)
	_, escalated, err = s.service.ProcessTimeouts(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal(0, escalated)

	// Past the auto-reject window
	s.GetClock().Advance(50 * time.Hour)
	expired, _, err = s.service.ProcessTimeouts(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Equal(1, expired)

	request, err = s.service.GetRequest(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.ApprovalStatusExpired, request.ApprovalStatus)
}
