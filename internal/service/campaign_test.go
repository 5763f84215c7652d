package service

import (
	"testing"
	"time"

	"github.com/quotekit/quotekit/internal/domain/campaign"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/testutil"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CampaignServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CampaignService
}

func TestCampaignService(t *testing.T) {
	suite.Run(t, new(CampaignServiceSuite))
}

func (s *CampaignServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCampaignService(testServiceParams(&s.BaseServiceTestSuite))
}

func (s *CampaignServiceSuite) newCampaign(name string, startsIn, runsFor time.Duration) *campaign.SeasonalCampaign {
	now := s.GetNow()
	return &campaign.SeasonalCampaign{
		Name:          name,
		DiscountType:  types.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(15),
		StartsAt:      now.Add(startsIn),
		ExpiresAt:     now.Add(startsIn + runsFor),
		IsActive:      true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
}

func (s *CampaignServiceSuite) TestCreateValidatesWindow() {
	empty := s.newCampaign("backwards", 0, 0)
	empty.ExpiresAt = empty.StartsAt.Add(-time.Hour)
	_, err := s.service.CreateCampaign(s.GetContext(), empty)
	s.Error(err)
}

func (s *CampaignServiceSuite) TestCreateRejectsPercentOverHundred() {
	c := s.newCampaign("too generous", 0, 7*24*time.Hour)
	c.DiscountValue = decimal.NewFromInt(150)
	_, err := s.service.CreateCampaign(s.GetContext(), c)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CampaignServiceSuite) TestGetActiveFiltersByWindow() {
	running, err := s.service.CreateCampaign(s.GetContext(), s.newCampaign("running", -24*time.Hour, 7*24*time.Hour))
	s.NoError(err)
	_, err = s.service.CreateCampaign(s.GetContext(), s.newCampaign("upcoming", 24*time.Hour, 7*24*time.Hour))
	s.NoError(err)
	_, err = s.service.CreateCampaign(s.GetContext(), s.newCampaign("finished", -14*24*time.Hour, 7*24*time.Hour))
	s.NoError(err)

	disabled := s.newCampaign("disabled", -24*time.Hour, 7*24*time.Hour)
	disabled.IsActive = false
	_, err = s.service.CreateCampaign(s.GetContext(), disabled)
	s.NoError(err)

	active, err := s.service.GetActive(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Require().Len(active, 1)
	s.Equal(running.ID, active[0].Campaign.ID)
}

func (s *CampaignServiceSuite) TestGetActiveCountdown() {
	c := s.newCampaign("ending", -24*time.Hour, 24*time.Hour+2*24*time.Hour+3*time.Hour+30*time.Minute)
	_, err := s.service.CreateCampaign(s.GetContext(), c)
	s.NoError(err)

	active, err := s.service.GetActive(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Require().Len(active, 1)
	s.Equal(2, active[0].Countdown.Days)
	s.Equal(3, active[0].Countdown.Hours)
	s.Equal(30, active[0].Countdown.Minutes)
	s.False(active[0].ExpiringSoon)
}

func (s *CampaignServiceSuite) TestGetActiveFlagsExpiringSoon() {
	_, err := s.service.CreateCampaign(s.GetContext(), s.newCampaign("ending", -24*time.Hour, 24*time.Hour+36*time.Hour))
	s.NoError(err)

	active, err := s.service.GetActive(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Require().Len(active, 1)
	s.True(active[0].ExpiringSoon)
}

func (s *CampaignServiceSuite) TestUpdateInvalidatesCachedCampaigns() {
	created, err := s.service.CreateCampaign(s.GetContext(), s.newCampaign("running", -24*time.Hour, 7*24*time.Hour))
	s.NoError(err)

	active, err := s.service.GetActive(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Len(active, 1)

	created.IsActive = false
	_, err = s.service.UpdateCampaign(s.GetContext(), created)
	s.NoError(err)

	active, err = s.service.GetActive(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Empty(active)
}
