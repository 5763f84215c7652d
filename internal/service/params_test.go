package service

import (
	"github.com/quotekit/quotekit/internal/testutil"
)

// testServiceParams wires a suite's per-test stores, clock and cache into the
// common service dependency struct
func testServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:   s.GetLogger(),
		Config:   s.GetConfig(),
		Clock:    s.GetClock(),
		Cache:    s.GetCache(),
		Notifier: s.GetNotifier(),

		CodeRepo:     stores.CodeRepo,
		RuleRepo:     stores.RuleRepo,
		LoyaltyRepo:  stores.LoyaltyRepo,
		TierSetRepo:  stores.TierSetRepo,
		CampaignRepo: stores.CampaignRepo,
		ApprovalRepo: stores.ApprovalRepo,
	}
}
