package service

import (
	"github.com/quotekit/quotekit/internal/cache"
	"github.com/quotekit/quotekit/internal/clock"
	"github.com/quotekit/quotekit/internal/config"
	"github.com/quotekit/quotekit/internal/domain/approval"
	"github.com/quotekit/quotekit/internal/domain/campaign"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	"github.com/quotekit/quotekit/internal/domain/discountrule"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	"github.com/quotekit/quotekit/internal/domain/volumetier"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/notifier"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger   *logger.Logger
	Config   *config.Configuration
	Clock    clock.Clock
	Cache    cache.Cache
	Notifier notifier.Notifier

	// Repositories
	CodeRepo     discountcode.Repository
	RuleRepo     discountrule.Repository
	LoyaltyRepo  loyalty.Repository
	TierSetRepo  volumetier.Repository
	CampaignRepo campaign.Repository
	ApprovalRepo approval.Repository
}

// NewServiceParams assembles the shared dependency set for the service layer
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	clk clock.Clock,
	cacheStore cache.Cache,
	eventNotifier notifier.Notifier,
	codeRepo discountcode.Repository,
	ruleRepo discountrule.Repository,
	loyaltyRepo loyalty.Repository,
	tierSetRepo volumetier.Repository,
	campaignRepo campaign.Repository,
	approvalRepo approval.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Clock:        clk,
		Cache:        cacheStore,
		Notifier:     eventNotifier,
		CodeRepo:     codeRepo,
		RuleRepo:     ruleRepo,
		LoyaltyRepo:  loyaltyRepo,
		TierSetRepo:  tierSetRepo,
		CampaignRepo: campaignRepo,
		ApprovalRepo: approvalRepo,
	}
}
