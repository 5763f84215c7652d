package repository

import (
	"github.com/quotekit/quotekit/internal/domain/approval"
	"github.com/quotekit/quotekit/internal/domain/campaign"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	"github.com/quotekit/quotekit/internal/domain/discountrule"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	"github.com/quotekit/quotekit/internal/domain/volumetier"
	"github.com/quotekit/quotekit/internal/repository/inmemory"
)

// The engine consumes persistence through the domain Repository interfaces
// only. The in-memory implementations are the single backend for now; a
// database-backed set plugs in here without touching the services.

func NewDiscountCodeRepository() discountcode.Repository {
	return inmemory.NewDiscountCodeStore()
}

func NewDiscountRuleRepository() discountrule.Repository {
	return inmemory.NewDiscountRuleStore()
}

func NewLoyaltyRepository() loyalty.Repository {
	return inmemory.NewLoyaltyStore()
}

func NewVolumeTierRepository() volumetier.Repository {
	return inmemory.NewVolumeTierStore()
}

func NewCampaignRepository() campaign.Repository {
	return inmemory.NewCampaignStore()
}

func NewApprovalRepository() approval.Repository {
	return inmemory.NewApprovalStore()
}
