package testutil

import (
	"context"
	"time"

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
	"github.com/quotekit/quotekit/internal/repository/inmemory"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/quotekit/quotekit/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CodeRepo     discountcode.Repository
	RuleRepo     discountrule.Repository
	LoyaltyRepo  loyalty.Repository
	TierSetRepo  volumetier.Repository
	CampaignRepo campaign.Repository
	ApprovalRepo approval.Repository
}

// BaseServiceTestSuite provides common functionality for all service test
// suites: a tenant-scoped context, fresh in-memory stores per test, a pinned
// clock and a disabled-by-default fresh cache.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	logger   *logger.Logger
	config   *config.Configuration
	clock    *clock.Mock
	cache    cache.Cache
	notifier notifier.Notifier
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.notifier = notifier.NewLogNotifier(s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.clock = clock.NewMock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	s.cache = cache.NewInMemoryCache(true)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxTenantID, types.DefaultTenantID)
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, types.DefaultUserID)
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CodeRepo:     inmemory.NewDiscountCodeStore(),
		RuleRepo:     inmemory.NewDiscountRuleStore(),
		LoyaltyRepo:  inmemory.NewLoyaltyStore(),
		TierSetRepo:  inmemory.NewVolumeTierStore(),
		CampaignRepo: inmemory.NewCampaignStore(),
		ApprovalRepo: inmemory.NewApprovalStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CodeRepo.(*inmemory.DiscountCodeStore).Clear()
	s.stores.RuleRepo.(*inmemory.DiscountRuleStore).Clear()
	s.stores.LoyaltyRepo.(*inmemory.LoyaltyStore).Clear()
	s.stores.TierSetRepo.(*inmemory.VolumeTierStore).Clear()
	s.stores.CampaignRepo.(*inmemory.CampaignStore).Clear()
	s.stores.ApprovalRepo.(*inmemory.ApprovalStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetClock returns the pinned test clock
func (s *BaseServiceTestSuite) GetClock() *clock.Mock {
	return s.clock
}

// GetCache returns the per-test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetNotifier returns the test notifier
func (s *BaseServiceTestSuite) GetNotifier() notifier.Notifier {
	return s.notifier
}

// GetNow returns the pinned clock's current instant
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.clock.Now()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
