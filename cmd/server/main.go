package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/api"
	v1 "github.com/quotekit/quotekit/internal/api/v1"
	"github.com/quotekit/quotekit/internal/cache"
	"github.com/quotekit/quotekit/internal/clock"
	"github.com/quotekit/quotekit/internal/config"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/notifier"
	"github.com/quotekit/quotekit/internal/repository"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/quotekit/quotekit/internal/validator"
	"go.uber.org/fx"
)

// @title QuoteKit Discount Engine API
// @version 1.0
// @description Discount calculation service for commercial proposals
// @BasePath /v1

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			clock.New,

			// Cache
			provideCache,

			// Notifier
			provideNotifier,

			// Repositories
			repository.NewDiscountCodeRepository,
			repository.NewDiscountRuleRepository,
			repository.NewLoyaltyRepository,
			repository.NewVolumeTierRepository,
			repository.NewCampaignRepository,
			repository.NewApprovalRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPromoCodeService,
			service.NewRuleEvaluationService,
			service.NewLoyaltyService,
			service.NewVolumeTierService,
			service.NewCampaignService,
			service.NewApprovalService,
			service.NewDiscountOrchestrator,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(cfg *config.Configuration) cache.Cache {
	return cache.NewInMemoryCache(cfg.Cache.Enabled)
}

func provideNotifier(log *logger.Logger) notifier.Notifier {
	return notifier.NewLogNotifier(log)
}

func provideHandlers(
	logger *logger.Logger,
	orchestrator service.DiscountOrchestrator,
	codeService service.PromoCodeService,
	ruleService service.RuleEvaluationService,
	loyaltyService service.LoyaltyService,
	tierService service.VolumeTierService,
	campaignService service.CampaignService,
	approvalService service.ApprovalService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(),
		Discount:   v1.NewDiscountHandler(orchestrator, codeService, logger),
		PromoCode:  v1.NewPromoCodeHandler(codeService, logger),
		Rule:       v1.NewRuleHandler(ruleService, logger),
		Loyalty:    v1.NewLoyaltyHandler(loyaltyService, logger),
		VolumeTier: v1.NewVolumeTierHandler(tierService, logger),
		Campaign:   v1.NewCampaignHandler(campaignService, logger),
		Approval:   v1.NewApprovalHandler(approvalService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
