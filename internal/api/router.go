package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/quotekit/quotekit/internal/api/v1"
	"github.com/quotekit/quotekit/internal/rest/middleware"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Discount   *v1.DiscountHandler
	PromoCode  *v1.PromoCodeHandler
	Rule       *v1.RuleHandler
	Loyalty    *v1.LoyaltyHandler
	VolumeTier *v1.VolumeTierHandler
	Campaign   *v1.CampaignHandler
	Approval   *v1.ApprovalHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.ContextMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Discount calculation routes
	discounts := router.Group("/discounts")
	{
		discounts.POST("/calculate", handlers.Discount.Calculate)
		discounts.POST("/codes/validate", handlers.Discount.ValidateCode)
	}

	// Discount code routes
	codes := router.Group("/codes")
	{
		codes.POST("", handlers.PromoCode.CreateCode)
		codes.GET("", handlers.PromoCode.ListCodes)
		codes.GET("/:id", handlers.PromoCode.GetCode)
		codes.PUT("/:id", handlers.PromoCode.UpdateCode)
		codes.DELETE("/:id", handlers.PromoCode.DeleteCode)
		codes.POST("/:id/redemptions", handlers.PromoCode.RecordRedemption)
	}

	// Automatic rule routes
	rules := router.Group("/rules")
	{
		rules.POST("", handlers.Rule.CreateRule)
		rules.GET("", handlers.Rule.ListRules)
		rules.GET("/:id", handlers.Rule.GetRule)
		rules.PUT("/:id", handlers.Rule.UpdateRule)
		rules.DELETE("/:id", handlers.Rule.DeleteRule)
	}

	// Loyalty routes
	loyalty := router.Group("/loyalty")
	{
		loyalty.PUT("/program", handlers.Loyalty.ConfigureProgram)
		loyalty.GET("/program", handlers.Loyalty.GetProgram)
		loyalty.POST("/enroll", handlers.Loyalty.Enroll)
		loyalty.POST("/earn", handlers.Loyalty.EarnPoints)
		loyalty.POST("/redeem", handlers.Loyalty.RedeemPoints)
		loyalty.GET("/accounts/:customer_id", handlers.Loyalty.GetAccount)
		loyalty.GET("/accounts/:customer_id/transactions", handlers.Loyalty.ListTransactions)
	}

	// Volume tier routes
	tiers := router.Group("/tiers")
	{
		tiers.POST("", handlers.VolumeTier.CreateTierSet)
		tiers.GET("", handlers.VolumeTier.ListTierSets)
		tiers.GET("/:id", handlers.VolumeTier.GetTierSet)
		tiers.PUT("/:id", handlers.VolumeTier.UpdateTierSet)
		tiers.DELETE("/:id", handlers.VolumeTier.DeleteTierSet)
	}

	// Campaign routes
	campaigns := router.Group("/campaigns")
	{
		campaigns.POST("", handlers.Campaign.CreateCampaign)
		campaigns.GET("", handlers.Campaign.ListCampaigns)
		campaigns.GET("/active", handlers.Campaign.GetActive)
		campaigns.GET("/:id", handlers.Campaign.GetCampaign)
		campaigns.PUT("/:id", handlers.Campaign.UpdateCampaign)
		campaigns.DELETE("/:id", handlers.Campaign.DeleteCampaign)
	}

	// Approval routes
	approvals := router.Group("/approvals")
	{
		approvals.PUT("/settings", handlers.Approval.ConfigureSettings)
		approvals.GET("/settings", handlers.Approval.GetSettings)
		approvals.POST("", handlers.Approval.CreateRequest)
		approvals.GET("/pending", handlers.Approval.ListPending)
		approvals.GET("/:id", handlers.Approval.GetRequest)
		approvals.POST("/:id/review", handlers.Approval.ReviewRequest)
		approvals.POST("/:id/cancel", handlers.Approval.CancelRequest)
		approvals.POST("/timeouts/process", handlers.Approval.ProcessTimeouts)
	}
}
