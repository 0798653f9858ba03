package routes

import (
	"github.com/gin-gonic/gin"

	"quickbite-backend/controllers"
	"quickbite-backend/middleware"
)

// RegisterAuthRoutes sets up public authentication routes.
func RegisterAuthRoutes(r *gin.Engine, ac *controllers.AccountController) {
	auth := r.Group("/auth")
	auth.POST("/register", ac.Register)
	auth.POST("/login", ac.Login)
}

// RegisterUserRoutes sets up profile and favorites routes.
func RegisterUserRoutes(r *gin.Engine, ac *controllers.AccountController) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.GET("/me", ac.GetMe)
	users.GET("/me/favorites", ac.ListFavorites)
	users.POST("/me/favorites/:restaurant_id", ac.AddFavorite)
	users.DELETE("/me/favorites/:restaurant_id", ac.RemoveFavorite)
}

// RegisterRestaurantRoutes sets up catalog routes.
func RegisterRestaurantRoutes(r *gin.Engine, rc *controllers.RestaurantController, oc *controllers.OrderController, adc *controllers.AdminController) {
	restaurants := r.Group("/restaurants")

	// Public browsing
	restaurants.GET("", rc.ListRestaurants)
	restaurants.GET("/:id", rc.GetRestaurant)
	restaurants.GET("/:id/menu", rc.GetMenu)
	restaurants.GET("/:id/reviews", rc.ListReviews)

	authed := restaurants.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.POST("", middleware.RequireRole("restaurant"), rc.CreateRestaurant)
	authed.PUT("/:id/active", rc.SetActive)
	authed.POST("/:id/categories", middleware.RequireRole("restaurant"), rc.CreateCategory)
	authed.POST("/:id/items", middleware.RequireRole("restaurant"), rc.CreateMenuItem)
	authed.POST("/:id/reviews", middleware.RequireRole("customer"), rc.CreateReview)
	authed.GET("/:id/orders", oc.ListRestaurantOrders)

	adminRoutes := restaurants.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	adminRoutes.PUT("/:id/verify", rc.VerifyRestaurant)
	adminRoutes.PUT("/:id/commission", adc.SetCommission)
	adminRoutes.GET("/:id/commission", adc.GetCommission)

	items := r.Group("/items")
	items.Use(middleware.AuthMiddleware(), middleware.RequireRole("restaurant"))
	items.PUT("/:id", rc.UpdateMenuItem)
	items.DELETE("/:id", rc.DeleteMenuItem)

	categories := r.Group("/categories")
	categories.Use(middleware.AuthMiddleware(), middleware.RequireRole("restaurant"))
	categories.DELETE("/:id", rc.DeleteCategory)
}

// RegisterOrderRoutes sets up order lifecycle routes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	orders.POST("", middleware.RequireRole("customer"), oc.CreateOrder)
	orders.GET("", middleware.RequireRole("customer"), oc.ListMyOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.PUT("/:id/status", oc.TransitionOrder)
	orders.GET("/:id/tracking", oc.GetTracking)
	orders.PUT("/:id/payment", middleware.AdminOnly(), oc.SetPaymentStatus)
	orders.POST("/:id/delivery-review", middleware.RequireRole("customer"), oc.CreateDeliveryReview)
}

// RegisterDeliveryRoutes sets up assignment, earnings and zone routes.
func RegisterDeliveryRoutes(r *gin.Engine, dc *controllers.DeliveryController, ac *controllers.AccountController, oc *controllers.OrderController) {
	partners := r.Group("/partners")
	partners.Use(middleware.AuthMiddleware(), middleware.RequireRole("delivery"))
	partners.PUT("/me/status", ac.UpdatePartnerStatus)
	partners.GET("/me/orders", oc.ListPartnerOrders)

	assignments := r.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware())
	assignments.POST("", middleware.AdminOnly(), dc.CreateAssignment)
	assignments.GET("", middleware.RequireRole("delivery"), dc.ListMyAssignments)
	assignments.PUT("/:id/accept", middleware.RequireRole("delivery"), dc.AcceptAssignment)
	assignments.PUT("/:id/reject", middleware.RequireRole("delivery"), dc.RejectAssignment)
	assignments.PUT("/:id/complete", middleware.RequireRole("delivery"), dc.CompleteAssignment)

	earnings := r.Group("/earnings")
	earnings.Use(middleware.AuthMiddleware())
	earnings.POST("", middleware.AdminOnly(), dc.CreateEarnings)
	earnings.GET("", middleware.RequireRole("delivery"), dc.ListMyEarnings)

	zones := r.Group("/zones")
	zones.GET("", dc.ListZones)
	zones.POST("", middleware.AuthMiddleware(), middleware.AdminOnly(), dc.CreateZone)
}

// RegisterPromotionRoutes sets up promo code routes.
func RegisterPromotionRoutes(r *gin.Engine, pc *controllers.PromotionController) {
	promotions := r.Group("/promotions")
	promotions.Use(middleware.AuthMiddleware())
	promotions.POST("/validate", pc.ValidatePromotion)
	promotions.GET("/:code", pc.GetPromotion)

	adminRoutes := promotions.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.POST("", pc.CreatePromotion)
	adminRoutes.GET("", pc.ListPromotions)
	adminRoutes.DELETE("/:code", pc.DeactivatePromotion)
}

// RegisterPlatformRoutes sets up payout, loyalty, fraud and support routes.
func RegisterPlatformRoutes(r *gin.Engine, adc *controllers.AdminController) {
	payouts := r.Group("/payouts")
	payouts.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	payouts.POST("", adc.CreatePayout)
	payouts.GET("", adc.ListPayouts)
	payouts.PUT("/:id/process", adc.ProcessPayout)
	payouts.PUT("/:id/complete", adc.CompletePayout)
	payouts.PUT("/:id/fail", adc.FailPayout)

	loyalty := r.Group("/loyalty")
	loyalty.GET("", adc.GetLoyaltyProgram)
	loyalty.POST("", middleware.AuthMiddleware(), middleware.AdminOnly(), adc.CreateLoyaltyProgram)
	loyalty.POST("/redeem", middleware.AuthMiddleware(), middleware.RequireRole("customer"), adc.RedeemLoyaltyPoints)

	fraud := r.Group("/fraud-alerts")
	fraud.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	fraud.POST("", adc.CreateFraudAlert)
	fraud.GET("", adc.ListFraudAlerts)
	fraud.PUT("/:id/assign", adc.AssignFraudAlert)
	fraud.PUT("/:id/resolve", adc.ResolveFraudAlert)

	tickets := r.Group("/support-tickets")
	tickets.Use(middleware.AuthMiddleware())
	tickets.POST("", adc.CreateSupportTicket)
	tickets.GET("", adc.ListSupportTickets)
	tickets.PUT("/:id/assign", middleware.AdminOnly(), adc.AssignSupportTicket)
	tickets.PUT("/:id/resolve", middleware.AdminOnly(), adc.ResolveSupportTicket)
}
