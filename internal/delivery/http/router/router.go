// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	ReviewHandler   *handler.ReviewHandler
	CategoryHandler *handler.CategoryHandler
	BannerHandler   *handler.BannerHandler
	FavoriteHandler *handler.FavoriteHandler
	SessionMW       *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		params: params,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	sessionMW := r.params.SessionMW

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.Signup)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/google", r.params.AuthHandler.GoogleLogin)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/logout", r.params.AuthHandler.Logout)
	}

	// Product catalog. Reads are public; mutations are back-office only.
	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.params.ProductHandler.List)
		productGroup.GET("/:id", r.params.ProductHandler.Get)

		productGroup.POST("", r.params.ProductHandler.Create, sessionMW.RequireAdmin)
		productGroup.PATCH("/publish/:id", r.params.ProductHandler.SetPublished, sessionMW.RequireAdmin)
		productGroup.PATCH("/:id", r.params.ProductHandler.Update, sessionMW.RequireAdmin)
		productGroup.DELETE("/:id", r.params.ProductHandler.Delete, sessionMW.RequireAdmin)

		// Reviews are addressed through their product.
		productGroup.POST("/:id/reviews", r.params.ReviewHandler.Create, sessionMW.RequireAuthenticated)
		productGroup.PATCH("/:id/reviews/:reviewId", r.params.ReviewHandler.Update, sessionMW.RequireAuthenticated)
		productGroup.DELETE("/:id/reviews/:reviewId", r.params.ReviewHandler.Delete, sessionMW.RequireAuthenticated)
		productGroup.DELETE("/:id/reviews/:reviewId/images", r.params.ReviewHandler.DeleteImages, sessionMW.RequireAuthenticated)
	}

	categoryGroup := api.Group("/categories")
	{
		categoryGroup.GET("", r.params.CategoryHandler.List)
		categoryGroup.GET("/:slug/products", r.params.CategoryHandler.GetProducts)
		categoryGroup.POST("", r.params.CategoryHandler.Create, sessionMW.RequireAdmin)
		categoryGroup.DELETE("", r.params.CategoryHandler.Delete, sessionMW.RequireAdmin)
	}

	bannerGroup := api.Group("/banners")
	{
		bannerGroup.GET("", r.params.BannerHandler.List)
		bannerGroup.POST("", r.params.BannerHandler.Create, sessionMW.RequireAdmin)
		bannerGroup.PATCH("/:id", r.params.BannerHandler.Update, sessionMW.RequireAdmin)
		bannerGroup.DELETE("/:id", r.params.BannerHandler.Delete, sessionMW.RequireAdmin)
	}

	// Favorite authorization rules live in the usecase, so no route guard.
	favoriteGroup := api.Group("/favorites")
	{
		favoriteGroup.GET("", r.params.FavoriteHandler.List)
		favoriteGroup.GET("/:productId", r.params.FavoriteHandler.Status)
		favoriteGroup.POST("/:productId/toggle", r.params.FavoriteHandler.Toggle)
	}
}
