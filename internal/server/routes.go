package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/health", handler.Health)

	store := e.Group("/store/:slug")
	h.Product.RegisterRoutes(store)

	// カート・注文はセッションcookie必須
	session := middleware.CartSession(cfg)
	h.Cart.RegisterRoutes(store, session)
	h.Checkout.RegisterRoutes(store, session)
}
