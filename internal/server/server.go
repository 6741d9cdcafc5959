package server

import (
	"mediastore/internal/handler"
	appmiddleware "mediastore/internal/middleware"
	"mediastore/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo *echo.Echo

	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	downloadHandler *handler.DownloadHandler
	authHandler     *handler.AuthHandler
	adminHandler    *handler.AdminHandler

	authService service.AuthService
}

func NewServer(
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	downloadHandler *handler.DownloadHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	authService service.AuthService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		catalogHandler:  catalogHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		webhookHandler:  webhookHandler,
		downloadHandler: downloadHandler,
		authHandler:     authHandler,
		adminHandler:    adminHandler,
		authService:     authService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	api.Use(appmiddleware.WithUser(s.authService))

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/products", s.catalogHandler.List)
	api.GET("/products/:id", s.catalogHandler.Get)

	// -------- cart --------
	api.GET("/cart", s.cartHandler.Show)
	api.POST("/cart/items", s.cartHandler.AddItem)
	api.DELETE("/cart/items/:id", s.cartHandler.RemoveItem)

	// -------- checkout / payment callbacks --------
	api.POST("/checkout", s.checkoutHandler.Checkout)
	api.GET("/checkout/success", s.checkoutHandler.Success)
	api.POST("/webhook/payment", s.webhookHandler.HandlePayment)

	// -------- downloads --------
	api.GET("/orders/:id/downloads", s.downloadHandler.ListDownloads)
	s.echo.GET("/download", s.downloadHandler.Download)

	// -------- accounts --------
	auth := api.Group("/auth")
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/logout", s.authHandler.Logout)

	// -------- admin --------
	admin := s.echo.Group("/admin")
	admin.POST("/login", s.adminHandler.Login)
	admin.POST("/logout", s.adminHandler.Logout)

	guarded := admin.Group("", appmiddleware.RequireAdmin(s.authService))
	guarded.GET("/products", s.adminHandler.ListProducts)
	guarded.POST("/products", s.adminHandler.CreateProduct)
	guarded.PUT("/products/:id", s.adminHandler.UpdateProduct)
	guarded.DELETE("/products/:id", s.adminHandler.DeleteProduct)
	guarded.POST("/products/:id/stock", s.adminHandler.UpdateStock)
	guarded.GET("/orders", s.adminHandler.ListOrders)
	guarded.GET("/orders/:id", s.adminHandler.GetOrder)
	guarded.POST("/orders/:id/status", s.adminHandler.SetOrderStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
