package server

import (
	"github.com/gin-gonic/gin"

	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

// Handlers bundles the per-context APIs served by the router.
type Handlers struct {
	UserAPI    UserAPI
	CatalogAPI CatalogAPI
	OrderAPI   OrderAPI
}

// Deps carries the services the router needs.
type Deps struct {
	Users     userports.Service
	Catalog   catalogports.Service
	Orders    ordersports.Service
	Workflows ordersports.WorkflowOrchestrator
}

// NewRouter builds the Gin engine with the full route table. The Authenticate
// middleware runs before any order or admin handler so unauthenticated callers
// cannot probe status validation errors.
func NewRouter(deps Deps, middleware ...gin.HandlerFunc) *gin.Engine {
	handlers := Handlers{
		UserAPI:    NewUserAPI(deps.Users),
		CatalogAPI: NewCatalogAPI(deps.Catalog),
		OrderAPI:   NewOrderAPI(deps.Orders, deps.Workflows),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	api := router.Group("/api")

	api.POST("/users/register", handlers.UserAPI.Register)
	api.POST("/users/login", handlers.UserAPI.Login)
	api.POST("/users/logout", Authenticate(deps.Users), handlers.UserAPI.Logout)

	api.GET("/books", handlers.CatalogAPI.ListBooks)
	api.GET("/books/:bookId", handlers.CatalogAPI.GetBook)

	authed := api.Group("", Authenticate(deps.Users))
	authed.POST("/orders", handlers.OrderAPI.PlaceOrder)
	authed.GET("/orders", handlers.OrderAPI.ListMyOrders)
	authed.GET("/orders/:orderId", handlers.OrderAPI.GetOrder)

	admin := api.Group("/admin", Authenticate(deps.Users), RequireAdmin())
	admin.POST("/books", handlers.CatalogAPI.AddBook)
	admin.PUT("/books/:bookId", handlers.CatalogAPI.UpdateBook)
	admin.DELETE("/books/:bookId", handlers.CatalogAPI.DeleteBook)
	admin.GET("/orders", handlers.OrderAPI.ListAllOrders)
	admin.PUT("/orders/:orderId/status", handlers.OrderAPI.UpdateOrderStatus)

	return router
}
