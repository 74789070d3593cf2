// Package server exposes the order orchestration HTTP API over gin.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openmarket/orders/internal/domains/orders/ports"
)

// Options configures cross-cutting router concerns.
type Options struct {
	// ServiceName tags otelgin spans. Tracing is skipped when empty.
	ServiceName string
	// Logger feeds the access log. Logging is skipped when nil.
	Logger *slog.Logger
}

// NewRouter builds the gin engine with every order route registered. The
// /async twins mirror their blocking counterparts: same inputs, same
// response shapes.
func NewRouter(service ports.Service, async ports.AsyncService, opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	if opts.Logger != nil {
		engine.Use(AccessLog(opts.Logger))
	}
	if opts.ServiceName != "" {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := NewOrderAPI(service, async)
	orders := engine.Group("/api/orders")
	{
		orders.POST("", api.CreateOrder)
		orders.POST("/async", api.CreateOrderAsync)
		orders.GET("", api.ListOrders)
		orders.GET("/async", api.ListOrdersAsync)
		orders.GET("/:id", api.GetOrder)
		orders.GET("/:id/async", api.GetOrderAsync)
		orders.PUT("/:id", api.UpdateOrder)
		orders.PUT("/:id/async", api.UpdateOrderAsync)
		orders.DELETE("/:id", api.DeleteOrder)
		orders.GET("/user/:userId", api.ListOrdersByUser)
		orders.GET("/user/:userId/async", api.ListOrdersByUserAsync)
		orders.GET("/status/:status", api.ListOrdersByStatus)
		orders.GET("/status/:status/async", api.ListOrdersByStatusAsync)
	}
	return engine
}
