// Package gateway mediates all calls to the remote user and product
// services behind per-dependency circuit breakers.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/breaker"
)

// UserClient is the raw transport for user lookups.
type UserClient interface {
	GetUser(ctx context.Context, id int64) (*ports.UserSummary, error)
}

// ProductClient is the raw transport for product lookups.
type ProductClient interface {
	GetProduct(ctx context.Context, id int64) (*ports.ProductSummary, error)
}

// Gateway guards the remote dependencies. When a breaker is open or a call
// fails, lookups fall back to Absent: callers cannot distinguish an outage
// from a genuinely missing resource.
type Gateway struct {
	users    UserClient
	products ProductClient
	userCB   *breaker.Breaker
	prodCB   *breaker.Breaker
	flight   singleflight.Group
	logger   *slog.Logger
}

// Option configures the gateway.
type Option func(*Gateway)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithBreakerSettings applies the same settings to both dependency breakers.
func WithBreakerSettings(settings breaker.Settings) Option {
	return func(g *Gateway) {
		g.userCB = breaker.New(settings)
		g.prodCB = breaker.New(settings)
	}
}

// New wires the gateway with defaults: one breaker per dependency.
func New(users UserClient, products ProductClient, opts ...Option) *Gateway {
	g := &Gateway{
		users:    users,
		products: products,
		userCB:   breaker.New(breaker.Settings{}),
		prodCB:   breaker.New(breaker.Settings{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// FetchUser looks up a user by id. Concurrent lookups of the same id
// collapse into one in-flight call. The fallback result is Absent, never an
// error.
func (g *Gateway) FetchUser(ctx context.Context, id int64) (*ports.UserSummary, error) {
	v, _, _ := g.flight.Do(fmt.Sprintf("user:%d", id), func() (any, error) {
		var summary *ports.UserSummary
		err := g.userCB.Do(func() error {
			found, callErr := g.users.GetUser(ctx, id)
			if callErr != nil {
				return callErr
			}
			summary = found
			return nil
		})
		if err != nil {
			g.logger.Warn("user directory unavailable, returning absent fallback",
				slog.Int64("user.id", id),
				slog.String("breaker.state", g.userCB.State().String()),
				slog.String("error", err.Error()))
			return (*ports.UserSummary)(nil), nil
		}
		return summary, nil
	})
	summary, _ := v.(*ports.UserSummary)
	return summary, nil
}

// FetchProduct looks up a product by id with the same Absent fallback.
func (g *Gateway) FetchProduct(ctx context.Context, id int64) (*ports.ProductSummary, error) {
	v, _, _ := g.flight.Do(fmt.Sprintf("product:%d", id), func() (any, error) {
		var summary *ports.ProductSummary
		err := g.prodCB.Do(func() error {
			found, callErr := g.products.GetProduct(ctx, id)
			if callErr != nil {
				return callErr
			}
			summary = found
			return nil
		})
		if err != nil {
			g.logger.Warn("product catalog unavailable, returning absent fallback",
				slog.Int64("product.id", id),
				slog.String("breaker.state", g.prodCB.State().String()),
				slog.String("error", err.Error()))
			return (*ports.ProductSummary)(nil), nil
		}
		return summary, nil
	})
	summary, _ := v.(*ports.ProductSummary)
	return summary, nil
}

var (
	_ ports.UserDirectory = (*Gateway)(nil)
	_ ports.Catalog       = (*Gateway)(nil)
)
