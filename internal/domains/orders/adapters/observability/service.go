// Package observability decorates the orders application port with tracing,
// structured logging, and metrics. Both the blocking handlers and the pool
// workers call through the same decorated port, so the two execution paths
// emit identical telemetry.
package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/response"
)

const tracerName = "github.com/openmarket/orders/internal/domains/orders/adapters/observability/service"

// Service instruments an orders application port.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder validates, verifies the user, and persists a new order.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.Int64("order.user_id", input.UserID),
		attribute.Int("order.item_count", len(input.Items)),
	)
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("user.id", input.UserID), slog.Int("items", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("user.id", input.UserID))
	}
	s.metrics.recordCreated(ctx, result.Status)
	s.logInfo(ctx, "order created",
		slog.Int64("order.id", result.ID),
		slog.String("order.total", result.TotalPrice.String()),
	)
	return result, nil
}

// GetOrder loads a single order aggregate.
func (s *Service) GetOrder(ctx context.Context, id int64) (*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.Int64("order.id", id))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

// ListOrders pages through all live orders.
func (s *Service) ListOrders(ctx context.Context, input types.ListInput) (*response.Page[types.OrderView], error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders", attribute.Int("page", input.Page))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int("page", input.Page))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Items)))
	return result, nil
}

// ListOrdersByUser pages through one user's live orders.
func (s *Service) ListOrdersByUser(ctx context.Context, userID int64, input types.ListInput) (*response.Page[types.OrderView], error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrdersByUser",
		attribute.Int64("order.user_id", userID),
		attribute.Int("page", input.Page),
	)
	defer span.End()

	result, err := s.inner.ListOrdersByUser(ctx, userID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by user", slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Items)))
	return result, nil
}

// ListOrdersByStatus pages through live orders in one status.
func (s *Service) ListOrdersByStatus(ctx context.Context, status domain.Status, input types.ListInput) (*response.Page[types.OrderView], error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrdersByStatus",
		attribute.String("order.status", string(status)),
		attribute.Int("page", input.Page),
	)
	defer span.End()

	result, err := s.inner.ListOrdersByStatus(ctx, status, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by status", slog.String("status", string(status)))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result.Items)))
	return result, nil
}

// UpdateOrder applies a partial update under optimistic concurrency.
func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOrder", attribute.Int64("order.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", input.ID))
	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", input.ID))
	}
	s.metrics.recordUpdated(ctx, result.Status)
	s.logInfo(ctx, "order updated", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

// DeleteOrder soft-deletes an order.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.Int64("order.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersUpdated metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	ordersUpdated, _ := m.Int64Counter("orders.service.updated", metric.WithDescription("Number of orders updated"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders soft-deleted"))
	return serviceMetrics{
		ordersCreated: ordersCreated,
		ordersUpdated: ordersUpdated,
		ordersDeleted: ordersDeleted,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.ordersUpdated, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
