package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/openmarket/orders/internal/domains/orders/adapters/http/mapper"
	types "github.com/openmarket/orders/internal/domains/orders/application/types"
	"github.com/openmarket/orders/internal/domains/orders/domain"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	"github.com/openmarket/orders/internal/shared/apierr"
	"github.com/openmarket/orders/internal/shared/response"
	"github.com/openmarket/orders/internal/shared/taskpool"
)

const deletedMessage = "Order deleted successfully"

// OrderAPI wires HTTP transport with the orders bounded context. The async
// handlers enqueue the identical application call on the worker pool and
// wait for the handle, so both route families answer with the same payloads.
type OrderAPI struct {
	service ports.Service
	async   ports.AsyncService
}

// NewOrderAPI creates an OrderAPI backed by the provided service pair.
func NewOrderAPI(service ports.Service, async ports.AsyncService) OrderAPI {
	return OrderAPI{service: service, async: async}
}

// Post /api/orders
// Create a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	input, ok := bindCreate(c)
	if !ok {
		return
	}
	view, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(ordermapper.FromView(view), "Order created successfully"))
}

// Post /api/orders/async
// Create a new order on the worker pool
func (api *OrderAPI) CreateOrderAsync(c *gin.Context) {
	input, ok := bindCreate(c)
	if !ok {
		return
	}
	view, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*types.OrderView], error) {
		return api.async.CreateOrderAsync(c.Request.Context(), input)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(ordermapper.FromView(view), "Order created successfully"))
}

// Get /api/orders/:id
// Get an order by id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromView(view), ""))
}

// Get /api/orders/:id/async
func (api *OrderAPI) GetOrderAsync(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*types.OrderView], error) {
		return api.async.GetOrderAsync(c.Request.Context(), id)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromView(view), ""))
}

// Get /api/orders
// List orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	list := parseListInput(c)
	page, err := api.service.ListOrders(c.Request.Context(), list)
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Get /api/orders/async
func (api *OrderAPI) ListOrdersAsync(c *gin.Context) {
	list := parseListInput(c)
	page, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*response.Page[types.OrderView]], error) {
		return api.async.ListOrdersAsync(c.Request.Context(), list)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Get /api/orders/user/:userId
// List one user's orders
func (api *OrderAPI) ListOrdersByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	page, err := api.service.ListOrdersByUser(c.Request.Context(), userID, parseListInput(c))
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Get /api/orders/user/:userId/async
func (api *OrderAPI) ListOrdersByUserAsync(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	list := parseListInput(c)
	page, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*response.Page[types.OrderView]], error) {
		return api.async.ListOrdersByUserAsync(c.Request.Context(), userID, list)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Get /api/orders/status/:status
// List orders in one status
func (api *OrderAPI) ListOrdersByStatus(c *gin.Context) {
	status, ok := parseStatusParam(c)
	if !ok {
		return
	}
	page, err := api.service.ListOrdersByStatus(c.Request.Context(), status, parseListInput(c))
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Get /api/orders/status/:status/async
func (api *OrderAPI) ListOrdersByStatusAsync(c *gin.Context) {
	status, ok := parseStatusParam(c)
	if !ok {
		return
	}
	list := parseListInput(c)
	page, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*response.Page[types.OrderView]], error) {
		return api.async.ListOrdersByStatusAsync(c.Request.Context(), status, list)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromViewPage(page), ""))
}

// Put /api/orders/:id
// Update mutable fields of an order
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	input, ok := bindUpdate(c)
	if !ok {
		return
	}
	view, err := api.service.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromView(view), "Order updated successfully"))
}

// Put /api/orders/:id/async
func (api *OrderAPI) UpdateOrderAsync(c *gin.Context) {
	input, ok := bindUpdate(c)
	if !ok {
		return
	}
	view, err := awaitHandle(c.Request.Context(), func() (*taskpool.Handle[*types.OrderView], error) {
		return api.async.UpdateOrderAsync(c.Request.Context(), input)
	})
	if err != nil {
		respondAsyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ordermapper.FromView(view), "Order updated successfully"))
}

// Delete /api/orders/:id
// Soft-delete an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		apierr.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"message": deletedMessage}, deletedMessage))
}

func bindCreate(c *gin.Context) (types.CreateOrderInput, bool) {
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierr.Respond(c, apierr.Validation("Invalid request body", nil))
		return types.CreateOrderInput{}, false
	}
	return ordermapper.ToCreateInput(payload), true
}

func bindUpdate(c *gin.Context) (types.UpdateOrderInput, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return types.UpdateOrderInput{}, false
	}
	var payload ordermapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierr.Respond(c, apierr.Validation("Invalid request body", nil))
		return types.UpdateOrderInput{}, false
	}
	input, err := ordermapper.ToUpdateInput(id, payload)
	if err != nil {
		apierr.Respond(c, apierr.Validation(err.Error(), map[string]string{"status": err.Error()}))
		return types.UpdateOrderInput{}, false
	}
	return input, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierr.Respond(c, apierr.Validation("Invalid "+name+" parameter", map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return id, true
}

func parseStatusParam(c *gin.Context) (domain.Status, bool) {
	status, err := domain.ParseStatus(c.Param("status"))
	if err != nil {
		apierr.Respond(c, apierr.Validation(err.Error(), map[string]string{"status": err.Error()}))
		return "", false
	}
	return status, true
}

// parseListInput reads the 1-based paging query. Out-of-range values are
// normalized by the application layer.
func parseListInput(c *gin.Context) types.ListInput {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return types.ListInput{Page: page, PageSize: pageSize}
}

// awaitHandle submits the deferred call and blocks on its handle until the
// request context is done.
func awaitHandle[T any](ctx context.Context, submit func() (*taskpool.Handle[T], error)) (T, error) {
	handle, err := submit()
	if err != nil {
		var zero T
		return zero, err
	}
	return handle.Wait(ctx)
}

// respondAsyncError adds pool backpressure on top of the shared mapping.
func respondAsyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, taskpool.ErrSaturated), errors.Is(err, taskpool.ErrStopped):
		apierr.Respond(c, apierr.Error{
			Code:    apierr.CodeInternal,
			Message: "Server is busy, please retry later",
			Status:  http.StatusServiceUnavailable,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		apierr.Respond(c, apierr.Internal("Request timed out while waiting for the result"))
	default:
		apierr.RespondError(c, err)
	}
}
