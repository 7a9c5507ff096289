package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// PlaceOrder godoc
//	@Summary		Place an order from the cart
//	@Description	Prices the caller's cart and records an Unconfirmed order. Stock, cart and e-mail steps that fail afterwards are reported as warnings and mark the result degraded.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.PlaceOrderRequest	true	"Shipping address, payment method and phone; saved account values are used when omitted"
//	@Success		201		{object}	models.PlaceOrderResult		"Order placed"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error, empty cart, missing address or unaccepted payment method"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Not the account owner"
//	@Failure		404		{object}	response.ErrorResponse		"Account not found"
//	@Failure		429		{object}	response.ErrorResponse		"Too many checkout attempts"
//	@Failure		500		{object}	response.ErrorResponse		"Order could not be recorded"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.PlaceOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid place order input")
			return
		}

		if req.AccountID != claims.UserID {
			logger.Warn("Attempted to place an order for another account", slog.String("accountId", req.AccountID.String()))
			response.Error(w, errors.ForbiddenError("You can only place orders for your own account"))
			return
		}

		result, err := h.orderService.PlaceOrder(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to place order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if result.Degraded {
			logger.Warn("Order placed with warnings",
				slog.String("orderId", result.Order.ID.String()),
				slog.Int("warnings", len(result.Warnings)),
			)
		} else {
			logger.Info("Order placed successfully", slog.String("orderId", result.Order.ID.String()))
		}

		response.Success(w, http.StatusCreated, result)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Customers may read their own orders; staff and admins may read any order.
//	@Tags			Orders
//	@Produce		json
//	@Param			orderId	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200		{object}	models.Order			"Order"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse	"Forbidden - User does not own this order"
//	@Failure		404		{object}	response.ErrorResponse	"Order not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{orderId} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "orderId")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		order, err := h.orderService.GetOrder(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get order", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if order.AccountID != claims.UserID && !claims.Role.CanManageOrders() {
			logger.Warn("Attempted to access another user's order",
				slog.String("requesterId", claims.UserID.String()),
				slog.String("ownerId", order.AccountID.String()))
			response.Error(w, errors.ForbiddenError("You don't have permission to access this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List orders for the management dashboard
//	@Description	Staff and admins only. Optionally filtered by status.
//	@Tags			Orders
//	@Produce		json
//	@Param			status		query		int												false	"Order status (-1, 1..5)"
//	@Param			page		query		int												false	"Page number (default: 1)"					minimum(1)
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders"
//	@Failure		400			{object}	response.ErrorResponse							"Invalid status filter"
//	@Failure		401			{object}	response.ErrorResponse							"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse							"Staff access required"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var status *models.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				response.Error(w, errors.AddValidationError("status", "must be an integer").WithError(err))
				return
			}

			s := models.OrderStatus(value)
			status = &s
		}

		page, pageSize := utils.ParsePage(r)

		orders, err := h.orderService.ListOrders(r.Context(), status, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed successfully", slog.Int("total", orders.Total), slog.Int("page", orders.Page))
		response.Success(w, http.StatusOK, orders)
	}
}

// ListAccountOrders godoc
//	@Summary		List an account's orders
//	@Tags			Orders
//	@Produce		json
//	@Param			accountId	path		string											true	"Account ID (UUID)"	Format(uuid)
//	@Param			page		query		int												false	"Page number (default: 1)"
//	@Param			pageSize	query		int												false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Orders"
//	@Failure		403			{object}	response.ErrorResponse							"Not the account owner"
//	@Security		BearerAuth
//	@Router			/accounts/{accountId}/orders [get]
func (h *OrderHandler) ListAccountOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		accountID, err := utils.ParseID(r, "accountId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if _, ok := authorizeAccount(w, r, accountID); !ok {
			return
		}

		page, pageSize := utils.ParsePage(r)

		orders, err := h.orderService.ListAccountOrders(r.Context(), accountID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list account orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// UpdateOrderStatus godoc
//	@Summary		Move an order through its lifecycle
//	@Description	Staff and admins only. Allowed moves are to the next status in Unconfirmed, Confirmed, Prepared, OutForDelivery, Completed, or to Cancelled from any non-terminal status.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			orderId	path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"Target status"
//	@Success		200		{object}	models.Order					"Updated order"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid order ID or unknown status"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse			"Staff access required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		409		{object}	response.ErrorResponse			"Transition not allowed or status changed concurrently"
//	@Security		BearerAuth
//	@Router			/orders/{orderId}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "orderId")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.TargetStatus, claims)
		if err != nil {
			logger.Warn("Failed to update order status", slog.String("target", req.TargetStatus.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
