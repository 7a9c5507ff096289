package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/lock"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pricing"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	sagaStepTimeout  = 10 * time.Second
	orderFillTimeout = 5 * time.Second
	orderLockWait    = 2 * time.Second
	defaultPageSize  = 10
	maxPageSize      = 100
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.PlaceOrderResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, status *models.OrderStatus, page int, size int) (*models.PaginatedResponse, error)
	ListAccountOrders(ctx context.Context, accountID uuid.UUID, page int, size int) (*models.PaginatedResponse, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus, actor *models.Claims) (*models.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	accounts  repository.AccountRepository
	inventory repository.InventoryRepository
	carts     CartService
	notifier  Notifier
	locker    lock.Locker
	cache     cache.Cache
	cacheTTL  time.Duration
	cfg       config.Checkout
	group     singleflight.Group
	tracer    trace.Tracer
}

func NewOrderService(
	orders repository.OrderRepository,
	accounts repository.AccountRepository,
	inventory repository.InventoryRepository,
	carts CartService,
	notifier Notifier,
	locker lock.Locker,
	orderCache cache.Cache,
	cfg *config.Config,
) OrderService {
	return &orderService{
		orders:    orders,
		accounts:  accounts,
		inventory: inventory,
		carts:     carts,
		notifier:  notifier,
		locker:    locker,
		cache:     orderCache,
		cacheTTL:  cfg.Cache.DefaultTTL,
		cfg:       cfg.Checkout,
		tracer:    otel.Tracer("storefront-checkout/services"),
	}
}

// PlaceOrder commits the order first. Inventory, cart and notification steps
// after that point are best effort and surface as warnings on the result.
func (s *orderService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.PlaceOrderResult, error) {

	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.String("account.id", req.AccountID.String())))
	defer span.End()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("accountId", req.AccountID.String()))

	account, err := s.accounts.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, accountError(err, "Failed to fetch account")
	}

	cart, err := s.carts.GetCart(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if cart.IsEmpty() {
		return nil, appErrors.RejectedError("Cart is empty")
	}

	address := req.ShippingAddress
	if address == nil {
		address = account.ShippingAddress
	}
	if address == nil {
		return nil, appErrors.RejectedError("Shipping address is required")
	}

	method := req.PaymentMethod
	if method == "" {
		method = account.PaymentMethod
	}
	if method == "" {
		return nil, appErrors.RejectedError("No payment method selected")
	}

	method, ok := acceptedPaymentMethod(s.cfg.PaymentMethods, method)
	if !ok {
		return nil, appErrors.RejectedError("Payment method is not accepted")
	}

	phone := req.Phone
	if phone == "" {
		phone = account.Phone
	}

	lines := cart.Snapshot()

	order := &models.Order{
		ID:              uuid.New(),
		AccountID:       account.ID,
		Items:           models.OrderItemsFromCart(lines),
		ShippingAddress: *address,
		PaymentMethod:   method,
		Phone:           phone,
		Prices:          pricing.Calculate(lines, s.cfg.TaxRate),
		Status:          models.OrderStatusUnconfirmed,
	}

	if err := s.createOrder(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order not created")
		logger.Error("Failed to create order", slog.String("error", err.Error()))

		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, appErrors.NotFoundError("Account not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to place order").WithError(err)
	}

	metrics.OrdersPlaced.Inc()
	logger = logger.With(slog.String("orderId", order.ID.String()))
	logger.Info("Order created", slog.Float64("totalPrice", order.Prices.TotalPrice))

	// The order exists now; a dropped client must not abandon the remaining steps.
	bg := context.WithValue(context.WithoutCancel(ctx), middleware.LoggerKey, logger)
	sagaCtx, sagaSpan := s.tracer.Start(bg, "saga.order_placement",
		trace.WithAttributes(attribute.String("order.id", order.ID.String())))

	var warnings []models.Warning
	warnings = append(warnings, s.decrementInventory(sagaCtx, order)...)
	warnings = append(warnings, s.clearCart(sagaCtx, order.AccountID)...)

	// The placement finishes when the confirmation has been attempted, which
	// happens on a dispatcher worker once the handoff succeeds.
	pending := len(warnings)
	finish := func(sent error) {
		finishPlacement(logger, sagaSpan, pending, sent)
	}

	if err := s.sendConfirmation(sagaCtx, account, order, finish); err != nil {
		warnings = append(warnings, models.Warning{Step: models.StepNotification, Message: "Order confirmation could not be sent"})
		finishPlacement(logger, sagaSpan, len(warnings), err)
	} else {
		logger.Info("Order confirmation queued", slog.Int("warnings", pending))
	}

	for _, w := range warnings {
		metrics.SagaWarnings.WithLabelValues(string(w.Step)).Inc()
	}

	span.SetAttributes(attribute.String("order.id", order.ID.String()), attribute.Int("saga.warnings", len(warnings)))

	return &models.PlaceOrderResult{
		Order:    order,
		Warnings: warnings,
		Degraded: len(warnings) > 0,
	}, nil
}

// finishPlacement closes the placement saga once its last step has run.
func finishPlacement(logger *slog.Logger, span trace.Span, warnings int, sent error) {

	confirmation := "sent"
	if sent != nil {
		confirmation = "failed"
		span.RecordError(sent)
	}

	span.SetAttributes(attribute.Int("saga.warnings", warnings), attribute.String("saga.confirmation", confirmation))
	logger.Info("Order placement finished", slog.Int("warnings", warnings), slog.String("confirmation", confirmation))
	span.End()
}

func (s *orderService) createOrder(ctx context.Context, order *models.Order) error {
	ctx, span := s.tracer.Start(ctx, "saga.create_order")
	defer span.End()

	return s.orders.CreateOrder(ctx, order)
}

func (s *orderService) decrementInventory(ctx context.Context, order *models.Order) []models.Warning {

	ctx, span := s.tracer.Start(ctx, "saga.inventory")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	var warnings []models.Warning

	for _, item := range order.Items {

		stepCtx, cancel := context.WithTimeout(ctx, sagaStepTimeout)
		err := s.inventory.DecrementStock(stepCtx, item.ProductID, item.Quantity)
		cancel()

		if err == nil {
			continue
		}

		var message string
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			message = fmt.Sprintf("Insufficient stock for %s", item.Name)
		case errors.Is(err, repository.ErrProductNotFound):
			message = fmt.Sprintf("Product %s no longer exists", item.Name)
		default:
			message = fmt.Sprintf("Failed to update stock for %s", item.Name)
		}

		span.RecordError(err)
		logger.Warn("Inventory step failed",
			slog.String("orderId", order.ID.String()),
			slog.String("productId", item.ProductID.String()),
			slog.String("error", err.Error()),
		)

		productID := item.ProductID
		warnings = append(warnings, models.Warning{
			Step:      models.StepInventory,
			ProductID: &productID,
			Message:   message,
		})
	}

	return warnings
}

func (s *orderService) clearCart(ctx context.Context, accountID uuid.UUID) []models.Warning {

	ctx, span := s.tracer.Start(ctx, "saga.cart_clear")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, sagaStepTimeout)
	defer cancel()

	if err := s.carts.Clear(ctx, accountID); err != nil {
		span.RecordError(err)
		middleware.LoggerFromContext(ctx).Warn("Cart clear step failed", slog.String("error", err.Error()))

		return []models.Warning{{Step: models.StepCartClear, Message: "Failed to clear cart"}}
	}

	return nil
}

// sendConfirmation hands the confirmation to the notifier. done runs after the
// send attempt only when the handoff succeeds.
func (s *orderService) sendConfirmation(ctx context.Context, account *models.Account, order *models.Order, done func(error)) error {

	_, span := s.tracer.Start(ctx, "saga.notification")
	defer span.End()

	err := s.notifier.Enqueue(models.OrderConfirmation{
		OrderID:      order.ID,
		AccountName:  account.Name,
		AccountEmail: account.Email,
		Items:        order.Items,
		Prices:       order.Prices,
		Logger:       middleware.LoggerFromContext(ctx),
		Trace:        trace.SpanContextFromContext(ctx),
		Done:         done,
	})
	if err != nil {
		span.RecordError(err)
		middleware.LoggerFromContext(ctx).Warn("Notification handoff failed", slog.String("error", err.Error()))

		return err
	}

	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.OrderKeyPrefix, id.String())

	var cached models.Order
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Order cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiting caller, so no single caller may cancel it.
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), orderFillTimeout)
		defer cancel()

		// Status changes write through the cache under the same lock, so a
		// fill holding it cannot overwrite a newer status with an older read.
		lockCtx, cancelLock := context.WithTimeout(fillCtx, orderLockWait)
		unlock, lockErr := s.locker.Lock(lockCtx, lock.Key(lock.OrderKeyPrefix, id.String()))
		cancelLock()
		if lockErr == nil {
			defer unlock()
		}

		order, err := s.orders.GetOrderByID(fillCtx, id)
		if err != nil {
			return nil, err
		}

		if lockErr != nil {
			logger.Warn("Order cache fill skipped", slog.String("key", key), slog.String("error", lockErr.Error()))
			return order, nil
		}

		if err := s.cache.Set(fillCtx, key, order, s.cacheTTL); err != nil {
			logger.Warn("Order cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		return order, nil
	})

	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return v.(*models.Order), nil
}

func (s *orderService) ListOrders(ctx context.Context, status *models.OrderStatus, page int, size int) (*models.PaginatedResponse, error) {

	if status != nil && !status.IsValid() {
		return nil, appErrors.RejectedError("Unknown order status")
	}

	page, size = normalizePage(page, size)

	orders, total, err := s.orders.ListOrders(ctx, models.OrderListFilter{Status: status, Page: page, Size: size})
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: page, PageSize: size}, nil
}

func (s *orderService) ListAccountOrders(ctx context.Context, accountID uuid.UUID, page int, size int) (*models.PaginatedResponse, error) {

	page, size = normalizePage(page, size)

	orders, total, err := s.orders.ListOrdersByAccount(ctx, accountID, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return &models.PaginatedResponse{Data: orders, Total: total, Page: page, PageSize: size}, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, target models.OrderStatus, actor *models.Claims) (*models.Order, error) {

	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.String("order.id", id.String()), attribute.String("order.target_status", target.String())))
	defer span.End()

	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", id.String()))

	if actor == nil || !actor.Role.CanManageOrders() {
		return nil, appErrors.ForbiddenError("Only staff can change order status")
	}

	if !target.IsValid() {
		return nil, appErrors.RejectedError("Unknown order status")
	}

	unlock, err := s.locker.Lock(ctx, lock.Key(lock.OrderKeyPrefix, id.String()))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, appErrors.ConflictError("Order is being updated, please retry").WithError(err)
		}

		logger.Error("Failed to acquire order lock", slog.String("error", err.Error()))
		return nil, appErrors.InternalError("Failed to update order status").WithError(err)
	}
	defer unlock()

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	from := order.Status
	if !from.CanTransitionTo(target) {
		return nil, appErrors.ConflictError(fmt.Sprintf("Cannot change order status from %s to %s", from, target))
	}

	change := models.StatusChange{
		OrderID:   order.ID,
		From:      from,
		To:        target,
		ActorID:   actor.UserID,
		ChangedAt: time.Now().UTC(),
	}

	if err := s.orders.UpdateOrderStatus(ctx, order, change); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, appErrors.ConflictError("Order status was changed concurrently").WithError(err)
		}

		logger.Error("Failed to update order status", slog.String("error", err.Error()))
		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	metrics.StatusTransitions.WithLabelValues(from.String(), target.String()).Inc()

	// Written while the order lock is still held; readers filling the cache
	// take the same lock.
	key := cache.Key(cache.OrderKeyPrefix, id.String())
	if err := s.cache.Set(context.WithoutCancel(ctx), key, order, s.cacheTTL); err != nil {
		logger.Warn("Order cache write failed", slog.String("key", key), slog.String("error", err.Error()))

		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			logger.Warn("Order cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	logger.Info("Order status changed",
		slog.String("from", from.String()),
		slog.String("to", target.String()),
		slog.String("actorId", actor.UserID.String()),
	)

	return order, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = defaultPageSize
	}

	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}
