package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrDispatcherClosed    = errors.New("notification dispatcher closed")
	ErrQueueFull           = errors.New("notification queue full")
	ErrMissingRecipient    = errors.New("account has no e-mail address")
	ErrNotifierUnavailable = errors.New("mail provider unavailable")
)

// Notifier accepts order confirmations for asynchronous delivery.
type Notifier interface {
	Enqueue(msg models.OrderConfirmation) error
}

// NotificationDispatcher delivers order confirmations from a bounded queue
// with a fixed pool of workers.
type NotificationDispatcher struct {
	service   NotificationService
	storeName string
	timeout   time.Duration
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer

	queue  chan models.OrderConfirmation
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewNotificationDispatcher(service NotificationService, cfg config.Checkout) *NotificationDispatcher {

	queueSize := cfg.NotificationQueue
	if queueSize <= 0 {
		queueSize = 128
	}

	workers := cfg.NotificationWorkers
	if workers <= 0 {
		workers = 4
	}

	timeout := cfg.NotificationTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &NotificationDispatcher{
		service:   service,
		storeName: cfg.StoreName,
		timeout:   timeout,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("storefront-checkout/services"),
		queue:     make(chan models.OrderConfirmation, queueSize),
	}

	d.wg.Add(workers)
	for range workers {
		go d.work()
	}

	return d
}

func (d *NotificationDispatcher) Enqueue(msg models.OrderConfirmation) error {

	if strings.TrimSpace(msg.AccountEmail) == "" {
		return ErrMissingRecipient
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	if !d.service.Available() {
		return ErrNotifierUnavailable
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *NotificationDispatcher) Close(ctx context.Context) error {

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *NotificationDispatcher) work() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *NotificationDispatcher) deliver(msg models.OrderConfirmation) {

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if msg.Trace.IsValid() {
		ctx = trace.ContextWithSpanContext(ctx, msg.Trace)
	}

	ctx, span := d.tracer.Start(ctx, "notification.deliver",
		trace.WithAttributes(attribute.String("order.id", msg.OrderID.String())))
	defer span.End()

	logger := msg.Logger
	if logger == nil {
		logger = slog.Default().With(slog.String("orderId", msg.OrderID.String()))
	}
	logger = logger.With(slog.String("recipient", msg.AccountEmail))

	_, err := d.service.SendEmail(ctx, d.render(msg))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		metrics.NotificationsDispatched.WithLabelValues("failed").Inc()
		logger.Error("Order confirmation delivery failed", slog.String("error", err.Error()))
	} else {
		metrics.NotificationsDispatched.WithLabelValues("sent").Inc()
		logger.Info("Order confirmation delivered")
	}

	if msg.Done != nil {
		msg.Done(err)
	}
}

// render builds the confirmation e-mail. Names come from user input and are
// stripped of markup before they reach either body.
func (d *NotificationDispatcher) render(msg models.OrderConfirmation) *models.EmailNotificationRequest {

	accountName := d.clean(msg.AccountName)

	var text strings.Builder
	var body strings.Builder

	fmt.Fprintf(&text, "Thank you for your order, %s.\n\nOrder ID: %s\n\n", accountName, msg.OrderID)
	fmt.Fprintf(&body, "<p>Thank you for your order, %s.</p><p>Order ID: %s</p><table>", html.EscapeString(accountName), msg.OrderID)

	for _, item := range msg.Items {
		name := d.clean(item.Name)

		fmt.Fprintf(&text, "Product ID: %s\nProduct: %s\nQuantity: %d\nPrice: %.2f\n\n",
			item.ProductID, name, item.Quantity, item.UnitPrice)
		fmt.Fprintf(&body, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%.2f</td></tr>",
			item.ProductID, html.EscapeString(name), item.Quantity, item.UnitPrice)
	}

	fmt.Fprintf(&text, "Items: %.2f\nShipping: %.2f\nTax: %.2f\nTotal: %.2f\n\nUsername: %s\nEmail: %s\n",
		msg.Prices.ItemsPrice, msg.Prices.ShippingPrice, msg.Prices.TaxPrice, msg.Prices.TotalPrice,
		accountName, msg.AccountEmail)
	fmt.Fprintf(&body, "</table><p>Total: %.2f</p><p>Username: %s<br>Email: %s</p>",
		msg.Prices.TotalPrice, html.EscapeString(accountName), html.EscapeString(msg.AccountEmail))

	return &models.EmailNotificationRequest{
		To:          msg.AccountEmail,
		Subject:     fmt.Sprintf("%s - Order Confirmation", d.storeName),
		Content:     text.String(),
		HTMLContent: body.String(),
		Metadata:    map[string]string{"order_id": msg.OrderID.String()},
	}
}

func (d *NotificationDispatcher) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(d.sanitizer.Sanitize(s)))
}
