package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"kedai/internal/models"
	"kedai/internal/payment"
	"kedai/internal/pricing"
	"kedai/internal/repositories"
)

// EventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; nil publishers are tolerated so the workflow still runs
// without a broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CheckoutConfig carries the provider-facing settings for hosted sessions.
type CheckoutConfig struct {
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// OrderService owns the checkout workflow: order submission, hosted payment
// session creation and payment verification.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	provider    payment.Provider
	publisher   EventPublisher
	cfg         CheckoutConfig
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	provider payment.Provider,
	publisher EventPublisher,
	cfg CheckoutConfig,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		provider:    provider,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// GetAllOrders retrieves all orders for the admin order viewer.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// SubmitOrder turns a cart snapshot into a persisted order. Line items are
// snapshotted by value with the catalog's current base prices, totals are
// computed exactly once through the pricing rule, and the order starts in
// pending_payment. The persisted copy is authoritative from here on; later
// catalog edits never touch it.
func (s *OrderService) SubmitOrder(customer models.Customer, shipping models.ShippingAddress, snapshot []models.CartItem) (*models.Order, error) {
	if strings.TrimSpace(customer.FullName) == "" {
		return nil, fmt.Errorf("%w: full name", ErrMissingParameter)
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingParameter)
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, fmt.Errorf("%w: phone", ErrMissingParameter)
	}
	if strings.TrimSpace(shipping.Address) == "" {
		return nil, fmt.Errorf("%w: shipping address", ErrMissingParameter)
	}
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]models.LineItem, 0, len(snapshot))
	for _, item := range snapshot {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity %d for product %s", ErrInvalidLineItem, item.Quantity, item.ProductID)
		}

		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}
		if product.BasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: negative base price for product %s", ErrInvalidLineItem, item.ProductID)
		}

		// Copy by value: the price charged is the price at submission time.
		lineItems = append(lineItems, models.LineItem{
			ProductID:     product.ID,
			Title:         product.Name,
			UnitBasePrice: product.BasePrice,
			Quantity:      item.Quantity,
		})
	}

	baseTotal, sellTotal := pricing.Totals(lineItems)

	order := &models.Order{
		ID:        uuid.New().String(),
		Status:    models.StatusPendingPayment,
		Customer:  customer,
		Shipping:  shipping,
		LineItems: lineItems,
		BaseTotal: baseTotal,
		SellTotal: sellTotal,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":   order.ID,
		"status":     order.Status,
		"sell_total": order.SellTotal,
	})

	return order, nil
}

// CreateCheckoutSession asks the payment provider for a hosted session for
// the order and records the session id. Idempotent by status: an order
// already in checkout_created may retry and gets a fresh session; any later
// status is rejected. The charge amount is always recomputed from the stored
// line items, never taken from the client.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, orderID string) (*payment.Session, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: order id", ErrMissingParameter)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.StatusPendingPayment && order.Status != models.StatusCheckoutCreated {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidOrderState, order.ID, order.Status)
	}
	if len(order.LineItems) == 0 {
		return nil, fmt.Errorf("%w: order %s has no line items", ErrEmptyCart, order.ID)
	}

	_, sellTotal := pricing.Totals(order.LineItems)

	session, err := s.provider.CreateCheckoutSession(ctx, payment.SessionParams{
		AmountCents: pricing.AmountCents(sellTotal),
		Currency:    s.cfg.Currency,
		Description: s.cfg.Description,
		SuccessURL:  s.successURL(order.ID),
		CancelURL:   s.cancelURL(order.ID),
		OrderID:     order.ID,
	})
	if err != nil {
		// The order is untouched; the shopper can retry from the client.
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if err := s.orderRepo.SetPaymentSession(order.ID, session.ID); err != nil {
		// The session exists at the provider but is not recorded locally.
		// Accepted inconsistency window; the client retries session creation.
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return session, nil
}

// VerifyCheckoutSession asks the provider for the authoritative payment
// outcome of a session and persists it on the order. The provider status
// "paid" maps to paid, everything else to payment_pending; a paid order is
// sticky and is never downgraded by a later verification.
func (s *OrderService) VerifyCheckoutSession(ctx context.Context, orderID, sessionID string) (bool, error) {
	if strings.TrimSpace(orderID) == "" {
		return false, fmt.Errorf("%w: order id", ErrMissingParameter)
	}
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("%w: session id", ErrMissingParameter)
	}

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	paid := session.PaymentStatus == payment.StatusPaid
	status := models.StatusPaymentPending
	if paid {
		status = models.StatusPaid
	}

	if err := s.orderRepo.SetPaymentOutcome(orderID, status, session.PaymentStatus); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if paid {
		s.publishEvent("order.paid", map[string]interface{}{
			"order_id":   orderID,
			"session_id": session.ID,
		})
	}

	return paid, nil
}

func (s *OrderService) successURL(orderID string) string {
	// The session_id placeholder is substituted by the provider, so the
	// success page can immediately call verification.
	return fmt.Sprintf("%s?orderId=%s&session_id={CHECKOUT_SESSION_ID}", s.cfg.SuccessURL, url.QueryEscape(orderID))
}

func (s *OrderService) cancelURL(orderID string) string {
	return fmt.Sprintf("%s?orderId=%s", s.cfg.CancelURL, url.QueryEscape(orderID))
}

func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
