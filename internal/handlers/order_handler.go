package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kedai/internal/cart"
	"kedai/internal/models"
	"kedai/internal/services"
)

// OrderHandler handles HTTP requests for the checkout workflow and the
// admin order viewer.
type OrderHandler struct {
	service   *services.OrderService
	cartStore cart.Store
	validate  *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, cartStore cart.Store) *OrderHandler {
	return &OrderHandler{
		service:   service,
		cartStore: cartStore,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers checkout and order routes. The admin listing
// and detail routes sit behind the auth middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminOnly fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleSubmitOrder)
	orderRoutes.Get("/", adminOnly, h.HandleGetOrders)
	orderRoutes.Get("/:id", adminOnly, h.HandleGetOrderByID)

	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/session", h.HandleCreateCheckoutSession)
	checkoutRoutes.Post("/verify", h.HandleVerifyCheckoutSession)
}

type submitOrderRequest struct {
	Customer models.Customer        `json:"customer"`
	Shipping models.ShippingAddress `json:"shipping"`
	CartID   string                 `json:"cart_id"`
	Items    []models.CartItem      `json:"items" validate:"omitempty,dive"`
}

// HandleSubmitOrder creates an order from a cart snapshot. The snapshot is
// taken either from the request body or, when cart_id is given, from the
// server-side cart store.
func (h *OrderHandler) HandleSubmitOrder(c *fiber.Ctx) error {
	var req submitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing submit order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Order validation failed",
			"error":   err.Error(),
		})
	}

	snapshot := req.Items
	if len(snapshot) == 0 && req.CartID != "" {
		items, err := h.cartStore.Get(c.Context(), req.CartID)
		if err != nil {
			log.Printf("Error loading cart %s: %v", req.CartID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load cart",
				"error":   err.Error(),
			})
		}
		snapshot = items
	}

	order, err := h.service.SubmitOrder(req.Customer, req.Shipping, snapshot)
	if err != nil {
		log.Printf("Error submitting order: %v", err)
		return errorJSON(c, "Could not submit order", err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders for the admin panel, each decorated
// with its derived profit estimate.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return errorJSON(c, "Could not retrieve orders", err)
	}

	views := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		views = append(views, fiber.Map{
			"order":           orders[i],
			"profit_estimate": orders[i].ProfitEstimate(),
		})
	}
	return c.JSON(views)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return errorJSON(c, "Could not retrieve order", err)
	}
	return c.JSON(fiber.Map{
		"order":           order,
		"profit_estimate": order.ProfitEstimate(),
	})
}

type createSessionRequest struct {
	OrderID string `json:"order_id"`
}

// HandleCreateCheckoutSession creates a hosted payment session for an order
// and returns the provider URL the shopper should be redirected to.
func (h *OrderHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create session request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session, err := h.service.CreateCheckoutSession(c.Context(), req.OrderID)
	if err != nil {
		log.Printf("Error creating checkout session for order %s: %v", req.OrderID, err)
		return errorJSON(c, "Could not create checkout session", err)
	}

	return c.JSON(fiber.Map{
		"id":  session.ID,
		"url": session.URL,
	})
}

type verifySessionRequest struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	// CartID is optional; when set and the payment is confirmed, the cart
	// is cleared so the shopper does not re-buy the same items.
	CartID string `json:"cart_id"`
}

// HandleVerifyCheckoutSession confirms the payment outcome of a session
// with the provider and reports whether the order is paid.
func (h *OrderHandler) HandleVerifyCheckoutSession(c *fiber.Ctx) error {
	var req verifySessionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing verify session request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	paid, err := h.service.VerifyCheckoutSession(c.Context(), req.OrderID, req.SessionID)
	if err != nil {
		log.Printf("Error verifying checkout session %s for order %s: %v", req.SessionID, req.OrderID, err)
		return errorJSON(c, "Could not confirm payment", err)
	}

	// Only a confirmed payment clears the cart; on anything else the
	// shopper keeps their items and can retry.
	if paid && req.CartID != "" {
		if err := h.cartStore.Clear(c.Context(), req.CartID); err != nil {
			log.Printf("Warning: failed to clear cart %s after payment: %v", req.CartID, err)
		}
	}

	return c.JSON(fiber.Map{
		"paid":       paid,
		"order_id":   req.OrderID,
		"session_id": req.SessionID,
	})
}
