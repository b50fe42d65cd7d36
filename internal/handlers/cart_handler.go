package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"kedai/internal/cart"
)

// CartHandler exposes the server-side cart store over HTTP. Carts are
// identified by an opaque id the client generates and keeps.
type CartHandler struct {
	store cart.Store
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store cart.Store) *CartHandler {
	return &CartHandler{
		store: store,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts/:cartID")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productID", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:productID", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the items and unit count of a cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cartID := c.Params("cartID")
	items, err := h.store.Get(c.Context(), cartID)
	if err != nil {
		log.Printf("Error reading cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read cart",
			"error":   err.Error(),
		})
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return c.JSON(fiber.Map{
		"cart_id": cartID,
		"items":   items,
		"count":   count,
	})
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds a product to the cart, aggregating quantities.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	cartID := c.Params("cartID")

	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	if err := h.store.Add(c.Context(), cartID, req.ProductID, req.Quantity); err != nil {
		log.Printf("Error adding item to cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add item to cart",
			"error":   err.Error(),
		})
	}

	return h.HandleGetCart(c)
}

// HandleSetQuantity replaces the quantity of a cart line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	cartID := c.Params("cartID")
	productID := c.Params("productID")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing set quantity request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.store.SetQuantity(c.Context(), cartID, productID, req.Quantity); err != nil {
		log.Printf("Error setting quantity in cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}

	return h.HandleGetCart(c)
}

// HandleRemoveItem removes a product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cartID := c.Params("cartID")
	productID := c.Params("productID")

	if err := h.store.Remove(c.Context(), cartID, productID); err != nil {
		log.Printf("Error removing item from cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}

	return h.HandleGetCart(c)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cartID := c.Params("cartID")

	if err := h.store.Clear(c.Context(), cartID); err != nil {
		log.Printf("Error clearing cart %s: %v", cartID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"cart_id": cartID,
		"items":   []interface{}{},
		"count":   0,
	})
}
