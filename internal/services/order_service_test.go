package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"kedai/internal/models"
	"kedai/internal/payment"
	"kedai/internal/repositories"
	"kedai/internal/services"
)

// MockPaymentProvider is a mock implementation of payment.Provider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockPaymentProvider) RetrieveSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

var testCheckoutConfig = services.CheckoutConfig{
	Currency:    "usd",
	Description: "Coffee Shop Order",
	SuccessURL:  "http://localhost:5173/success",
	CancelURL:   "http://localhost:5173/cancel",
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, id, name, basePrice string) {
	t.Helper()
	err := repo.Create(&models.Product{
		ID:        id,
		Name:      name,
		BasePrice: decimal.RequireFromString(basePrice),
	})
	assert.NoError(t, err)
}

func validCustomer() models.Customer {
	return models.Customer{FullName: "Ada Lovelace", Email: "ada@example.com", Phone: "+15550100"}
}

func validShipping() models.ShippingAddress {
	return models.ShippingAddress{Address: "1 Coffee St", City: "Portland", State: "OR", Zip: "97201"}
}

func TestOrderService_SubmitOrder(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	publisher := new(MockPublisher)
	publisher.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	service := services.NewOrderService(orderRepo, productRepo, new(MockPaymentProvider), publisher, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{
		{ProductID: "p1", Quantity: 2},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.Equal(t, "200.00", order.BaseTotal.StringFixed(2))
	assert.Equal(t, "300.00", order.SellTotal.StringFixed(2))
	assert.Equal(t, "100.00", order.ProfitEstimate().StringFixed(2))
	assert.Len(t, order.LineItems, 1)
	assert.Equal(t, "Brazilian Dark Roast", order.LineItems[0].Title)
	assert.Equal(t, "100.00", order.LineItems[0].UnitBasePrice.StringFixed(2))
	assert.Equal(t, 2, order.LineItems[0].Quantity)
	publisher.AssertExpectations(t)
}

func TestOrderService_SubmitOrder_Validation(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Espresso Blend", "14.99")

	service := services.NewOrderService(orderRepo, productRepo, new(MockPaymentProvider), nil, testCheckoutConfig)
	snapshot := []models.CartItem{{ProductID: "p1", Quantity: 1}}

	t.Run("missing full name", func(t *testing.T) {
		customer := validCustomer()
		customer.FullName = "  "
		_, err := service.SubmitOrder(customer, validShipping(), snapshot)
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})

	t.Run("missing email", func(t *testing.T) {
		customer := validCustomer()
		customer.Email = ""
		_, err := service.SubmitOrder(customer, validShipping(), snapshot)
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})

	t.Run("missing shipping address", func(t *testing.T) {
		shipping := validShipping()
		shipping.Address = ""
		_, err := service.SubmitOrder(validCustomer(), shipping, snapshot)
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := service.SubmitOrder(validCustomer(), validShipping(), nil)
		assert.ErrorIs(t, err, services.ErrEmptyCart)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		_, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 0}})
		assert.ErrorIs(t, err, services.ErrInvalidLineItem)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "ghost", Quantity: 1}})
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})
}

func TestOrderService_TotalsSurviveCatalogChanges(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Colombian Medium Roast", "19.99")

	service := services.NewOrderService(orderRepo, productRepo, new(MockPaymentProvider), nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
	assert.NoError(t, err)

	// Reprice the catalog entry after the order exists.
	assert.NoError(t, productRepo.Update(&models.Product{
		ID:        "p1",
		Name:      "Colombian Medium Roast",
		BasePrice: decimal.RequireFromString("99.99"),
	}))

	stored, err := service.GetOrderByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "19.99", stored.BaseTotal.StringFixed(2))
	assert.Equal(t, "29.99", stored.SellTotal.StringFixed(2))
	assert.Equal(t, "19.99", stored.LineItems[0].UnitBasePrice.StringFixed(2))
}

func TestOrderService_CreateCheckoutSession(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 2}})
	assert.NoError(t, err)

	provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p payment.SessionParams) bool {
		return p.AmountCents == 30000 &&
			p.Currency == "usd" &&
			p.OrderID == order.ID &&
			strings.Contains(p.SuccessURL, "orderId="+order.ID) &&
			strings.Contains(p.SuccessURL, "{CHECKOUT_SESSION_ID}") &&
			strings.Contains(p.CancelURL, "orderId="+order.ID)
	})).Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil).Once()

	session, err := service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://pay.example/cs_test_1", session.URL)

	stored, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, models.StatusCheckoutCreated, stored.Status)
	assert.Equal(t, "cs_test_1", stored.PaymentSessionID)
	provider.AssertExpectations(t)
}

func TestOrderService_CreateCheckoutSession_RetryIsIdempotentByStatus(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
	assert.NoError(t, err)

	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/1"}, nil).Once()
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_2", URL: "https://pay.example/2"}, nil).Once()

	_, err = service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)

	// A client retry from checkout_created succeeds and gets a new session.
	session, err := service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_2", session.ID)

	stored, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, models.StatusCheckoutCreated, stored.Status)
	assert.Equal(t, "cs_test_2", stored.PaymentSessionID)
	provider.AssertExpectations(t)
}

func TestOrderService_CreateCheckoutSession_Guards(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	t.Run("order not found", func(t *testing.T) {
		_, err := service.CreateCheckoutSession(context.Background(), "ghost")
		assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
	})

	t.Run("missing order id", func(t *testing.T) {
		_, err := service.CreateCheckoutSession(context.Background(), "  ")
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})

	t.Run("paid order is rejected", func(t *testing.T) {
		paid := &models.Order{
			ID:     "ord-paid",
			Status: models.StatusPaid,
			LineItems: []models.LineItem{
				{ProductID: "p1", UnitBasePrice: decimal.RequireFromString("10"), Quantity: 1},
			},
		}
		assert.NoError(t, orderRepo.Create(paid))

		_, err := service.CreateCheckoutSession(context.Background(), "ord-paid")
		assert.ErrorIs(t, err, services.ErrInvalidOrderState)
	})

	t.Run("empty line items", func(t *testing.T) {
		empty := &models.Order{ID: "ord-empty", Status: models.StatusPendingPayment}
		assert.NoError(t, orderRepo.Create(empty))

		_, err := service.CreateCheckoutSession(context.Background(), "ord-empty")
		assert.ErrorIs(t, err, services.ErrEmptyCart)

		stored, _ := orderRepo.GetByID("ord-empty")
		assert.Equal(t, models.StatusPendingPayment, stored.Status)
	})

	// None of the guard paths may reach the provider.
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestOrderService_CreateCheckoutSession_ProviderFailureLeavesOrderUntouched(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	provider := new(MockPaymentProvider)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
	assert.NoError(t, err)

	_, err = service.CreateCheckoutSession(context.Background(), order.ID)
	assert.ErrorIs(t, err, services.ErrProvider)

	stored, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, models.StatusPendingPayment, stored.Status)
	assert.Empty(t, stored.PaymentSessionID)
	provider.AssertExpectations(t)
}

func TestOrderService_VerifyCheckoutSession(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	provider := new(MockPaymentProvider)
	publisher := new(MockPublisher)
	publisher.On("Publish", "order.created", mock.Anything).Return(nil)
	publisher.On("Publish", "order.paid", mock.Anything).Return(nil).Once()

	service := services.NewOrderService(orderRepo, productRepo, provider, publisher, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 2}})
	assert.NoError(t, err)

	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/1"}, nil).Once()
	_, err = service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)

	provider.On("RetrieveSession", mock.Anything, "cs_test_1").
		Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "paid"}, nil).Once()

	paid, err := service.VerifyCheckoutSession(context.Background(), order.ID, "cs_test_1")
	assert.NoError(t, err)
	assert.True(t, paid)

	stored, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.Equal(t, "paid", stored.PaymentStatus)
	publisher.AssertExpectations(t)
}

func TestOrderService_VerifyCheckoutSession_PaidIsSticky(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "100")

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
	assert.NoError(t, err)

	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/1"}, nil).Once()
	_, err = service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)

	provider.On("RetrieveSession", mock.Anything, "cs_test_1").
		Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "paid"}, nil).Once()
	paid, err := service.VerifyCheckoutSession(context.Background(), order.ID, "cs_test_1")
	assert.NoError(t, err)
	assert.True(t, paid)

	// A momentarily inconsistent provider answer must not regress the order.
	provider.On("RetrieveSession", mock.Anything, "cs_test_1").
		Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "unpaid"}, nil).Once()
	paid, err = service.VerifyCheckoutSession(context.Background(), order.ID, "cs_test_1")
	assert.NoError(t, err)
	assert.False(t, paid)

	stored, _ := orderRepo.GetByID(order.ID)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.Equal(t, "paid", stored.PaymentStatus)
	provider.AssertExpectations(t)
}

func TestOrderService_VerifyCheckoutSession_Guards(t *testing.T) {
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	t.Run("missing order id", func(t *testing.T) {
		_, err := service.VerifyCheckoutSession(context.Background(), "", "cs_test_1")
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})

	t.Run("missing session id", func(t *testing.T) {
		_, err := service.VerifyCheckoutSession(context.Background(), "ord-1", " ")
		assert.ErrorIs(t, err, services.ErrMissingParameter)
	})
	provider.AssertNotCalled(t, "RetrieveSession", mock.Anything, mock.Anything)

	t.Run("unknown order", func(t *testing.T) {
		provider.On("RetrieveSession", mock.Anything, "cs_test_1").
			Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "unpaid"}, nil).Once()
		_, err := service.VerifyCheckoutSession(context.Background(), "ghost", "cs_test_1")
		assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
	})

	t.Run("provider failure", func(t *testing.T) {
		provider.On("RetrieveSession", mock.Anything, "cs_down").
			Return(nil, assert.AnError).Once()
		_, err := service.VerifyCheckoutSession(context.Background(), "ord-1", "cs_down")
		assert.ErrorIs(t, err, services.ErrProvider)
	})
}

func TestOrderService_StatusNeverMovesBackwards(t *testing.T) {
	// Drive a full createSession -> verify sequence and check every observed
	// status against the transition table.
	orderRepo := repositories.NewMemoryOrderRepository()
	productRepo := repositories.NewMemoryProductRepository()
	seedProduct(t, productRepo, "p1", "Brazilian Dark Roast", "76.49")

	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, productRepo, provider, nil, testCheckoutConfig)

	order, err := service.SubmitOrder(validCustomer(), validShipping(), []models.CartItem{{ProductID: "p1", Quantity: 1}})
	assert.NoError(t, err)

	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payment.Session{ID: "cs_test_1", URL: "https://pay.example/1"}, nil)
	provider.On("RetrieveSession", mock.Anything, "cs_test_1").
		Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "unpaid"}, nil).Once()
	provider.On("RetrieveSession", mock.Anything, "cs_test_1").
		Return(&payment.Session{ID: "cs_test_1", PaymentStatus: "paid"}, nil).Once()

	observed := []models.OrderStatus{order.Status}
	record := func() {
		stored, err := orderRepo.GetByID(order.ID)
		assert.NoError(t, err)
		observed = append(observed, stored.Status)
	}

	_, err = service.CreateCheckoutSession(context.Background(), order.ID)
	assert.NoError(t, err)
	record()

	_, err = service.VerifyCheckoutSession(context.Background(), order.ID, "cs_test_1")
	assert.NoError(t, err)
	record()

	_, err = service.VerifyCheckoutSession(context.Background(), order.ID, "cs_test_1")
	assert.NoError(t, err)
	record()

	for i := 1; i < len(observed); i++ {
		if observed[i] == observed[i-1] {
			continue
		}
		assert.True(t, observed[i-1].CanTransitionTo(observed[i]),
			"illegal transition %s -> %s", observed[i-1], observed[i])
	}
	assert.Equal(t, models.StatusPaid, observed[len(observed)-1])
}
