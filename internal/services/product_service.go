package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"kedai/internal/models"
	"kedai/internal/pricing"
	"kedai/internal/repositories"
)

// ProductView is a catalog product decorated with the derived sell price,
// the shape the shopper-facing catalog returns. The sell price is computed
// on the way out, never stored.
type ProductView struct {
	models.Product
	SellPrice decimal.Decimal `json:"sell_price"`
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListCatalog retrieves all products with their sell prices.
func (s *ProductService) ListCatalog() ([]ProductView, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{Product: p, SellPrice: pricing.SellPrice(p.BasePrice)})
	}
	return views, nil
}

// GetCatalogItem retrieves a single product with its sell price.
func (s *ProductService) GetCatalogItem(id string) (*ProductView, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &ProductView{Product: *product, SellPrice: pricing.SellPrice(product.BasePrice)}, nil
}

// CreateProduct creates a new catalog product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.BasePrice.IsNegative() {
		return fmt.Errorf("%w: product %s", ErrNegativePrice, product.Name)
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product. Existing orders are unaffected;
// they carry their own line-item snapshots.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.BasePrice.IsNegative() {
		return fmt.Errorf("%w: product %s", ErrNegativePrice, product.Name)
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
