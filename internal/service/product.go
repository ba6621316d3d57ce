package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// CreateProductInput holds the parameters for adding a catalog product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	OfferPrice  float64
	ImageURLs   []string
}

// ProductListResult is a filtered catalog page with the distinct category set.
type ProductListResult struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	TotalCount int              `json:"total_count"`
}

// ProductService implements catalog operations.
type ProductService struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewProductService creates a product service.
func NewProductService(products repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Create adds a product to the catalog. The rating projection starts at 0 / 0
// and is only ever touched by the aggregator afterwards.
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if input.Category == "" {
		return nil, apperrors.Validation("category is required")
	}
	if input.Price < 0 || input.OfferPrice < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}
	if input.OfferPrice > input.Price {
		return nil, apperrors.Validation("offer price must not exceed the list price")
	}

	imageURLs := input.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		OfferPrice:  input.OfferPrice,
		ImageURLs:   imageURLs,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("category", product.Category),
	)

	return product, nil
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns catalog products matching the filter, plus the distinct
// category set for the storefront's filter sidebar.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) (*ProductListResult, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, apperrors.Validation("min_price must not exceed max_price")
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &ProductListResult{
		Products:   products,
		Categories: categories,
		TotalCount: total,
	}, nil
}

// SetStock flips a product's in-stock flag.
func (s *ProductService) SetStock(ctx context.Context, id string, inStock bool) error {
	if err := s.products.SetStock(ctx, id, inStock); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product stock changed",
		slog.String("product_id", id),
		slog.Bool("in_stock", inStock),
	)
	return nil
}
