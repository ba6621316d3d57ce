package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.Create(ctx, &CreateProductInput{
		Name:       "Organic Kale",
		Category:   "Vegetables",
		Price:      4.99,
		OfferPrice: 3.99,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, product.InStock)
	assert.Zero(t, product.AverageRating)
	assert.Zero(t, product.TotalReviews)
	assert.NotNil(t, product.ImageURLs)
	repo.AssertExpectations(t)
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Category: "Fruits", Price: 1}},
		{"missing category", CreateProductInput{Name: "Apple", Price: 1}},
		{"negative price", CreateProductInput{Name: "Apple", Category: "Fruits", Price: -1}},
		{"offer above list price", CreateProductInput{Name: "Apple", Category: "Fruits", Price: 2, OfferPrice: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := svc.Create(ctx, &tt.input)
			assert.Nil(t, product)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListProducts(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	filter := repository.ProductFilter{Category: "Fruits", SortBy: "price"}
	products := []domain.Product{{ID: "prod-1", Name: "Apple"}}
	repo.On("List", ctx, filter).Return(products, 1, nil)
	repo.On("Categories", ctx).Return([]string{"Fruits", "Vegetables"}, nil)

	result, err := svc.List(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, products, result.Products)
	assert.Equal(t, []string{"Fruits", "Vegetables"}, result.Categories)
	assert.Equal(t, 1, result.TotalCount)
}

func TestListProducts_InvalidPriceRange(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())

	minPrice, maxPrice := 10.0, 5.0
	result, err := svc.List(context.Background(), repository.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSetStock_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("SetStock", ctx, "prod-x", false).Return(apperrors.NotFound("product", "prod-x"))

	err := svc.SetStock(ctx, "prod-x", false)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
