package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

// WishlistService implements per-user saved products.
type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	logger    *slog.Logger
}

// NewWishlistService creates a wishlist service.
func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		products:  products,
		logger:    logger,
	}
}

// Add saves a product to the user's wishlist. Adding a product twice answers
// with a conflict, matching the storefront's "already in wishlist" message.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return fmt.Errorf("check product exists: %w", err)
	}
	if !exists {
		return apperrors.NotFound("product", productID)
	}

	if err := s.wishlists.Add(ctx, userID, productID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "wishlist item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)
	return nil
}

// Remove drops a product from the user's wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	return s.wishlists.Remove(ctx, userID, productID)
}

// List returns the user's wishlist newest first with products joined in.
func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.wishlists.List(ctx, userID)
}

// Contains reports whether the product is in the user's wishlist.
func (s *WishlistService) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return s.wishlists.Contains(ctx, userID, productID)
}
