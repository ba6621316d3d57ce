package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	"github.com/Raman-Agnihotri/Green-cart/internal/service"
	"github.com/Raman-Agnihotri/Green-cart/pkg/httputil"
	"github.com/Raman-Agnihotri/Green-cart/pkg/validator"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for adding a catalog product.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	OfferPrice  float64  `json:"offer_price" validate:"gte=0"`
	ImageURLs   []string `json:"image_urls" validate:"dive,url"`
}

// SetStockRequest is the JSON request body for flipping a product's stock flag.
type SetStockRequest struct {
	InStock *bool `json:"in_stock" validate:"required"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "min_price must be a non-negative number"},
			})
			return
		}
		filter.MinPrice = &p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "max_price must be a non-negative number"},
			})
			return
		}
		filter.MaxPrice = &p
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// SetStock handles PATCH /api/v1/products/{id}/stock
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.SetStock(r.Context(), id, *req.InStock); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"id":       id,
		"in_stock": *req.InStock,
	}})
}
