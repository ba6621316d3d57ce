package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	"github.com/Raman-Agnihotri/Green-cart/internal/repository"
	"github.com/Raman-Agnihotri/Green-cart/pkg/database"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

const productColumns = `id, name, description, category, price, offer_price, image_urls,
	in_stock, average_rating, total_reviews, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.OfferPrice,
		&p.ImageURLs,
		&p.InStock,
		&p.AverageRating,
		&p.TotalReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, category, price, offer_price, image_urls, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Category,
		product.Price,
		product.OfferPrice,
		product.ImageURLs,
		product.InStock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID returns a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProduct", query)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// sortColumn whitelists sortable fields so the ORDER BY clause is never built
// from raw user input.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "name"
	case "price":
		return "offer_price"
	case "rating":
		return "average_rating"
	default:
		return "created_at"
	}
}

// List returns products matching the filter with the total match count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		conditions = append(conditions, "name ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(filter.Category))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "offer_price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "offer_price <= "+arg(*filter.MaxPrice))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	query := `SELECT ` + productColumns + `, count(*) OVER() AS total_count FROM products` +
		where + ` ORDER BY ` + sortColumn(filter.SortBy) + ` ` + order

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	rows, err := r.pool.Query(ctx, query, args...)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products = []domain.Product{}
		total    int
	)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Price,
			&p.OfferPrice,
			&p.ImageURLs,
			&p.InStock,
			&p.AverageRating,
			&p.TotalReviews,
			&p.CreatedAt,
			&p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// Categories returns the distinct category names in the catalog.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM products ORDER BY category`

	ctx, end := database.TraceQuery(ctx, "ListCategories", query)
	rows, err := r.pool.Query(ctx, query)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// SetStock flips the in-stock flag.
func (r *ProductRepository) SetStock(ctx context.Context, id string, inStock bool) error {
	query := `UPDATE products SET in_stock = $2, updated_at = NOW() WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "SetProductStock", query)
	ct, err := r.pool.Exec(ctx, query, id, inStock)
	end(err)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// WriteRatingSummary stores the aggregate projection on the product row.
func (r *ProductRepository) WriteRatingSummary(ctx context.Context, productID string, summary domain.RatingSummary) error {
	query := `
		UPDATE products
		SET average_rating = $2, total_reviews = $3, updated_at = NOW()
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "WriteRatingSummary", query)
	ct, err := r.pool.Exec(ctx, query, productID, summary.AverageRating, summary.TotalReviews)
	end(err)
	if err != nil {
		return fmt.Errorf("write rating summary: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", productID)
	}

	return nil
}

// Exists reports whether a product row exists.
func (r *ProductRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`

	ctx, end := database.TraceQuery(ctx, "ProductExists", query)
	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}

	return exists, nil
}
