package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raman-Agnihotri/Green-cart/internal/domain"
	apperrors "github.com/Raman-Agnihotri/Green-cart/pkg/errors"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewReviewRepository(mock), mock
}

func sampleReview() *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		ID:         "rev-1",
		ProductID:  "prod-1",
		UserID:     "user-1",
		AuthorName: "Asha",
		Rating:     5,
		Comment:    "Crisp and fresh, arrived same day.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.AuthorName, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), rv)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_UniqueViolationIsDuplicate(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(rv.ID, rv.ProductID, rv.UserID, rv.AuthorName, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint \"idx_reviews_user_product\" (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "product_id", "user_id", "author_name", "rating", "comment", "created_at", "updated_at"}).
		AddRow("rev-1", "prod-1", "user-1", "Asha", 3, "Quality dropped on reorder.", now.Add(-time.Hour), now)

	mock.ExpectQuery("UPDATE reviews").
		WithArgs("rev-1", "user-1", 3, "Quality dropped on reorder.").
		WillReturnRows(rows)

	rv, err := repo.Update(context.Background(), "rev-1", "user-1", 3, "Quality dropped on reorder.")
	require.NoError(t, err)
	assert.Equal(t, 3, rv.Rating)
	assert.Equal(t, "prod-1", rv.ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NotOwnedLooksMissing(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	// Same zero-row outcome whether the review is missing or owned by
	// someone else.
	mock.ExpectQuery("UPDATE reviews").
		WithArgs("rev-1", "intruder", 1, "nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), "rev-1", "intruder", 1, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_ReturnsProductID(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("DELETE FROM reviews").
		WithArgs("rev-1", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"product_id"}).AddRow("prod-1"))

	productID, err := repo.Delete(context.Background(), "rev-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", productID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("DELETE FROM reviews").
		WithArgs("rev-missing", "user-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Delete(context.Background(), "rev-missing", "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProduct_NewestFirst(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "product_id", "user_id", "author_name", "rating", "comment", "created_at", "updated_at"}).
		AddRow("rev-2", "prod-1", "user-2", "Ben", 2, "Bruised on arrival.", now, now).
		AddRow("rev-1", "prod-1", "user-1", "Asha", 5, "Great.", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, product_id, user_id, author_name, rating, comment").
		WithArgs("prod-1").
		WillReturnRows(rows)

	reviews, err := repo.ListByProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "rev-2", reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProduct_Empty(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, product_id, user_id, author_name, rating, comment").
		WithArgs("prod-quiet").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "user_id", "author_name", "rating", "comment", "created_at", "updated_at"}))

	reviews, err := repo.ListByProduct(context.Background(), "prod-quiet")
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Summarize(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(3.5, 2))

	avg, count, err := repo.Summarize(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 1e-9)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Summarize_EmptyIsZero(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("prod-quiet").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	avg, count, err := repo.Summarize(context.Background(), "prod-quiet")
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
