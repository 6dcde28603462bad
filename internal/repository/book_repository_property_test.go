package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func insertPropertyBook(ctx context.Context, repo BookRepository, categoryID uuid.UUID, stock int) (*domain.Book, error) {
	now := time.Now()
	book := &domain.Book{
		ID:         uuid.New(),
		Title:      "Property Book",
		Author:     "Property Author",
		Price:      10,
		CategoryID: categoryID,
		Language:   "Vietnamese",
		Format:     domain.FormatPaperback,
		Stock:      stock,
		IsActive:   true,
		Slug:       fmt.Sprintf("property-book-%s", uuid.NewString()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return book, repo.Create(ctx, book)
}

func TestProperty_SubtractStockNeverGoesNegative(t *testing.T) {
	category := createTestCategory(t, "Stock Properties")
	repo := NewBookRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("stock floors at zero and sold counts only removed units", prop.ForAll(
		func(initialStock, quantity int) bool {
			book, err := insertPropertyBook(ctx, repo, category.ID, initialStock)
			if err != nil {
				t.Logf("failed to insert book: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM books WHERE id = $1", book.ID)

			if err := repo.SubtractStock(ctx, book.ID, quantity); err != nil {
				t.Logf("SubtractStock failed: %v", err)
				return false
			}

			found, err := repo.FindByID(ctx, book.ID)
			if err != nil {
				t.Logf("FindByID failed: %v", err)
				return false
			}

			wantStock := initialStock - quantity
			if wantStock < 0 {
				wantStock = 0
			}
			wantSold := quantity
			if quantity > initialStock {
				wantSold = initialStock
			}

			return found.Stock == wantStock && found.Sold == wantSold
		},
		gen.IntRange(0, 100),
		gen.IntRange(1, 150),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RatingStaysWithinBounds(t *testing.T) {
	category := createTestCategory(t, "Rating Properties")
	repo := NewBookRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("running average stays within the rated range", prop.ForAll(
		func(ratings []int) bool {
			if len(ratings) == 0 {
				return true
			}

			book, err := insertPropertyBook(ctx, repo, category.ID, 1)
			if err != nil {
				t.Logf("failed to insert book: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM books WHERE id = $1", book.ID)

			min, max := 5, 1
			for _, r := range ratings {
				if err := repo.ApplyRating(ctx, book.ID, float64(r)); err != nil {
					t.Logf("ApplyRating failed: %v", err)
					return false
				}
				if r < min {
					min = r
				}
				if r > max {
					max = r
				}
			}

			found, err := repo.FindByID(ctx, book.ID)
			if err != nil {
				t.Logf("FindByID failed: %v", err)
				return false
			}

			if found.ReviewCount != len(ratings) {
				t.Logf("reviewCount = %d, want %d", found.ReviewCount, len(ratings))
				return false
			}
			// The stored average is rounded to two decimals, so allow a
			// small tolerance at the bounds.
			return found.Rating >= float64(min)-0.01 && found.Rating <= float64(max)+0.01
		},
		gen.SliceOf(gen.IntRange(1, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
