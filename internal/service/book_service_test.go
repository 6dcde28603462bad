package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestBookService() (BookService, *mockBookRepository, *mockCategoryRepository) {
	bookRepo := newMockBookRepository()
	categoryRepo := newMockCategoryRepository()
	return NewBookService(bookRepo, categoryRepo, zap.NewNop()), bookRepo, categoryRepo
}

func seedCategory(t *testing.T, repo *mockCategoryRepository, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     domain.Slugify(name),
		IsActive: true,
	}
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func TestBookService_CreateDefaultsAndCounter(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Novels")

	book, err := svc.Create(ctx, CreateBookInput{
		Title:       "The Sympathizer",
		Author:      "Viet Thanh Nguyen",
		Description: "A spy novel",
		Price:       15,
		CategoryID:  category.ID,
		Images: []domain.BookImage{
			{URL: "/uploads/a.jpg"},
			{URL: "/uploads/b.jpg", IsMain: true},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if book.Language != "Vietnamese" {
		t.Errorf("language = %q, want default Vietnamese", book.Language)
	}
	if book.Format != domain.FormatPaperback {
		t.Errorf("format = %q, want default paperback", book.Format)
	}
	if !book.IsActive {
		t.Error("new book should default to active")
	}
	if !strings.HasPrefix(book.Slug, "the-sympathizer-") {
		t.Errorf("slug not derived from title: %q", book.Slug)
	}
	if book.CoverImage == nil || book.CoverImage.URL != "/uploads/b.jpg" {
		t.Errorf("cover image not derived from main image: %+v", book.CoverImage)
	}

	updated, err := categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.BookCount != 1 {
		t.Errorf("category bookCount = %d, want 1", updated.BookCount)
	}
}

func TestBookService_CreateValidation(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Validation")

	base := CreateBookInput{
		Title: "T", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
	}

	t.Run("bad isbn", func(t *testing.T) {
		input := base
		input.ISBN = ptr("12-34")
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrInvalidISBN) {
			t.Errorf("expected ErrInvalidISBN, got %v", err)
		}
	})

	t.Run("future published year", func(t *testing.T) {
		input := base
		input.PublishedYear = ptr(time.Now().Year() + 1)
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrInvalidPublishedYear) {
			t.Errorf("expected ErrInvalidPublishedYear, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		input := base
		input.Format = ptr("scroll")
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrInvalidBookFormat) {
			t.Errorf("expected ErrInvalidBookFormat, got %v", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		input := base
		input.CategoryID = uuid.New()
		if _, err := svc.Create(ctx, input); !errors.Is(err, repository.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestBookService_UpdateMovesCategoryCounter(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	oldCategory := seedCategory(t, categoryRepo, "Old Shelf")
	newCategory := seedCategory(t, categoryRepo, "New Shelf")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "Mover", Author: "A", Description: "D", Price: 1, CategoryID: oldCategory.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(ctx, book.ID, UpdateBookInput{CategoryID: &newCategory.ID}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	oldAfter, _ := categoryRepo.FindByID(ctx, oldCategory.ID)
	newAfter, _ := categoryRepo.FindByID(ctx, newCategory.ID)
	if oldAfter.BookCount != 0 {
		t.Errorf("old category count = %d, want 0", oldAfter.BookCount)
	}
	if newAfter.BookCount != 1 {
		t.Errorf("new category count = %d, want 1", newAfter.BookCount)
	}
}

func TestBookService_UpdateTitleRegeneratesSlug(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Slugs")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "First Title", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	originalSlug := book.Slug

	updated, err := svc.Update(ctx, book.ID, UpdateBookInput{Title: ptr("Second Title")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !strings.HasPrefix(updated.Slug, "second-title-") {
		t.Errorf("slug not regenerated: %q", updated.Slug)
	}

	// An update that leaves the title alone keeps the slug stable.
	updated, err = svc.Update(ctx, book.ID, UpdateBookInput{Price: ptr(2.0)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Slug == originalSlug {
		t.Errorf("slug reverted to the original after unrelated update")
	}
}

func TestBookService_DeleteDecrementsCounter(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Shrinking")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "Doomed", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, book.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	after, _ := categoryRepo.FindByID(ctx, category.ID)
	if after.BookCount != 0 {
		t.Errorf("category count = %d, want 0", after.BookCount)
	}
}

func TestBookService_UpdateStock(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Inventory")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "Stocked", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
		Stock: ptr(5),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("add", func(t *testing.T) {
		updated, err := svc.UpdateStock(ctx, book.ID, 3, StockOpAdd)
		if err != nil {
			t.Fatalf("UpdateStock failed: %v", err)
		}
		if updated.Stock != 8 {
			t.Errorf("stock = %d, want 8", updated.Stock)
		}
	})

	t.Run("subtract floors at zero", func(t *testing.T) {
		updated, err := svc.UpdateStock(ctx, book.ID, 20, StockOpSubtract)
		if err != nil {
			t.Fatalf("UpdateStock failed: %v", err)
		}
		if updated.Stock != 0 {
			t.Errorf("stock = %d, want 0", updated.Stock)
		}
		if updated.Sold != 8 {
			t.Errorf("sold = %d, want 8", updated.Sold)
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		if _, err := svc.UpdateStock(ctx, book.ID, 1, "multiply"); !errors.Is(err, ErrInvalidStockOperation) {
			t.Errorf("expected ErrInvalidStockOperation, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		if _, err := svc.UpdateStock(ctx, book.ID, 0, StockOpAdd); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestBookService_UpdateRating(t *testing.T) {
	svc, _, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Reviews")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "Rated", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.UpdateRating(ctx, book.ID, 5.5); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for 5.5, got %v", err)
	}
	if _, err := svc.UpdateRating(ctx, book.ID, -1); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for -1, got %v", err)
	}

	updated, err := svc.UpdateRating(ctx, book.ID, 4)
	if err != nil {
		t.Fatalf("UpdateRating failed: %v", err)
	}
	if updated.Rating != 4 || updated.ReviewCount != 1 {
		t.Errorf("rating=%v reviewCount=%d, want 4 and 1", updated.Rating, updated.ReviewCount)
	}
}

func TestBookService_GetBySlugBumpsViewCount(t *testing.T) {
	svc, bookRepo, categoryRepo := newTestBookService()
	ctx := context.Background()
	category := seedCategory(t, categoryRepo, "Views")

	book, err := svc.Create(ctx, CreateBookInput{
		Title: "Watched", Author: "A", Description: "D", Price: 1, CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := svc.GetBySlug(ctx, book.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if found.ViewCount != 1 {
		t.Errorf("viewCount = %d, want 1", found.ViewCount)
	}
	if bookRepo.books[book.ID].ViewCount != 1 {
		t.Errorf("stored viewCount = %d, want 1", bookRepo.books[book.ID].ViewCount)
	}
}
