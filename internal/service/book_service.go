package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidISBN           = errors.New("ISBN must be 10 or 13 digits")
	ErrInvalidPublishedYear  = errors.New("Published year is out of range")
	ErrInvalidBookFormat     = errors.New("Invalid book format")
	ErrInvalidStockOperation = errors.New("Invalid operation. Use \"add\" or \"subtract\"")
	ErrInvalidRating         = errors.New("Rating must be between 0 and 5")
	ErrInvalidQuantity       = errors.New("Quantity must be positive")
)

// Stock adjustment operations accepted by UpdateStock.
const (
	StockOpAdd      = "add"
	StockOpSubtract = "subtract"
)

// CreateBookInput is the admin catalog-entry payload.
type CreateBookInput struct {
	Title         string             `json:"title" validate:"required,max=200"`
	Author        string             `json:"author" validate:"required,max=100"`
	ISBN          *string            `json:"isbn"`
	Description   string             `json:"description" validate:"required,max=2000"`
	Price         float64            `json:"price" validate:"gte=0"`
	OriginalPrice *float64           `json:"originalPrice" validate:"omitempty,gte=0"`
	CategoryID    uuid.UUID          `json:"categoryId" validate:"required"`
	Publisher     *string            `json:"publisher" validate:"omitempty,max=100"`
	PublishedYear *int               `json:"publishedYear"`
	Pages         *int               `json:"pages" validate:"omitempty,gte=1"`
	Language      *string            `json:"language" validate:"omitempty,max=50"`
	Format        *string            `json:"format"`
	Dimensions    *domain.Dimensions `json:"dimensions"`
	Weight        *float64           `json:"weight" validate:"omitempty,gte=0"`
	Images        []domain.BookImage `json:"images"`
	Stock         *int               `json:"stock" validate:"omitempty,gte=0"`
	IsActive      *bool              `json:"isActive"`
	IsFeatured    *bool              `json:"isFeatured"`
	IsOnSale      *bool              `json:"isOnSale"`
	SaleStartDate *string            `json:"saleStartDate"`
	SaleEndDate   *string            `json:"saleEndDate"`
	Tags          []string           `json:"tags"`
	MetaTitle     *string            `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDesc      *string            `json:"metaDescription" validate:"omitempty,max=500"`
	Keywords      []string           `json:"keywords"`
}

// UpdateBookInput carries partial edits; nil fields stay unchanged.
type UpdateBookInput struct {
	Title         *string            `json:"title" validate:"omitempty,max=200"`
	Author        *string            `json:"author" validate:"omitempty,max=100"`
	ISBN          *string            `json:"isbn"`
	Description   *string            `json:"description" validate:"omitempty,max=2000"`
	Price         *float64           `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64           `json:"originalPrice" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID         `json:"categoryId"`
	Publisher     *string            `json:"publisher" validate:"omitempty,max=100"`
	PublishedYear *int               `json:"publishedYear"`
	Pages         *int               `json:"pages" validate:"omitempty,gte=1"`
	Language      *string            `json:"language" validate:"omitempty,max=50"`
	Format        *string            `json:"format"`
	Dimensions    *domain.Dimensions `json:"dimensions"`
	Weight        *float64           `json:"weight" validate:"omitempty,gte=0"`
	Images        []domain.BookImage `json:"images"`
	CoverImage    *domain.BookImage  `json:"coverImage"`
	Stock         *int               `json:"stock" validate:"omitempty,gte=0"`
	IsActive      *bool              `json:"isActive"`
	IsFeatured    *bool              `json:"isFeatured"`
	IsOnSale      *bool              `json:"isOnSale"`
	SaleStartDate *string            `json:"saleStartDate"`
	SaleEndDate   *string            `json:"saleEndDate"`
	Tags          []string           `json:"tags"`
	MetaTitle     *string            `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDesc      *string            `json:"metaDescription" validate:"omitempty,max=500"`
	Keywords      []string           `json:"keywords"`
}

// BookService defines the interface for catalog business logic
type BookService interface {
	List(ctx context.Context, q repository.BookQuery) ([]*domain.Book, repository.PageInfo, error)
	GetByID(ctx context.Context, id uuid.UUID, countView bool) (*domain.Book, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Book, error)
	Featured(ctx context.Context, limit int) ([]*domain.Book, error)
	Related(ctx context.Context, bookID uuid.UUID, limit int) ([]*domain.Book, error)
	Create(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	UpdateStock(ctx context.Context, id uuid.UUID, quantity int, operation string) (*domain.Book, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) (*domain.Book, error)
	Stats(ctx context.Context) (*domain.BookStats, error)
}

type bookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewBookService creates a new instance of BookService
func NewBookService(bookRepo repository.BookRepository, categoryRepo repository.CategoryRepository, logger *zap.Logger) BookService {
	return &bookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List retrieves a page of books with pagination metadata
func (s *bookService) List(ctx context.Context, q repository.BookQuery) ([]*domain.Book, repository.PageInfo, error) {
	books, total, err := s.bookRepo.List(ctx, q)
	if err != nil {
		return nil, repository.PageInfo{}, err
	}
	return books, repository.NewPageInfo(q.Page, q.Limit, total), nil
}

// GetByID retrieves one book. With countView set the view counter is
// bumped best-effort: a failed bump never fails the read.
func (s *bookService) GetByID(ctx context.Context, id uuid.UUID, countView bool) (*domain.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if countView {
		s.bumpViewCount(ctx, book)
	}

	return book, nil
}

// GetBySlug retrieves one active book by slug and bumps its view counter.
// Inactive books are not found through this path even with a valid slug.
func (s *bookService) GetBySlug(ctx context.Context, slug string) (*domain.Book, error) {
	book, err := s.bookRepo.FindBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}

	s.bumpViewCount(ctx, book)

	return book, nil
}

func (s *bookService) bumpViewCount(ctx context.Context, book *domain.Book) {
	if err := s.bookRepo.IncrementViewCount(ctx, book.ID); err != nil {
		s.logger.Warn("failed to increment view count",
			zap.String("book_id", book.ID.String()),
			zap.Error(err))
		return
	}
	book.ViewCount++
}

// Featured retrieves the featured shelf
func (s *bookService) Featured(ctx context.Context, limit int) ([]*domain.Book, error) {
	if limit < 1 {
		limit = 10
	}
	return s.bookRepo.Featured(ctx, limit)
}

// Related retrieves books sharing a category or tag with the given book
func (s *bookService) Related(ctx context.Context, bookID uuid.UUID, limit int) ([]*domain.Book, error) {
	if limit < 1 {
		limit = 4
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return s.bookRepo.Related(ctx, book.ID, book.CategoryID, book.Tags, limit)
}

// Create adds a catalog entry and bumps the category's book counter
func (s *bookService) Create(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if input.ISBN != nil && !domain.ValidISBN(*input.ISBN) {
		return nil, ErrInvalidISBN
	}
	if input.PublishedYear != nil && !validPublishedYear(*input.PublishedYear) {
		return nil, ErrInvalidPublishedYear
	}

	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	book := &domain.Book{
		ID:            uuid.New(),
		Title:         input.Title,
		Author:        input.Author,
		ISBN:          input.ISBN,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		CategoryID:    category.ID,
		PublishedYear: input.PublishedYear,
		Pages:         input.Pages,
		Language:      "Vietnamese",
		Format:        domain.FormatPaperback,
		Dimensions:    input.Dimensions,
		Weight:        input.Weight,
		Images:        input.Images,
		IsActive:      true,
		Tags:          input.Tags,
		Slug:          domain.BookSlug(input.Title),
		Keywords:      input.Keywords,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.Language != nil {
		book.Language = *input.Language
	}
	if input.Format != nil {
		format := domain.BookFormat(*input.Format)
		if !domain.ValidBookFormat(format) {
			return nil, ErrInvalidBookFormat
		}
		book.Format = format
	}
	if input.Stock != nil {
		book.Stock = *input.Stock
	}
	if input.IsActive != nil {
		book.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		book.IsFeatured = *input.IsFeatured
	}
	if input.IsOnSale != nil {
		book.IsOnSale = *input.IsOnSale
	}
	if input.SaleStartDate != nil {
		start, err := parseDate(*input.SaleStartDate)
		if err != nil {
			return nil, err
		}
		book.SaleStartDate = start
	}
	if input.SaleEndDate != nil {
		end, err := parseDate(*input.SaleEndDate)
		if err != nil {
			return nil, err
		}
		book.SaleEndDate = end
	}
	if input.MetaTitle != nil {
		book.MetaTitle = *input.MetaTitle
	}
	if input.MetaDesc != nil {
		book.MetaDesc = *input.MetaDesc
	}
	book.EnsureCoverImage()

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.IncrementBookCount(ctx, category.ID, 1); err != nil {
		return nil, fmt.Errorf("failed to update category book count: %w", err)
	}

	book.Category = category
	return book, nil
}

// Update applies partial edits. A title change regenerates the slug; a
// category change moves the denormalized book counter from the old
// category to the new one.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (*domain.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousCategoryID := book.CategoryID

	if input.Title != nil && *input.Title != book.Title {
		book.Title = *input.Title
		book.Slug = domain.BookSlug(*input.Title)
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.ISBN != nil {
		if !domain.ValidISBN(*input.ISBN) {
			return nil, ErrInvalidISBN
		}
		book.ISBN = input.ISBN
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		book.OriginalPrice = input.OriginalPrice
	}
	if input.CategoryID != nil && *input.CategoryID != book.CategoryID {
		category, err := s.categoryRepo.FindByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		book.CategoryID = category.ID
		book.Category = category
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.PublishedYear != nil {
		if !validPublishedYear(*input.PublishedYear) {
			return nil, ErrInvalidPublishedYear
		}
		book.PublishedYear = input.PublishedYear
	}
	if input.Pages != nil {
		book.Pages = input.Pages
	}
	if input.Language != nil {
		book.Language = *input.Language
	}
	if input.Format != nil {
		format := domain.BookFormat(*input.Format)
		if !domain.ValidBookFormat(format) {
			return nil, ErrInvalidBookFormat
		}
		book.Format = format
	}
	if input.Dimensions != nil {
		book.Dimensions = input.Dimensions
	}
	if input.Weight != nil {
		book.Weight = input.Weight
	}
	if input.Images != nil {
		book.Images = input.Images
		book.CoverImage = nil
	}
	if input.CoverImage != nil {
		book.CoverImage = input.CoverImage
	}
	if input.Stock != nil {
		book.Stock = *input.Stock
	}
	if input.IsActive != nil {
		book.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		book.IsFeatured = *input.IsFeatured
	}
	if input.IsOnSale != nil {
		book.IsOnSale = *input.IsOnSale
	}
	if input.SaleStartDate != nil {
		start, err := parseDate(*input.SaleStartDate)
		if err != nil {
			return nil, err
		}
		book.SaleStartDate = start
	}
	if input.SaleEndDate != nil {
		end, err := parseDate(*input.SaleEndDate)
		if err != nil {
			return nil, err
		}
		book.SaleEndDate = end
	}
	if input.Tags != nil {
		book.Tags = input.Tags
	}
	if input.MetaTitle != nil {
		book.MetaTitle = *input.MetaTitle
	}
	if input.MetaDesc != nil {
		book.MetaDesc = *input.MetaDesc
	}
	if input.Keywords != nil {
		book.Keywords = input.Keywords
	}
	book.EnsureCoverImage()
	book.UpdatedAt = time.Now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	if book.CategoryID != previousCategoryID {
		if err := s.categoryRepo.IncrementBookCount(ctx, previousCategoryID, -1); err != nil {
			return nil, fmt.Errorf("failed to update category book count: %w", err)
		}
		if err := s.categoryRepo.IncrementBookCount(ctx, book.CategoryID, 1); err != nil {
			return nil, fmt.Errorf("failed to update category book count: %w", err)
		}
	}

	return book, nil
}

// Delete removes a book and decrements its category's book counter
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.categoryRepo.IncrementBookCount(ctx, book.CategoryID, -1); err != nil {
		return fmt.Errorf("failed to update category book count: %w", err)
	}

	return nil
}

// ToggleStatus flips the active flag
func (s *bookService) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.bookRepo.SetActive(ctx, id, !book.IsActive); err != nil {
		return nil, err
	}
	book.IsActive = !book.IsActive

	return book, nil
}

// ToggleFeatured flips the featured flag
func (s *bookService) ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.bookRepo.SetFeatured(ctx, id, !book.IsFeatured); err != nil {
		return nil, err
	}
	book.IsFeatured = !book.IsFeatured

	return book, nil
}

// UpdateStock adjusts inventory. Subtracting floors stock at zero and
// counts only the units actually removed as sold.
func (s *bookService) UpdateStock(ctx context.Context, id uuid.UUID, quantity int, operation string) (*domain.Book, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	switch operation {
	case StockOpAdd:
		if err := s.bookRepo.AddStock(ctx, id, quantity); err != nil {
			return nil, err
		}
	case StockOpSubtract:
		if err := s.bookRepo.SubtractStock(ctx, id, quantity); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidStockOperation
	}

	return s.bookRepo.FindByID(ctx, id)
}

// UpdateRating folds one rating into the stored running average
func (s *bookService) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) (*domain.Book, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if err := s.bookRepo.ApplyRating(ctx, id, rating); err != nil {
		return nil, err
	}

	return s.bookRepo.FindByID(ctx, id)
}

// Stats aggregates the catalog for the admin dashboard
func (s *bookService) Stats(ctx context.Context) (*domain.BookStats, error) {
	return s.bookRepo.Stats(ctx)
}

func validPublishedYear(year int) bool {
	return year >= 1000 && year <= time.Now().Year()
}
