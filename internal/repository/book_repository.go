package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrDuplicateISBN     = errors.New("a book with this ISBN already exists")
	ErrDuplicateBookSlug = errors.New("a book with this slug already exists")
)

// BookQuery bundles the listing parameters: filter, free-text search,
// sorting and pagination. Substring switches the search from full-text
// ranking to a plain ILIKE match over title/author/isbn/publisher, which
// is what the admin catalog view uses.
type BookQuery struct {
	Filter    BookFilter
	Search    string
	Substring bool
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// BookRepository defines the interface for book data access
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	FindBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Book, error)
	List(ctx context.Context, q BookQuery) ([]*domain.Book, int, error)
	Featured(ctx context.Context, limit int) ([]*domain.Book, error)
	Related(ctx context.Context, bookID, categoryID uuid.UUID, tags []string, limit int) ([]*domain.Book, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	AddStock(ctx context.Context, id uuid.UUID, quantity int) error
	SubtractStock(ctx context.Context, id uuid.UUID, quantity int) error
	ApplyRating(ctx context.Context, id uuid.UUID, rating float64) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	CountInCategories(ctx context.Context, categoryIDs []uuid.UUID) (int, error)
	Stats(ctx context.Context) (*domain.BookStats, error)
}

type bookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new instance of BookRepository
func NewBookRepository(db *sql.DB) BookRepository {
	return &bookRepository{db: db}
}

// bookColumns is every book column plus the joined category summary. All
// book queries select through the "b" alias so filter fragments can
// qualify columns the same way.
const bookColumns = `
	b.id, b.title, b.author, b.isbn, b.description, b.price, b.original_price,
	b.category_id, b.publisher, b.published_year, b.pages, b.language, b.format,
	b.dimensions, b.weight, b.images, b.cover_image, b.stock, b.sold, b.rating,
	b.review_count, b.is_active, b.is_featured, b.is_on_sale, b.sale_start_date,
	b.sale_end_date, b.tags, b.slug, b.meta_title, b.meta_description, b.keywords,
	b.view_count, b.wishlist_count, b.created_at, b.updated_at,
	c.id, c.name, c.slug, c.description`

const bookFrom = ` FROM books b JOIN categories c ON c.id = b.category_id `

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(s rowScanner) (*domain.Book, error) {
	var (
		book          domain.Book
		category      domain.Category
		dimensionsRaw []byte
		imagesRaw     []byte
		coverRaw      []byte
	)

	err := s.Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN, &book.Description,
		&book.Price, &book.OriginalPrice, &book.CategoryID, &book.Publisher,
		&book.PublishedYear, &book.Pages, &book.Language, &book.Format,
		&dimensionsRaw, &book.Weight, &imagesRaw, &coverRaw,
		&book.Stock, &book.Sold, &book.Rating, &book.ReviewCount,
		&book.IsActive, &book.IsFeatured, &book.IsOnSale,
		&book.SaleStartDate, &book.SaleEndDate,
		pq.Array(&book.Tags), &book.Slug, &book.MetaTitle, &book.MetaDesc,
		pq.Array(&book.Keywords), &book.ViewCount, &book.WishlistCount,
		&book.CreatedAt, &book.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.Description,
	)
	if err != nil {
		return nil, err
	}

	if len(dimensionsRaw) > 0 {
		var dims domain.Dimensions
		if err := unmarshalJSON(dimensionsRaw, &dims); err != nil {
			return nil, fmt.Errorf("failed to decode dimensions: %w", err)
		}
		book.Dimensions = &dims
	}
	if err := unmarshalJSON(imagesRaw, &book.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if len(coverRaw) > 0 {
		var cover domain.BookImage
		if err := unmarshalJSON(coverRaw, &cover); err != nil {
			return nil, fmt.Errorf("failed to decode cover image: %w", err)
		}
		book.CoverImage = &cover
	}

	book.Category = &category
	return &book, nil
}

// Create inserts a new book using parameterized queries
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	dimensions, err := marshalJSON(book.Dimensions)
	if err != nil {
		return err
	}
	images, err := marshalJSON(book.Images)
	if err != nil {
		return err
	}
	cover, err := marshalJSON(book.CoverImage)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO books (
			id, title, author, isbn, description, price, original_price,
			category_id, publisher, published_year, pages, language, format,
			dimensions, weight, images, cover_image, stock, sold, rating,
			review_count, is_active, is_featured, is_on_sale, sale_start_date,
			sale_end_date, tags, slug, meta_title, meta_description, keywords,
			view_count, wishlist_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14::jsonb, $15, $16::jsonb, $17::jsonb, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35
		)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		book.ID, book.Title, book.Author, book.ISBN, book.Description,
		book.Price, book.OriginalPrice, book.CategoryID, book.Publisher,
		book.PublishedYear, book.Pages, book.Language, book.Format,
		dimensions, book.Weight, images, cover,
		book.Stock, book.Sold, book.Rating, book.ReviewCount,
		book.IsActive, book.IsFeatured, book.IsOnSale,
		book.SaleStartDate, book.SaleEndDate,
		pq.Array(book.Tags), book.Slug, book.MetaTitle, book.MetaDesc,
		pq.Array(book.Keywords), book.ViewCount, book.WishlistCount,
		book.CreatedAt, book.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "books_isbn_key") {
			return ErrDuplicateISBN
		}
		if isUniqueViolation(err, "books_slug_key") {
			return ErrDuplicateBookSlug
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// Update rewrites every mutable column of an existing book
func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	dimensions, err := marshalJSON(book.Dimensions)
	if err != nil {
		return err
	}
	images, err := marshalJSON(book.Images)
	if err != nil {
		return err
	}
	cover, err := marshalJSON(book.CoverImage)
	if err != nil {
		return err
	}

	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, description = $5, price = $6,
		    original_price = $7, category_id = $8, publisher = $9,
		    published_year = $10, pages = $11, language = $12, format = $13,
		    dimensions = $14::jsonb, weight = $15, images = $16::jsonb,
		    cover_image = $17::jsonb, is_active = $18, is_featured = $19,
		    is_on_sale = $20, sale_start_date = $21, sale_end_date = $22,
		    tags = $23, slug = $24, meta_title = $25, meta_description = $26,
		    keywords = $27, stock = $28, updated_at = $29
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		book.ID, book.Title, book.Author, book.ISBN, book.Description,
		book.Price, book.OriginalPrice, book.CategoryID, book.Publisher,
		book.PublishedYear, book.Pages, book.Language, book.Format,
		dimensions, book.Weight, images, cover,
		book.IsActive, book.IsFeatured, book.IsOnSale,
		book.SaleStartDate, book.SaleEndDate,
		pq.Array(book.Tags), book.Slug, book.MetaTitle, book.MetaDesc,
		pq.Array(book.Keywords), book.Stock, book.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "books_isbn_key") {
			return ErrDuplicateISBN
		}
		if isUniqueViolation(err, "books_slug_key") {
			return ErrDuplicateBookSlug
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// Delete removes a book from the database
func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// FindByID retrieves a book by its ID
func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT` + bookColumns + bookFrom + `WHERE b.id = $1`

	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to find book by id: %w", err)
	}

	return book, nil
}

// FindBySlug retrieves a book by its slug. With activeOnly set, inactive
// books are reported as not found; the public detail page uses that so
// hidden books stay hidden even when the slug is known.
func (r *bookRepository) FindBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Book, error) {
	query := `SELECT` + bookColumns + bookFrom + `WHERE b.slug = $1`
	if activeOnly {
		query += ` AND b.is_active = TRUE`
	}

	book, err := scanBook(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to find book by slug: %w", err)
	}

	return book, nil
}

// List retrieves a page of books matching the query along with the total
// count before pagination
func (r *bookRepository) List(ctx context.Context, q BookQuery) ([]*domain.Book, int, error) {
	if err := ValidatePagination(q.Page, q.Limit); err != nil {
		return nil, 0, err
	}

	builder := &condBuilder{}
	q.Filter.apply(builder)

	orderBy := fmt.Sprintf("b.%s %s", bookSortColumn(q.SortBy), Direction(q.SortOrder))

	if search := strings.TrimSpace(q.Search); search != "" {
		if q.Substring {
			pattern := "%" + search + "%"
			builder.add(
				"(b.title ILIKE $%d OR b.author ILIKE $%d OR b.isbn ILIKE $%d OR b.publisher ILIKE $%d)",
				pattern, pattern, pattern, pattern,
			)
		} else {
			// The same placeholder feeds both the match and the rank so
			// the query is parsed only once per row.
			idx := builder.next()
			builder.add("b.search_vector @@ websearch_to_tsquery('english', $%d)", search)
			orderBy = fmt.Sprintf(
				"ts_rank(b.search_vector, websearch_to_tsquery('english', $%d)) DESC, %s",
				idx, orderBy,
			)
		}
	}

	countQuery := `SELECT COUNT(*) FROM books b ` + builder.where()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, builder.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT%s%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		bookColumns, bookFrom, builder.where(), orderBy, builder.next(), builder.next()+1,
	)
	args := append(builder.args, q.Limit, Offset(q.Page, q.Limit))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0, q.Limit)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, total, nil
}

// Featured retrieves active featured books, best rated first
func (r *bookRepository) Featured(ctx context.Context, limit int) ([]*domain.Book, error) {
	query := `SELECT` + bookColumns + bookFrom + `
		WHERE b.is_featured = TRUE AND b.is_active = TRUE
		ORDER BY b.rating DESC, b.sold DESC
		LIMIT $1`

	return r.queryBooks(ctx, query, limit)
}

// Related retrieves active books that share a category or at least one tag
// with the given book, excluding the book itself
func (r *bookRepository) Related(ctx context.Context, bookID, categoryID uuid.UUID, tags []string, limit int) ([]*domain.Book, error) {
	query := `SELECT` + bookColumns + bookFrom + `
		WHERE b.id <> $1 AND b.is_active = TRUE
		  AND (b.category_id = $2 OR b.tags && $3)
		ORDER BY b.rating DESC, b.sold DESC
		LIMIT $4`

	return r.queryBooks(ctx, query, bookID, categoryID, pq.Array(tags), limit)
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// IncrementViewCount bumps the view counter in a single statement so
// concurrent reads never lose increments
func (r *bookRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE books SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// AddStock increases stock by quantity
func (r *bookRepository) AddStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE books SET stock = stock + $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// SubtractStock decreases stock by quantity, flooring at zero, and counts
// only the units actually removed as sold. Both SET expressions read the
// pre-update row, so the statement is atomic under concurrency.
func (r *bookRepository) SubtractStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE books
		SET sold = sold + LEAST(stock, $2),
		    stock = GREATEST(stock - $2, 0),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("failed to subtract stock: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// ApplyRating folds one new rating into the stored running average
func (r *bookRepository) ApplyRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `
		UPDATE books
		SET rating = (rating * review_count + $2) / (review_count + 1),
		    review_count = review_count + 1,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, rating)
	if err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// SetActive flips the active flag
func (r *bookRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE books SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set book active: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// SetFeatured flips the featured flag
func (r *bookRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	query := `UPDATE books SET is_featured = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, featured)
	if err != nil {
		return fmt.Errorf("failed to set book featured: %w", err)
	}
	return requireRow(result, ErrBookNotFound)
}

// CountInCategories reports how many books reference any of the given
// categories. The category delete guard uses this.
func (r *bookRepository) CountInCategories(ctx context.Context, categoryIDs []uuid.UUID) (int, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	var count int
	query := `SELECT COUNT(*) FROM books WHERE category_id = ANY($1)`
	if err := r.db.QueryRowContext(ctx, query, pq.Array(categoryIDs)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books in categories: %w", err)
	}

	return count, nil
}

// Stats aggregates the book collection for the admin dashboard. The
// average is taken over every book, unrated ones included at their
// default rating of 0, and rounded to two decimals.
func (r *bookRepository) Stats(ctx context.Context) (*domain.BookStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COALESCE(SUM(stock), 0),
			COALESCE(SUM(sold), 0),
			COALESCE(ROUND(AVG(rating)::numeric, 2), 0),
			COUNT(*) FILTER (WHERE is_featured),
			COUNT(*) FILTER (WHERE stock = 0)
		FROM books
	`

	var stats domain.BookStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalBooks,
		&stats.ActiveBooks,
		&stats.InactiveBooks,
		&stats.TotalStock,
		&stats.TotalSold,
		&stats.AverageRating,
		&stats.FeaturedBooks,
		&stats.OutOfStockBooks,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load book stats: %w", err)
	}

	return &stats, nil
}
