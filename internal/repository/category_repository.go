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
	ErrCategoryNotFound      = errors.New("category not found")
	ErrDuplicateCategoryName = errors.New("a category with this name already exists")
	ErrDuplicateCategorySlug = errors.New("a category with this slug already exists")
)

// CategoryQuery bundles the listing parameters for categories. Search is
// an ILIKE substring match over name and description.
type CategoryQuery struct {
	Filter    CategoryFilter
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Category, error)
	List(ctx context.Context, q CategoryQuery) ([]*domain.Category, int, error)
	ListActive(ctx context.Context) ([]*domain.Category, error)
	AddSubCategory(ctx context.Context, parentID, childID uuid.UUID) error
	RemoveSubCategory(ctx context.Context, parentID, childID uuid.UUID) error
	IncrementBookCount(ctx context.Context, id uuid.UUID, delta int) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SetSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error
	BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isFeatured *bool) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	Stats(ctx context.Context) (*domain.CategoryStats, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// categoryColumns selects every category column plus a summary of the
// parent, left-joined since roots have none.
const categoryColumns = `
	c.id, c.name, c.description, c.slug, c.image, c.parent_category_id,
	c.sub_category_ids, c.book_count, c.is_active, c.is_featured, c.sort_order,
	c.meta_title, c.meta_description, c.keywords, c.created_at, c.updated_at,
	p.id, p.name, p.slug`

const categoryFrom = ` FROM categories c LEFT JOIN categories p ON p.id = c.parent_category_id `

func scanCategory(s rowScanner) (*domain.Category, error) {
	var (
		category   domain.Category
		imageRaw   []byte
		parentID   *uuid.UUID
		parentName *string
		parentSlug *string
	)

	err := s.Scan(
		&category.ID, &category.Name, &category.Description, &category.Slug,
		&imageRaw, &category.ParentCategoryID,
		pq.Array(&category.SubCategoryIDs), &category.BookCount,
		&category.IsActive, &category.IsFeatured, &category.SortOrder,
		&category.MetaTitle, &category.MetaDesc, pq.Array(&category.Keywords),
		&category.CreatedAt, &category.UpdatedAt,
		&parentID, &parentName, &parentSlug,
	)
	if err != nil {
		return nil, err
	}

	if len(imageRaw) > 0 {
		var image domain.Image
		if err := unmarshalJSON(imageRaw, &image); err != nil {
			return nil, fmt.Errorf("failed to decode category image: %w", err)
		}
		category.Image = &image
	}
	if parentID != nil {
		category.ParentCategory = &domain.Category{
			ID:   *parentID,
			Name: *parentName,
			Slug: *parentSlug,
		}
	}

	return &category, nil
}

// Create inserts a new category using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	image, err := marshalJSON(category.Image)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO categories (
			id, name, description, slug, image, parent_category_id,
			sub_category_ids, book_count, is_active, is_featured, sort_order,
			meta_title, meta_description, keywords, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		category.ID, category.Name, category.Description, category.Slug,
		image, category.ParentCategoryID,
		pq.Array(category.SubCategoryIDs), category.BookCount,
		category.IsActive, category.IsFeatured, category.SortOrder,
		category.MetaTitle, category.MetaDesc, pq.Array(category.Keywords),
		category.CreatedAt, category.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return ErrDuplicateCategoryName
		}
		if isUniqueViolation(err, "categories_slug_key") {
			return ErrDuplicateCategorySlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// Update rewrites the mutable columns of an existing category. The
// sub_category_ids array is owned by Add/RemoveSubCategory and is not
// touched here.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	image, err := marshalJSON(category.Image)
	if err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET name = $2, description = $3, slug = $4, image = $5::jsonb,
		    parent_category_id = $6, is_active = $7, is_featured = $8,
		    sort_order = $9, meta_title = $10, meta_description = $11,
		    keywords = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		category.ID, category.Name, category.Description, category.Slug,
		image, category.ParentCategoryID,
		category.IsActive, category.IsFeatured, category.SortOrder,
		category.MetaTitle, category.MetaDesc, pq.Array(category.Keywords),
		category.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return ErrDuplicateCategoryName
		}
		if isUniqueViolation(err, "categories_slug_key") {
			return ErrDuplicateCategorySlug
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return requireRow(result, ErrCategoryNotFound)
}

// Delete removes a category from the database
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRow(result, ErrCategoryNotFound)
}

// FindByID retrieves a category by its ID
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT` + categoryColumns + categoryFrom + `WHERE c.id = $1`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by id: %w", err)
	}

	return category, nil
}

// FindBySlug retrieves a category by its slug
func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT` + categoryColumns + categoryFrom + `WHERE c.slug = $1`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by slug: %w", err)
	}

	return category, nil
}

// FindByIDs retrieves the categories for the given ids, preserving the
// sort order of the table, silently skipping ids that no longer exist
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + categoryColumns + categoryFrom + `
		WHERE c.id = ANY($1)
		ORDER BY c.sort_order ASC, c.name ASC`

	return r.queryCategories(ctx, query, pq.Array(ids))
}

// List retrieves a page of categories matching the query along with the
// total count before pagination
func (r *categoryRepository) List(ctx context.Context, q CategoryQuery) ([]*domain.Category, int, error) {
	if err := ValidatePagination(q.Page, q.Limit); err != nil {
		return nil, 0, err
	}

	builder := &condBuilder{}
	q.Filter.apply(builder)

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + search + "%"
		builder.add("(c.name ILIKE $%d OR c.description ILIKE $%d)", pattern, pattern)
	}

	countQuery := `SELECT COUNT(*) FROM categories c ` + builder.where()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, builder.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	orderBy := fmt.Sprintf("c.%s %s", categorySortColumn(q.SortBy), Direction(q.SortOrder))
	listQuery := fmt.Sprintf(
		`SELECT%s%s%s ORDER BY %s, c.name ASC LIMIT $%d OFFSET $%d`,
		categoryColumns, categoryFrom, builder.where(), orderBy, builder.next(), builder.next()+1,
	)
	args := append(builder.args, q.Limit, Offset(q.Page, q.Limit))

	categories, err := r.queryCategories(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// ListActive retrieves every active category ordered for display. The
// hierarchy and navigation queries build their trees from this.
func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT` + categoryColumns + categoryFrom + `
		WHERE c.is_active = TRUE
		ORDER BY c.sort_order ASC, c.name ASC`

	return r.queryCategories(ctx, query)
}

func (r *categoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// AddSubCategory records childID in the parent's sub_category_ids array.
// Idempotent: an id already present is not appended twice.
func (r *categoryRepository) AddSubCategory(ctx context.Context, parentID, childID uuid.UUID) error {
	query := `
		UPDATE categories
		SET sub_category_ids = array_append(sub_category_ids, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(sub_category_ids))
	`

	if _, err := r.db.ExecContext(ctx, query, parentID, childID); err != nil {
		return fmt.Errorf("failed to add subcategory link: %w", err)
	}
	return nil
}

// RemoveSubCategory drops childID from the parent's sub_category_ids array
func (r *categoryRepository) RemoveSubCategory(ctx context.Context, parentID, childID uuid.UUID) error {
	query := `
		UPDATE categories
		SET sub_category_ids = array_remove(sub_category_ids, $2), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, parentID, childID); err != nil {
		return fmt.Errorf("failed to remove subcategory link: %w", err)
	}
	return nil
}

// IncrementBookCount moves the denormalized book counter by delta,
// flooring at zero
func (r *categoryRepository) IncrementBookCount(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE categories
		SET book_count = GREATEST(book_count + $2, 0), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to update book count: %w", err)
	}
	return requireRow(result, ErrCategoryNotFound)
}

// SetActive flips the active flag
func (r *categoryRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE categories SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set category active: %w", err)
	}
	return requireRow(result, ErrCategoryNotFound)
}

// SetFeatured flips the featured flag
func (r *categoryRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	query := `UPDATE categories SET is_featured = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, featured)
	if err != nil {
		return fmt.Errorf("failed to set category featured: %w", err)
	}
	return requireRow(result, ErrCategoryNotFound)
}

// SetSortOrder assigns a new position in the display order
func (r *categoryRepository) SetSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	query := `UPDATE categories SET sort_order = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, sortOrder)
	if err != nil {
		return fmt.Errorf("failed to set category sort order: %w", err)
	}
	return requireRow(result, ErrCategoryNotFound)
}

// BulkUpdateFlags applies the non-nil flags to every listed category and
// reports how many rows matched
func (r *categoryRepository) BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isFeatured *bool) (int, error) {
	if len(ids) == 0 || (isActive == nil && isFeatured == nil) {
		return 0, nil
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{pq.Array(ids)}
	if isActive != nil {
		args = append(args, *isActive)
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if isFeatured != nil {
		args = append(args, *isFeatured)
		sets = append(sets, fmt.Sprintf("is_featured = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = ANY($1)`, strings.Join(sets, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update categories: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// BulkDelete removes every listed category and reports how many existed
func (r *categoryRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete categories: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// Stats aggregates the category tree for the admin dashboard
func (r *categoryRepository) Stats(ctx context.Context) (*domain.CategoryStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COUNT(*) FILTER (WHERE is_featured),
			COUNT(*) FILTER (WHERE parent_category_id IS NULL),
			COUNT(*) FILTER (WHERE parent_category_id IS NOT NULL)
		FROM categories
	`

	var stats domain.CategoryStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalCategories,
		&stats.ActiveCategories,
		&stats.InactiveCategories,
		&stats.FeaturedCategories,
		&stats.ParentCategories,
		&stats.SubCategories,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load category stats: %w", err)
	}

	return &stats, nil
}
