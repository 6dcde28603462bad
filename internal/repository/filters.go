package repository

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

// ErrInvalidPagination is returned before any query runs when page or
// limit is not positive.
var ErrInvalidPagination = errors.New("page and limit must be positive")

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// Direction normalizes a public sort-order string; anything but "ASC"
// (case-insensitive) sorts descending.
func Direction(order string) SortOrder {
	if strings.EqualFold(order, "ASC") {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// PageInfo is the pagination metadata attached to every connection-style
// result.
type PageInfo struct {
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	CurrentPage     int  `json:"currentPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPageInfo computes page metadata from a total count. An empty result
// set yields zero totalPages and both page flags false.
func NewPageInfo(page, limit, totalCount int) PageInfo {
	totalPages := 0
	if totalCount > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(limit)))
	}
	return PageInfo{
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		CurrentPage:     page,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// ValidatePagination rejects non-positive page/limit values.
func ValidatePagination(page, limit int) error {
	if page < 1 || limit < 1 {
		return ErrInvalidPagination
	}
	return nil
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// BookFilter narrows a book listing. Nil fields impose no constraint;
// this is deliberate so false/zero remain expressible filters.
type BookFilter struct {
	CategoryID *uuid.UUID         `json:"categoryId"`
	MinPrice   *float64           `json:"minPrice"`
	MaxPrice   *float64           `json:"maxPrice"`
	Author     *string            `json:"author"`
	Publisher  *string            `json:"publisher"`
	Language   *string            `json:"language"`
	Format     *domain.BookFormat `json:"format"`
	InStock    *bool              `json:"inStock"`
	IsActive   *bool              `json:"isActive"`
	IsFeatured *bool              `json:"isFeatured"`
	IsOnSale   *bool              `json:"isOnSale"`
	MinRating  *float64           `json:"minRating"`
}

// CategoryFilter narrows a category listing.
type CategoryFilter struct {
	IsActive         *bool      `json:"isActive"`
	IsFeatured       *bool      `json:"isFeatured"`
	ParentCategoryID *uuid.UUID `json:"parentCategoryId"`
	HasParent        *bool      `json:"hasParent"`
}

// UserFilter narrows an admin user listing.
type UserFilter struct {
	Role            *domain.Role `json:"role"`
	IsActive        *bool        `json:"isActive"`
	IsEmailVerified *bool        `json:"isEmailVerified"`
	Gender          *string      `json:"gender"`
}

// condBuilder accumulates WHERE fragments with positional arguments. Each
// %d verb in an expression is replaced by the next argument index.
type condBuilder struct {
	conds []string
	args  []any
}

func (b *condBuilder) add(expr string, vals ...any) {
	indexes := make([]any, len(vals))
	for i := range vals {
		indexes[i] = len(b.args) + i + 1
	}
	b.conds = append(b.conds, fmt.Sprintf(expr, indexes...))
	b.args = append(b.args, vals...)
}

// next returns the positional index the next appended argument will get;
// used for LIMIT/OFFSET placeholders added outside add().
func (b *condBuilder) next() int {
	return len(b.args) + 1
}

func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// apply appends the filter's conditions. Column references are qualified
// with the "b" alias used by every book query.
func (f BookFilter) apply(b *condBuilder) {
	if f.CategoryID != nil {
		b.add("b.category_id = $%d", *f.CategoryID)
	}
	if f.MinPrice != nil {
		b.add("b.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add("b.price <= $%d", *f.MaxPrice)
	}
	if f.Author != nil {
		b.add("b.author ILIKE $%d", "%"+*f.Author+"%")
	}
	if f.Publisher != nil {
		b.add("b.publisher ILIKE $%d", "%"+*f.Publisher+"%")
	}
	if f.Language != nil {
		b.add("b.language = $%d", *f.Language)
	}
	if f.Format != nil {
		b.add("b.format = $%d", string(*f.Format))
	}
	if f.InStock != nil {
		if *f.InStock {
			b.conds = append(b.conds, "b.stock > 0")
		} else {
			b.conds = append(b.conds, "b.stock = 0")
		}
	}
	if f.IsActive != nil {
		b.add("b.is_active = $%d", *f.IsActive)
	}
	if f.IsFeatured != nil {
		b.add("b.is_featured = $%d", *f.IsFeatured)
	}
	if f.IsOnSale != nil {
		b.add("b.is_on_sale = $%d", *f.IsOnSale)
	}
	if f.MinRating != nil {
		b.add("b.rating >= $%d", *f.MinRating)
	}
}

func (f CategoryFilter) apply(b *condBuilder) {
	if f.IsActive != nil {
		b.add("c.is_active = $%d", *f.IsActive)
	}
	if f.IsFeatured != nil {
		b.add("c.is_featured = $%d", *f.IsFeatured)
	}
	if f.ParentCategoryID != nil {
		b.add("c.parent_category_id = $%d", *f.ParentCategoryID)
	}
	if f.HasParent != nil {
		if *f.HasParent {
			b.conds = append(b.conds, "c.parent_category_id IS NOT NULL")
		} else {
			b.conds = append(b.conds, "c.parent_category_id IS NULL")
		}
	}
}

func (f UserFilter) apply(b *condBuilder) {
	if f.Role != nil {
		b.add("role = $%d", string(*f.Role))
	}
	if f.IsActive != nil {
		b.add("is_active = $%d", *f.IsActive)
	}
	if f.IsEmailVerified != nil {
		b.add("is_email_verified = $%d", *f.IsEmailVerified)
	}
	if f.Gender != nil {
		b.add("gender = $%d", *f.Gender)
	}
}

// bookSortFields maps public sort keys to columns. Unrecognized keys fall
// back to creation time.
var bookSortFields = map[string]string{
	"CREATED_AT": "created_at",
	"UPDATED_AT": "updated_at",
	"TITLE":      "title",
	"AUTHOR":     "author",
	"PRICE":      "price",
	"RATING":     "rating",
	"SOLD":       "sold",
	"VIEW_COUNT": "view_count",
}

func bookSortColumn(key string) string {
	if col, ok := bookSortFields[key]; ok {
		return col
	}
	return "created_at"
}

// categorySortFields falls back to the manual display order.
var categorySortFields = map[string]string{
	"SORT_ORDER": "sort_order",
	"NAME":       "name",
	"CREATED_AT": "created_at",
	"UPDATED_AT": "updated_at",
	"BOOK_COUNT": "book_count",
}

func categorySortColumn(key string) string {
	if col, ok := categorySortFields[key]; ok {
		return col
	}
	return "sort_order"
}

// userSortFields uses lower-case keys; the admin UI sends them that way.
var userSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"lastLogin": "last_login",
}

func userSortColumn(key string) string {
	if col, ok := userSortFields[key]; ok {
		return col
	}
	return "created_at"
}
