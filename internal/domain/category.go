package domain

import (
	"time"

	"github.com/google/uuid"
)

// Image is a stored media reference (upload URL plus provider id).
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
}

// Category represents a node in the catalog's category tree. Parent and
// child links are stored redundantly: a child carries its parent id and
// the parent carries the child's id in SubCategoryIDs. Both sides are
// maintained by the category service, never by the storage layer.
type Category struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Description      string      `json:"description" db:"description"`
	Slug             string      `json:"slug" db:"slug"`
	Image            *Image      `json:"image" db:"image"`
	ParentCategoryID *uuid.UUID  `json:"parentCategoryId" db:"parent_category_id"`
	ParentCategory   *Category   `json:"parentCategory"`
	SubCategoryIDs   []uuid.UUID `json:"subCategoryIds" db:"sub_category_ids"`
	SubCategories    []*Category `json:"subCategories"`
	BookCount        int         `json:"bookCount" db:"book_count"`
	IsActive         bool        `json:"isActive" db:"is_active"`
	IsFeatured       bool        `json:"isFeatured" db:"is_featured"`
	SortOrder        int         `json:"sortOrder" db:"sort_order"`
	MetaTitle        string      `json:"metaTitle" db:"meta_title"`
	MetaDesc         string      `json:"metaDescription" db:"meta_description"`
	Keywords         []string    `json:"keywords" db:"keywords"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
}
