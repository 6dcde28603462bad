package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrCategoryOwnParent      = errors.New("Category cannot be its own parent")
	ErrCategoryHasChildren    = errors.New("Cannot delete category. Remove its subcategories first")
	ErrCategoriesHaveChildren = errors.New("Cannot delete categories that have subcategories")
)

// CreateCategoryInput is the admin category-creation payload.
type CreateCategoryInput struct {
	Name             string        `json:"name" validate:"required,min=2,max=100"`
	Description      *string       `json:"description" validate:"omitempty,max=500"`
	Slug             *string       `json:"slug" validate:"omitempty,max=120"`
	Image            *domain.Image `json:"image"`
	ParentCategoryID *uuid.UUID    `json:"parentCategoryId"`
	IsActive         *bool         `json:"isActive"`
	IsFeatured       *bool         `json:"isFeatured"`
	SortOrder        *int          `json:"sortOrder"`
	MetaTitle        *string       `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDesc         *string       `json:"metaDescription" validate:"omitempty,max=500"`
	Keywords         []string      `json:"keywords"`
}

// UpdateCategoryInput carries partial edits; nil fields stay unchanged.
type UpdateCategoryInput struct {
	Name             *string       `json:"name" validate:"omitempty,min=2,max=100"`
	Description      *string       `json:"description" validate:"omitempty,max=500"`
	Slug             *string       `json:"slug" validate:"omitempty,max=120"`
	Image            *domain.Image `json:"image"`
	ParentCategoryID *uuid.UUID    `json:"parentCategoryId"`
	ClearParent      bool          `json:"clearParent"`
	IsActive         *bool         `json:"isActive"`
	IsFeatured       *bool         `json:"isFeatured"`
	SortOrder        *int          `json:"sortOrder"`
	MetaTitle        *string       `json:"metaTitle" validate:"omitempty,max=200"`
	MetaDesc         *string       `json:"metaDescription" validate:"omitempty,max=500"`
	Keywords         []string      `json:"keywords"`
}

// BulkCategoryUpdateInput restricts bulk edits to the display flags.
type BulkCategoryUpdateInput struct {
	IsActive   *bool `json:"isActive"`
	IsFeatured *bool `json:"isFeatured"`
}

// ReorderCategoryInput assigns one category its new position.
type ReorderCategoryInput struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	SortOrder int       `json:"sortOrder"`
}

// CategoryService defines the interface for category-tree business logic.
// The parent/child back-references are maintained here: the storage layer
// only knows how to append and remove single links.
type CategoryService interface {
	List(ctx context.Context, q repository.CategoryQuery) ([]*domain.Category, repository.PageInfo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Active(ctx context.Context) ([]*domain.Category, error)
	FeaturedActive(ctx context.Context) ([]*domain.Category, error)
	Hierarchy(ctx context.Context) ([]*domain.Category, error)
	SubCategories(ctx context.Context, category *domain.Category) ([]*domain.Category, error)
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	BulkUpdate(ctx context.Context, ids []uuid.UUID, input BulkCategoryUpdateInput) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	Reorder(ctx context.Context, inputs []ReorderCategoryInput) ([]*domain.Category, error)
	Stats(ctx context.Context) (*domain.CategoryStats, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	bookRepo     repository.BookRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, bookRepo repository.BookRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		bookRepo:     bookRepo,
	}
}

// List retrieves a page of categories with pagination metadata
func (s *categoryService) List(ctx context.Context, q repository.CategoryQuery) ([]*domain.Category, repository.PageInfo, error) {
	categories, total, err := s.categoryRepo.List(ctx, q)
	if err != nil {
		return nil, repository.PageInfo{}, err
	}
	return categories, repository.NewPageInfo(q.Page, q.Limit, total), nil
}

// GetByID retrieves a category by ID
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// GetBySlug retrieves a category by slug
func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categoryRepo.FindBySlug(ctx, slug)
}

// Active retrieves every active category in display order
func (s *categoryService) Active(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

// FeaturedActive retrieves the active categories flagged for the storefront
func (s *categoryService) FeaturedActive(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	featured := make([]*domain.Category, 0, len(categories))
	for _, category := range categories {
		if category.IsFeatured {
			featured = append(featured, category)
		}
	}

	return featured, nil
}

// Hierarchy returns the active roots with their direct active children
// preloaded, in display order
func (s *categoryService) Hierarchy(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	children := make(map[uuid.UUID][]*domain.Category)
	for _, category := range categories {
		if category.ParentCategoryID != nil {
			children[*category.ParentCategoryID] = append(children[*category.ParentCategoryID], category)
		}
	}

	var roots []*domain.Category
	for _, category := range categories {
		if category.ParentCategoryID != nil {
			continue
		}
		category.SubCategories = children[category.ID]
		roots = append(roots, category)
	}

	return roots, nil
}

// SubCategories resolves a category's child list from its stored ids
func (s *categoryService) SubCategories(ctx context.Context, category *domain.Category) ([]*domain.Category, error) {
	return s.categoryRepo.FindByIDs(ctx, category.SubCategoryIDs)
}

// Create adds a category. When a parent is given the new id is appended
// to the parent's subcategory list after the insert; the two writes are
// separate statements and the second is retried nowhere, matching the
// documented consistency model.
func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	now := time.Now()
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      input.Name,
		Slug:      domain.Slugify(input.Name),
		Image:     input.Image,
		IsActive:  true,
		Keywords:  input.Keywords,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Slug != nil && *input.Slug != "" {
		category.Slug = *input.Slug
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		category.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.MetaTitle != nil {
		category.MetaTitle = *input.MetaTitle
	}
	if input.MetaDesc != nil {
		category.MetaDesc = *input.MetaDesc
	}

	var parent *domain.Category
	if input.ParentCategoryID != nil {
		var err error
		parent, err = s.categoryRepo.FindByID(ctx, *input.ParentCategoryID)
		if err != nil {
			return nil, err
		}
		category.ParentCategoryID = &parent.ID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	if parent != nil {
		if err := s.categoryRepo.AddSubCategory(ctx, parent.ID, category.ID); err != nil {
			return nil, err
		}
		category.ParentCategory = parent
	}

	return category, nil
}

// Update applies partial edits. Moving a category under a new parent
// rewrites both back-references: the old parent loses the id, the new
// parent gains it.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousParentID := category.ParentCategoryID

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Slug != nil && *input.Slug != "" {
		category.Slug = *input.Slug
	}
	if input.Image != nil {
		category.Image = input.Image
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		category.IsFeatured = *input.IsFeatured
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.MetaTitle != nil {
		category.MetaTitle = *input.MetaTitle
	}
	if input.MetaDesc != nil {
		category.MetaDesc = *input.MetaDesc
	}
	if input.Keywords != nil {
		category.Keywords = input.Keywords
	}

	switch {
	case input.ClearParent:
		category.ParentCategoryID = nil
		category.ParentCategory = nil
	case input.ParentCategoryID != nil:
		if *input.ParentCategoryID == id {
			return nil, ErrCategoryOwnParent
		}
		parent, err := s.categoryRepo.FindByID(ctx, *input.ParentCategoryID)
		if err != nil {
			return nil, err
		}
		category.ParentCategoryID = &parent.ID
		category.ParentCategory = parent
	}

	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	if !uuidPtrEqual(previousParentID, category.ParentCategoryID) {
		if previousParentID != nil {
			if err := s.categoryRepo.RemoveSubCategory(ctx, *previousParentID, id); err != nil {
				return nil, err
			}
		}
		if category.ParentCategoryID != nil {
			if err := s.categoryRepo.AddSubCategory(ctx, *category.ParentCategoryID, id); err != nil {
				return nil, err
			}
		}
	}

	return category, nil
}

// Delete removes a category after checking its guards: it must have no
// subcategories and no books assigned. The parent's back-reference is
// cleaned up afterwards.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if len(category.SubCategoryIDs) > 0 {
		return ErrCategoryHasChildren
	}

	bookCount, err := s.bookRepo.CountInCategories(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if bookCount > 0 {
		return fmt.Errorf("Cannot delete category. It has %d book(s) assigned to it", bookCount)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	if category.ParentCategoryID != nil {
		if err := s.categoryRepo.RemoveSubCategory(ctx, *category.ParentCategoryID, id); err != nil {
			return err
		}
	}

	return nil
}

// ToggleStatus flips the active flag
func (s *categoryService) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.SetActive(ctx, id, !category.IsActive); err != nil {
		return nil, err
	}
	category.IsActive = !category.IsActive

	return category, nil
}

// ToggleFeatured flips the featured flag
func (s *categoryService) ToggleFeatured(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.SetFeatured(ctx, id, !category.IsFeatured); err != nil {
		return nil, err
	}
	category.IsFeatured = !category.IsFeatured

	return category, nil
}

// BulkUpdate applies flag edits to many categories at once
func (s *categoryService) BulkUpdate(ctx context.Context, ids []uuid.UUID, input BulkCategoryUpdateInput) (int, error) {
	return s.categoryRepo.BulkUpdateFlags(ctx, ids, input.IsActive, input.IsFeatured)
}

// BulkDelete removes many categories at once, refusing the whole batch
// when any of them still has books assigned or subcategories attached
func (s *categoryService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	bookCount, err := s.bookRepo.CountInCategories(ctx, ids)
	if err != nil {
		return 0, err
	}
	if bookCount > 0 {
		return 0, fmt.Errorf("Cannot delete categories. They have %d book(s) assigned to them", bookCount)
	}

	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, category := range categories {
		if len(category.SubCategoryIDs) > 0 {
			return 0, ErrCategoriesHaveChildren
		}
	}

	return s.categoryRepo.BulkDelete(ctx, ids)
}

// Reorder assigns new sort positions and returns the updated categories.
// Ids that no longer exist are skipped, not errors.
func (s *categoryService) Reorder(ctx context.Context, inputs []ReorderCategoryInput) ([]*domain.Category, error) {
	updated := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		err := s.categoryRepo.SetSortOrder(ctx, input.ID, input.SortOrder)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		updated = append(updated, input.ID)
	}

	return s.categoryRepo.FindByIDs(ctx, updated)
}

// Stats aggregates the category tree for the admin dashboard
func (s *categoryService) Stats(ctx context.Context) (*domain.CategoryStats, error) {
	return s.categoryRepo.Stats(ctx)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
