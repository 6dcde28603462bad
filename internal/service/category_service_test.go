package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

func newTestCategoryService() (CategoryService, *mockCategoryRepository, *mockBookRepository) {
	categoryRepo := newMockCategoryRepository()
	bookRepo := newMockBookRepository()
	return NewCategoryService(categoryRepo, bookRepo), categoryRepo, bookRepo
}

func TestCategoryService_CreateGeneratesSlugAndLinksParent(t *testing.T) {
	svc, categoryRepo, _ := newTestCategoryService()
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateCategoryInput{Name: "Fiction"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if parent.Slug != "fiction" {
		t.Errorf("slug = %q, want fiction", parent.Slug)
	}
	if !parent.IsActive {
		t.Error("new category should default to active")
	}

	child, err := svc.Create(ctx, CreateCategoryInput{
		Name:             "Fantasy",
		ParentCategoryID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("Create child failed: %v", err)
	}
	if child.ParentCategoryID == nil || *child.ParentCategoryID != parent.ID {
		t.Error("child not linked to parent")
	}

	parentAfter, _ := categoryRepo.FindByID(ctx, parent.ID)
	if len(parentAfter.SubCategoryIDs) != 1 || parentAfter.SubCategoryIDs[0] != child.ID {
		t.Errorf("parent back-reference missing: %v", parentAfter.SubCategoryIDs)
	}
}

func TestCategoryService_CreateWithMissingParent(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	missing := uuid.New()

	_, err := svc.Create(context.Background(), CreateCategoryInput{
		Name:             "Orphan",
		ParentCategoryID: &missing,
	})
	if err == nil {
		t.Error("creating under a missing parent should fail")
	}
}

func TestCategoryService_UpdateRejectsSelfParent(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: "Loop"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Update(ctx, category.ID, UpdateCategoryInput{ParentCategoryID: &category.ID})
	if !errors.Is(err, ErrCategoryOwnParent) {
		t.Errorf("expected ErrCategoryOwnParent, got %v", err)
	}
}

func TestCategoryService_UpdateMovesParentBackReference(t *testing.T) {
	svc, categoryRepo, _ := newTestCategoryService()
	ctx := context.Background()

	oldParent, _ := svc.Create(ctx, CreateCategoryInput{Name: "Old Parent"})
	newParent, _ := svc.Create(ctx, CreateCategoryInput{Name: "New Parent"})
	child, err := svc.Create(ctx, CreateCategoryInput{
		Name:             "Moving Child",
		ParentCategoryID: &oldParent.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(ctx, child.ID, UpdateCategoryInput{ParentCategoryID: &newParent.ID}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	oldAfter, _ := categoryRepo.FindByID(ctx, oldParent.ID)
	newAfter, _ := categoryRepo.FindByID(ctx, newParent.ID)
	if len(oldAfter.SubCategoryIDs) != 0 {
		t.Errorf("old parent still references child: %v", oldAfter.SubCategoryIDs)
	}
	if len(newAfter.SubCategoryIDs) != 1 || newAfter.SubCategoryIDs[0] != child.ID {
		t.Errorf("new parent missing back-reference: %v", newAfter.SubCategoryIDs)
	}

	// ClearParent detaches the child and repairs the back-reference.
	if _, err := svc.Update(ctx, child.ID, UpdateCategoryInput{ClearParent: true}); err != nil {
		t.Fatalf("Update with ClearParent failed: %v", err)
	}
	newAfter, _ = categoryRepo.FindByID(ctx, newParent.ID)
	if len(newAfter.SubCategoryIDs) != 0 {
		t.Errorf("cleared parent still references child: %v", newAfter.SubCategoryIDs)
	}
	childAfter, _ := categoryRepo.FindByID(ctx, child.ID)
	if childAfter.ParentCategoryID != nil {
		t.Errorf("child still has parent: %v", childAfter.ParentCategoryID)
	}
}

func TestCategoryService_DeleteGuards(t *testing.T) {
	svc, _, bookRepo := newTestCategoryService()
	ctx := context.Background()

	parent, _ := svc.Create(ctx, CreateCategoryInput{Name: "Guarded Parent"})
	child, _ := svc.Create(ctx, CreateCategoryInput{
		Name:             "Guarded Child",
		ParentCategoryID: &parent.ID,
	})

	t.Run("children block deletion", func(t *testing.T) {
		if err := svc.Delete(ctx, parent.ID); !errors.Is(err, ErrCategoryHasChildren) {
			t.Errorf("expected ErrCategoryHasChildren, got %v", err)
		}
	})

	t.Run("assigned books block deletion", func(t *testing.T) {
		if err := bookRepo.Create(ctx, &domain.Book{ID: uuid.New(), CategoryID: child.ID}); err != nil {
			t.Fatal(err)
		}
		err := svc.Delete(ctx, child.ID)
		if err == nil || !strings.Contains(err.Error(), "1 book(s)") {
			t.Errorf("expected book-count guard error, got %v", err)
		}
	})

	t.Run("empty leaf deletes and repairs parent", func(t *testing.T) {
		leaf, _ := svc.Create(ctx, CreateCategoryInput{
			Name:             "Empty Leaf",
			ParentCategoryID: &parent.ID,
		})
		if err := svc.Delete(ctx, leaf.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		parentAfter, err := svc.GetByID(ctx, parent.ID)
		if err != nil {
			t.Fatal(err)
		}
		for _, id := range parentAfter.SubCategoryIDs {
			if id == leaf.ID {
				t.Error("parent still references the deleted leaf")
			}
		}
	})
}

func TestCategoryService_BulkDeleteGuard(t *testing.T) {
	svc, _, bookRepo := newTestCategoryService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, CreateCategoryInput{Name: "Bulk Guard A"})
	b, _ := svc.Create(ctx, CreateCategoryInput{Name: "Bulk Guard B"})

	if err := bookRepo.Create(ctx, &domain.Book{ID: uuid.New(), CategoryID: a.ID}); err != nil {
		t.Fatal(err)
	}

	_, err := svc.BulkDelete(ctx, []uuid.UUID{a.ID, b.ID})
	if err == nil || !strings.Contains(err.Error(), "book(s)") {
		t.Errorf("expected bulk delete guard error, got %v", err)
	}

	deleted, err := svc.BulkDelete(ctx, []uuid.UUID{b.ID})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestCategoryService_BulkDeleteRefusesParents(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateCategoryInput{Name: "Bulk Parent"})
	if err != nil {
		t.Fatal(err)
	}
	child, err := svc.Create(ctx, CreateCategoryInput{
		Name:             "Bulk Child",
		ParentCategoryID: &parent.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Both delete paths must refuse a category that still has children.
	if err := svc.Delete(ctx, parent.ID); !errors.Is(err, ErrCategoryHasChildren) {
		t.Errorf("Delete error = %v, want ErrCategoryHasChildren", err)
	}
	if _, err := svc.BulkDelete(ctx, []uuid.UUID{parent.ID}); !errors.Is(err, ErrCategoriesHaveChildren) {
		t.Errorf("BulkDelete error = %v, want ErrCategoriesHaveChildren", err)
	}

	// Removing the child first unblocks the parent.
	if err := svc.Delete(ctx, child.ID); err != nil {
		t.Fatalf("Delete child failed: %v", err)
	}
	deleted, err := svc.BulkDelete(ctx, []uuid.UUID{parent.ID})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestCategoryService_ReorderSkipsMissing(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, CreateCategoryInput{Name: "Reorder A"})
	b, _ := svc.Create(ctx, CreateCategoryInput{Name: "Reorder B"})

	updated, err := svc.Reorder(ctx, []ReorderCategoryInput{
		{ID: a.ID, SortOrder: 2},
		{ID: uuid.New(), SortOrder: 5},
		{ID: b.ID, SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 reordered categories, got %d", len(updated))
	}

	aAfter, _ := svc.GetByID(ctx, a.ID)
	if aAfter.SortOrder != 2 {
		t.Errorf("sortOrder = %d, want 2", aAfter.SortOrder)
	}
}

func TestCategoryService_Hierarchy(t *testing.T) {
	svc, _, _ := newTestCategoryService()
	ctx := context.Background()

	root, _ := svc.Create(ctx, CreateCategoryInput{Name: "Root"})
	childA, _ := svc.Create(ctx, CreateCategoryInput{Name: "Child A", ParentCategoryID: &root.ID})
	childB, _ := svc.Create(ctx, CreateCategoryInput{Name: "Child B", ParentCategoryID: &root.ID})

	roots, err := svc.Hierarchy(ctx)
	if err != nil {
		t.Fatalf("Hierarchy failed: %v", err)
	}

	var foundRoot *domain.Category
	for _, c := range roots {
		if c.ID == root.ID {
			foundRoot = c
		}
		if c.ID == childA.ID || c.ID == childB.ID {
			t.Error("child category appeared at the top level")
		}
	}
	if foundRoot == nil {
		t.Fatal("root category missing from hierarchy")
	}
	if len(foundRoot.SubCategories) != 2 {
		t.Errorf("root has %d preloaded children, want 2", len(foundRoot.SubCategories))
	}
}

func TestCategoryService_FeaturedActive(t *testing.T) {
	svc, categoryRepo, _ := newTestCategoryService()
	ctx := context.Background()

	featured, _ := svc.Create(ctx, CreateCategoryInput{Name: "Featured", IsFeatured: ptr(true)})
	svc.Create(ctx, CreateCategoryInput{Name: "Plain"})
	hidden, _ := svc.Create(ctx, CreateCategoryInput{Name: "Hidden Featured", IsFeatured: ptr(true)})
	categoryRepo.categories[hidden.ID].IsActive = false

	out, err := svc.FeaturedActive(ctx)
	if err != nil {
		t.Fatalf("FeaturedActive failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != featured.ID {
		t.Errorf("expected only the active featured category, got %d entries", len(out))
	}
}
