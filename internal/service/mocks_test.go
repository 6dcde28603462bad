package service

import (
	"context"
	"math"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories for testing. They mirror the storage semantics
// the services rely on: write-only password hashes, idempotent
// subcategory links, counter floors.

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) withoutHash(u *domain.User) *domain.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	hash := existing.PasswordHash
	clone := *user
	clone.PasswordHash = hash
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return m.withoutHash(user), nil
}

func (m *mockUserRepository) FindByIDWithPassword(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, q repository.UserQuery) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, user := range m.users {
		out = append(out, m.withoutHash(user))
	}
	return out, len(out), nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	return nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func (m *mockUserRepository) BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isEmailVerified *bool, role *domain.Role) (int, error) {
	updated := 0
	for _, id := range ids {
		user, ok := m.users[id]
		if !ok {
			continue
		}
		if isActive != nil {
			user.IsActive = *isActive
		}
		if isEmailVerified != nil {
			user.IsEmailVerified = *isEmailVerified
		}
		if role != nil {
			user.Role = *role
		}
		updated++
	}
	return updated, nil
}

func (m *mockUserRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted := 0
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			delete(m.users, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockUserRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	stats := &domain.UserStats{TotalUsers: len(m.users)}
	for _, user := range m.users {
		if user.IsActive {
			stats.ActiveUsers++
		}
		if user.Role == domain.RoleAdmin {
			stats.Admins++
		} else {
			stats.Customers++
		}
	}
	return stats, nil
}

type mockBookRepository struct {
	books map[uuid.UUID]*domain.Book
}

func newMockBookRepository() *mockBookRepository {
	return &mockBookRepository{books: make(map[uuid.UUID]*domain.Book)}
}

func (m *mockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *mockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	if _, ok := m.books[book.ID]; !ok {
		return repository.ErrBookNotFound
	}
	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *mockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.books[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *mockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	clone := *book
	return &clone, nil
}

func (m *mockBookRepository) FindBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Book, error) {
	for _, book := range m.books {
		if book.Slug == slug {
			if activeOnly && !book.IsActive {
				return nil, repository.ErrBookNotFound
			}
			clone := *book
			return &clone, nil
		}
	}
	return nil, repository.ErrBookNotFound
}

func (m *mockBookRepository) List(ctx context.Context, q repository.BookQuery) ([]*domain.Book, int, error) {
	if err := repository.ValidatePagination(q.Page, q.Limit); err != nil {
		return nil, 0, err
	}
	var out []*domain.Book
	for _, book := range m.books {
		clone := *book
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (m *mockBookRepository) Featured(ctx context.Context, limit int) ([]*domain.Book, error) {
	var out []*domain.Book
	for _, book := range m.books {
		if book.IsFeatured && book.IsActive && len(out) < limit {
			clone := *book
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockBookRepository) Related(ctx context.Context, bookID, categoryID uuid.UUID, tags []string, limit int) ([]*domain.Book, error) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	var out []*domain.Book
	for _, book := range m.books {
		if book.ID == bookID || !book.IsActive || len(out) >= limit {
			continue
		}
		match := book.CategoryID == categoryID
		for _, tag := range book.Tags {
			if tagSet[tag] {
				match = true
			}
		}
		if match {
			clone := *book
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockBookRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.ViewCount++
	return nil
}

func (m *mockBookRepository) AddStock(ctx context.Context, id uuid.UUID, quantity int) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.Stock += quantity
	return nil
}

func (m *mockBookRepository) SubtractStock(ctx context.Context, id uuid.UUID, quantity int) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	removed := quantity
	if removed > book.Stock {
		removed = book.Stock
	}
	book.Sold += removed
	book.Stock -= removed
	return nil
}

func (m *mockBookRepository) ApplyRating(ctx context.Context, id uuid.UUID, rating float64) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.Rating = (book.Rating*float64(book.ReviewCount) + rating) / float64(book.ReviewCount+1)
	book.ReviewCount++
	return nil
}

func (m *mockBookRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.IsActive = active
	return nil
}

func (m *mockBookRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	book, ok := m.books[id]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.IsFeatured = featured
	return nil
}

func (m *mockBookRepository) CountInCategories(ctx context.Context, categoryIDs []uuid.UUID) (int, error) {
	idSet := make(map[uuid.UUID]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		idSet[id] = true
	}
	count := 0
	for _, book := range m.books {
		if idSet[book.CategoryID] {
			count++
		}
	}
	return count, nil
}

func (m *mockBookRepository) Stats(ctx context.Context) (*domain.BookStats, error) {
	stats := &domain.BookStats{TotalBooks: len(m.books)}
	var ratingSum float64
	for _, book := range m.books {
		if book.IsActive {
			stats.ActiveBooks++
		} else {
			stats.InactiveBooks++
		}
		stats.TotalStock += book.Stock
		stats.TotalSold += book.Sold
		ratingSum += book.Rating
	}
	if stats.TotalBooks > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(stats.TotalBooks)*100) / 100
	}
	return stats, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Slug == category.Slug {
			return repository.ErrDuplicateCategorySlug
		}
	}
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	existing, ok := m.categories[category.ID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	subIDs := existing.SubCategoryIDs
	clone := *category
	clone.SubCategoryIDs = subIDs
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (m *mockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for _, category := range m.categories {
		if category.Slug == slug {
			clone := *category
			return &clone, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, id := range ids {
		if category, ok := m.categories[id]; ok {
			clone := *category
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, q repository.CategoryQuery) ([]*domain.Category, int, error) {
	if err := repository.ValidatePagination(q.Page, q.Limit); err != nil {
		return nil, 0, err
	}
	var out []*domain.Category
	for _, category := range m.categories {
		clone := *category
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (m *mockCategoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, category := range m.categories {
		if category.IsActive {
			clone := *category
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) AddSubCategory(ctx context.Context, parentID, childID uuid.UUID) error {
	parent, ok := m.categories[parentID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	for _, id := range parent.SubCategoryIDs {
		if id == childID {
			return nil
		}
	}
	parent.SubCategoryIDs = append(parent.SubCategoryIDs, childID)
	return nil
}

func (m *mockCategoryRepository) RemoveSubCategory(ctx context.Context, parentID, childID uuid.UUID) error {
	parent, ok := m.categories[parentID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	out := parent.SubCategoryIDs[:0]
	for _, id := range parent.SubCategoryIDs {
		if id != childID {
			out = append(out, id)
		}
	}
	parent.SubCategoryIDs = out
	return nil
}

func (m *mockCategoryRepository) IncrementBookCount(ctx context.Context, id uuid.UUID, delta int) error {
	category, ok := m.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.BookCount += delta
	if category.BookCount < 0 {
		category.BookCount = 0
	}
	return nil
}

func (m *mockCategoryRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	category, ok := m.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.IsActive = active
	return nil
}

func (m *mockCategoryRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	category, ok := m.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.IsFeatured = featured
	return nil
}

func (m *mockCategoryRepository) SetSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	category, ok := m.categories[id]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.SortOrder = sortOrder
	return nil
}

func (m *mockCategoryRepository) BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isFeatured *bool) (int, error) {
	updated := 0
	for _, id := range ids {
		category, ok := m.categories[id]
		if !ok {
			continue
		}
		if isActive != nil {
			category.IsActive = *isActive
		}
		if isFeatured != nil {
			category.IsFeatured = *isFeatured
		}
		updated++
	}
	return updated, nil
}

func (m *mockCategoryRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted := 0
	for _, id := range ids {
		if _, ok := m.categories[id]; ok {
			delete(m.categories, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockCategoryRepository) Stats(ctx context.Context) (*domain.CategoryStats, error) {
	stats := &domain.CategoryStats{TotalCategories: len(m.categories)}
	for _, category := range m.categories {
		if category.IsActive {
			stats.ActiveCategories++
		}
	}
	return stats, nil
}
