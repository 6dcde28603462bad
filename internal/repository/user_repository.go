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
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("an account with this email already exists")
)

// UserQuery bundles the admin listing parameters. Search is an ILIKE
// substring match over name, email and phone.
type UserQuery struct {
	Filter    UserFilter
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// UserRepository defines the interface for user data access. Default
// reads never include the password hash; the WithPassword lookups exist
// for credential checks only.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDWithPassword(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, q UserQuery) ([]*domain.User, int, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isEmailVerified *bool, role *domain.Role) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, name, email, role, phone, address, avatar, date_of_birth, gender,
	is_active, is_email_verified, last_login, created_at, updated_at`

const userColumnsWithPassword = `
	id, name, email, password_hash, role, phone, address, date_of_birth,
	gender, is_active, is_email_verified, last_login, created_at, updated_at`

func scanUser(s rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		avatarRaw []byte
	)

	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.Phone,
		&user.Address, &avatarRaw, &user.DateOfBirth, &user.Gender,
		&user.IsActive, &user.IsEmailVerified, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(avatarRaw) > 0 {
		var avatar domain.Image
		if err := unmarshalJSON(avatarRaw, &avatar); err != nil {
			return nil, fmt.Errorf("failed to decode avatar: %w", err)
		}
		user.Avatar = &avatar
	}

	return &user, nil
}

func scanUserWithPassword(s rowScanner) (*domain.User, error) {
	var user domain.User

	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Phone, &user.Address, &user.DateOfBirth, &user.Gender,
		&user.IsActive, &user.IsEmailVerified, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Create inserts a new user using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	avatar, err := marshalJSON(user.Avatar)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, phone, address, avatar,
			date_of_birth, gender, is_active, is_email_verified, last_login,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
		user.Phone, user.Address, avatar, user.DateOfBirth, user.Gender,
		user.IsActive, user.IsEmailVerified, user.LastLogin,
		user.CreatedAt, user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update rewrites the mutable columns of an existing user; the password
// hash is owned by UpdatePassword
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	avatar, err := marshalJSON(user.Avatar)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET name = $2, email = $3, role = $4, phone = $5, address = $6,
		    avatar = $7::jsonb, date_of_birth = $8, gender = $9,
		    is_active = $10, is_email_verified = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		user.ID, user.Name, user.Email, user.Role, user.Phone, user.Address,
		avatar, user.DateOfBirth, user.Gender,
		user.IsActive, user.IsEmailVerified, user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRow(result, ErrUserNotFound)
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(result, ErrUserNotFound)
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result, ErrUserNotFound)
}

// FindByID retrieves a user by ID without the password hash
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return user, nil
}

// FindByIDWithPassword retrieves a user by ID including the password
// hash, for the current-password check during a password change
func (r *userRepository) FindByIDWithPassword(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT` + userColumnsWithPassword + ` FROM users WHERE id = $1`

	user, err := scanUserWithPassword(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}

	return user, nil
}

// FindByEmailWithPassword retrieves a user by normalized email including
// the password hash, for login
func (r *userRepository) FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userColumnsWithPassword + ` FROM users WHERE email = $1`

	user, err := scanUserWithPassword(r.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return user, nil
}

// List retrieves a page of users matching the query along with the total
// count before pagination
func (r *userRepository) List(ctx context.Context, q UserQuery) ([]*domain.User, int, error) {
	if err := ValidatePagination(q.Page, q.Limit); err != nil {
		return nil, 0, err
	}

	builder := &condBuilder{}
	q.Filter.apply(builder)

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + search + "%"
		builder.add("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", pattern, pattern, pattern)
	}

	countQuery := `SELECT COUNT(*) FROM users ` + builder.where()

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, builder.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT%s FROM users %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		userColumns, builder.where(),
		userSortColumn(q.SortBy), Direction(q.SortOrder),
		builder.next(), builder.next()+1,
	)
	args := append(builder.args, q.Limit, Offset(q.Page, q.Limit))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, q.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// TouchLastLogin stamps a successful login
func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return requireRow(result, ErrUserNotFound)
}

// SetActive flips the active flag
func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set user active: %w", err)
	}
	return requireRow(result, ErrUserNotFound)
}

// BulkUpdateFlags applies the non-nil fields to every listed user and
// reports how many rows matched
func (r *userRepository) BulkUpdateFlags(ctx context.Context, ids []uuid.UUID, isActive, isEmailVerified *bool, role *domain.Role) (int, error) {
	if len(ids) == 0 || (isActive == nil && isEmailVerified == nil && role == nil) {
		return 0, nil
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{pq.Array(ids)}
	if isActive != nil {
		args = append(args, *isActive)
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if isEmailVerified != nil {
		args = append(args, *isEmailVerified)
		sets = append(sets, fmt.Sprintf("is_email_verified = $%d", len(args)))
	}
	if role != nil {
		args = append(args, string(*role))
		sets = append(sets, fmt.Sprintf("role = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = ANY($1)`, strings.Join(sets, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update users: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// BulkDelete removes every listed user and reports how many existed
func (r *userRepository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete users: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// Stats aggregates user accounts for the admin dashboard
func (r *userRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COUNT(*) FILTER (WHERE is_email_verified),
			COUNT(*) FILTER (WHERE NOT is_email_verified),
			COUNT(*) FILTER (WHERE role = 'customer'),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW()))
		FROM users
	`

	var stats domain.UserStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.InactiveUsers,
		&stats.VerifiedUsers,
		&stats.UnverifiedUsers,
		&stats.Customers,
		&stats.Admins,
		&stats.NewUsersThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	return &stats, nil
}
