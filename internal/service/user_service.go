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

// These surface directly in API responses, so they read as product copy
// rather than Go error strings.
var (
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrAccountDeactivated   = errors.New("Account is deactivated. Please contact support.")
	ErrPasswordConfirmation = errors.New("New password and confirm password do not match")
	ErrCurrentPassword      = errors.New("Current password is incorrect")
	ErrDeleteOwnAccount     = errors.New("You cannot delete your own account")
	ErrToggleOwnAccount     = errors.New("You cannot deactivate your own account")
	ErrInvalidRole          = errors.New("Invalid role. Use \"customer\" or \"admin\"")
	ErrInvalidDate          = errors.New("Invalid date format")
)

// RegisterInput is the public signup payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileInput carries the fields a user may edit on their own
// account. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name        *string       `json:"name" validate:"omitempty,min=2,max=100"`
	Phone       *string       `json:"phone" validate:"omitempty,max=30"`
	Address     *string       `json:"address" validate:"omitempty,max=500"`
	Avatar      *domain.Image `json:"avatar"`
	DateOfBirth *string       `json:"dateOfBirth"`
	Gender      *string       `json:"gender" validate:"omitempty,oneof=male female other"`
}

// CreateUserInput is the admin account-creation payload.
type CreateUserInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	Role            *string `json:"role" validate:"omitempty,oneof=customer admin"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	Address         *string `json:"address" validate:"omitempty,max=500"`
	Gender          *string `json:"gender" validate:"omitempty,oneof=male female other"`
	IsActive        *bool   `json:"isActive"`
	IsEmailVerified *bool   `json:"isEmailVerified"`
}

// UpdateUserInput is the admin account-edit payload.
type UpdateUserInput struct {
	Name            *string       `json:"name" validate:"omitempty,min=2,max=100"`
	Email           *string       `json:"email" validate:"omitempty,email"`
	Role            *string       `json:"role" validate:"omitempty,oneof=customer admin"`
	Phone           *string       `json:"phone" validate:"omitempty,max=30"`
	Address         *string       `json:"address" validate:"omitempty,max=500"`
	Avatar          *domain.Image `json:"avatar"`
	DateOfBirth     *string       `json:"dateOfBirth"`
	Gender          *string       `json:"gender" validate:"omitempty,oneof=male female other"`
	IsActive        *bool         `json:"isActive"`
	IsEmailVerified *bool         `json:"isEmailVerified"`
}

// BulkUserUpdateInput restricts bulk edits to account flags and role.
type BulkUserUpdateInput struct {
	IsActive        *bool   `json:"isActive"`
	IsEmailVerified *bool   `json:"isEmailVerified"`
	Role            *string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// UserService defines the interface for account business logic
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthPayload, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, q repository.UserQuery) ([]*domain.User, repository.PageInfo, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, confirmPassword string) error
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) error
	ToggleStatus(ctx context.Context, actorID, id uuid.UUID) (*domain.User, error)
	BulkUpdate(ctx context.Context, ids []uuid.UUID, input BulkUserUpdateInput) (int, error)
	BulkDelete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
}

type userService struct {
	userRepo repository.UserRepository
	auth     AuthService
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, auth AuthService) UserService {
	return &userService{userRepo: userRepo, auth: auth}
}

// Register creates a customer account and signs the caller in. The role
// is always customer regardless of input.
func (s *userService) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	hashedPassword, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hashedPassword,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issuePayload(user)
}

// Login authenticates by email and password. A wrong email and a wrong
// password produce the same error; a deactivated account is reported
// explicitly. Successful logins stamp lastLogin.
func (s *userService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.userRepo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	now := time.Now()
	user.LastLogin = &now
	user.PasswordHash = ""

	return s.issuePayload(user)
}

func (s *userService) issuePayload(user *domain.User) (*AuthPayload, error) {
	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthPayload{
		Token:     token,
		User:      user,
		ExpiresIn: s.auth.ExpiresIn(),
	}, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List retrieves a page of users with pagination metadata
func (s *userService) List(ctx context.Context, q repository.UserQuery) ([]*domain.User, repository.PageInfo, error) {
	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, repository.PageInfo{}, err
	}
	return users, repository.NewPageInfo(q.Page, q.Limit, total), nil
}

// UpdateProfile applies the caller's own edits
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword verifies the current password, checks the confirmation
// and stores a fresh hash
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordConfirmation
	}

	user, err := s.userRepo.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.auth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrCurrentPassword
	}

	hashedPassword, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

// CreateUser creates an account on behalf of an admin; unlike Register,
// the role may be set
func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hashedPassword, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hashedPassword,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !domain.ValidRole(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsEmailVerified != nil {
		user.IsEmailVerified = *input.IsEmailVerified
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateUser applies admin edits to any account
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = domain.NormalizeEmail(*input.Email)
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !domain.ValidRole(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsEmailVerified != nil {
		user.IsEmailVerified = *input.IsEmailVerified
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *userService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrDeleteOwnAccount
	}
	return s.userRepo.Delete(ctx, id)
}

// ToggleStatus flips an account's active flag. Admins cannot deactivate
// themselves.
func (s *userService) ToggleStatus(ctx context.Context, actorID, id uuid.UUID) (*domain.User, error) {
	if actorID == id {
		return nil, ErrToggleOwnAccount
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetActive(ctx, id, !user.IsActive); err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive

	return user, nil
}

// BulkUpdate applies flag/role edits to many accounts at once
func (s *userService) BulkUpdate(ctx context.Context, ids []uuid.UUID, input BulkUserUpdateInput) (int, error) {
	var role *domain.Role
	if input.Role != nil {
		r := domain.Role(*input.Role)
		if !domain.ValidRole(r) {
			return 0, ErrInvalidRole
		}
		role = &r
	}
	return s.userRepo.BulkUpdateFlags(ctx, ids, input.IsActive, input.IsEmailVerified, role)
}

// BulkDelete removes many accounts at once, refusing lists that include
// the acting admin
func (s *userService) BulkDelete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int, error) {
	for _, id := range ids {
		if id == actorID {
			return 0, ErrDeleteOwnAccount
		}
	}
	return s.userRepo.BulkDelete(ctx, ids)
}

// Stats aggregates user accounts for the admin dashboard
func (s *userService) Stats(ctx context.Context) (*domain.UserStats, error) {
	return s.userRepo.Stats(ctx)
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, ErrInvalidDate
}
