package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing (10 as per requirements)
	BcryptCost = 10

	// DefaultTokenExpiration is how long an issued token stays valid
	DefaultTokenExpiration = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// AuthPayload is returned by register and login.
type AuthPayload struct {
	Token     string       `json:"token"`
	User      *domain.User `json:"user"`
	ExpiresIn string       `json:"expiresIn"`
}

// AuthService issues and verifies the stateless bearer tokens. There is
// no server-side session: logout is a client concern.
type AuthService interface {
	GenerateToken(user *domain.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ResolveIdentity(ctx context.Context, tokenString string) *domain.Identity
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
	ExpiresIn() string
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenExpiration
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// GenerateToken signs a token bound to the user's id and role
func (s *authService) GenerateToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveIdentity turns a bearer token into the caller's identity. Every
// failure mode collapses to nil: a bad signature, an expired token, an
// unknown user and a deactivated account all look like an anonymous
// request. Authorization happens later, per operation.
func (s *authService) ResolveIdentity(ctx context.Context, tokenString string) *domain.Identity {
	if tokenString == "" {
		return nil
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil
	}

	return &domain.Identity{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
	}
}

// HashPassword hashes a password using bcrypt with cost factor 10
func (s *authService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func (s *authService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ExpiresIn renders the token lifetime the way clients display it,
// e.g. "7 days".
func (s *authService) ExpiresIn() string {
	days := int(s.tokenTTL.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
