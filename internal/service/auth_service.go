package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vivotour/vivotour/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for bad email/password combinations.
// The message is deliberately identical for unknown emails and wrong
// passwords.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration and credential verification
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// LoginResponse contains the authenticated user and their session tokens
type LoginResponse struct {
	User   *domain.User
	Tokens *TokenPair
}

// Register creates a customer account and opens a session
func (s *AuthService) Register(ctx context.Context, email, name, password, userAgent, ipAddress string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, fmt.Errorf("email and name are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrDuplicate)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleCustomer},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: user, Tokens: pair}, nil
}

// Login verifies credentials and opens a session
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: user, Tokens: pair}, nil
}

// CreateUser provisions an account with explicit roles (admin endpoint)
func (s *AuthService) CreateUser(ctx context.Context, email, name, password string, roles []string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, fmt.Errorf("email and name are required")
	}
	for _, role := range roles {
		if role != domain.RoleAdmin && role != domain.RoleCustomer {
			return nil, fmt.Errorf("unknown role %q", role)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
