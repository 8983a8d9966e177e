package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/service"
)

const refreshTokenCookie = "vivotour-refresh-token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
	userRepo     domain.UserRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService, userRepo domain.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		userRepo:     userRepo,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	resp, err := h.authService.Register(c.UserContext(), req.Email, req.Name, req.Password, c.Get("User-Agent"), c.IP())
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "an account with that email already exists",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	h.setRefreshCookie(c, resp.Tokens.RefreshToken)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"token":      resp.Tokens.AccessToken,
		"expires_in": resp.Tokens.ExpiresIn,
		"user": fiber.Map{
			"id":    resp.User.ID,
			"email": resp.User.Email,
			"name":  resp.User.Name,
			"roles": resp.User.Roles,
		},
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	resp, err := h.authService.Login(c.UserContext(), req.Email, req.Password, c.Get("User-Agent"), c.IP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid email or password",
			})
		}
		log.Printf("[Auth] Login error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "login failed",
		})
	}

	h.setRefreshCookie(c, resp.Tokens.RefreshToken)

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      resp.Tokens.AccessToken,
		"expires_in": resp.Tokens.ExpiresIn,
		"user": fiber.Map{
			"id":    resp.User.ID,
			"email": resp.User.Email,
			"name":  resp.User.Name,
			"roles": resp.User.Roles,
		},
	})
}

// RefreshToken handles POST /v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshTokenCookie)
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "no refresh token provided",
		})
	}

	pair, err := h.tokenService.RefreshAccessToken(c.UserContext(), refreshToken, c.Get("User-Agent"), c.IP())
	if err != nil {
		h.clearRefreshCookie(c)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid or expired refresh token",
		})
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      pair.AccessToken,
		"expires_in": pair.ExpiresIn,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshTokenCookie)
	if refreshToken != "" {
		_ = h.tokenService.RevokeRefreshToken(c.UserContext(), refreshToken)
	}

	h.clearRefreshCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out",
	})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
		Path:     "/",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		Path:     "/",
	})
}

// --- Admin user management ---

type createUserRequest struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// ListUsers handles GET /v1/admin/users
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.GetAll(c.UserContext())
	if err != nil {
		log.Printf("[Auth] Failed to list users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to list users",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// CreateUser handles POST /v1/admin/users
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	user, err := h.authService.CreateUser(c.UserContext(), req.Email, req.Name, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "an account with that email already exists",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// DeleteUser handles DELETE /v1/admin/users/:id
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	// Force logout before removing the account
	_ = h.tokenService.RevokeAllUserTokens(c.UserContext(), id)

	if err := h.userRepo.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "user not found",
			})
		}
		log.Printf("[Auth] Failed to delete user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "deleted",
	})
}
