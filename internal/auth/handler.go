package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/missio-app/missio/internal/alerts"
	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
	"github.com/missio-app/missio/internal/user"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler serves signup, login and token verification.
type Handler struct {
	users  user.Store
	secret string
	alerts *alerts.Client
}

func NewHandler(users user.Store, secret string, a *alerts.Client) *Handler {
	return &Handler{users: users, secret: secret, alerts: a}
}

// Signup registers a new client or provider account.
// POST /api/v1/auth/sign-up
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Missing required fields or invalid email format")
	}

	role := strings.ToUpper(req.Role)
	if role != user.RoleClient && role != user.RoleProvider {
		return httpx.Fail(c, http.StatusBadRequest, "Role must be CLIENT or PROVIDER")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return httpx.Error(c, err)
	}

	u := user.User{
		ID:          uuid.New().String(),
		Email:       strings.ToLower(req.Email),
		Password:    string(hashed),
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        role,
		Specialties: []string{},
		CreatedAt:   time.Now(),
	}
	if err := h.users.Create(c.Request().Context(), u); err != nil {
		return httpx.Error(c, err)
	}

	token, err := GenerateToken(h.secret, u.ID, u.Email, u.Role)
	if err != nil {
		return httpx.Error(c, err)
	}

	_ = h.alerts.EnqueueWelcomeEmail(u.ID, u.Email, u.Name)

	return httpx.OK(c, http.StatusCreated, "User created successfully", echo.Map{
		"user": echo.Map{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
		"token": token,
	})
}

// Login exchanges credentials for a token.
// POST /api/v1/auth/login
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Email and password required")
	}

	u, err := h.users.GetByEmail(c.Request().Context(), strings.ToLower(req.Email))
	if err != nil {
		// Do not reveal whether the email exists.
		if apperr.IsKind(err, apperr.KindNotFound) {
			return httpx.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return httpx.Error(c, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return httpx.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := GenerateToken(h.secret, u.ID, u.Email, u.Role)
	if err != nil {
		return httpx.Error(c, err)
	}

	return httpx.OK(c, http.StatusOK, "Login successful", echo.Map{
		"user": echo.Map{
			"id":           u.ID,
			"email":        u.Email,
			"name":         u.Name,
			"role":         u.Role,
			"profileImage": u.ProfileImage,
			"isVerified":   u.IsVerified,
		},
		"token": token,
	})
}

// VerifyToken returns the profile behind a valid token.
// POST /api/v1/auth/verify-token
func (h *Handler) VerifyToken(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return httpx.Fail(c, http.StatusUnauthorized, "Not authenticated")
	}

	u, err := h.users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{
		"user": echo.Map{
			"id":            u.ID,
			"email":         u.Email,
			"name":          u.Name,
			"role":          u.Role,
			"profileImage":  u.ProfileImage,
			"isVerified":    u.IsVerified,
			"averageRating": u.AverageRating,
			"reviewCount":   u.ReviewCount,
		},
	})
}
