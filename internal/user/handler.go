package user

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/cache"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
)

// Handler serves the user profile endpoints.
type Handler struct {
	store Store
	cache *cache.Cache
}

func NewHandler(store Store, c *cache.Cache) *Handler {
	return &Handler{store: store, cache: c}
}

func profileCacheKey(userID string) string { return "user:profile:" + userID }

// GetProfile returns a user's public profile.
// GET /api/v1/users/:userId
func (h *Handler) GetProfile(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return httpx.Fail(c, http.StatusBadRequest, "Missing user id")
	}

	ctx := c.Request().Context()

	var cached User
	if h.cache.GetJSON(ctx, profileCacheKey(userID), &cached) {
		return httpx.OK(c, http.StatusOK, "", echo.Map{"user": cached})
	}

	u, err := h.store.GetByID(ctx, userID)
	if err != nil {
		return httpx.Error(c, err)
	}
	h.cache.SetJSON(ctx, profileCacheKey(userID), u)

	return httpx.OK(c, http.StatusOK, "", echo.Map{"user": u})
}

// UpdateProfile patches the caller's own profile.
// PATCH /api/v1/users/:userId
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID := c.Param("userId")
	if userID != middleware.UserID(c) {
		return httpx.Fail(c, http.StatusForbidden, "Not authorized")
	}

	var upd ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	u, err := h.store.Update(ctx, userID, upd)
	if err != nil {
		return httpx.Error(c, err)
	}
	h.cache.Delete(ctx, profileCacheKey(userID))

	return httpx.OK(c, http.StatusOK, "Profile updated", echo.Map{"user": u})
}

// ListProviders lists verified providers, best rated first.
// GET /api/v1/users?specialty=&minRating=&limit=&offset=
func (h *Handler) ListProviders(c echo.Context) error {
	f := ProviderFilter{
		Specialty: c.QueryParam("specialty"),
		Limit:     20,
	}
	if v := c.QueryParam("minRating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return httpx.Fail(c, http.StatusBadRequest, "Invalid minRating")
		}
		f.MinRating = r
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	providers, total, err := h.store.ListProviders(c.Request().Context(), f)
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{
		"providers": providers,
		"total":     total,
		"limit":     f.Limit,
		"offset":    f.Offset,
	})
}
