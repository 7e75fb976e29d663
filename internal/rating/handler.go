package rating

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/cache"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
)

type RateRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// Handler serves the rating endpoint.
type Handler struct {
	svc   *Service
	cache *cache.Cache
}

func NewHandler(svc *Service, c *cache.Cache) *Handler {
	return &Handler{svc: svc, cache: c}
}

// Rate records the caller's rating of another user.
// POST /api/v1/users/:userId/rate
func (h *Handler) Rate(c echo.Context) error {
	req := new(RateRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()
	subjectID := c.Param("userId")

	r, err := h.svc.Rate(ctx, subjectID, middleware.UserID(c), req.Rating, req.Review)
	if err != nil {
		return httpx.Error(c, err)
	}

	// The subject's cached profile now carries stale aggregates.
	h.cache.Delete(ctx, "user:profile:"+subjectID)

	return httpx.OK(c, http.StatusCreated, "Rating added", echo.Map{"rating": r})
}
