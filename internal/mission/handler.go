package mission

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/alerts"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
)

type CreateRequest struct {
	ServiceType     string    `json:"serviceType" validate:"required"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	Category        string    `json:"category"`
	Level           string    `json:"level"`
	ScheduledDate   time.Time `json:"scheduledDate" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,gt=0"`
	Price           *int64    `json:"price" validate:"required"`
}

// Handler serves the mission endpoints.
type Handler struct {
	svc    *Service
	alerts *alerts.Client
}

func NewHandler(svc *Service, a *alerts.Client) *Handler {
	return &Handler{svc: svc, alerts: a}
}

// Create opens a new mission for the calling client.
// POST /api/v1/missions/create
func (h *Handler) Create(c echo.Context) error {
	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Missing required fields")
	}

	m, err := h.svc.Create(c.Request().Context(), CreateInput{
		ClientID:        middleware.UserID(c),
		ServiceType:     strings.ToUpper(req.ServiceType),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Level:           req.Level,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		Price:           *req.Price,
	})
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusCreated, "Mission created successfully", echo.Map{"mission": m})
}

// GetByID returns one mission with party summaries.
// GET /api/v1/missions/:missionId
func (h *Handler) GetByID(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("missionId"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{"mission": d})
}

// List returns missions matching the query filters, newest first.
// GET /api/v1/missions
func (h *Handler) List(c echo.Context) error {
	f := Filter{
		ServiceType: strings.ToUpper(c.QueryParam("serviceType")),
		Status:      c.QueryParam("status"),
		ClientID:    c.QueryParam("clientId"),
		ProviderID:  c.QueryParam("providerId"),
		Limit:       20,
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

	missions, total, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{
		"missions": missions,
		"total":    total,
		"limit":    f.Limit,
		"offset":   f.Offset,
	})
}

// Accept claims a pending mission for the calling provider.
// POST /api/v1/missions/:missionId/accept
func (h *Handler) Accept(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := h.svc.Accept(ctx, c.Param("missionId"), middleware.UserID(c))
	if err != nil {
		return httpx.Error(c, err)
	}

	// Best-effort notification to the client.
	if client, err := h.svc.users.GetByID(ctx, m.ClientID); err == nil {
		_ = h.alerts.EnqueueMissionAccepted(m.ID, m.Title, client.Email)
	}

	return httpx.OK(c, http.StatusOK, "Mission accepted", echo.Map{"mission": m})
}

// Complete marks the mission done; only the assigned provider may call it.
// POST /api/v1/missions/:missionId/complete
func (h *Handler) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	m, err := h.svc.Complete(ctx, c.Param("missionId"), middleware.UserID(c))
	if err != nil {
		return httpx.Error(c, err)
	}

	if client, err := h.svc.users.GetByID(ctx, m.ClientID); err == nil {
		_ = h.alerts.EnqueueMissionCompleted(m.ID, m.Title, client.Email)
	}

	return httpx.OK(c, http.StatusOK, "Mission completed", echo.Map{"mission": m})
}
