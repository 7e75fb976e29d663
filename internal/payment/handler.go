package payment

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/alerts"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
	"github.com/missio-app/missio/internal/user"
)

type CreateRequest struct {
	MissionID     string `json:"missionId" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// Handler serves the payment endpoints.
type Handler struct {
	svc    *Service
	users  user.Store
	alerts *alerts.Client
}

func NewHandler(svc *Service, users user.Store, a *alerts.Client) *Handler {
	return &Handler{svc: svc, users: users, alerts: a}
}

// Create funds escrow for a mission.
// POST /api/v1/payments/create
func (h *Handler) Create(c echo.Context) error {
	req := new(CreateRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Missing required fields")
	}

	p, err := h.svc.Create(c.Request().Context(), CreateInput{
		MissionID:     req.MissionID,
		CallerID:      middleware.UserID(c),
		Amount:        req.Amount,
		PaymentMethod: strings.ToUpper(req.PaymentMethod),
	})
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusCreated, "Payment initiated", echo.Map{"payment": p})
}

// GetByID returns one payment with its mission and parties.
// GET /api/v1/payments/:paymentId
func (h *Handler) GetByID(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("paymentId"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{"payment": d})
}

// Release pays out held escrow to the provider.
// POST /api/v1/payments/:paymentId/release
func (h *Handler) Release(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.svc.Release(ctx, c.Param("paymentId"), middleware.UserID(c))
	if err != nil {
		return httpx.Error(c, err)
	}

	// Best-effort notification to the provider.
	if provider, err := h.users.GetByID(ctx, p.ProviderID); err == nil {
		_ = h.alerts.EnqueueEscrowReleased(p.ID, p.MissionID, provider.Email, p.ProviderEarnings)
	}

	return httpx.OK(c, http.StatusOK, "Escrow released", echo.Map{"payment": p})
}
