package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/middleware"
)

type WithdrawRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Method string `json:"method" validate:"required"`
}

// Handler serves the wallet endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetBalance returns the caller's balance plus full history.
// GET /api/v1/payments/wallet/balance
func (h *Handler) GetBalance(c echo.Context) error {
	userID := middleware.UserID(c)
	balance, txs, err := h.svc.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return httpx.Error(c, err)
	}
	if txs == nil {
		txs = []Transaction{}
	}
	return httpx.OK(c, http.StatusOK, "", echo.Map{
		"userId":       userID,
		"balance":      balance,
		"transactions": txs,
	})
}

// Withdraw records a debit against the caller's wallet.
// POST /api/v1/payments/wallet/withdraw
func (h *Handler) Withdraw(c echo.Context) error {
	req := new(WithdrawRequest)
	if err := c.Bind(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return httpx.Fail(c, http.StatusBadRequest, "Missing required fields")
	}

	t, err := h.svc.Withdraw(c.Request().Context(), middleware.UserID(c), req.Amount, req.Method)
	if err != nil {
		return httpx.Error(c, err)
	}
	return httpx.OK(c, http.StatusCreated, "Withdrawal recorded", echo.Map{"transaction": t})
}
