package payment

import (
	"time"

	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/user"
)

// Escrow states. HELD -> RELEASED is the only transition, applied at
// most once.
const (
	EscrowHeld     = "HELD"
	EscrowReleased = "RELEASED"
)

// Payment is an escrow hold for a mission. Amount, commission and
// providerEarnings are minor currency units; commission + providerEarnings
// always equals amount exactly.
type Payment struct {
	ID               string     `json:"id"`
	MissionID        string     `json:"missionId"`
	ClientID         string     `json:"clientId"`
	ProviderID       string     `json:"providerId"`
	Amount           int64      `json:"amount"`
	Commission       int64      `json:"commission"`
	ProviderEarnings int64      `json:"providerEarnings"`
	PaymentMethod    string     `json:"paymentMethod"`
	EscrowStatus     string     `json:"escrowStatus"`
	Status           string     `json:"status"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Detail embeds the mission and party summaries alongside the payment.
type Detail struct {
	Payment
	Mission  *mission.Mission `json:"mission,omitempty"`
	Client   *user.Summary    `json:"client,omitempty"`
	Provider *user.Summary    `json:"provider,omitempty"`
}

// CreateInput carries the validated fields for a new escrow hold.
type CreateInput struct {
	MissionID     string
	CallerID      string
	Amount        int64
	PaymentMethod string
}
