package mission

import (
	"time"

	"github.com/missio-app/missio/internal/user"
)

// Mission lifecycle. Transitions are strictly forward:
// PENDING -> ACCEPTED -> COMPLETED.
const (
	StatusPending   = "PENDING"
	StatusAccepted  = "ACCEPTED"
	StatusCompleted = "COMPLETED"
)

// Payment tracking on the mission itself, separate from escrow state.
const (
	PaymentStatusNone       = "NONE"
	PaymentStatusProcessing = "PROCESSING"
)

// CommissionRate is the platform's cut in percent, applied as an exact
// integer split on minor currency units.
const CommissionRate = 10

// Commission returns the platform's cut of amount. The remainder
// (amount - Commission(amount)) always reconstructs amount exactly.
func Commission(amount int64) int64 {
	return amount * CommissionRate / 100
}

// Mission is a requested unit of service work between a client and a
// provider. Price and commission are minor currency units, fixed at
// creation.
type Mission struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	ProviderID      string     `json:"providerId,omitempty"`
	ServiceType     string     `json:"serviceType"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category,omitempty"`
	Level           string     `json:"level,omitempty"`
	ScheduledDate   time.Time  `json:"scheduledDate"`
	DurationMinutes int        `json:"durationMinutes"`
	Price           int64      `json:"price"`
	Commission      int64      `json:"commission"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Detail embeds the party summaries alongside the mission.
type Detail struct {
	Mission
	Client   *user.Summary `json:"client,omitempty"`
	Provider *user.Summary `json:"provider,omitempty"`
}

// Filter narrows mission listings.
type Filter struct {
	ServiceType string
	Status      string
	ClientID    string
	ProviderID  string
	Limit       int
	Offset      int
}

// CreateInput carries the validated fields for a new mission.
type CreateInput struct {
	ClientID        string
	ServiceType     string
	Title           string
	Description     string
	Category        string
	Level           string
	ScheduledDate   time.Time
	DurationMinutes int
	Price           int64
}
