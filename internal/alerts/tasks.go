package alerts

import "time"

// Task type names routed through the asynq mux.
const (
	TaskWelcomeEmail     = "email:welcome"
	TaskMissionAccepted  = "email:mission_accepted"
	TaskMissionCompleted = "email:mission_completed"
	TaskEscrowReleased   = "email:escrow_released"
)

// EmailEnvelope is the rendered message carried inside every payload.
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

type MissionEventPayload struct {
	MissionID string        `json:"mission_id"`
	Title     string        `json:"title"`
	Email     string        `json:"email"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

type EscrowReleasedPayload struct {
	PaymentID string        `json:"payment_id"`
	MissionID string        `json:"mission_id"`
	Email     string        `json:"email"`
	Amount    int64         `json:"amount"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}
