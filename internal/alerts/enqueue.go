package alerts

import (
	"fmt"
	"time"
)

// EnqueueWelcomeEmail schedules a welcome email for a new account.
func (a *Client) EnqueueWelcomeEmail(userID, email, name string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to Missio, %s!", name),
		Body:    fmt.Sprintf("Hi %s, thanks for joining Missio.", name),
	}
	return a.enqueue(TaskWelcomeEmail, WelcomeEmailPayload{
		UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueMissionAccepted notifies the client after a provider claims
// their mission.
func (a *Client) EnqueueMissionAccepted(missionID, title, clientEmail string) error {
	env := EmailEnvelope{
		To:      clientEmail,
		Subject: "A provider accepted your mission",
		Body:    fmt.Sprintf("Your mission %q has been accepted. You can now fund the escrow payment.", title),
	}
	return a.enqueue(TaskMissionAccepted, MissionEventPayload{
		MissionID: missionID, Title: title, Email: clientEmail, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueMissionCompleted notifies the client that the provider marked
// the mission done.
func (a *Client) EnqueueMissionCompleted(missionID, title, clientEmail string) error {
	env := EmailEnvelope{
		To:      clientEmail,
		Subject: "Your mission has been completed",
		Body:    fmt.Sprintf("Mission %q is complete. Please review the work and release the escrow payment.", title),
	}
	return a.enqueue(TaskMissionCompleted, MissionEventPayload{
		MissionID: missionID, Title: title, Email: clientEmail, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueEscrowReleased notifies the provider their earnings were
// credited.
func (a *Client) EnqueueEscrowReleased(paymentID, missionID, providerEmail string, amount int64) error {
	env := EmailEnvelope{
		To:      providerEmail,
		Subject: "Escrow released to your wallet",
		Body:    fmt.Sprintf("Payment %s has been released. %d was credited to your wallet.", paymentID, amount),
	}
	return a.enqueue(TaskEscrowReleased, EscrowReleasedPayload{
		PaymentID: paymentID, MissionID: missionID, Email: providerEmail, Amount: amount,
		Envelope: env, SentAt: time.Now(),
	})
}
