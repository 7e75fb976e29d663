// Package alerts delivers user notifications through a Redis-backed
// asynq queue. Enqueues are best-effort: callers ignore the error, and a
// nil *Client drops everything, so the API keeps working without Redis.
package alerts

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// Client wraps the asynq producer and the in-process worker.
type Client struct {
	client *asynq.Client
	server *asynq.Server
	mailer *Mailer
}

// Init starts the worker and returns a producer handle. Returns nil
// (notifications disabled) when redisAddr is empty.
func Init(redisAddr string, mailer *Mailer) *Client {
	if redisAddr == "" {
		log.Println("alerts disabled: no REDIS_ADDR configured")
		return nil
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	a := &Client{
		client: asynq.NewClient(opts),
		mailer: mailer,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, a.handleWelcomeEmail)
	mux.HandleFunc(TaskMissionAccepted, a.handleMissionEvent)
	mux.HandleFunc(TaskMissionCompleted, a.handleMissionEvent)
	mux.HandleFunc(TaskEscrowReleased, a.handleEscrowReleased)

	a.server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"emails": 10},
	})
	go func() {
		if err := a.server.Run(mux); err != nil {
			log.Printf("asynq server stopped: %v", err)
		}
	}()

	log.Printf("alerts initialized (addr=%s)", redisAddr)
	return a
}

// Close releases the producer and stops the worker.
func (a *Client) Close() {
	if a == nil {
		return
	}
	_ = a.client.Close()
	a.server.Shutdown()
}

func (a *Client) enqueue(taskType string, payload any) error {
	if a == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = a.client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue("emails"))
	return err
}

func (a *Client) send(env EmailEnvelope) error {
	if err := a.mailer.Send(env.To, env.Subject, env.Body); err != nil {
		log.Printf("[notify][ERROR] send failed: %v", err)
		return err
	}
	return nil
}

func (a *Client) handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := a.send(p.Envelope); err != nil {
		return err
	}
	log.Printf("[notify] WelcomeEmail sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func (a *Client) handleMissionEvent(_ context.Context, t *asynq.Task) error {
	var p MissionEventPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := a.send(p.Envelope); err != nil {
		return err
	}
	log.Printf("[notify] %s sent -> mission=%s to=%s", t.Type(), p.MissionID, p.Email)
	return nil
}

func (a *Client) handleEscrowReleased(_ context.Context, t *asynq.Task) error {
	var p EscrowReleasedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := a.send(p.Envelope); err != nil {
		return err
	}
	log.Printf("[notify] EscrowReleased sent -> payment=%s to=%s", p.PaymentID, p.Email)
	return nil
}
