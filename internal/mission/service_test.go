package mission_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/missio-app/missio/internal/apperr"
	"github.com/missio-app/missio/internal/memstore"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/user"
)

func newTestService(t *testing.T) (*mission.Service, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	return mission.NewService(mem.Missions(), mem.Users()), mem
}

func seedUser(t *testing.T, mem *memstore.Store, role string) user.User {
	t.Helper()
	u := user.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@test.local",
		Name:      "Test " + role,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := mem.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func validInput(clientID string) mission.CreateInput {
	return mission.CreateInput{
		ClientID:        clientID,
		ServiceType:     "CLEANING",
		Title:           "Deep clean apartment",
		Description:     "Two bedrooms, one bathroom",
		ScheduledDate:   time.Now().Add(24 * time.Hour),
		DurationMinutes: 120,
		Price:           10000,
	}
}

func TestCreateSetsInitialState(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)

	m, err := svc.Create(context.Background(), validInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.Status != mission.StatusPending {
		t.Errorf("status = %q, want %q", m.Status, mission.StatusPending)
	}
	if m.PaymentStatus != mission.PaymentStatusNone {
		t.Errorf("paymentStatus = %q, want %q", m.PaymentStatus, mission.PaymentStatusNone)
	}
	if m.ProviderID != "" {
		t.Errorf("providerId = %q, want empty", m.ProviderID)
	}
	if m.Commission != 1000 {
		t.Errorf("commission = %d, want 1000", m.Commission)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)

	in := validInput(client.ID)
	in.Title = ""
	if _, err := svc.Create(context.Background(), in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	in = validInput(client.ID)
	in.Price = -1
	if _, err := svc.Create(context.Background(), in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestAcceptAssignsProvider(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)
	provider := seedUser(t, mem, user.RoleProvider)

	m, err := svc.Create(context.Background(), validInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted, err := svc.Accept(context.Background(), m.ID, provider.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != mission.StatusAccepted {
		t.Errorf("status = %q, want %q", accepted.Status, mission.StatusAccepted)
	}
	if accepted.ProviderID != provider.ID {
		t.Errorf("providerId = %q, want %q", accepted.ProviderID, provider.ID)
	}
}

func TestAcceptIsNotIdempotent(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)
	first := seedUser(t, mem, user.RoleProvider)
	second := seedUser(t, mem, user.RoleProvider)

	m, err := svc.Create(context.Background(), validInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(context.Background(), m.ID, first.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	// Another provider loses, and so does the winner retrying.
	if _, err := svc.Accept(context.Background(), m.ID, second.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("second provider accept: err = %v, want invalid state", err)
	}
	if _, err := svc.Accept(context.Background(), m.ID, first.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("repeat accept: err = %v, want invalid state", err)
	}

	got, err := svc.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProviderID != first.ID {
		t.Errorf("providerId = %q, want first accepter %q", got.ProviderID, first.ID)
	}
}

func TestAcceptUnknownMission(t *testing.T) {
	svc, mem := newTestService(t)
	provider := seedUser(t, mem, user.RoleProvider)

	if _, err := svc.Accept(context.Background(), uuid.New().String(), provider.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCompleteRequiresAssignedProvider(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)
	provider := seedUser(t, mem, user.RoleProvider)
	stranger := seedUser(t, mem, user.RoleProvider)

	m, err := svc.Create(context.Background(), validInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// PENDING missions have no provider to complete them.
	if _, err := svc.Complete(context.Background(), m.ID, provider.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("complete pending: err = %v, want forbidden", err)
	}

	if _, err := svc.Accept(context.Background(), m.ID, provider.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Complete(context.Background(), m.ID, stranger.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("complete by stranger: err = %v, want forbidden", err)
	}
	if _, err := svc.Complete(context.Background(), m.ID, client.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("complete by client: err = %v, want forbidden", err)
	}
}

func TestCompleteIsTerminal(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)
	provider := seedUser(t, mem, user.RoleProvider)

	m, err := svc.Create(context.Background(), validInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(context.Background(), m.ID, provider.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	done, err := svc.Complete(context.Background(), m.ID, provider.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != mission.StatusCompleted {
		t.Errorf("status = %q, want %q", done.Status, mission.StatusCompleted)
	}
	if done.CompletedAt == nil {
		t.Error("completedAt not set")
	}

	if _, err := svc.Complete(context.Background(), m.ID, provider.ID); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("repeat complete: err = %v, want invalid state", err)
	}
}

func TestListFilters(t *testing.T) {
	svc, mem := newTestService(t)
	client := seedUser(t, mem, user.RoleClient)
	other := seedUser(t, mem, user.RoleClient)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), validInput(client.ID)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	in := validInput(other.ID)
	in.ServiceType = "PLUMBING"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, total, err := svc.List(context.Background(), mission.Filter{ClientID: client.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(got) != 3 {
		t.Errorf("list by client: got %d/%d, want 3/3", len(got), total)
	}

	got, total, err = svc.List(context.Background(), mission.Filter{ServiceType: "PLUMBING"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Errorf("list by serviceType: got %d/%d, want 1/1", len(got), total)
	}
}

func TestCommissionSplitExact(t *testing.T) {
	for _, amount := range []int64{0, 1, 9, 10, 99, 100, 10000, 12345} {
		c := mission.Commission(amount)
		if c+(amount-c) != amount {
			t.Errorf("split of %d does not reconstruct: commission %d", amount, c)
		}
		if c < 0 || c > amount {
			t.Errorf("commission %d out of range for %d", c, amount)
		}
	}
}
