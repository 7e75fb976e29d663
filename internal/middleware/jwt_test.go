package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/missio-app/missio/internal/auth"
	"github.com/missio-app/missio/internal/middleware"
)

const secret = "testsecret"

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec, c
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	token, err := auth.GenerateToken(secret, "user-1", "jane@test.local", "CLIENT")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	rec, c := run(t, middleware.Authenticate(secret), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if middleware.UserID(c) != "user-1" {
		t.Errorf("user id = %q, want user-1", middleware.UserID(c))
	}
	if role, _ := c.Get(middleware.CtxRole).(string); role != "CLIENT" {
		t.Errorf("role = %q, want CLIENT", role)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	wrongKey, err := auth.GenerateToken("othersecret", "user-1", "jane@test.local", "CLIENT")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := run(t, middleware.Authenticate(secret), tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"allowed", "PROVIDER", []string{"PROVIDER"}, http.StatusOK},
		{"one of many", "CLIENT", []string{"CLIENT", "PROVIDER"}, http.StatusOK},
		{"wrong role", "CLIENT", []string{"PROVIDER"}, http.StatusForbidden},
		{"no role set", "", []string{"PROVIDER"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != "" {
				c.Set(middleware.CtxRole, tc.role)
			}
			if err := middleware.RequireRoles(tc.allowed...)(next)(c); err != nil {
				t.Fatalf("middleware: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
