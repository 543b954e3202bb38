package integration

import (
	"net/http"
	"testing"
)

func TestRegisterLoginFlow(t *testing.T) {
	app := setupApp(t)

	token, userID := app.registerUser(t, "student@test.com", "secret123")
	if token == "" || userID == 0 {
		t.Fatal("expected token and user ID from registration")
	}

	t.Run("duplicate_registration_rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/auth/register",
			`{"email":"student@test.com","password":"secret123"}`, "")
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("login_returns_token", func(t *testing.T) {
		rec := app.request("POST", "/api/auth/login",
			`{"email":"student@test.com","password":"secret123"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong_password_rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/auth/login",
			`{"email":"student@test.com","password":"wrong"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("verify_accepts_token", func(t *testing.T) {
		rec := app.request("GET", "/api/auth/verify", "", token)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("me_returns_profile", func(t *testing.T) {
		rec := app.request("GET", "/api/auth/me", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["email"] != "student@test.com" {
			t.Errorf("expected registered email, got %v", user["email"])
		}
	})

	t.Run("protected_route_requires_token", func(t *testing.T) {
		rec := app.request("GET", "/api/budget", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAdminAccess(t *testing.T) {
	app := setupApp(t)

	studentToken, _ := app.registerUser(t, "student2@test.com", "secret123")
	adminToken, adminID := app.registerUser(t, "admin@test.com", "secret123")
	app.promoteToAdmin(t, adminID)

	t.Run("student_blocked", func(t *testing.T) {
		rec := app.request("GET", "/api/admin/users", "", studentToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin_allowed", func(t *testing.T) {
		// Tokens carry the role claim, but middleware re-reads the user row,
		// so the promotion takes effect on the next request.
		rec := app.request("GET", "/api/admin/users", "", adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		users := result["users"].([]interface{})
		if len(users) != 2 {
			t.Errorf("expected 2 users in listing, got %d", len(users))
		}
	})
}
