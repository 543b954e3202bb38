package integration

import (
	"net/http"
	"testing"
)

func TestVideoTipFlow(t *testing.T) {
	app := setupApp(t)
	studentToken, _ := app.registerUser(t, "viewer@test.com", "secret123")
	adminToken, adminID := app.registerUser(t, "curator@test.com", "secret123")
	app.promoteToAdmin(t, adminID)

	t.Run("student_cannot_create", func(t *testing.T) {
		rec := app.request("POST", "/api/admin/video-tips",
			`{"title":"Nope","videoUrl":"https://youtu.be/abc","category":"saving"}`, studentToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	var tipID string
	t.Run("admin_creates_with_normalized_url", func(t *testing.T) {
		rec := app.request("POST", "/api/admin/video-tips",
			`{"title":"Budget 101","description":"The 50/30/20 rule","videoUrl":"https://www.youtube.com/watch?v=abc123","category":"budgeting"}`, adminToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		tip := parseJSON(t, rec)["tip"].(map[string]interface{})
		if tip["videoUrl"] != "https://www.youtube.com/embed/abc123" {
			t.Errorf("expected embed URL, got %v", tip["videoUrl"])
		}
		tipID = jsonID(tip["id"])
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		rec := app.request("POST", "/api/admin/video-tips",
			`{"title":"Bad","videoUrl":"https://youtu.be/abc","category":"gambling"}`, adminToken)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("student_sees_active_tips", func(t *testing.T) {
		rec := app.request("GET", "/api/video-tips", "", studentToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tips := parseJSON(t, rec)["tips"].([]interface{})
		if len(tips) != 1 {
			t.Errorf("expected 1 tip, got %d", len(tips))
		}
	})

	t.Run("admin_deletes", func(t *testing.T) {
		rec := app.request("DELETE", "/api/admin/video-tips/"+tipID, "", adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		rec = app.request("GET", "/api/video-tips", "", studentToken)
		tips := parseJSON(t, rec)["tips"].([]interface{})
		if len(tips) != 0 {
			t.Errorf("expected no tips after delete, got %d", len(tips))
		}
	})
}
