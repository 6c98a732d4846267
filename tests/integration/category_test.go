package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCategoryFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "admin@test.com", "password123")

	rec := app.request("POST", "/api/v1/categories", `{"name":"Food","icon":"🍕","color":"#FF5733"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	categoryID := parseJSON(t, rec)["id"].(string)

	t.Run("get by id", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/categories/"+categoryID, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get category failed: %d %s", rec.Code, rec.Body.String())
		}
		category := parseJSON(t, rec)
		if category["name"].(string) != "Food" {
			t.Errorf("expected Food, got %v", category["name"])
		}
		if category["color"].(string) != "#FF5733" {
			t.Errorf("expected #FF5733, got %v", category["color"])
		}
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/categories/01900000-0000-7000-8000-000000000000", "", token)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/categories/not-a-uuid", "", token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete refused while in use", func(t *testing.T) {
		alice := app.createPerson(t, token, "Alice")
		body := fmt.Sprintf(`{
			"description": "Groceries",
			"total_amount": 40,
			"category": "Food",
			"split_method": "equal",
			"spent_at": "2026-08-01T12:00:00Z",
			"paid_by": [{"person_id": %q, "amount": 40}],
			"shares": [{"person_id": %q, "amount": 40}]
		}`, alice, alice)
		rec := app.request("POST", "/api/v1/expenses", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("DELETE", "/api/v1/categories/"+categoryID, "", token)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409 deleting in-use category, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
