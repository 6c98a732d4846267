package integration

import (
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"
)

// expenseBody builds an equal-split expense payload paid by one person.
func expenseBody(payerID string, total float64, shares map[string]float64) string {
	body := fmt.Sprintf(`{
		"description": "Dinner",
		"total_amount": %.2f,
		"split_method": "equal",
		"spent_at": %q,
		"paid_by": [{"person_id": %q, "amount": %.2f}],
		"shares": [`, total, time.Now().Format(time.RFC3339), payerID, total)
	first := true
	for id, amount := range shares {
		if !first {
			body += ","
		}
		first = false
		body += fmt.Sprintf(`{"person_id": %q, "amount": %.2f}`, id, amount)
	}
	return body + "]}"
}

func TestSettlementFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "admin@test.com", "password123")

	// Group of three.
	alice := app.createPerson(t, token, "Alice")
	bob := app.createPerson(t, token, "Bob")
	carol := app.createPerson(t, token, "Carol")

	// Alice pays 90, split equally.
	rec := app.request("POST", "/api/v1/expenses", expenseBody(alice, 90, map[string]float64{
		alice: 30, bob: 30, carol: 30,
	}), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	// Balances: Alice +60, Bob -30, Carol -30.
	rec = app.request("GET", "/api/v1/settlements/balances", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances failed: %d %s", rec.Code, rec.Body.String())
	}
	balances := parseJSONList(t, rec)
	want := map[string]float64{"Alice": 60, "Bob": -30, "Carol": -30}
	for _, b := range balances {
		name := b["name"].(string)
		if math.Abs(b["net_balance"].(float64)-want[name]) > 0.01 {
			t.Errorf("%s: expected %.2f, got %v", name, want[name], b["net_balance"])
		}
	}

	// Simplified plan: two payments into Alice.
	rec = app.request("GET", "/api/v1/settlements/simplified", "", token)
	simplified := parseJSONList(t, rec)
	if len(simplified) != 2 {
		t.Fatalf("expected 2 transactions, got %d: %s", len(simplified), rec.Body.String())
	}
	for _, tx := range simplified {
		if tx["to"].(string) != alice {
			t.Errorf("expected payments toward Alice, got %v -> %v", tx["from"], tx["to"])
		}
	}

	// Bob settles up.
	rec = app.request("POST", "/api/v1/settlements/payments", fmt.Sprintf(
		`{"debtor_id": %q, "creditor_id": %q, "amount": 30}`, bob, alice), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
	}
	paymentID := parseJSON(t, rec)["id"].(string)

	// Only Carol's debt remains.
	rec = app.request("GET", "/api/v1/settlements/simplified", "", token)
	simplified = parseJSONList(t, rec)
	if len(simplified) != 1 {
		t.Fatalf("expected 1 remaining transaction, got %d", len(simplified))
	}
	if simplified[0]["from"].(string) != carol || simplified[0]["to"].(string) != alice {
		t.Errorf("expected Carol -> Alice, got %v -> %v", simplified[0]["from"], simplified[0]["to"])
	}
	if math.Abs(simplified[0]["amount"].(float64)-30) > 0.01 {
		t.Errorf("expected 30, got %v", simplified[0]["amount"])
	}

	// Unmarking Bob's payment restores his debt.
	rec = app.request("DELETE", "/api/v1/settlements/payments/"+paymentID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete payment failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/settlements/simplified", "", token)
	simplified = parseJSONList(t, rec)
	if len(simplified) != 2 {
		t.Errorf("expected both debts restored, got %d", len(simplified))
	}

	// People referenced by expenses cannot be deleted.
	rec = app.request("DELETE", "/api/v1/people/"+bob, "", token)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 deleting referenced person, got %d", rec.Code)
	}
}

func TestCelebrationContributionFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "admin@test.com", "password123")

	alice := app.createPerson(t, token, "Alice")
	bob := app.createPerson(t, token, "Bob")
	carol := app.createPerson(t, token, "Carol")

	// Alice pays 90 for Bob's birthday dinner; Bob chips in 30 on top of
	// his share, so only 60 is split three ways.
	body := fmt.Sprintf(`{
		"description": "Birthday dinner",
		"total_amount": 90,
		"split_method": "equal",
		"spent_at": %q,
		"celebration_person_id": %q,
		"celebration_amount": 30,
		"paid_by": [{"person_id": %q, "amount": 90}],
		"shares": [
			{"person_id": %q, "amount": 20},
			{"person_id": %q, "amount": 20},
			{"person_id": %q, "amount": 20}
		]
	}`, time.Now().Format(time.RFC3339), bob, alice, alice, bob, carol)

	rec := app.request("POST", "/api/v1/expenses", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/settlements/balances", "", token)
	balances := parseJSONList(t, rec)
	want := map[string]float64{"Alice": 70, "Bob": -50, "Carol": -20}
	for _, b := range balances {
		name := b["name"].(string)
		if math.Abs(b["net_balance"].(float64)-want[name]) > 0.01 {
			t.Errorf("%s: expected %.2f, got %v", name, want[name], b["net_balance"])
		}
	}

	// The celebration contribution is not owed to anyone pairwise; debts
	// only cover the split amount.
	rec = app.request("GET", "/api/v1/settlements/pairwise", "", token)
	pairwise := parseJSONList(t, rec)
	totalDebt := 0.0
	for _, tx := range pairwise {
		if tx["to"].(string) != alice {
			t.Errorf("expected pairwise debts toward Alice, got %v -> %v", tx["from"], tx["to"])
		}
		totalDebt += tx["amount"].(float64)
	}
	if math.Abs(totalDebt-40) > 0.01 {
		t.Errorf("expected 40 total pairwise debt (Bob 20 + Carol 20), got %.2f", totalDebt)
	}
}

func TestPaymentEditRequiresAdmin(t *testing.T) {
	app := setupApp(t)
	adminToken, _, _ := app.registerUser(t, "admin@test.com", "password123")
	memberToken, _, _ := app.registerUser(t, "member@test.com", "password123")

	alice := app.createPerson(t, adminToken, "Alice")
	bob := app.createPerson(t, adminToken, "Bob")

	rec := app.request("POST", "/api/v1/settlements/payments", fmt.Sprintf(
		`{"debtor_id": %q, "creditor_id": %q, "amount": 30}`, bob, alice), adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
	}
	paymentID := parseJSON(t, rec)["id"].(string)

	// A non-admin member cannot edit the payment.
	rec = app.request("PUT", "/api/v1/settlements/payments/"+paymentID, `{"amount": 999}`, memberToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin payment edit, got %d: %s", rec.Code, rec.Body.String())
	}

	// The payment is untouched.
	rec = app.request("GET", "/api/v1/settlements/payments", "", adminToken)
	payments := parseJSON(t, rec)["data"].([]interface{})
	stored := payments[0].(map[string]interface{})
	if math.Abs(stored["amount_settled"].(float64)-30) > 0.01 {
		t.Errorf("expected amount unchanged at 30, got %v", stored["amount_settled"])
	}

	// The admin can.
	rec = app.request("PUT", "/api/v1/settlements/payments/"+paymentID, `{"amount": 25}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin payment edit failed: %d %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)
	if math.Abs(updated["amount_settled"].(float64)-25) > 0.01 {
		t.Errorf("expected updated amount 25, got %v", updated["amount_settled"])
	}
}

func TestExpenseValidationFlow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "admin@test.com", "password123")

	alice := app.createPerson(t, token, "Alice")
	bob := app.createPerson(t, token, "Bob")

	t.Run("mismatched shares rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/expenses", expenseBody(alice, 90, map[string]float64{
			alice: 50, bob: 50,
		}), token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown split method rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"description": "Dinner",
			"total_amount": 90,
			"split_method": "percentage",
			"spent_at": %q,
			"paid_by": [{"person_id": %q, "amount": 90}],
			"shares": [{"person_id": %q, "amount": 90}]
		}`, time.Now().Format(time.RFC3339), alice, alice)
		rec := app.request("POST", "/api/v1/expenses", body, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("self settlement rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/settlements/payments", fmt.Sprintf(
			`{"debtor_id": %q, "creditor_id": %q, "amount": 10}`, alice, alice), token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
