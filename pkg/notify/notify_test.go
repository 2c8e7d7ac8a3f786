package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
)

func TestNotifyPostsTrace(t *testing.T) {
	var got contractx.TraceRecord
	var header http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook, err := NewWebhook(Config{URL: srv.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("NewWebhook() error = %v", err)
	}

	trace := contractx.TraceRecord{
		TurnID:     "t1",
		Input:      "balance on 4321",
		Decision:   contractx.DecisionDelegate,
		Specialist: contractx.SpecialistAccounts,
		Capability: "get_account_balance",
		FinalText:  "Your balance is ₹50,000.00.",
		Status:     contractx.TurnCompleted,
	}
	if err := hook.Notify(context.Background(), trace); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if got.TurnID != "t1" || got.Capability != "get_account_balance" {
		t.Fatalf("posted trace = %+v", got)
	}
	if header.Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", header.Get("Content-Type"))
	}
	if header.Get("Authorization") != "Bearer secret" {
		t.Fatalf("authorization = %q", header.Get("Authorization"))
	}
}

func TestNotifyNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	hook, err := NewWebhook(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewWebhook() error = %v", err)
	}
	if err := hook.Notify(context.Background(), contractx.TraceRecord{TurnID: "t1"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewWebhookValidation(t *testing.T) {
	if _, err := NewWebhook(Config{URL: ""}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewWebhook(Config{URL: "not a url"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
