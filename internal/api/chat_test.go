package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/araliya/supportbot/internal/dataset"
	"github.com/araliya/supportbot/internal/responder"
	"github.com/araliya/supportbot/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.ReplaceOrders([]storage.Order{
		{OrderID: "O1001", Status: "shipped", ExpectedDeliveryDate: "2025-09-15"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceProducts([]storage.Product{
		{ProductID: "P001", Name: "Wireless Earbuds", Category: "Electronics", Description: "Bluetooth 5.0", Price: 4500, StockStatus: "in_stock"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceFAQ([]storage.FAQEntry{
		{Question: "What is your return policy?", Answer: "You can return items within 14 days."},
	}); err != nil {
		t.Fatal(err)
	}
	return store
}

func newTestChatDeps(t *testing.T) (ChatDeps, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	snap, err := dataset.Load(store)
	if err != nil {
		t.Fatalf("dataset.Load: %v", err)
	}
	return ChatDeps{Responder: responder.New(snap), Store: store}, store
}

func TestChat_OrderStatus(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"Where is my order O1001?"}`))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Reply  string `json:"reply"`
		Intent string `json:"intent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Intent != "order_status" {
		t.Errorf("intent = %q, want order_status", body.Intent)
	}
	want := "Order O1001 is shipped and expected to arrive on 2025-09-15."
	if body.Reply != want {
		t.Errorf("reply = %q, want %q", body.Reply, want)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	for _, payload := range []string{`{}`, `{"message":null}`, `not json`, ``} {
		resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("POST /chat: %v", err)
		}

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()
		if body["error"] != "No message provided" {
			t.Errorf("payload %q: error = %q, want %q", payload, body["error"], "No message provided")
		}
	}
}

func TestChat_EmptyMessageIsFallbackNot400(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"message":""}`))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (empty message is valid input)", resp.StatusCode)
	}

	var body struct {
		Intent string `json:"intent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Intent != "fallback" {
		t.Errorf("intent = %q, want fallback", body.Intent)
	}
}

func TestChat_LogsInteraction(t *testing.T) {
	deps, store := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"can I get a refund"}`))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	resp.Body.Close()

	interactions, err := store.ListInteractions(10, 0)
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if len(interactions) != 1 {
		t.Fatalf("len = %d, want 1", len(interactions))
	}
	if interactions[0].Message != "can I get a refund" {
		t.Errorf("Message = %q", interactions[0].Message)
	}
	if interactions[0].Intent != "return_policy" {
		t.Errorf("Intent = %q, want return_policy", interactions[0].Intent)
	}
}

func TestChat_NilStoreStillReplies(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	deps.Store = nil
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestChat_CORSAllowsAnyOrigin(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/chat", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /chat: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestHealth(t *testing.T) {
	deps, _ := newTestChatDeps(t)
	srv := httptest.NewServer(NewChatHandler(deps))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}
