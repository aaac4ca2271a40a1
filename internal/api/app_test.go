package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/araliya/supportbot/internal/dataset"
	"github.com/araliya/supportbot/internal/storage"
)

const testToken = "test-token"

func newTestAppServer(t *testing.T) (*httptest.Server, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	snap, err := dataset.Load(store)
	if err != nil {
		t.Fatalf("dataset.Load: %v", err)
	}
	srv := httptest.NewServer(NewAppHandler(AppDeps{Store: store, Snapshot: snap, Token: testToken}))
	t.Cleanup(srv.Close)
	return srv, store
}

func doAuthed(t *testing.T, method, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestApp_RequiresBearerToken(t *testing.T) {
	srv, _ := newTestAppServer(t)

	for _, token := range []string{"", "wrong-token"} {
		resp := doAuthed(t, http.MethodGet, srv.URL+"/datasets", token)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, resp.StatusCode)
		}
	}
}

func TestApp_Datasets(t *testing.T) {
	srv, _ := newTestAppServer(t)

	resp := doAuthed(t, http.MethodGet, srv.URL+"/datasets", testToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Counts struct {
			Orders   int `json:"orders"`
			Products int `json:"products"`
			FAQ      int `json:"faq"`
		} `json:"counts"`
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Counts.Orders != 1 || body.Counts.Products != 1 || body.Counts.FAQ != 1 {
		t.Errorf("counts = %+v, want {1 1 1}", body.Counts)
	}
	if len(body.Categories) != 1 || body.Categories[0] != "electronics" {
		t.Errorf("categories = %v, want [electronics]", body.Categories)
	}
}

func TestApp_ListInteractionsEmpty(t *testing.T) {
	srv, _ := newTestAppServer(t)

	resp := doAuthed(t, http.MethodGet, srv.URL+"/interactions", testToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body []storage.Interaction
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body == nil {
		t.Error("expected empty array, got null")
	}
	if len(body) != 0 {
		t.Errorf("len = %d, want 0", len(body))
	}
}

func TestApp_GetAndDeleteInteraction(t *testing.T) {
	srv, store := newTestAppServer(t)

	saved := storage.Interaction{
		ID:        "ix-1",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Message:   "hello",
		Intent:    "fallback",
		Reply:     "Sorry, I didn't understand that.",
	}
	if err := store.SaveInteraction(saved); err != nil {
		t.Fatal(err)
	}

	resp := doAuthed(t, http.MethodGet, srv.URL+"/interactions/ix-1", testToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	var got storage.Interaction
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if got.Message != saved.Message || got.Intent != saved.Intent {
		t.Errorf("got = %+v, want %+v", got, saved)
	}

	resp = doAuthed(t, http.MethodDelete, srv.URL+"/interactions/ix-1", testToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d, want 200", resp.StatusCode)
	}

	resp = doAuthed(t, http.MethodGet, srv.URL+"/interactions/ix-1", testToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestApp_InteractionNotFoundPayload(t *testing.T) {
	srv, _ := newTestAppServer(t)

	resp := doAuthed(t, http.MethodGet, srv.URL+"/interactions/nope", testToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Type != "not_found" {
		t.Errorf("error type = %q, want not_found", body.Error.Type)
	}
}

func TestApp_ListInteractionsLimitCapped(t *testing.T) {
	srv, store := newTestAppServer(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n < 5; n++ {
		if err := store.SaveInteraction(storage.Interaction{
			ID:        string(rune('a' + n)),
			CreatedAt: base.Add(time.Duration(n) * time.Second),
			Message:   "hi",
			Intent:    "fallback",
			Reply:     "?",
		}); err != nil {
			t.Fatal(err)
		}
	}

	resp := doAuthed(t, http.MethodGet, srv.URL+"/interactions?limit=2&offset=1", testToken)
	defer resp.Body.Close()

	var body []storage.Interaction
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("len = %d, want 2", len(body))
	}
	// Newest first, offset skips the newest.
	if body[0].ID != "d" || body[1].ID != "c" {
		t.Errorf("ids = [%s %s], want [d c]", body[0].ID, body[1].ID)
	}
}
