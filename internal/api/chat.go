package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/araliya/supportbot/internal/responder"
	"github.com/araliya/supportbot/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ChatDeps holds dependencies for the public chat routes.
type ChatDeps struct {
	Responder *responder.Responder
	Store     *storage.Store // optional; nil disables interaction logging
}

// NewChatHandler returns the public HTTP surface: /health and /chat.
func NewChatHandler(deps ChatDeps) http.Handler {
	r := chi.NewRouter()
	registerChatRoutes(r, deps)
	return r
}

// registerChatRoutes attaches the public routes. The chat widget is served
// from arbitrary storefront origins, so CORS allows any origin (no
// credentials are involved).
func registerChatRoutes(r chi.Router, deps ChatDeps) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", handleHealth)
	r.Post("/chat", handleChat(deps))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type chatRequest struct {
	// Pointer distinguishes a missing key from an empty message: an empty
	// string is a valid message (classified as fallback), a missing or null
	// one is a bad request.
	Message *string `json:"message"`
}

type chatResponse struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
}

func handleChat(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
			writeChatError(w, http.StatusBadRequest, "No message provided")
			return
		}

		reply, it := deps.Responder.Respond(*req.Message)

		if deps.Store != nil {
			interaction := storage.Interaction{
				ID:        uuid.New().String(),
				CreatedAt: time.Now().UTC(),
				Message:   *req.Message,
				Intent:    string(it),
				Reply:     reply,
			}
			if err := deps.Store.SaveInteraction(interaction); err != nil {
				// Logging failures must never break the reply.
				slog.Warn("failed to save interaction", "error", err)
			}
		}

		slog.Debug("chat handled", "intent", string(it))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{Reply: reply, Intent: string(it)})
	}
}

// writeChatError writes the flat error payload the chat widget expects:
// {"error": "..."} with no nesting.
func writeChatError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// httpError writes the structured error payload used by the management API.
func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
