package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the full HTTP surface on one router: the public chat
// routes, plus the management routes when app is non-nil. Each group carries
// its own middleware (CORS for chat, bearer auth for management).
func NewRouter(chat ChatDeps, app *AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		registerChatRoutes(gr, chat)
	})

	if app != nil {
		r.Group(func(gr chi.Router) {
			registerAppRoutes(gr, *app)
		})
	}

	return r
}
