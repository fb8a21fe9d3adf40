package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter builds the API handler. CORS is wide open because the
// callers are browser-extension pages served from extension origins.
func NewRouter(deck *DeckHandler, study *StudyHandler, xfer *TransferHandler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(WithRequestLogging(log))
	r.Use(cors.AllowAll().Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", deck.CreateCard)
			r.Get("/", deck.ListCards)
			r.Get("/due", deck.DueCards)
			r.Get("/{id}", deck.GetCard)
			r.Put("/{id}", deck.UpdateCard)
			r.Delete("/{id}", deck.DeleteCard)
		})
		r.Get("/tags", deck.Tags)
		r.Get("/stats", deck.Stats)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", study.StartSession)
			r.Get("/current", study.CurrentCard)
			r.Post("/answer", study.ProcessAnswer)
			r.Get("/progress", study.Progress)
			r.Post("/end", study.EndSession)
		})

		r.Get("/export", xfer.Export)
		r.Post("/import", xfer.Import)
	})

	return r
}
