package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/scheduling"
)

// DeckHandler serves the card collection endpoints.
type DeckHandler struct {
	Deck *usecases.DeckUseCase
	Log  *zap.Logger
}

type createCardRequest struct {
	card.Draft
	AllowDuplicates bool `json:"allowDuplicates"`
}

// CreateCard handles POST /api/cards.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Front) == "" || strings.TrimSpace(req.Back) == "" {
		writeError(w, http.StatusBadRequest, "front and back are required")
		return
	}

	c, err := h.Deck.CreateCard(r.Context(), req.Draft, req.AllowDuplicates)
	if err != nil {
		if dup, ok := card.IsDuplicate(err); ok {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":      "card already exists",
				"existingId": dup.ExistingID,
				"front":      dup.Front,
			})
			return
		}
		h.Log.Error("create card failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save card")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCards handles GET /api/cards, with optional q and tags query
// parameters. Tag filtering wins when both are present.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	if tags := r.URL.Query().Get("tags"); tags != "" {
		writeJSON(w, http.StatusOK, orEmpty(h.Deck.FilterByTags(splitParam(tags))))
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(h.Deck.SearchCards(r.URL.Query().Get("q"))))
}

// GetCard handles GET /api/cards/{id}.
func (h *DeckHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.Deck.GetCard(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCard handles PUT /api/cards/{id}. Unknown fields in the body are
// rejected rather than silently dropped.
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	update, err := card.DecodeUpdate(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	ok, err := h.Deck.UpdateCard(r.Context(), id, update)
	if err != nil {
		h.Log.Error("update card failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save card")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	c, err := h.Deck.GetCard(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCard handles DELETE /api/cards/{id}. Deleting an unknown id
// succeeds, matching the store semantics.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.Deck.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.Log.Error("delete card failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DueCards handles GET /api/cards/due?filter=.
func (h *DeckHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	filter, err := scheduling.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(h.Deck.DueCards(filter)))
}

// Tags handles GET /api/tags.
func (h *DeckHandler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Deck.GetAllTags())
}

// Stats handles GET /api/stats.
func (h *DeckHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Deck.Stats(r.Context()))
}

func splitParam(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orEmpty(cards []*card.Flashcard) []*card.Flashcard {
	if cards == nil {
		return []*card.Flashcard{}
	}
	return cards
}
