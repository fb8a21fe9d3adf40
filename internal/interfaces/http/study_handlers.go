package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/domain/scheduling"
)

// StudyHandler serves the study session endpoints.
type StudyHandler struct {
	Study *usecases.StudyUseCase
	Log   *zap.Logger
}

type startSessionRequest struct {
	Mode     string `json:"mode"`
	Filter   string `json:"filter"`
	MaxCards int    `json:"maxCards"`
}

// StartSession handles POST /api/session.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	filter, err := scheduling.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info := h.Study.StartSession(usecases.SessionOptions{
		Mode:     req.Mode,
		Filter:   filter,
		MaxCards: req.MaxCards,
	})
	writeJSON(w, http.StatusCreated, info)
}

// CurrentCard handles GET /api/session/current.
func (h *StudyHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	c := h.Study.GetCurrentCard()
	if c == nil {
		writeError(w, http.StatusNotFound, "no active card")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type answerRequest struct {
	Quality int `json:"quality"`
}

// ProcessAnswer handles POST /api/session/answer.
func (h *StudyHandler) ProcessAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quality < 0 || req.Quality > scheduling.MaxQuality {
		writeError(w, http.StatusBadRequest, "quality must be between 0 and 5")
		return
	}

	ok, err := h.Study.ProcessAnswer(r.Context(), req.Quality)
	if err != nil {
		h.Log.Error("process answer failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save review")
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "no active session or card")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Progress handles GET /api/session/progress.
func (h *StudyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress := h.Study.GetProgress()
	if progress == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// EndSession handles POST /api/session/end.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	summary := h.Study.EndSession()
	if summary == nil {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
