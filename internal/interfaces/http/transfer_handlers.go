package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/domain/transfer"
)

// TransferHandler serves deck import and export.
type TransferHandler struct {
	Deck *usecases.DeckUseCase
	Log  *zap.Logger
}

// Export handles GET /api/export?format=.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.Deck.Export(r.Context(), format)
	if err != nil {
		h.Log.Error("export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=flashcards.%s", format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import?format= with the raw deck as body.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	created, err := h.Deck.Import(r.Context(), data, format)
	if err != nil {
		if errors.Is(err, transfer.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("import failed", zap.Error(err), zap.Int("created", created))
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
