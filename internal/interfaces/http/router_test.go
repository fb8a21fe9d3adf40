package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/domain/card"
	"flashdeck/internal/infrastructure/persistence"
	api "flashdeck/internal/interfaces/http"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := persistence.NewFileStore(filepath.Join(t.TempDir(), "deck.json"))
	require.NoError(t, err)

	log := zap.NewNop()
	deck := usecases.NewDeckUseCase(store, log)
	require.NoError(t, deck.Initialize(context.Background()))
	study := usecases.NewStudyUseCase(deck, log)

	router := api.NewRouter(
		&api.DeckHandler{Deck: deck, Log: log},
		&api.StudyHandler{Study: study, Log: log},
		&api.TransferHandler{Deck: deck, Log: log},
		log,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func createCard(t *testing.T, srv *httptest.Server, front, back string) card.Flashcard {
	t.Helper()
	body := fmt.Sprintf(`{"front":%q,"back":%q,"language":"dutch"}`, front, back)
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/cards", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var c card.Flashcard
	require.NoError(t, json.Unmarshal(data, &c))
	return c
}

func TestCreateCardEndpoint(t *testing.T) {
	srv := newServer(t)

	c := createCard(t, srv, "hond", "dog")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hond", c.Front)
	assert.Equal(t, card.DifficultyNew, c.Difficulty)
	assert.Equal(t, 2.5, c.EaseFactor)
}

func TestCreateCardValidation(t *testing.T) {
	srv := newServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/cards", `{"front":"  ","back":"dog"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/cards", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCardDuplicateConflict(t *testing.T) {
	srv := newServer(t)
	existing := createCard(t, srv, "hond", "dog")

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/cards",
		`{"front":"HOND","back":"hound","language":"dutch"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, existing.ID, body["existingId"])
	assert.Equal(t, "hond", body["front"])

	// Explicit override creates the card anyway.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/cards",
		`{"front":"HOND","back":"hound","language":"dutch","allowDuplicates":true}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestListAndSearchCards(t *testing.T) {
	srv := newServer(t)
	createCard(t, srv, "hond", "dog")
	createCard(t, srv, "kat", "cat")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/cards", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []card.Flashcard
	require.NoError(t, json.Unmarshal(data, &cards))
	assert.Len(t, cards, 2)

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/cards?q=kat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "kat", cards[0].Front)
}

func TestUpdateCardEndpoint(t *testing.T) {
	srv := newServer(t)
	c := createCard(t, srv, "hond", "dog")

	resp, data := doJSON(t, http.MethodPut, srv.URL+"/api/cards/"+c.ID, `{"definition":"a domestic animal"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated card.Flashcard
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "a domestic animal", updated.Definition)

	// Unknown fields are rejected, not silently dropped.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/cards/"+c.ID, `{"easeFactor":99}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/cards/missing-id", `{"front":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCardEndpoint(t *testing.T) {
	srv := newServer(t)
	c := createCard(t, srv, "hond", "dog")

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/cards/"+c.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Idempotent.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/cards/"+c.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/cards/"+c.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDueCardsEndpoint(t *testing.T) {
	srv := newServer(t)
	createCard(t, srv, "hond", "dog")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/cards/due", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []card.Flashcard
	require.NoError(t, json.Unmarshal(data, &cards))
	assert.Len(t, cards, 1)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/cards/due?filter=bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTagsAndStatsEndpoints(t *testing.T) {
	srv := newServer(t)
	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/cards",
		`{"front":"hond","back":"dog","tags":["animals","basics"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/tags", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tags []string
	require.NoError(t, json.Unmarshal(data, &tags))
	assert.Equal(t, []string{"animals", "basics"}, tags)

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		TotalCards   int `json:"totalCards"`
		ReviewsToday int `json:"reviewsToday"`
	}
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 1, stats.TotalCards)
	assert.Equal(t, 0, stats.ReviewsToday)
}

func TestSessionFlow(t *testing.T) {
	srv := newServer(t)
	createCard(t, srv, "hond", "dog")
	createCard(t, srv, "kat", "cat")
	createCard(t, srv, "huis", "house")

	resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/session", `{"mode":"quiz"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info usecases.SessionInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, 3, info.Total)

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/session/current", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current card.Flashcard
	require.NoError(t, json.Unmarshal(data, &current))
	assert.Equal(t, "hond", current.Front)

	for _, quality := range []int{4, 2, 5} {
		resp, data = doJSON(t, http.MethodPost, srv.URL+"/api/session/answer",
			fmt.Sprintf(`{"quality":%d}`, quality))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	}

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/session/progress", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress usecases.Progress
	require.NoError(t, json.Unmarshal(data, &progress))
	assert.Equal(t, 3, progress.Current)
	assert.Equal(t, 100, progress.Percentage)

	// Exhausted session: no current card, answers rejected.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/session/current", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/session/answer", `{"quality":4}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, data = doJSON(t, http.MethodPost, srv.URL+"/api/session/end", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary usecases.Summary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 3, summary.CardsStudied)
	assert.Equal(t, 67, summary.AccuracyPercent)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/session/end", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnswerValidation(t *testing.T) {
	srv := newServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/session/answer", `{"quality":7}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportImportEndpoints(t *testing.T) {
	srv := newServer(t)
	createCard(t, srv, "hond", "dog")
	createCard(t, srv, "kat", "cat")

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/export?format=csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(data), "Front,Back,Definition"))

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/export?format=json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	// Import into a fresh server.
	fresh := newServer(t)
	resp, body := doJSON(t, http.MethodPost, fresh.URL+"/api/import?format=json", string(data))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result map[string]int
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result["created"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
