package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/storage"
)

// envelope is the JSON exchange shape shared with the extension clients.
type envelope struct {
	Flashcards []*card.Flashcard     `json:"flashcards"`
	Stats      storage.StatsSnapshot `json:"stats"`
	ExportDate string                `json:"exportDate"`
}

func exportJSON(cards []*card.Flashcard, stats storage.StatsSnapshot, now time.Time) ([]byte, error) {
	if cards == nil {
		cards = []*card.Flashcard{}
	}
	env := envelope{
		Flashcards: cards,
		Stats:      stats,
		ExportDate: now.UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return data, nil
}

func importJSON(data []byte) ([]card.Draft, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse deck: %w", err)
	}
	drafts := make([]card.Draft, 0, len(env.Flashcards))
	for _, c := range env.Flashcards {
		if c == nil || c.Front == "" {
			continue
		}
		drafts = append(drafts, card.Draft{
			Front:         c.Front,
			Back:          c.Back,
			Definition:    c.Definition,
			Pronunciation: c.Pronunciation,
			Language:      c.Language,
			Tags:          c.Tags,
			AudioURL:      c.AudioURL,
		})
	}
	return drafts, nil
}
