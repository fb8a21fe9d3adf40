package filesystem

import (
	"fmt"
	"os"

	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/transfer"
)

// DeckLoader handles loading seed decks from files
type DeckLoader struct{}

// NewDeckLoader creates a new deck loader
func NewDeckLoader() *DeckLoader {
	return &DeckLoader{}
}

// LoadFromFile loads card drafts from a JSON deck file. The file uses
// the same envelope shape the JSON export produces.
func (dl *DeckLoader) LoadFromFile(filename string) ([]card.Draft, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	drafts, err := transfer.Import(transfer.FormatJSON, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deck file: %w", err)
	}
	return drafts, nil
}
