// Package storage defines the persistence collaborator contract for the
// card store: a small asynchronous key-value interface with two logical
// keys, one for the card collection and one for a statistics hint.
package storage

import (
	"context"

	"flashdeck/internal/domain/card"
)

// Persisted keys.
const (
	KeyFlashcards = "flashcards"
	KeyStats      = "stats"
)

// SchemaVersion is stamped into the persisted collection envelope so the
// shape can evolve safely.
const SchemaVersion = 1

// KV is the key-value store the card store writes through to. Get
// returns (nil, nil) when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CollectionSnapshot is the persisted shape of the full card collection.
type CollectionSnapshot struct {
	Version    int               `json:"version"`
	Flashcards []*card.Flashcard `json:"flashcards"`
}

// StatsSnapshot is the derived statistics hint. It is persisted for
// cheap reads by other clients but always recomputed from the card
// collection by the store itself.
type StatsSnapshot struct {
	TotalCards   int    `json:"totalCards"`
	ReviewsToday int    `json:"reviewsToday"`
	Day          string `json:"day"`
}
