package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/scheduling"
	"flashdeck/internal/domain/storage"
	"flashdeck/internal/domain/transfer"
)

const dayFormat = "2006-01-02"

// DeckUseCase owns the authoritative card collection. It keeps the
// collection in memory and writes it through to the key-value
// collaborator on every mutation: callers observe the new state only
// after the persistence write succeeded, and a failed write leaves the
// in-memory collection untouched.
//
// A single mutex serializes mutations, which is the single-writer
// constraint the shared store relies on.
type DeckUseCase struct {
	mu  sync.Mutex
	kv  storage.KV
	log *zap.Logger
	now func() time.Time

	cards        []*card.Flashcard
	reviewsToday int
	reviewsDay   string
}

// NewDeckUseCase creates a deck over the given persistence collaborator.
func NewDeckUseCase(kv storage.KV, log *zap.Logger) *DeckUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeckUseCase{kv: kv, log: log, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (d *DeckUseCase) WithClock(now func() time.Time) *DeckUseCase {
	d.now = now
	return d
}

// Initialize loads the persisted collection and statistics hint. On
// persistence failure it returns the error and leaves the deck empty so
// the host can decide how to degrade.
func (d *DeckUseCase) Initialize(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.kv.Get(ctx, storage.KeyFlashcards)
	if err != nil {
		return &storage.PersistenceError{Op: "load flashcards", Err: err}
	}
	if data != nil {
		var snap storage.CollectionSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return &storage.PersistenceError{Op: "decode flashcards", Err: err}
		}
		d.cards = snap.Flashcards
	}
	if d.cards == nil {
		d.cards = []*card.Flashcard{}
	}

	if data, err := d.kv.Get(ctx, storage.KeyStats); err == nil && data != nil {
		var hint storage.StatsSnapshot
		if err := json.Unmarshal(data, &hint); err == nil {
			d.reviewsToday = hint.ReviewsToday
			d.reviewsDay = hint.Day
		}
	}

	d.log.Info("deck initialized", zap.Int("cards", len(d.cards)))
	return nil
}

// CheckDuplicate returns the existing card that the given front/language
// pair (or its reverse with back) collides with, or nil.
func (d *DeckUseCase) CheckDuplicate(front, language, back string) *card.Flashcard {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c := d.findDuplicate(front, language, back); c != nil {
		return c.Clone()
	}
	return nil
}

func (d *DeckUseCase) findDuplicate(front, language, back string) *card.Flashcard {
	for _, c := range d.cards {
		if c.MatchesFront(front, language) {
			return c
		}
		if back != "" && c.IsReverseOf(front, back, language) {
			return c
		}
	}
	return nil
}

// CreateCard adds a new card built from the draft. Unless allowDuplicates
// is set, a card matching the duplicate rule fails with a DuplicateError
// carrying the existing card's identity; nothing is created or persisted.
func (d *DeckUseCase) CreateCard(ctx context.Context, draft card.Draft, allowDuplicates bool) (*card.Flashcard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	language := draft.Language
	if language == "" {
		language = card.DefaultLanguage
	}
	if !allowDuplicates {
		if existing := d.findDuplicate(draft.Front, language, draft.Back); existing != nil {
			return nil, &card.DuplicateError{ExistingID: existing.ID, Front: existing.Front}
		}
	}

	c := card.New(draft, d.now())
	next := append(cloneAll(d.cards), c)
	if err := d.persistCards(ctx, next); err != nil {
		return nil, err
	}
	d.cards = next

	d.log.Info("card created", zap.String("id", c.ID), zap.String("front", c.Front))
	return c.Clone(), nil
}

// UpdateCard merges the partial update into the card with the given id.
// It reports false when no such card exists; nothing is persisted then.
func (d *DeckUseCase) UpdateCard(ctx context.Context, id string, u card.Update) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := cloneAll(d.cards)
	next[idx].Apply(u)
	if err := d.persistCards(ctx, next); err != nil {
		return false, err
	}
	d.cards = next
	return true, nil
}

// DeleteCard removes the card if present. Deleting an unknown id is not
// an error; the collection is persisted either way.
func (d *DeckUseCase) DeleteCard(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make([]*card.Flashcard, 0, len(d.cards))
	for _, c := range d.cards {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if err := d.persistCards(ctx, next); err != nil {
		return err
	}
	d.cards = next
	return nil
}

// GetCard returns a copy of the card with the given id.
func (d *DeckUseCase) GetCard(id string) (*card.Flashcard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if idx := d.indexOf(id); idx >= 0 {
		return d.cards[idx].Clone(), nil
	}
	return nil, card.ErrNotFound
}

// SearchCards returns the cards whose front, back or definition contains
// the query, case-insensitively. An empty query returns every card.
func (d *DeckUseCase) SearchCards(query string) []*card.Flashcard {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*card.Flashcard
	for _, c := range d.cards {
		if c.MatchesQuery(query) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// FilterByTags returns the cards whose tag set intersects the given
// tags. An empty tag list returns every card.
func (d *DeckUseCase) FilterByTags(tags []string) []*card.Flashcard {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []*card.Flashcard
	for _, c := range d.cards {
		if c.HasAnyTag(tags) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// GetAllTags returns the sorted set of distinct tags across all cards.
func (d *DeckUseCase) GetAllTags() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	seen := make(map[string]struct{})
	for _, c := range d.cards {
		for _, tag := range c.Tags {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DueCards returns the cards due for study right now, filtered and
// ordered by the scheduler.
func (d *DeckUseCase) DueCards(f scheduling.Filter) []*card.Flashcard {
	d.mu.Lock()
	defer d.mu.Unlock()

	due := scheduling.DueCards(d.cards, f, d.now())
	return cloneAll(due)
}

// ApplyReview grades the card with the given id, updates its scheduling
// state, bumps today's review counter and persists. Returns the updated
// card, or ErrNotFound when the id is unknown.
func (d *DeckUseCase) ApplyReview(ctx context.Context, id string, quality int) (*card.Flashcard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexOf(id)
	if idx < 0 {
		return nil, card.ErrNotFound
	}

	now := d.now()
	next := cloneAll(d.cards)
	scheduling.Review(next[idx], quality, now)

	day := now.Format(dayFormat)
	reviews := d.reviewsToday
	if d.reviewsDay != day {
		reviews = 0
	}
	reviews++

	if err := d.persistCards(ctx, next); err != nil {
		return nil, err
	}
	d.cards = next
	d.reviewsToday = reviews
	d.reviewsDay = day
	d.persistStats(ctx)

	return next[idx].Clone(), nil
}

// Stats recomputes the derived statistics from the card collection. The
// persisted snapshot is only a hint for other clients; this is the
// authoritative read.
func (d *DeckUseCase) Stats(ctx context.Context) storage.StatsSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	day := d.now().Format(dayFormat)
	if d.reviewsDay != day {
		d.reviewsToday = 0
		d.reviewsDay = day
		d.persistStats(ctx)
	}
	return storage.StatsSnapshot{
		TotalCards:   len(d.cards),
		ReviewsToday: d.reviewsToday,
		Day:          day,
	}
}

// Export serializes the full collection in the given format.
func (d *DeckUseCase) Export(ctx context.Context, f transfer.Format) ([]byte, error) {
	stats := d.Stats(ctx)

	d.mu.Lock()
	cards := cloneAll(d.cards)
	now := d.now()
	d.mu.Unlock()

	return transfer.Export(f, cards, stats, now)
}

// Import parses the data and creates each card through the normal
// creation path, so duplicates are skipped rather than merged and
// scheduling state is reset. It returns the number of cards created;
// earlier successes are kept when a later creation fails.
func (d *DeckUseCase) Import(ctx context.Context, data []byte, f transfer.Format) (int, error) {
	drafts, err := transfer.Import(f, data)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, draft := range drafts {
		if _, err := d.CreateCard(ctx, draft, false); err != nil {
			if _, ok := card.IsDuplicate(err); ok {
				continue
			}
			return created, err
		}
		created++
	}
	d.log.Info("deck imported", zap.Int("created", created), zap.Int("parsed", len(drafts)))
	return created, nil
}

func (d *DeckUseCase) indexOf(id string) int {
	for i, c := range d.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// persistCards writes the whole collection through to storage. Called
// with the mutex held, before the new slice is committed to memory.
func (d *DeckUseCase) persistCards(ctx context.Context, cards []*card.Flashcard) error {
	snap := storage.CollectionSnapshot{Version: storage.SchemaVersion, Flashcards: cards}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := d.kv.Set(ctx, storage.KeyFlashcards, data); err != nil {
		return &storage.PersistenceError{Op: "save flashcards", Err: err}
	}
	return nil
}

// persistStats writes the statistics hint. Best effort: a failed hint
// write never fails the operation that triggered it.
func (d *DeckUseCase) persistStats(ctx context.Context) {
	snap := storage.StatsSnapshot{
		TotalCards:   len(d.cards),
		ReviewsToday: d.reviewsToday,
		Day:          d.reviewsDay,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := d.kv.Set(ctx, storage.KeyStats, data); err != nil {
		d.log.Warn("failed to persist stats hint", zap.Error(err))
	}
}

func cloneAll(cards []*card.Flashcard) []*card.Flashcard {
	out := make([]*card.Flashcard, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
