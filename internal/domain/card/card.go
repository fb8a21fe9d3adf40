package card

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty buckets a card by how well it is known.
type Difficulty int

const (
	DifficultyNew      Difficulty = 0
	DifficultyLearning Difficulty = 1
	DifficultyReview   Difficulty = 2
	// DifficultyMature is reserved; no transition produces it yet.
	DifficultyMature Difficulty = 3
)

// DefaultLanguage is assumed when a card is created without one.
const DefaultLanguage = "english"

// DayMillis is one day in epoch milliseconds, the unit all card
// timestamps are stored in.
const DayMillis int64 = 24 * 60 * 60 * 1000

const initialEaseFactor = 2.5

// Flashcard is a unit of vocabulary under study. Timestamps are epoch
// milliseconds so the persisted shape stays compatible with the
// browser-extension clients that share the store.
type Flashcard struct {
	ID            string     `json:"id"`
	Front         string     `json:"front"`
	Back          string     `json:"back"`
	Definition    string     `json:"definition,omitempty"`
	Pronunciation string     `json:"pronunciation,omitempty"`
	Language      string     `json:"language"`
	Tags          []string   `json:"tags"`
	Difficulty    Difficulty `json:"difficulty"`
	Interval      int        `json:"interval"`
	EaseFactor    float64    `json:"easeFactor"`
	Reviews       int        `json:"reviews"`
	LastReview    *int64     `json:"lastReview"`
	NextReview    int64      `json:"nextReview"`
	Created       int64      `json:"created"`
	AudioURL      string     `json:"audioUrl,omitempty"`
}

// Draft holds the caller-supplied fields of a card to be created.
// Scheduling state is never supplied by callers; it is always initialized
// by New.
type Draft struct {
	Front         string   `json:"front"`
	Back          string   `json:"back"`
	Definition    string   `json:"definition"`
	Pronunciation string   `json:"pronunciation"`
	Language      string   `json:"language"`
	Tags          []string `json:"tags"`
	AudioURL      string   `json:"audioUrl"`
}

// New creates a card from a draft with fresh scheduling state. The first
// review is scheduled a day out, but a card with zero reviews is due
// immediately regardless.
func New(d Draft, now time.Time) *Flashcard {
	language := strings.ToLower(strings.TrimSpace(d.Language))
	if language == "" {
		language = DefaultLanguage
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	ms := now.UnixMilli()
	return &Flashcard{
		ID:            uuid.NewString(),
		Front:         strings.TrimSpace(d.Front),
		Back:          strings.TrimSpace(d.Back),
		Definition:    strings.TrimSpace(d.Definition),
		Pronunciation: strings.TrimSpace(d.Pronunciation),
		Language:      language,
		Tags:          tags,
		Difficulty:    DifficultyNew,
		Interval:      1,
		EaseFactor:    initialEaseFactor,
		Reviews:       0,
		LastReview:    nil,
		NextReview:    ms + DayMillis,
		Created:       ms,
	}
}

// Normalize lower-cases and trims a string for duplicate comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchesFront reports whether the card has the same normalized front and
// language as the given pair.
func (c *Flashcard) MatchesFront(front, language string) bool {
	return Normalize(c.Front) == Normalize(front) && Normalize(c.Language) == Normalize(language)
}

// IsReverseOf reports whether the card's front/back pair is the exact
// reverse of the given pair for the same language.
func (c *Flashcard) IsReverseOf(front, back, language string) bool {
	if Normalize(c.Language) != Normalize(language) {
		return false
	}
	return Normalize(c.Front) == Normalize(back) && Normalize(c.Back) == Normalize(front)
}

// MatchesQuery reports whether the query is a case-insensitive substring
// of the card's front, back or definition. An empty query matches.
func (c *Flashcard) MatchesQuery(query string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Front), q) ||
		strings.Contains(strings.ToLower(c.Back), q) ||
		strings.Contains(strings.ToLower(c.Definition), q)
}

// HasAnyTag reports whether the card's tag set intersects the given tags.
// An empty filter matches every card.
func (c *Flashcard) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range c.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NextReviewTime returns the due timestamp as a time.Time.
func (c *Flashcard) NextReviewTime() time.Time {
	return time.UnixMilli(c.NextReview)
}

// LastReviewTime returns the most recent review time, if any.
func (c *Flashcard) LastReviewTime() (time.Time, bool) {
	if c.LastReview == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*c.LastReview), true
}

// Clone returns a deep copy of the card.
func (c *Flashcard) Clone() *Flashcard {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	if c.LastReview != nil {
		lr := *c.LastReview
		cp.LastReview = &lr
	}
	return &cp
}
