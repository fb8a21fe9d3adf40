package usecases

import (
	"context"
	"math"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/scheduling"
)

// DefaultSessionSize caps a session when the caller does not say how
// many cards to study.
const DefaultSessionSize = 20

// SessionOptions configures a new study session.
type SessionOptions struct {
	Mode     string            `json:"mode"`
	Filter   scheduling.Filter `json:"filter"`
	MaxCards int               `json:"maxCards"`
}

// Answer is one graded review recorded during a session.
type Answer struct {
	CardID    string `json:"cardId"`
	Quality   int    `json:"quality"`
	Timestamp int64  `json:"timestamp"`
}

// session is the ephemeral state of one sitting. It is never persisted;
// starting a new session discards any in-progress one.
type session struct {
	id      string
	mode    string
	cards   []*card.Flashcard
	cursor  int
	started time.Time
	answers []Answer
}

// SessionInfo describes a freshly started session.
type SessionInfo struct {
	ID    string `json:"id"`
	Mode  string `json:"mode"`
	Total int    `json:"total"`
}

// Progress reports how far into the session the student is.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Summary is the result of a finished session.
type Summary struct {
	CardsStudied    int   `json:"cardsStudied"`
	DurationMs      int64 `json:"durationMs"`
	AccuracyPercent int   `json:"accuracyPercent"`
}

// StudyUseCase drives study sessions over the deck's due queue. At most
// one session exists at a time. Every operation is a defensive no-op
// when called out of order, so a confused UI caller gets a falsy result
// instead of a crash.
type StudyUseCase struct {
	mu      sync.Mutex
	deck    *DeckUseCase
	log     *zap.Logger
	now     func() time.Time
	current *session
}

// NewStudyUseCase creates a study use case over the given deck.
func NewStudyUseCase(deck *DeckUseCase, log *zap.Logger) *StudyUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &StudyUseCase{deck: deck, log: log, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (s *StudyUseCase) WithClock(now func() time.Time) *StudyUseCase {
	s.now = now
	return s
}

// StartSession snapshots the current due queue, truncates it to
// MaxCards and opens a new session, overwriting any previous one.
func (s *StudyUseCase) StartSession(opts SessionOptions) SessionInfo {
	filter := opts.Filter
	if filter == "" {
		filter = scheduling.FilterAll
	}
	max := opts.MaxCards
	if max <= 0 {
		max = DefaultSessionSize
	}
	mode := opts.Mode
	if mode == "" {
		mode = "review"
	}

	cards := s.deck.DueCards(filter)
	if len(cards) > max {
		cards = cards[:max]
	}

	id, err := gonanoid.New()
	if err != nil {
		// crypto/rand failure; an empty id still identifies the one live session
		id = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session{
		id:      id,
		mode:    mode,
		cards:   cards,
		started: s.now(),
		answers: []Answer{},
	}
	s.log.Info("session started",
		zap.String("session", id),
		zap.String("mode", mode),
		zap.Int("cards", len(cards)))
	return SessionInfo{ID: id, Mode: mode, Total: len(cards)}
}

// GetCurrentCard returns the card under the cursor, or nil when there is
// no session or the session is exhausted.
func (s *StudyUseCase) GetCurrentCard() *card.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.cursor >= len(s.current.cards) {
		return nil
	}
	return s.current.cards[s.current.cursor].Clone()
}

// ProcessAnswer grades the current card, applies the scheduling update
// through the deck, advances the cursor and records the answer. It
// reports false when there is no active session or no current card.
func (s *StudyUseCase) ProcessAnswer(ctx context.Context, quality int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.cursor >= len(s.current.cards) {
		return false, nil
	}

	c := s.current.cards[s.current.cursor]
	if _, err := s.deck.ApplyReview(ctx, c.ID, quality); err != nil {
		if err == card.ErrNotFound {
			// Card was deleted mid-session; skip it.
			s.current.cursor++
			return false, nil
		}
		return false, err
	}

	s.current.answers = append(s.current.answers, Answer{
		CardID:    c.ID,
		Quality:   quality,
		Timestamp: s.now().UnixMilli(),
	})
	s.current.cursor++
	return true, nil
}

// GetProgress reports the session cursor position, or nil without a
// session.
func (s *StudyUseCase) GetProgress() *Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	total := len(s.current.cards)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(s.current.cursor) / float64(total) * 100))
	}
	return &Progress{Current: s.current.cursor, Total: total, Percentage: pct}
}

// EndSession computes the summary, discards the session state and
// returns the summary, or nil when no session was active.
func (s *StudyUseCase) EndSession() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}

	answers := s.current.answers
	correct := 0
	for _, a := range answers {
		if a.Quality >= scheduling.CorrectThreshold {
			correct++
		}
	}
	accuracy := 0
	if len(answers) > 0 {
		accuracy = int(math.Round(float64(correct) / float64(len(answers)) * 100))
	}

	summary := &Summary{
		CardsStudied:    len(answers),
		DurationMs:      s.now().Sub(s.current.started).Milliseconds(),
		AccuracyPercent: accuracy,
	}
	s.log.Info("session ended",
		zap.String("session", s.current.id),
		zap.Int("studied", summary.CardsStudied),
		zap.Int("accuracy", summary.AccuracyPercent))
	s.current = nil
	return summary
}
