package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"flashdeck/internal/domain/scheduling"
)

// Notifier delivers a reminder message to the deck owner.
type Notifier interface {
	Send(chatID int64, text string) error
}

// ReminderConfig tunes the due-card reminder service.
type ReminderConfig struct {
	// ChatID is the chat the reminders are delivered to.
	ChatID int64
	// CheckInterval is how often the due queue is inspected.
	CheckInterval time.Duration
	// MinInterval is the minimum time between two reminders.
	MinInterval time.Duration
	// QuietHoursStart and QuietHoursEnd suppress reminders overnight
	// (24-hour clock; the quiet window may wrap midnight).
	QuietHoursStart int
	QuietHoursEnd   int
	// MaxPerDay caps reminders per calendar day.
	MaxPerDay int
}

// DefaultReminderConfig returns sensible reminder defaults.
func DefaultReminderConfig(chatID int64) ReminderConfig {
	return ReminderConfig{
		ChatID:          chatID,
		CheckInterval:   30 * time.Minute,
		MinInterval:     4 * time.Hour,
		QuietHoursStart: 22,
		QuietHoursEnd:   8,
		MaxPerDay:       3,
	}
}

// ReminderUseCase periodically checks the deck's due queue and nudges
// the owner when cards are waiting.
type ReminderUseCase struct {
	deck     *DeckUseCase
	notifier Notifier
	cfg      ReminderConfig
	log      *zap.Logger
	now      func() time.Time

	lastSent  time.Time
	sentToday int
	sentDay   string
}

// NewReminderUseCase creates the reminder service.
func NewReminderUseCase(deck *DeckUseCase, notifier Notifier, cfg ReminderConfig, log *zap.Logger) *ReminderUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderUseCase{deck: deck, notifier: notifier, cfg: cfg, log: log, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (uc *ReminderUseCase) WithClock(now func() time.Time) *ReminderUseCase {
	uc.now = now
	return uc
}

// Start runs the reminder loop until the context is cancelled.
func (uc *ReminderUseCase) Start(ctx context.Context) {
	uc.log.Info("reminder service started", zap.Duration("interval", uc.cfg.CheckInterval))

	ticker := time.NewTicker(uc.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.log.Info("reminder service stopping")
			return
		case <-ticker.C:
			uc.Check()
		}
	}
}

// Check inspects the due queue once and sends a reminder if warranted.
// It reports whether a reminder went out.
func (uc *ReminderUseCase) Check() bool {
	now := uc.now()

	if uc.inQuietHours(now) {
		return false
	}
	if !uc.lastSent.IsZero() && now.Sub(uc.lastSent) < uc.cfg.MinInterval {
		return false
	}

	day := now.Format(dayFormat)
	if uc.sentDay != day {
		uc.sentDay = day
		uc.sentToday = 0
	}
	if uc.sentToday >= uc.cfg.MaxPerDay {
		return false
	}

	due := uc.deck.DueCards(scheduling.FilterAll)
	if len(due) == 0 {
		return false
	}

	text := fmt.Sprintf("📚 You have %d card(s) due for review. A few minutes now keeps the streak alive!", len(due))
	if err := uc.notifier.Send(uc.cfg.ChatID, text); err != nil {
		uc.log.Warn("failed to send reminder", zap.Error(err))
		return false
	}

	uc.lastSent = now
	uc.sentToday++
	uc.log.Info("reminder sent", zap.Int("due", len(due)))
	return true
}

func (uc *ReminderUseCase) inQuietHours(now time.Time) bool {
	hour := now.Hour()
	start, end := uc.cfg.QuietHoursStart, uc.cfg.QuietHoursEnd
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	// Window wraps midnight, e.g. 22 → 8.
	return hour >= start || hour < end
}
