package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashdeck/internal/application/usecases"
	"flashdeck/internal/domain/card"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func reminderAt(t *testing.T, deck *usecases.DeckUseCase, notifier *fakeNotifier, current *time.Time) *usecases.ReminderUseCase {
	t.Helper()
	cfg := usecases.DefaultReminderConfig(42)
	return usecases.NewReminderUseCase(deck, notifier, cfg, nil).
		WithClock(func() time.Time { return *current })
}

func TestReminderSendsWhenCardsDue(t *testing.T) {
	deck := newDeck(t, newFakeKV())
	_, err := deck.CreateCard(context.Background(), card.Draft{Front: "hond", Back: "dog"}, false)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	current := testNow // midday, outside quiet hours
	uc := reminderAt(t, deck, notifier, &current)

	assert.True(t, uc.Check())
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "1 card(s) due")
}

func TestReminderSkipsWhenNothingDue(t *testing.T) {
	deck := newDeck(t, newFakeKV())
	notifier := &fakeNotifier{}
	current := testNow
	uc := reminderAt(t, deck, notifier, &current)

	assert.False(t, uc.Check())
	assert.Empty(t, notifier.sent)
}

func TestReminderRespectsMinInterval(t *testing.T) {
	deck := newDeck(t, newFakeKV())
	_, err := deck.CreateCard(context.Background(), card.Draft{Front: "hond", Back: "dog"}, false)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	current := testNow
	uc := reminderAt(t, deck, notifier, &current)

	require.True(t, uc.Check())
	current = current.Add(time.Hour)
	assert.False(t, uc.Check())
	current = current.Add(4 * time.Hour)
	assert.True(t, uc.Check())
	assert.Len(t, notifier.sent, 2)
}

func TestReminderQuietHours(t *testing.T) {
	deck := newDeck(t, newFakeKV())
	_, err := deck.CreateCard(context.Background(), card.Draft{Front: "hond", Back: "dog"}, false)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	current := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	uc := reminderAt(t, deck, notifier, &current)
	assert.False(t, uc.Check())

	current = time.Date(2024, 3, 16, 6, 0, 0, 0, time.UTC)
	assert.False(t, uc.Check())

	current = time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	assert.True(t, uc.Check())
}

func TestReminderDailyCap(t *testing.T) {
	deck := newDeck(t, newFakeKV())
	_, err := deck.CreateCard(context.Background(), card.Draft{Front: "hond", Back: "dog"}, false)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	current := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	uc := reminderAt(t, deck, notifier, &current)

	for i := 0; i < 3; i++ {
		require.True(t, uc.Check())
		current = current.Add(4 * time.Hour)
	}
	// Fourth attempt the same day is capped.
	assert.False(t, uc.Check())

	// Next day the counter resets.
	current = current.Add(24 * time.Hour)
	assert.True(t, uc.Check())
}
