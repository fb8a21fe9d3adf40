package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"flashdeck/internal/domain/card"
)

// Filter narrows due-card selection to a difficulty bucket.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterNew      Filter = "new"
	FilterLearning Filter = "learning"
	FilterReview   Filter = "review"
	// FilterDifficult selects the union of new and learning cards.
	FilterDifficult Filter = "difficult"
)

// ParseFilter converts a string into a Filter. The empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterNew:
		return FilterNew, nil
	case FilterLearning:
		return FilterLearning, nil
	case FilterReview:
		return FilterReview, nil
	case FilterDifficult:
		return FilterDifficult, nil
	default:
		return "", fmt.Errorf("unknown difficulty filter %q", s)
	}
}

func (f Filter) matches(c *card.Flashcard) bool {
	switch f {
	case FilterNew:
		return c.Difficulty == card.DifficultyNew
	case FilterLearning:
		return c.Difficulty == card.DifficultyLearning
	case FilterReview:
		return c.Difficulty == card.DifficultyReview
	case FilterDifficult:
		return c.Difficulty == card.DifficultyNew || c.Difficulty == card.DifficultyLearning
	default:
		return true
	}
}

// DueCards returns the cards due at the given time that pass the filter,
// sorted by difficulty ascending and then by next review time ascending.
// The order is total and deterministic for a fixed snapshot and time.
func DueCards(cards []*card.Flashcard, f Filter, now time.Time) []*card.Flashcard {
	due := make([]*card.Flashcard, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) && f.matches(c) {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Difficulty != due[j].Difficulty {
			return due[i].Difficulty < due[j].Difficulty
		}
		return due[i].NextReview < due[j].NextReview
	})
	return due
}
