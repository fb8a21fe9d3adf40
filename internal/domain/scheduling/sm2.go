// Package scheduling implements the SM-2 spaced-repetition variant used
// to schedule flashcard reviews, and the due-queue selection over a card
// collection. All functions take an explicit review time so scheduling
// is deterministic and testable.
package scheduling

import (
	"math"
	"time"

	"flashdeck/internal/domain/card"
)

const (
	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3

	// CorrectThreshold is the lowest quality grade counted as a correct answer.
	CorrectThreshold = 3

	// MaxQuality is the highest quality grade on the 0-5 scale.
	MaxQuality = 5

	// secondInterval is the fixed interval in days after the second
	// successful review.
	secondInterval = 6

	// matureInterval is the interval in days at which a card graduates
	// from learning to review.
	matureInterval = 21
)

// Review applies one graded review to the card in place.
//
// A correct answer (quality >= 3) grows the interval: 1 day after the
// first review, 6 days after the second, then interval * easeFactor
// rounded, and nudges the ease factor by the SM-2 formula. An incorrect
// answer resets the review count and interval but leaves the ease factor
// untouched. The ease factor is clamped to MinEaseFactor afterwards.
func Review(c *card.Flashcard, quality int, now time.Time) {
	ms := now.UnixMilli()
	c.Reviews++
	c.LastReview = &ms

	if quality >= CorrectThreshold {
		switch c.Reviews {
		case 1:
			c.Interval = 1
		case 2:
			c.Interval = secondInterval
		default:
			c.Interval = int(math.Round(float64(c.Interval) * c.EaseFactor))
		}
		q := float64(MaxQuality - quality)
		c.EaseFactor += 0.1 - q*(0.08+q*0.02)
	} else {
		c.Reviews = 0
		c.Interval = 1
	}

	if c.EaseFactor < MinEaseFactor {
		c.EaseFactor = MinEaseFactor
	}

	switch {
	case c.Reviews == 0:
		c.Difficulty = card.DifficultyNew
	case c.Interval < matureInterval:
		c.Difficulty = card.DifficultyLearning
	default:
		c.Difficulty = card.DifficultyReview
	}

	c.NextReview = ms + int64(c.Interval)*card.DayMillis
}

// IsDue reports whether the card should be studied at the given time.
// A card that has never completed a review is always due, even though
// its first review is nominally scheduled a day after creation.
func IsDue(c *card.Flashcard, now time.Time) bool {
	return c.Reviews == 0 || c.NextReview <= now.UnixMilli()
}
