package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Update describes a partial modification of a card's content fields.
// Nil fields are left untouched; last write wins per field. Identity and
// scheduling state (id, created, interval, ease factor, review counts)
// are owned by the store and the scheduler and cannot be overwritten
// through an update.
type Update struct {
	Front         *string   `json:"front,omitempty"`
	Back          *string   `json:"back,omitempty"`
	Definition    *string   `json:"definition,omitempty"`
	Pronunciation *string   `json:"pronunciation,omitempty"`
	Language      *string   `json:"language,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	AudioURL      *string   `json:"audioUrl,omitempty"`
}

// DecodeUpdate parses a JSON object into an Update, rejecting unknown
// keys rather than silently dropping them.
func DecodeUpdate(data []byte) (Update, error) {
	var u Update
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return Update{}, fmt.Errorf("invalid card update: %w", err)
	}
	return u, nil
}

// Apply merges the update into the card.
func (c *Flashcard) Apply(u Update) {
	if u.Front != nil {
		c.Front = strings.TrimSpace(*u.Front)
	}
	if u.Back != nil {
		c.Back = strings.TrimSpace(*u.Back)
	}
	if u.Definition != nil {
		c.Definition = strings.TrimSpace(*u.Definition)
	}
	if u.Pronunciation != nil {
		c.Pronunciation = strings.TrimSpace(*u.Pronunciation)
	}
	if u.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*u.Language))
		if lang != "" {
			c.Language = lang
		}
	}
	if u.Tags != nil {
		tags := *u.Tags
		if tags == nil {
			tags = []string{}
		}
		c.Tags = tags
	}
	if u.AudioURL != nil {
		c.AudioURL = *u.AudioURL
	}
}
