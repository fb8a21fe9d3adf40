package transfer

import (
	"strings"

	"flashdeck/internal/domain/card"
)

// exportAnki writes one tab-separated line per card, no header, in the
// field order Anki's plain-text importer expects.
func exportAnki(cards []*card.Flashcard) []byte {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Front)
		b.WriteByte('\t')
		b.WriteString(c.Back)
		b.WriteByte('\t')
		b.WriteString(c.Definition)
		b.WriteByte('\t')
		b.WriteString(c.Pronunciation)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
