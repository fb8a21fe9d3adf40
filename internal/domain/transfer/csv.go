package transfer

import (
	"fmt"
	"strconv"
	"strings"

	"flashdeck/internal/domain/card"
)

const csvHeader = "Front,Back,Definition,Pronunciation,Language,Tags,Difficulty,Reviews"

func exportCSV(cards []*card.Flashcard) []byte {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, c := range cards {
		fields := []string{
			c.Front,
			c.Back,
			c.Definition,
			c.Pronunciation,
			c.Language,
			strings.Join(c.Tags, ";"),
			strconv.Itoa(int(c.Difficulty)),
			strconv.Itoa(c.Reviews),
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%q", f)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// importCSV parses the CSV shape produced by exportCSV. The parser is
// deliberately naive: it strips quote characters and splits on literal
// commas, so fields containing embedded commas or quotes are mangled.
// This matches the behavior of the extension clients that share the
// format; do not tighten it without coordinating a format change.
// Scheduling columns are ignored; only content fields are imported.
func importCSV(data []byte) []card.Draft {
	lines := strings.Split(string(data), "\n")
	var drafts []card.Draft
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(strings.ReplaceAll(line, `"`, ""), ",")
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		d := card.Draft{Front: parts[0], Back: parts[1]}
		if len(parts) > 2 {
			d.Definition = parts[2]
		}
		if len(parts) > 3 {
			d.Pronunciation = parts[3]
		}
		if len(parts) > 4 {
			d.Language = parts[4]
		}
		if len(parts) > 5 {
			d.Tags = splitTags(parts[5])
		}
		drafts = append(drafts, d)
	}
	return drafts
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
