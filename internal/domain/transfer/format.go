// Package transfer encodes and decodes the card collection for exchange
// with other tools: a JSON envelope, a spreadsheet-style CSV, and a
// minimal tab-separated Anki format. Each format has a dedicated
// encoder/decoder so adding one is an exhaustive-switch update rather
// than a string-matched fallthrough.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flashdeck/internal/domain/card"
	"flashdeck/internal/domain/storage"
)

// Format identifies a supported exchange format.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
	FormatAnki
)

// ErrUnsupportedFormat indicates a format string or operation the
// transfer layer does not support.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "anki":
		return FormatAnki, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatAnki:
		return "anki"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ContentType returns the MIME type for the encoded form.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Export serializes the collection in the given format. It is a pure
// transform with no side effects.
func Export(f Format, cards []*card.Flashcard, stats storage.StatsSnapshot, now time.Time) ([]byte, error) {
	switch f {
	case FormatJSON:
		return exportJSON(cards, stats, now)
	case FormatCSV:
		return exportCSV(cards), nil
	case FormatAnki:
		return exportAnki(cards), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Import parses data in the given format into card drafts. Only content
// fields survive the trip: ids, timestamps and scheduling state are
// reset when the drafts go through the normal creation path. Anki import
// is not supported.
func Import(f Format, data []byte) ([]card.Draft, error) {
	switch f {
	case FormatJSON:
		return importJSON(data)
	case FormatCSV:
		return importCSV(data), nil
	default:
		return nil, fmt.Errorf("%w: cannot import %s", ErrUnsupportedFormat, f)
	}
}
