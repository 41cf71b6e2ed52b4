// Package picker lets a user choose zettels from a list of text lines.
//
// Each zettel is presented as one line holding its title and its id. The id
// follows an invisible separator (U+2063) that users never type into titles,
// so it can always be recovered from a line the picker hands back.
package picker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/kasten/internal/zettel"
)

// Separator precedes the id in a line.
const Separator = "⁣"

// Line formats m for the picker.
func Line(m zettel.MetaData) string {
	return m.Title + " - " + Separator + m.ID.String()
}

// Lines formats every entry of ms.
func Lines(ms []zettel.MetaData) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = Line(m)
	}
	return out
}

// ParseLine extracts the id from a line produced by Line.
func ParseLine(line string) (uuid.UUID, error) {
	i := strings.LastIndex(line, Separator)
	if i < 0 {
		return uuid.Nil, fmt.Errorf("picker: no id in %q", line)
	}
	id, err := uuid.Parse(strings.TrimSpace(line[i+len(Separator):]))
	if err != nil {
		return uuid.Nil, fmt.Errorf("picker: parse id in %q: %w", line, err)
	}
	return id, nil
}

// ParseLines extracts the ids from picked lines, keeping their order.
func ParseLines(lines []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		id, err := ParseLine(l)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
