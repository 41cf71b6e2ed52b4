// Package zettel defines the note type of the Zettelkasten.
//
// A Zettel is a single unit of content. Its title is always the first line of
// its body. Zettels track whether their in-memory content diverges from what
// has been persisted so that only modified notes are written back.
package zettel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/starford/kasten/internal/apperr"
)

// MetaData is the lightweight, always-resident part of a Zettel.
type MetaData struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreationDate time.Time `json:"creation_date"`
}

// Zettel is a note.
type Zettel struct {
	MetaData `json:"meta_data"`
	Body     string `json:"body"`

	dirty bool
}

// New creates a Zettel with a fresh random id. The new Zettel is dirty.
func New(body string) *Zettel {
	return &Zettel{
		MetaData: MetaData{
			ID:           uuid.New(),
			Title:        FirstLine(body),
			CreationDate: time.Now().UTC(),
		},
		Body:  body,
		dirty: true,
	}
}

// UpdateBody replaces the body, recomputes the title and marks z dirty.
func (z *Zettel) UpdateBody(body string) {
	z.Body = body
	z.Title = FirstLine(body)
	z.dirty = true
}

// Dirty reports whether z has changes that are not persisted.
func (z *Zettel) Dirty() bool { return z.dirty }

// MarkClean records that z matches its persisted form.
func (z *Zettel) MarkClean() { z.dirty = false }

// FirstLine returns body up to its first line break. A trailing carriage
// return is dropped.
func FirstLine(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Marshal encodes z. The dirty flag is not part of the encoding.
func (z *Zettel) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := z.Export(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes the encoding of z to w.
func (z *Zettel) Export(w io.Writer) error {
	data, err := json.Marshal(z)
	if err != nil {
		return apperr.Serialization(err)
	}
	if _, err := w.Write(data); err != nil {
		return apperr.IO("write zettel", z.ID.String(), err)
	}
	return nil
}

// Unmarshal decodes a Zettel. The stored title is ignored in favour of the
// first line of the body. The result is clean.
func Unmarshal(data []byte) (*Zettel, error) {
	var z Zettel
	if err := json.Unmarshal(data, &z); err != nil {
		return nil, apperr.Serialization(err)
	}
	if z.ID == uuid.Nil {
		return nil, apperr.Serialization(fmt.Errorf("zettel: missing id"))
	}
	z.Title = FirstLine(z.Body)
	return &z, nil
}

// Import reads and decodes a Zettel from r.
func Import(r io.Reader) (*Zettel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.IO("read zettel", "", err)
	}
	return Unmarshal(data)
}

// String is a short debug form that elides the middle of long bodies.
func (z *Zettel) String() string {
	return fmt.Sprintf("Zettel{id: %s, body: %q}", z.ID, abbreviate(z.Body))
}

func abbreviate(s string) string {
	if len(s) <= 10 {
		return s
	}
	start := 5
	for start > 0 && !utf8.RuneStart(s[start]) {
		start--
	}
	end := len(s) - 5
	for end < len(s) && !utf8.RuneStart(s[end]) {
		end++
	}
	return s[:start] + "..." + s[end:]
}
