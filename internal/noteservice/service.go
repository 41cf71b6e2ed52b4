// Package noteservice implements the user-facing Zettelkasten workflows on
// top of the store: initialising a kasten, creating and editing zettels, and
// rendering the graph.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/kasten/internal/apperr"
	"github.com/starford/kasten/internal/checksum"
	"github.com/starford/kasten/internal/editor"
	"github.com/starford/kasten/internal/kasten"
	"github.com/starford/kasten/internal/picker"
	"github.com/starford/kasten/internal/storage"
	"github.com/starford/kasten/internal/zettel"
)

// Service coordinates the store with the picker and editor collaborators.
type Service struct {
	store   storage.Provider
	editor  editor.Editor
	picker  picker.Picker
	logger  *slog.Logger
	tempDir string
}

// NewService creates a new note service.
func NewService(store storage.Provider, ed editor.Editor, pk picker.Picker, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		editor:  ed,
		picker:  pk,
		logger:  logger,
		tempDir: os.TempDir(),
	}
}

// Init writes an empty kasten. An existing kasten is left alone, and so is
// a directory that already holds other files.
func (s *Service) Init(_ context.Context) error {
	if s.store.Exists(kasten.IndexFile) {
		return fmt.Errorf("init %s: %w", s.store.Root(), apperr.ErrAlreadyInitialized)
	}
	names, err := s.store.List()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if len(names) > 0 {
		return fmt.Errorf("init %s: %w", s.store.Root(), apperr.ErrNotEmpty)
	}
	if err := kasten.New().ToDir(s.store); err != nil {
		return err
	}
	s.logger.Info("kasten initialized", slog.String("path", s.store.Root()))
	return nil
}

// Create adds a new zettel, linked to parents chosen with the picker unless
// noParent is set, and opens it in the editor.
func (s *Service) Create(ctx context.Context, noParent bool) (uuid.UUID, error) {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return uuid.Nil, err
	}

	var parents []uuid.UUID
	if !noParent {
		parents, err = s.pick(ctx, k, true)
		if err != nil {
			return uuid.Nil, err
		}
	}

	z := zettel.New("")
	if err := k.AddZettel(z, parents); err != nil {
		return uuid.Nil, err
	}
	if err := k.ToDir(s.store); err != nil {
		return uuid.Nil, err
	}
	s.logger.Debug("zettel created",
		slog.String("id", z.ID.String()),
		slog.Int("parents", len(parents)))

	if err := s.edit(ctx, k, z.ID); err != nil {
		return z.ID, err
	}
	return z.ID, nil
}

// Edit lets the user pick one zettel and opens it in the editor.
func (s *Service) Edit(ctx context.Context) (uuid.UUID, error) {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return uuid.Nil, err
	}
	ids, err := s.pick(ctx, k, false)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, apperr.ErrNothingSelected
	}
	return ids[0], s.edit(ctx, k, ids[0])
}

// EditID opens the zettel with the given id in the editor.
func (s *Service) EditID(ctx context.Context, id uuid.UUID) error {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return err
	}
	return s.edit(ctx, k, id)
}

// edit round-trips the body of a zettel through the editor via a temp file
// and persists the kasten when the body changed.
func (s *Service) edit(ctx context.Context, k *kasten.Kasten, id uuid.UUID) error {
	z, err := k.Load(s.store, id)
	if err != nil {
		return err
	}

	tmp := filepath.Join(s.tempDir, id.String()+".md")
	if err := os.WriteFile(tmp, []byte(z.Body), 0o600); err != nil {
		return apperr.IO("write temp", tmp, err)
	}
	defer os.Remove(tmp)

	if err := s.editor.Edit(ctx, tmp); err != nil {
		return err
	}

	content, err := os.ReadFile(tmp)
	if err != nil {
		return apperr.IO("read temp", tmp, err)
	}
	if checksum.Sum(content) == checksum.SumString(z.Body) {
		s.logger.Debug("zettel unchanged", slog.String("id", id.String()))
		return nil
	}

	z.UpdateBody(string(content))
	k.UpdateZettel(&z)
	if err := k.ToDir(s.store); err != nil {
		return err
	}
	file, err := k.Path(s.store, id)
	if err != nil {
		return err
	}
	s.logger.Info("zettel saved",
		slog.String("id", id.String()),
		slog.String("title", z.Title),
		slog.String("file", file))
	return nil
}

// pick offers every zettel of k to the picker and returns the chosen ids.
func (s *Service) pick(ctx context.Context, k *kasten.Kasten, multi bool) ([]uuid.UUID, error) {
	lines := picker.Lines(k.MetaData())
	if len(lines) == 0 {
		return nil, nil
	}
	chosen, err := s.picker.Pick(ctx, lines, multi)
	if err != nil {
		return nil, err
	}
	return picker.ParseLines(chosen)
}

// Graph writes the link graph in dot syntax to w.
func (s *Service) Graph(_ context.Context, w io.Writer) error {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return err
	}
	return k.Dot(w)
}

// List writes one line per zettel, oldest first: creation date, id, title.
func (s *Service) List(_ context.Context, w io.Writer) error {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return err
	}
	for _, m := range k.MetaData() {
		title := m.Title
		if title == "" {
			title = "(untitled)"
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", m.CreationDate.Local().Format(time.DateTime), m.ID, title); err != nil {
			return apperr.IO("write list", "", err)
		}
	}
	return nil
}

// Show writes the body of a zettel followed by its links.
func (s *Service) Show(_ context.Context, id uuid.UUID, w io.Writer) error {
	k, err := kasten.FromDir(s.store)
	if err != nil {
		return err
	}
	z, err := k.Load(s.store, id)
	if err != nil {
		return err
	}
	parents, err := k.Parents(id)
	if err != nil && !errors.Is(err, apperr.ErrNoteNotFound) {
		return err
	}
	children, err := k.Children(id)
	if err != nil && !errors.Is(err, apperr.ErrNoteNotFound) {
		return err
	}

	var b strings.Builder
	b.WriteString(z.Body)
	if !strings.HasSuffix(z.Body, "\n") {
		b.WriteString("\n")
	}
	writeLinks(&b, k, "parents", parents)
	writeLinks(&b, k, "children", children)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return apperr.IO("write zettel", "", err)
	}
	return nil
}

func writeLinks(b *strings.Builder, k *kasten.Kasten, label string, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", label)
	for _, id := range ids {
		m, _ := k.Lookup(id)
		fmt.Fprintf(b, "  %s  %s\n", id, m.Title)
	}
}
