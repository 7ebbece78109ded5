// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package docs serves the generated OpenAPI document and its viewers, and
// regenerates the document when watched files change.
package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mahabubx7/terry/internal/openapi"
	"github.com/mahabubx7/terry/pkg/types"
)

// ErrNotGenerated is returned when no document has been generated yet.
var ErrNotGenerated = errors.New("documentation has not been generated")

// Source produces a fresh document.
type Source func(ctx context.Context) (*types.OpenAPI, error)

// Snapshot is one generated document with its encodings.
type Snapshot struct {
	Doc       *types.OpenAPI
	JSON      []byte
	YAML      []byte
	Generated time.Time
}

// Cache holds the most recent successfully generated document. Readers never
// block on regeneration; concurrent regenerations are coalesced.
type Cache struct {
	source Source
	writer *openapi.Writer
	log    *slog.Logger

	current atomic.Pointer[Snapshot]
	group   singleflight.Group
	now     func() time.Time
}

// NewCache creates an empty cache. Call Regenerate to fill it.
func NewCache(source Source, log *slog.Logger) *Cache {
	return &Cache{
		source: source,
		writer: openapi.NewWriter(),
		log:    log,
		now:    time.Now,
	}
}

// Regenerate runs the source and swaps in the new document. On failure the
// previous document stays in place and the error is returned.
func (c *Cache) Regenerate(ctx context.Context) error {
	_, err, _ := c.group.Do("regenerate", func() (any, error) {
		return nil, c.regenerate(ctx)
	})
	return err
}

func (c *Cache) regenerate(ctx context.Context) error {
	doc, err := c.source(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to generate documentation", slog.Any("error", err))
		return fmt.Errorf("failed to generate documentation: %w", err)
	}

	js, err := c.writer.Marshal(doc, openapi.FormatJSON)
	if err != nil {
		return err
	}
	ym, err := c.writer.Marshal(doc, openapi.FormatYAML)
	if err != nil {
		return err
	}

	prev := c.current.Swap(&Snapshot{
		Doc:       doc,
		JSON:      js,
		YAML:      ym,
		Generated: c.now(),
	})

	attrs := []any{
		slog.Int("paths", len(doc.Paths)),
		slog.Int("tags", len(doc.Tags)),
	}
	if prev != nil {
		diff := openapi.Diff(prev.Doc, doc)
		attrs = append(attrs, slog.String("changes", diff.Summary))
	}
	c.log.InfoContext(ctx, "documentation generated", attrs...)
	return nil
}

// Snapshot returns the current document or ErrNotGenerated.
func (c *Cache) Snapshot() (*Snapshot, error) {
	s := c.current.Load()
	if s == nil {
		return nil, ErrNotGenerated
	}
	return s, nil
}
