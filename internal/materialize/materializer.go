// Package materialize turns a template definition into a real file tree.
//
// Writing is all-or-nothing with respect to the visible target: every entry
// is staged into a sibling temporary directory first, and only a fully
// staged tree is promoted with a single rename. Any failure (bad path,
// unbound variable, I/O error, cancellation) discards the staging area and
// leaves the target untouched.
package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/sync/errgroup"

	"github.com/stencilworks/stencil/internal/domain"
	"github.com/stencilworks/stencil/internal/pathsafe"
)

const defaultWorkers = 4

// Materializer writes template instances to disk. The zero value is not
// usable; construct with New.
type Materializer struct {
	workers int
	locks   *lockRegistry
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithWorkers bounds the staging worker pool.
func WithWorkers(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.workers = n
		}
	}
}

// New creates a Materializer.
func New(opts ...Option) *Materializer {
	m := &Materializer{
		workers: defaultWorkers,
		locks:   newLockRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// stagedEntry is a manifest entry with its path sanitized and its content
// fully substituted, ready to write.
type stagedEntry struct {
	relPath string
	content []byte
}

// Materialize writes one instance of tpl under targetRoot with the given
// variable bindings, attaching manifest to the result. The target root is a
// serialization boundary: two concurrent calls for the same root never
// interleave. On success the target directory exists fully populated; on any
// error it is exactly as it was before the call.
func (m *Materializer) Materialize(ctx context.Context, tpl *domain.Template, targetRoot string, bindings map[string]string, manifest []domain.Dependency) (*domain.GeneratedProject, error) {
	absTarget, err := filepath.Abs(targetRoot)
	if err != nil {
		return nil, &domain.MaterializationError{Op: "resolve target", Err: err}
	}
	absTarget = filepath.Clean(absTarget)

	lock := m.locks.get(absTarget)
	lock.Lock()
	defer lock.Unlock()

	// Phase 1+2: sanitize and substitute everything up front. No write
	// happens until the whole manifest has passed.
	entries, err := prepareEntries(tpl, bindings)
	if err != nil {
		return nil, err
	}

	if _, err := os.Lstat(absTarget); err == nil {
		return nil, &domain.MaterializationError{
			Op:  "promote",
			Err: fmt.Errorf("target %s already exists", absTarget),
		}
	} else if !os.IsNotExist(err) {
		return nil, &domain.MaterializationError{Op: "inspect target", Err: err}
	}

	parent := filepath.Dir(absTarget)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, &domain.MaterializationError{Op: "create parent", Err: err}
	}

	// Phase 3: stage into a sibling directory so promotion is a same-device
	// rename.
	stage, err := os.MkdirTemp(parent, ".stage-"+filepath.Base(absTarget)+"-")
	if err != nil {
		return nil, &domain.MaterializationError{Op: "create staging", Err: err}
	}

	if err := m.writeStage(ctx, stage, entries); err != nil {
		_ = os.RemoveAll(stage)
		return nil, err
	}

	// Phase 4: atomic promotion.
	if err := os.Rename(stage, absTarget); err != nil {
		_ = os.RemoveAll(stage)
		return nil, &domain.MaterializationError{Op: "promote", Err: err}
	}

	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.relPath
	}

	return &domain.GeneratedProject{
		BaseDir:  absTarget,
		Files:    files,
		Manifest: manifest,
	}, nil
}

// prepareEntries sanitizes every declared path and substitutes bindings into
// non-binary content. Pure; fails fast on the first offending entry.
func prepareEntries(tpl *domain.Template, bindings map[string]string) ([]stagedEntry, error) {
	paths := make([]string, len(tpl.Manifest))
	for i, entry := range tpl.Manifest {
		paths[i] = entry.Path
	}
	normalized, err := pathsafe.SanitizeAll(paths)
	if err != nil {
		return nil, err
	}

	entries := make([]stagedEntry, len(tpl.Manifest))
	for i, entry := range tpl.Manifest {
		content := entry.Content
		if !entry.Binary {
			content, err = Substitute(entry.Content, normalized[i], bindings)
			if err != nil {
				return nil, err
			}
		}
		entries[i] = stagedEntry{relPath: normalized[i], content: []byte(content)}
	}
	return entries, nil
}

// writeStage writes entries under the staging root with a bounded worker
// pool. Distinct files are independent, so they may land in any order; the
// staging directory is invisible until promotion either way.
func (m *Materializer) writeStage(ctx context.Context, stage string, entries []stagedEntry) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for _, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &domain.MaterializationError{Op: "staging", Err: err}
			}

			// SecureJoin guards the on-disk join even though the relative
			// path already passed the lexical sanitizer.
			dest, err := securejoin.SecureJoin(stage, filepath.FromSlash(entry.relPath))
			if err != nil {
				return &domain.MaterializationError{Op: "staging", Err: err}
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return &domain.MaterializationError{Op: "staging", Err: err}
			}
			if err := os.WriteFile(dest, entry.content, 0644); err != nil {
				return &domain.MaterializationError{Op: "staging", Err: fmt.Errorf("writing %s: %w", entry.relPath, err)}
			}
			return nil
		})
	}

	return g.Wait()
}
