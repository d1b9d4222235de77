// Package pending holds proposed file mutations until a human applies
// or rejects them. Edits are never applied automatically.
package pending

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vellum/internal/logging"
	"vellum/internal/vault"
)

// Edit is a proposed mutation of one document.
type Edit struct {
	ID         string
	Path       string
	NewContent string
	Diff       string
	CreatedAt  time.Time
}

// Store keeps open edits keyed by id. Several edits may target the same
// path at once; resolving one never affects the others.
type Store struct {
	mu    sync.Mutex
	vault vault.Vault
	cache *vault.Cache
	edits map[string]*Edit
}

// NewStore creates an empty store writing through v and c on apply.
func NewStore(v vault.Vault, c *vault.Cache) *Store {
	return &Store{
		vault: v,
		cache: c,
		edits: make(map[string]*Edit),
	}
}

// Propose records a new edit and returns it. Proposals always succeed
// and are not deduplicated against open edits for the same path.
func (s *Store) Propose(path, newContent, diff string) *Edit {
	edit := &Edit{
		ID:         uuid.NewString(),
		Path:       path,
		NewContent: newContent,
		Diff:       diff,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.edits[edit.ID] = edit
	s.mu.Unlock()

	logging.Debug("edit proposed", "id", edit.ID, "path", path)
	return edit
}

// Get returns the edit with the given id.
func (s *Store) Get(id string) (*Edit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit, ok := s.edits[id]
	return edit, ok
}

// List returns open edits oldest first.
func (s *Store) List() []*Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	edits := make([]*Edit, 0, len(s.edits))
	for _, e := range s.edits {
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].CreatedAt.Before(edits[j].CreatedAt) })
	return edits
}

// Len returns the number of open edits.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edits)
}

// Apply writes the edit to disk, updates the document cache, and removes
// the entry. On a failed disk write the entry stays in the store so the
// user can retry or reject. Applying an unknown id is a no-op.
func (s *Store) Apply(id string) (*Edit, error) {
	s.mu.Lock()
	edit, ok := s.edits[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	if err := s.vault.WriteFile(edit.Path, edit.NewContent); err != nil {
		logging.Warn("edit apply failed", "id", id, "path", edit.Path, "error", err)
		return edit, fmt.Errorf("failed to apply edit to %s: %w", edit.Path, err)
	}

	s.cache.Set(edit.Path, edit.NewContent)
	s.cache.ClearUnsaved(edit.Path)

	s.mu.Lock()
	delete(s.edits, id)
	s.mu.Unlock()

	logging.Info("edit applied", "id", id, "path", edit.Path)
	return edit, nil
}

// Reject removes the edit without touching disk or cache. Rejecting an
// unknown id is a no-op.
func (s *Store) Reject(id string) *Edit {
	s.mu.Lock()
	defer s.mu.Unlock()

	edit, ok := s.edits[id]
	if !ok {
		return nil
	}
	delete(s.edits, id)
	logging.Debug("edit rejected", "id", id, "path", edit.Path)
	return edit
}
