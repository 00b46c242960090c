package memory

import (
	"context"
	"sync"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory credential directory. Its content lives as long
// as the process.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.DirectoryEntry
}

func NewDirectory() *Directory {
	return &Directory{byEmail: map[string]*domain.DirectoryEntry{}}
}

func (d *Directory) FindByEmail(_ context.Context, email string) (*domain.DirectoryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byEmail[email]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := *e
	return &clone, nil
}

func (d *Directory) Create(_ context.Context, entry *domain.DirectoryEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[entry.Email]; exists {
		return domain.ErrIdentityExists
	}
	clone := *entry
	d.byEmail[entry.Email] = &clone
	return nil
}
