package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/octobees/landing-leads/internal/entity"
)

// ErrNilLead is returned when Append receives no record.
var ErrNilLead = errors.New("lead payload is nil")

// LeadsRepository stores accepted leads in arrival order.
type LeadsRepository interface {
	// Append stores the lead and returns it with its 1-based sequence id assigned.
	Append(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	List(ctx context.Context) ([]entity.Lead, error)
}

// MemoryLeadsRepository keeps leads for the lifetime of the process.
type MemoryLeadsRepository struct {
	mu    sync.RWMutex
	leads []entity.Lead
}

// NewMemoryLeadsRepository creates an empty in-process store.
func NewMemoryLeadsRepository() *MemoryLeadsRepository {
	return &MemoryLeadsRepository{}
}

// Append adds the lead at the end of the list. Its id is the new list length.
func (r *MemoryLeadsRepository) Append(_ context.Context, lead *entity.Lead) (*entity.Lead, error) {
	if lead == nil {
		return nil, ErrNilLead
	}

	r.mu.Lock()
	stored := *lead
	stored.ID = int64(len(r.leads) + 1)
	r.leads = append(r.leads, stored)
	r.mu.Unlock()

	return &stored, nil
}

// List returns a snapshot of every stored lead.
func (r *MemoryLeadsRepository) List(_ context.Context) ([]entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Lead, len(r.leads))
	copy(out, r.leads)
	return out, nil
}

var _ LeadsRepository = (*MemoryLeadsRepository)(nil)
