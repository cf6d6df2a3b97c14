package service

import (
	"sync"

	"github.com/jasstafel/jass-api/internal/domain"
)

// MultiplierRegistry holds the process-wide multiplier table. It is replaced
// whenever the scoring config is reloaded.
type MultiplierRegistry struct {
	mu    sync.RWMutex
	table domain.MultiplierTable
}

// NewMultiplierRegistry starts from the default table with overrides
// applied.
func NewMultiplierRegistry(overrides map[string]float64) *MultiplierRegistry {
	return &MultiplierRegistry{
		table: domain.DefaultMultipliers().WithOverrides(overrides),
	}
}

// Table returns a snapshot; callers may keep it.
func (r *MultiplierRegistry) Table() domain.MultiplierTable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.table.WithOverrides(nil)
}

func (r *MultiplierRegistry) Replace(overrides map[string]float64) {
	table := domain.DefaultMultipliers().WithOverrides(overrides)

	r.mu.Lock()
	r.table = table
	r.mu.Unlock()
}
