// Package registry holds the ordered set of known participants.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrEmptyName            = errors.New("participant name cannot be empty")
	ErrDuplicateParticipant = errors.New("participant already exists")
	ErrUnknownParticipant   = errors.New("participant not found")
)

// Registry is the ordered set of participants. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	participants []models.Participant
	index        map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Normalize trims surrounding whitespace and applies Unicode NFC so that
// canonically equivalent spellings resolve to the same participant.
// Names stay case-sensitive.
func Normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Add registers a new participant and returns it.
// Returns ErrDuplicateParticipant if the name is already registered.
func (r *Registry) Add(name string) (models.Participant, error) {
	name = Normalize(name)
	if name == "" {
		return models.Participant{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[name]; exists {
		return models.Participant{}, fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
	}

	p := models.Participant{Name: name}
	r.index[name] = len(r.participants)
	r.participants = append(r.participants, p)
	return p, nil
}

// List returns all participants in insertion order.
func (r *Registry) List() []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Lookup resolves a name to a registered participant.
func (r *Registry) Lookup(name string) (models.Participant, error) {
	name = Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[name]
	if !exists {
		return models.Participant{}, fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	return r.participants[i], nil
}

// Contains reports whether p is registered.
func (r *Registry) Contains(p models.Participant) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.index[p.Name]
	return exists
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}
