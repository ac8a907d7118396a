// Package project keeps the dashboard projects created through the API or
// by concierge actions. Projects live in process memory only.
package project

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Project is a workspace item, optionally linked to the lead it came from.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LeadID    string    `json:"leadId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNameRequired is returned when a project is created without a name.
var ErrNameRequired = eris.New("project: name is required")

// Store is a concurrency-safe in-memory project registry. List returns
// projects in creation order.
type Store struct {
	mu       sync.RWMutex
	projects map[string]Project
	order    []string
}

func NewStore() *Store {
	return &Store{projects: make(map[string]Project)}
}

// Create registers a new project and returns it.
func (s *Store) Create(name, leadID string) (Project, error) {
	if name == "" {
		return Project{}, ErrNameRequired
	}

	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		LeadID:    leadID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.projects[p.ID] = p
	s.order = append(s.order, p.ID)
	s.mu.Unlock()

	return p, nil
}

// Get returns the project by id.
func (s *Store) Get(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	return p, ok
}

// List returns all projects in the order they were created.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.projects[id])
	}
	return out
}
