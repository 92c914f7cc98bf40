package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.com/pnathan/trieviz/src/lib/vizapi"
)

// Registry holds every live session by id.
type Registry struct {
	sessions map[uuid.UUID]*Session
	sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[uuid.UUID]*Session{},
	}
}

func (r *Registry) Create() *Session {
	s := New()
	r.Lock()
	defer r.Unlock()
	r.sessions[s.id] = s
	return s
}

// Get returns nil when no session has that id.
func (r *Registry) Get(id uuid.UUID) *Session {
	r.Lock()
	defer r.Unlock()
	return r.sessions[id]
}

func (r *Registry) Drop(id uuid.UUID) bool {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Length() int {
	r.Lock()
	defer r.Unlock()
	return len(r.sessions)
}

// List snapshots every session, oldest first.
func (r *Registry) List() vizapi.SessionList {
	r.Lock()
	live := []*Session{}
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.Unlock()

	infos := []vizapi.SessionInfo{}
	for _, s := range live {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Created != infos[j].Created {
			return infos[i].Created < infos[j].Created
		}
		return infos[i].Uuid.String() < infos[j].Uuid.String()
	})
	return vizapi.SessionList{Sessions: infos}
}

// Reap drops every session idle for longer than ttl. Returns how many
// went.
func (r *Registry) Reap(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	r.Lock()
	defer r.Unlock()
	reaped := 0
	for id, s := range r.sessions {
		if s.lastTouched().Before(cutoff) {
			delete(r.sessions, id)
			reaped++
		}
	}
	return reaped
}
