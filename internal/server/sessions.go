package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nluthra2001/cpusched/internal/sim"
)

// session is one in-memory simulation. mu serialises every use of sim.
type session struct {
	mu      sync.Mutex
	id      string
	sim     *sim.Simulation
	created time.Time
}

// sessionStore keeps simulations for the lifetime of the process only.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) add(s *sim.Simulation) *session {
	sess := &session{
		id:      "sim_" + uuid.New().String(),
		sim:     s,
		created: time.Now().UTC(),
	}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
