package session

import (
	"sync"

	"github.com/tycoonhq/tycoon-backend/pkg/engine"
)

// Registry is the explicitly owned map from room code to live session.
// Rooms are created when a game starts and destroyed when the last
// participant leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Session)}
}

func (r *Registry) Create(code string, game *engine.Game, bc Broadcaster) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[code]; ok {
		return nil, ErrRoomExists
	}
	s := New(code, game, bc)
	r.rooms[code] = s
	return s, nil
}

func (r *Registry) Get(code string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s, nil
}

// Destroy removes a room. Called when the room empties or the game
// ends.
func (r *Registry) Destroy(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, code)
}

// Leave routes a departure and tears the room down when it empties.
func (r *Registry) Leave(code, participant string) {
	s, err := r.Get(code)
	if err != nil {
		return
	}
	s.Leave(participant)
	if s.Empty() {
		r.Destroy(code)
	}
}
