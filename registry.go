package main

import "fmt"

// Registry is the single source of truth for who is connected and where
// they last reported themselves. It is owned by the session loop and is
// not safe for concurrent use.
type Registry struct {
	players map[string]*Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Admit creates the record for a new connection. Admitting an id twice
// means the transport handed out a duplicate, which is a programming
// error rather than client input, so it panics.
func (r *Registry) Admit(id string) *Player {
	if _, ok := r.players[id]; ok {
		panic(fmt.Sprintf("registry: duplicate admission of connection %s", id))
	}
	p := NewPlayer(id)
	r.players[id] = p
	return p
}

// UpdateKinematics overwrites the stored sample for id. Returns ok=false
// when the id already disconnected (a sample racing a disconnect); the
// caller drops the update.
func (r *Registry) UpdateKinematics(id string, m MoveMsg) (*Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}
	p.X = m.X
	p.Y = m.Y
	p.Angle = m.Angle
	p.Dist = m.Dist
	p.Obstacle = m.Obstacle
	return p, true
}

// SetName changes the display name only. Scores already submitted keep
// the name they were submitted under.
func (r *Registry) SetName(id, name string) bool {
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.Name = name
	return true
}

// Get looks up a live player record.
func (r *Registry) Get(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Remove deletes the record and returns it. Unknown ids (e.g. a repeated
// disconnect event) are a no-op.
func (r *Registry) Remove(id string) (*Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}
	delete(r.players, id)
	return p, true
}

// Snapshot returns a copy of every live player keyed by connection id,
// in the shape the admission event carries.
func (r *Registry) Snapshot() map[string]Player {
	out := make(map[string]Player, len(r.players))
	for id, p := range r.players {
		out[id] = *p
	}
	return out
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	return len(r.players)
}
