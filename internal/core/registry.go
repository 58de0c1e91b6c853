package core

import "github.com/dkeye/Relay/internal/domain"

// Session is what the relay knows about one live connection. Conn is set
// for the whole transport lifetime; Username and Room are set by the
// first join, rewritten on relocation, and cleared again on leave.
type Session struct {
	Conn     SignalConnection
	Username string
	Room     domain.RoomName
}

// Joined reports whether the session is currently bound to a room.
func (s *Session) Joined() bool { return s.Room != "" }

// Registry maps each live connection to its session. It is not
// synchronized; the router serializes every access under its own lock.
type Registry struct {
	sessions map[SessionID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[SessionID]*Session)}
}

// Connect creates the inert session for a freshly opened transport.
// A second Connect for the same sid replaces the old entry.
func (r *Registry) Connect(sid SessionID, conn SignalConnection) {
	r.sessions[sid] = &Session{Conn: conn}
}

// Bind overwrites the join state for sid. Reports false when the
// transport was never announced via Connect.
func (r *Registry) Bind(sid SessionID, username string, room domain.RoomName) (*Session, bool) {
	s, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	s.Username = username
	s.Room = room
	return s, true
}

func (r *Registry) Get(sid SessionID) (*Session, bool) {
	s, ok := r.sessions[sid]
	return s, ok
}

// Unbind clears the join state but keeps the transport connection, so
// the client may join again on the same socket.
func (r *Registry) Unbind(sid SessionID) {
	if s, ok := r.sessions[sid]; ok {
		s.Username = ""
		s.Room = ""
	}
}

// Drop removes the session entirely. Called when the transport closes.
func (r *Registry) Drop(sid SessionID) {
	delete(r.sessions, sid)
}

func (r *Registry) Len() int { return len(r.sessions) }
