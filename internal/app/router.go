// Package app holds the message router: the single owner of the
// connection registry and the room index, and the only component that
// mutates either.
package app

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Relay/internal/core"
	"github.com/dkeye/Relay/internal/domain"
)

// PublishResult reports delivery stats for one fan-out.
type PublishResult struct {
	SentTo  int
	Dropped int
}

// Router validates inbound envelopes, applies join/leave/relocate
// transitions and fans out the resulting envelopes. One mutex spans each
// whole transition, so a user-list snapshot always reflects the mutation
// that triggered it and a connection is never observed in two rooms.
type Router struct {
	mu    sync.Mutex
	reg   *core.Registry
	rooms *core.RoomIndex

	now   func() time.Time
	newID func() string
}

func NewRouter() *Router {
	return &Router{
		reg:   core.NewRegistry(),
		rooms: core.NewRoomIndex(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// OnConnect registers a freshly opened transport. The connection stays
// inert until its first join.
func (rt *Router) OnConnect(sid core.SessionID, conn core.SignalConnection) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.reg.Connect(sid, conn)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).Msg("connected")
}

// OnFrame decodes one inbound envelope and dispatches it. Malformed or
// out-of-state input is logged and dropped; no error reaches the client.
func (rt *Router) OnFrame(sid core.SessionID, data core.Frame) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("sid", string(sid)).Msg("bad json, dropped")
		return
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	switch env.Kind {
	case domain.KindJoin:
		rt.handleJoin(sid, env)
	case domain.KindLeave:
		rt.handleLeave(sid, "left the chat")
	case domain.KindMessage:
		rt.handleMessage(sid, env)
	case domain.KindMediaOffer, domain.KindMediaAnswer, domain.KindMediaCandidate, domain.KindMediaStop:
		rt.relayMedia(sid, env)
	default:
		// Covers unknown kinds and client-sent user-list alike.
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).Str("kind", string(env.Kind)).Msg("unexpected kind, dropped")
	}
}

// OnDisconnect synthesizes the leave transition for a closed transport
// and then forgets the connection.
func (rt *Router) OnDisconnect(sid core.SessionID) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.handleLeave(sid, "disconnected")
	rt.reg.Drop(sid)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).Msg("disconnected")
}

// RoomList is a transition-consistent snapshot for the rooms API.
func (rt *Router) RoomList() []domain.RoomInfo {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.rooms.List()
}

func (rt *Router) handleJoin(sid core.SessionID, env domain.Envelope) {
	target := env.Room
	if target == "" {
		target = domain.DefaultRoom
	}

	// Relocation is unconditional: rejoining the same room re-announces.
	if sess, ok := rt.reg.Get(sid); ok && sess.Joined() {
		prev := sess.Room
		rt.rooms.Leave(prev, sid)
		log.Info().Str("module", "app.router").Str("sid", string(sid)).Str("from", string(prev)).Str("to", string(target)).Msg("relocating")
	}

	sess, ok := rt.reg.Bind(sid, env.Username, target)
	if !ok {
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).Msg("join from unknown connection, dropped")
		return
	}
	rt.rooms.Join(target, sid)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).Str("room", string(target)).Str("username", sess.Username).Msg("joined")

	rt.send(sid, rt.stamp(domain.Envelope{
		Kind:     domain.KindJoin,
		Username: sess.Username,
		Room:     target,
		Content:  fmt.Sprintf("you joined %s", target),
	}))
	rt.broadcast(target, rt.stamp(domain.Envelope{
		Kind:     domain.KindJoin,
		Username: sess.Username,
		Room:     target,
		Content:  fmt.Sprintf("%s joined", sess.Username),
	}), sid)
	rt.broadcastUserList(target)
}

func (rt *Router) handleMessage(sid core.SessionID, env domain.Envelope) {
	sess, ok := rt.reg.Get(sid)
	if !ok || !sess.Joined() {
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).Msg("message while not joined, dropped")
		return
	}
	// Sender included; clients tell their own messages apart by username.
	rt.broadcast(sess.Room, rt.stamp(domain.Envelope{
		Kind:     domain.KindMessage,
		Username: sess.Username,
		Room:     sess.Room,
		Content:  env.Content,
	}), "")
}

func (rt *Router) handleLeave(sid core.SessionID, reason string) {
	sess, ok := rt.reg.Get(sid)
	if !ok || !sess.Joined() {
		return
	}
	room, username := sess.Room, sess.Username
	rt.rooms.Leave(room, sid)
	rt.reg.Unbind(sid)
	log.Info().Str("module", "app.router").Str("sid", string(sid)).Str("room", string(room)).Str("reason", reason).Msg("left room")

	rt.broadcast(room, rt.stamp(domain.Envelope{
		Kind:     domain.KindLeave,
		Username: username,
		Room:     room,
		Content:  fmt.Sprintf("%s %s", username, reason),
	}), sid)
	rt.broadcastUserList(room)
}

// relayMedia forwards peer-negotiation envelopes to everyone else in the
// sender's room. Payload is opaque and passes through untouched.
func (rt *Router) relayMedia(sid core.SessionID, env domain.Envelope) {
	sess, ok := rt.reg.Get(sid)
	if !ok || !sess.Joined() {
		log.Warn().Str("module", "app.router").Str("sid", string(sid)).Str("kind", string(env.Kind)).Msg("media relay while not joined, dropped")
		return
	}
	rt.broadcast(sess.Room, rt.stamp(domain.Envelope{
		Kind:      env.Kind,
		Username:  sess.Username,
		Room:      sess.Room,
		Payload:   env.Payload,
		MediaType: env.MediaType,
	}), sid)
}

func (rt *Router) broadcastUserList(room domain.RoomName) {
	names := rt.rooms.Usernames(room, rt.reg)
	content, err := json.Marshal(names)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("user-list marshal")
		return
	}
	rt.broadcast(room, rt.stamp(domain.Envelope{
		Kind:    domain.KindUserList,
		Room:    room,
		Content: string(content),
	}), "")
}

// broadcast is the fan-out primitive: best-effort delivery to every
// member of room except exclude. A failed send never aborts the loop.
// An absent room is a no-op.
func (rt *Router) broadcast(room domain.RoomName, env domain.Envelope, exclude core.SessionID) PublishResult {
	var res PublishResult
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("broadcast marshal")
		return res
	}
	for _, member := range rt.rooms.MembersOf(room) {
		if member == exclude {
			continue
		}
		sess, ok := rt.reg.Get(member)
		if !ok || sess.Conn == nil {
			continue
		}
		if err := sess.Conn.TrySend(core.Frame(data)); err != nil {
			res.Dropped++
			log.Warn().Err(err).Str("module", "app.router").Str("sid", string(member)).Str("room", string(room)).Msg("send failed, continuing")
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.router").Str("room", string(room)).Str("kind", string(env.Kind)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("broadcast result")
	return res
}

// send delivers one envelope to a single connection.
func (rt *Router) send(sid core.SessionID, env domain.Envelope) {
	sess, ok := rt.reg.Get(sid)
	if !ok || sess.Conn == nil {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("send marshal")
		return
	}
	if err := sess.Conn.TrySend(core.Frame(data)); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("sid", string(sid)).Msg("send failed")
	}
}

func (rt *Router) stamp(env domain.Envelope) domain.Envelope {
	env.ID = rt.newID()
	env.Timestamp = rt.now().UnixMilli()
	return env
}
