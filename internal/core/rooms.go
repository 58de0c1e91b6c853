package core

import (
	"sort"

	"github.com/dkeye/Relay/internal/domain"
)

// RoomIndex maps room names to member sets. A room with zero members is
// never kept around: Leave deletes the entry the moment the set empties,
// and Join recreates it on demand. Not synchronized; the router
// serializes every access under its own lock.
type RoomIndex struct {
	rooms map[domain.RoomName]map[SessionID]struct{}
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{rooms: make(map[domain.RoomName]map[SessionID]struct{})}
}

func (x *RoomIndex) Join(room domain.RoomName, sid SessionID) {
	members, ok := x.rooms[room]
	if !ok {
		members = make(map[SessionID]struct{})
		x.rooms[room] = members
	}
	members[sid] = struct{}{}
}

func (x *RoomIndex) Leave(room domain.RoomName, sid SessionID) {
	members, ok := x.rooms[room]
	if !ok {
		return
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(x.rooms, room)
	}
}

// MembersOf returns the current member set, nil when the room is absent.
func (x *RoomIndex) MembersOf(room domain.RoomName) []SessionID {
	members, ok := x.rooms[room]
	if !ok {
		return nil
	}
	out := make([]SessionID, 0, len(members))
	for sid := range members {
		out = append(out, sid)
	}
	return out
}

func (x *RoomIndex) Contains(room domain.RoomName, sid SessionID) bool {
	_, ok := x.rooms[room][sid]
	return ok
}

// Usernames projects the member set to display names via the registry.
// Sorted so one snapshot always serializes the same way.
func (x *RoomIndex) Usernames(room domain.RoomName, reg *Registry) []string {
	members := x.rooms[room]
	out := make([]string, 0, len(members))
	for sid := range members {
		if s, ok := reg.Get(sid); ok {
			out = append(out, s.Username)
		}
	}
	sort.Strings(out)
	return out
}

func (x *RoomIndex) List() []domain.RoomInfo {
	out := make([]domain.RoomInfo, 0, len(x.rooms))
	for name, members := range x.rooms {
		out = append(out, domain.RoomInfo{Name: name, MemberCount: len(members)})
	}
	return out
}

func (x *RoomIndex) Len() int { return len(x.rooms) }
