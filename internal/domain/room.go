// Package domain contains entity without logic, just meta-data
package domain

type RoomName string

// DefaultRoom is used when a client joins without naming a room.
const DefaultRoom RoomName = "general"

type RoomInfo struct {
	Name        RoomName `json:"name"`
	MemberCount int      `json:"client_count"`
}
