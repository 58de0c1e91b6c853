package domain

// Kind is the envelope discriminant.
type Kind string

const (
	KindJoin           Kind = "join"
	KindLeave          Kind = "leave"
	KindMessage        Kind = "message"
	KindUserList       Kind = "user-list"
	KindMediaOffer     Kind = "media-offer"
	KindMediaAnswer    Kind = "media-answer"
	KindMediaCandidate Kind = "media-candidate"
	KindMediaStop      Kind = "media-stop"
)

// IsMedia reports whether the kind is one of the peer-negotiation
// relays whose payload the server forwards without looking inside.
func (k Kind) IsMedia() bool {
	switch k {
	case KindMediaOffer, KindMediaAnswer, KindMediaCandidate, KindMediaStop:
		return true
	}
	return false
}

type MediaType string

const (
	MediaScreen MediaType = "screen"
	MediaCamera MediaType = "camera"
)

// Envelope is one wire message, client→server or server→client.
// ID and Timestamp are always server-stamped; whatever a client puts
// there is overwritten before fan-out.
type Envelope struct {
	ID        string    `json:"id,omitempty"`
	Kind      Kind      `json:"kind"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
	Room      RoomName  `json:"room,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
}
