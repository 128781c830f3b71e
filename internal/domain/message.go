package domain

import "time"

// Direction tells whether a message was received or sent by the store owner.
type Direction int

const (
	Inbound Direction = iota
	Outbound
)

// Marker returns the fixed transcript symbol for the direction.
func (d Direction) Marker() string {
	if d == Outbound {
		return ">"
	}
	return "<"
}

func (d Direction) String() string {
	if d == Outbound {
		return "outbound"
	}
	return "inbound"
}

// Message is a raw message record as read from a message store.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId,omitempty"`
	Direction      Direction `json:"direction"`
	Timestamp      time.Time `json:"timestamp"`
	Body           string    `json:"body,omitempty"`
	Sender         string    `json:"sender,omitempty"` // group member display name, inbound only
	CitationBlob   []byte    `json:"citationBlob,omitempty"`
	MediaID        int64     `json:"mediaId,omitempty"` // 0 means no media
	Forwarded      bool      `json:"forwarded,omitempty"`
}

// Citation is the quoted text recovered from a message's metadata blob.
type Citation struct {
	Text      string `json:"text"`
	ForwardID string `json:"forwardId,omitempty"` // set when the quote slot holds a forward id
}

// ActorSelf identifies the store owner in reaction records.
const ActorSelf = "self"

// Reaction is an emoji annotation placed on a message by one party.
type Reaction struct {
	MessageID int64  `json:"messageId"`
	Emoji     string `json:"emoji"`
	Actor     string `json:"actor"`
	Label     string `json:"label,omitempty"` // short display name for the actor, e.g. group initials
}

// Token returns the display token for the reaction.
func (r Reaction) Token() string {
	if r.Label != "" {
		return r.Label + ":" + r.Emoji
	}
	return r.Emoji
}
