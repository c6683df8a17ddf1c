package model

import "time"

// MessageType is the chat message classification byte carried on the
// wire; clients use it to pick a sound and rendering.
type MessageType byte

const (
	MessageNormal MessageType = iota + 1
	MessageEnterRoom
	MessageLeaveRoom
	MessagePrivate
	MessageCritical
)

// TranscriptEntry is one rendered chat line handed to the transcript
// sink for recording.
type TranscriptEntry struct {
	SenderName string    `json:"sender_name,omitempty"`
	SenderTag  PlayerTag `json:"sender_tag,omitempty"`
	Scope      string    `json:"scope"` // room friendly name, or "Lobby"
	Body       string    `json:"body"`
	At         time.Time `json:"at"`
}
