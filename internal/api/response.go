package api

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/skyduel-server/internal/model"
)

// Room represents a chat room in API responses
type Room struct {
	ID           string `json:"id"`
	FriendlyName string `json:"friendly_name"`
	Type         string `json:"type"`
	MemberCount  int    `json:"member_count"`
}

// RoomFromModel converts a model.ChatRoom to a response Room
func RoomFromModel(r *model.ChatRoom) Room {
	return Room{
		ID:           string(r.ID),
		FriendlyName: r.FriendlyName,
		Type:         string(r.Type()),
		MemberCount:  r.MemberCount(),
	}
}

// Game represents a game in API responses
type Game struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	MemberCount int    `json:"member_count"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Type:        string(g.Type),
		DisplayName: g.DisplayName(),
		MemberCount: g.MemberCount(),
	}
}

// TranscriptEntry represents a recorded chat line in API responses
type TranscriptEntry struct {
	SenderName string `json:"sender_name,omitempty"`
	SenderTag  string `json:"sender_tag,omitempty"`
	Scope      string `json:"scope"`
	Body       string `json:"body"`
	At         string `json:"at"`
}

// TranscriptEntryFromModel converts a model.TranscriptEntry
func TranscriptEntryFromModel(e model.TranscriptEntry) TranscriptEntry {
	return TranscriptEntry{
		SenderName: e.SenderName,
		SenderTag:  string(e.SenderTag),
		Scope:      e.Scope,
		Body:       e.Body,
		At:         e.At.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
