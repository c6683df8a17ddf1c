package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/skyduel-server/internal/model"
	"github.com/mcoot/skyduel-server/internal/services/chat"
	"github.com/mcoot/skyduel-server/internal/services/game"
	"github.com/mcoot/skyduel-server/internal/transcript"
)

// Handler serves the status and operator endpoints.
type Handler struct {
	chat       *chat.Manager
	games      *game.Manager
	transcript transcript.Sink
}

// NewHandler creates a Handler.
func NewHandler(chatMgr *chat.Manager, gameMgr *game.Manager, sink transcript.Sink) *Handler {
	return &Handler{chat: chatMgr, games: gameMgr, transcript: sink}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPublicRooms returns the publicly listable rooms.
func (h *Handler) ListPublicRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.chat.GetPublicRooms()
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomFromModel(room))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListAllRooms returns every live room, administrative ones included.
func (h *Handler) ListAllRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.chat.GetAllRooms()
	out := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomFromModel(room))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRoom returns one room by id.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])
	room, ok := h.chat.GetRoom(id)
	if !ok {
		writeError(w, http.StatusNotFound, model.ErrRoomNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, RoomFromModel(room))
}

// GetGame returns one game by id.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	g, ok := h.games.GetGame(id)
	if !ok {
		writeError(w, http.StatusNotFound, model.ErrGameNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, GameFromModel(g))
}

// ListGames returns every live game.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games := h.games.GetGames()
	out := make([]Game, 0, len(games))
	for _, g := range games {
		out = append(out, GameFromModel(g))
	}
	writeJSON(w, http.StatusOK, out)
}

// GameCount returns the number of live games.
func (h *Handler) GameCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"count": h.games.GameCount()})
}

// BroadcastRequest is the body of the broadcast operator endpoint.
type BroadcastRequest struct {
	Message string `json:"message"`
}

// Broadcast queues a critical message in every running game.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}
	h.games.QueueCriticalMessageInGames(req.Message)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// ForceEndRequest is the body of the force-end operator endpoint.
type ForceEndRequest struct {
	Rebooting bool `json:"rebooting"`
}

// ForceEndGames signals every running game to terminate.
func (h *Handler) ForceEndGames(w http.ResponseWriter, r *http.Request) {
	var req ForceEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	h.games.ForceEndAllGames(req.Rebooting)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ended"})
}

// Transcript returns the most recent transcript entries.
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	entries, err := h.transcript.Recent(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "transcript unavailable")
		return
	}
	out := make([]TranscriptEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, TranscriptEntryFromModel(e))
	}
	writeJSON(w, http.StatusOK, out)
}
