// Package api exposes the status and operator HTTP surface: read-only
// listings for clients plus admin-guarded broadcast and force-end
// controls.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/skyduel-server/internal/services/chat"
	"github.com/mcoot/skyduel-server/internal/services/game"
	"github.com/mcoot/skyduel-server/internal/transcript"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	ChatManager *chat.Manager
	GameManager *game.Manager
	Transcript  transcript.Sink
	// AdminTokenHash is the bcrypt hash of the operator token; empty
	// disables the operator routes.
	AdminTokenHash string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := NewHandler(cfg.ChatManager, cfg.GameManager, cfg.Transcript)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(Recovery(cfg.Logger))
	api.Use(Logging(cfg.Logger))

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/rooms", h.ListPublicRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", h.GetRoom).Methods(http.MethodGet)
	api.HandleFunc("/games", h.ListGames).Methods(http.MethodGet)
	api.HandleFunc("/games/count", h.GameCount).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", h.GetGame).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AdminAuth(cfg.AdminTokenHash))
	admin.HandleFunc("/rooms", h.ListAllRooms).Methods(http.MethodGet)
	admin.HandleFunc("/broadcast", h.Broadcast).Methods(http.MethodPost)
	admin.HandleFunc("/games/force-end", h.ForceEndGames).Methods(http.MethodPost)
	admin.HandleFunc("/transcript", h.Transcript).Methods(http.MethodGet)

	return r
}
