package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BAYRYO/monopoly-rgpd/internal/api/response"
	"github.com/BAYRYO/monopoly-rgpd/internal/middleware"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/registry"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger    *slog.Logger
	Registry  *registry.Service
	WSHandler http.Handler
}

// NewRouter creates the HTTP router. The game protocol itself runs over the
// websocket endpoint; the JSON routes only serve initial page loads and
// operational checks.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)
	loggingMiddleware := middleware.Logging(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/rooms", listRoomsHandler(cfg.Registry)).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func listRoomsHandler(reg *registry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := reg.ListRooms(r.Context())
		if err != nil {
			response.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list rooms"})
			return
		}
		response.JSON(w, http.StatusOK, rooms)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
