package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devaloi/msgboard/internal/hub"
	"github.com/devaloi/msgboard/internal/service"
)

// NewRouter wires every route of the table service.
func NewRouter(svc *service.Tables, h *hub.Hub, log *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", Health()).Methods(http.MethodGet)
	r.HandleFunc("/classes/{table}", CreateObject(svc, log)).Methods(http.MethodPost)
	r.HandleFunc("/classes/{table}", QueryObjects(svc, log)).Methods(http.MethodGet)
	r.HandleFunc("/api/tables", ListTables(h)).Methods(http.MethodGet)
	r.HandleFunc("/api/tables/{table}", TableInfo(h)).Methods(http.MethodGet)
	r.HandleFunc("/ws", ServeWS(h, log)).Methods(http.MethodGet)
	return r
}
