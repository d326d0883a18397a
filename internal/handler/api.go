package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/hub"
	"github.com/devaloi/msgboard/internal/service"
	"github.com/devaloi/msgboard/internal/store"
)

const maxBodyBytes = 64 << 10

// Health returns a simple health check handler.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// CreateObject stores a new object in the table named by the path.
func CreateObject(svc *service.Tables, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]

		var fields domain.Fields
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		rec, err := svc.Create(r.Context(), table, fields)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, domain.Created{ID: rec.ID, CreatedAt: rec.CreatedAt})
	}
}

// QueryObjects returns every object of the table named by the path.
func QueryObjects(svc *service.Tables, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := mux.Vars(r)["table"]

		recs, err := svc.QueryAll(r.Context(), table)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.QueryResult{Results: recs})
	}
}

// ListTables returns all tables with live subscribers.
func ListTables(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, h.ListTables())
	}
}

// TableInfo returns subscriber details about a specific table.
func TableInfo(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := h.TableInfo(mux.Vars(r)["table"])
		if info == nil {
			writeError(w, http.StatusNotFound, "table has no subscribers")
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidTable):
		writeError(w, http.StatusBadRequest, "invalid table name")
	case errors.Is(err, service.ErrTextTooLong):
		writeError(w, http.StatusBadRequest, "text too long")
	default:
		log.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
