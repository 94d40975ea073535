package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dukerupert/familyhub/internal/auth"
	"github.com/dukerupert/familyhub/internal/websocket"
)

// Broadcaster publishes change notifications. *websocket.Hub satisfies it.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

type notifier struct {
	hub Broadcaster
}

func (n notifier) broadcast(msg websocket.Message) {
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseOptionalID reads a numeric query parameter. ok is false when the
// parameter is absent.
func parseOptionalID(r *http.Request, name string) (id int64, ok bool, err error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(v, 10, 64)
	return id, true, err
}

// actingUser picks the user a write is attributed to: an explicit id from the
// request body, else the request's identity, else nil.
func actingUser(r *http.Request, explicit *int64) *int64 {
	if explicit != nil && *explicit > 0 {
		return explicit
	}
	if id := auth.UserID(r.Context()); id > 0 {
		return &id
	}
	return nil
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
