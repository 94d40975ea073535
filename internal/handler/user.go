package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type UserHandler struct {
	notifier
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, hub Broadcaster, logger *slog.Logger) *UserHandler {
	return &UserHandler{notifier: notifier{hub}, userStore: us, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	u, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get user", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var prefs model.UserPreferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, err := h.userStore.UpdatePreferences(r.Context(), id, prefs)
	if err != nil {
		h.logger.Error("update preferences", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityUser, websocket.ActionUpdated, u.ID, nil))
	writeJSON(w, http.StatusOK, u)
}
