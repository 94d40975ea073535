package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type ActivityHandler struct {
	notifier
	activityStore *store.ActivityStore
	userStore     *store.UserStore
	logger        *slog.Logger
}

func NewActivityHandler(as *store.ActivityStore, us *store.UserStore, hub Broadcaster, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{notifier: notifier{hub}, activityStore: as, userStore: us, logger: logger}
}

type activityRequest struct {
	Title        *string             `json:"title"`
	Description  *string             `json:"description"`
	StartTime    *time.Time          `json:"start_time"`
	EndTime      *time.Time          `json:"end_time"`
	Location     *string             `json:"location"`
	AssignedTo   *int64              `json:"assigned_to"`
	CreatedBy    *int64              `json:"created_by"`
	ActivityType *model.ActivityType `json:"activity_type"`
	Recurring    *bool               `json:"recurring"`
	Completed    *bool               `json:"completed"`
}

// List filters by userId, else by date, else returns everything. Each
// activity carries its assigned and creating users.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, byUser, err := parseOptionalID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	var activities []model.Activity
	switch date := r.URL.Query().Get("date"); {
	case byUser:
		activities, err = h.activityStore.ListByUser(ctx, userID)
	case date != "":
		day, perr := shopping.ParseDate(date)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		activities, err = h.activityStore.ListByDate(ctx, day)
	default:
		activities, err = h.activityStore.List(ctx)
	}
	if err != nil {
		h.logger.Error("list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	users := make(map[int64]*model.User)
	lookup := func(id *int64) (*model.User, error) {
		if id == nil {
			return nil, nil
		}
		if u, ok := users[*id]; ok {
			return u, nil
		}
		u, err := h.userStore.GetByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		users[*id] = u
		return u, nil
	}

	out := make([]model.ActivityWithUsers, 0, len(activities))
	for _, a := range activities {
		assigned, err := lookup(a.AssignedTo)
		if err == nil {
			var creator *model.User
			creator, err = lookup(a.CreatedBy)
			out = append(out, model.ActivityWithUsers{Activity: a, AssignedUser: assigned, CreatedByUser: creator})
		}
		if err != nil {
			h.logger.Error("get users for activity", "activity_id", a.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list activities")
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a := model.Activity{CreatedBy: actingUser(r, req.CreatedBy)}
	if msg := h.apply(r.Context(), &a, req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if a.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if a.StartTime.IsZero() {
		writeError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	if a.ActivityType == "" {
		writeError(w, http.StatusBadRequest, "activity_type is required")
		return
	}

	created, err := h.activityStore.Create(r.Context(), a)
	if err != nil {
		h.logger.Error("create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityActivity, websocket.ActionCreated, created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

// Update applies the fields present in the body.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.activityStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get activity", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	a := *existing
	if msg := h.apply(r.Context(), &a, req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.activityStore.Update(r.Context(), a)
	if err != nil {
		h.logger.Error("update activity", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityActivity, websocket.ActionUpdated, updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.activityStore.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete activity", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityActivity, websocket.ActionDeleted, id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// apply copies the present request fields onto a and returns a client-facing
// message when a field is invalid.
func (h *ActivityHandler) apply(ctx context.Context, a *model.Activity, req activityRequest) string {
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
		if a.Title == "" {
			return "title is required"
		}
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.StartTime != nil {
		a.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		a.EndTime = req.EndTime
	}
	if a.EndTime != nil && a.EndTime.Before(a.StartTime) {
		return "end_time must not be before start_time"
	}
	if req.Location != nil {
		a.Location = *req.Location
	}
	if req.AssignedTo != nil {
		u, err := h.userStore.GetByID(ctx, *req.AssignedTo)
		if err != nil {
			h.logger.Error("check assigned user", "user_id", *req.AssignedTo, "error", err)
			return "failed to check assigned user"
		}
		if u == nil {
			return "assigned user not found"
		}
		a.AssignedTo = req.AssignedTo
	}
	if req.ActivityType != nil {
		if !req.ActivityType.Valid() {
			return "invalid activity_type"
		}
		a.ActivityType = *req.ActivityType
	}
	if req.Recurring != nil {
		a.Recurring = *req.Recurring
	}
	if req.Completed != nil {
		a.Completed = *req.Completed
	}
	return ""
}
