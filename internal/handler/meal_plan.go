package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

// defaultPlanDays is the window listed when no filter is given.
const defaultPlanDays = 7

type MealPlanHandler struct {
	notifier
	planStore *store.MealPlanStore
	mealStore *store.MealStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewMealPlanHandler(ps *store.MealPlanStore, ms *store.MealStore, hub Broadcaster, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{notifier: notifier{hub}, planStore: ps, mealStore: ms, logger: logger, now: time.Now}
}

type mealPlanRequest struct {
	UserID      *int64          `json:"user_id"`
	MealID      *int64          `json:"meal_id"`
	PlannedDate *string         `json:"planned_date"`
	MealType    *model.MealType `json:"meal_type"`
	Completed   *bool           `json:"completed"`
}

// List filters by userId, else by date, else returns the coming week
// starting today. Each plan carries its meal.
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, byUser, err := parseOptionalID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	var plans []model.MealPlan
	switch date := r.URL.Query().Get("date"); {
	case byUser:
		plans, err = h.planStore.ListByUser(ctx, userID)
	case date != "":
		if _, perr := shopping.ParseDate(date); perr != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		plans, err = h.planStore.ListByDate(ctx, date)
	default:
		start := h.now()
		plans, err = shopping.CollectPlansInRange(ctx, h.planStore, start, start.AddDate(0, 0, defaultPlanDays-1))
	}
	if err != nil {
		h.logger.Error("list meal plans", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meal plans")
		return
	}

	meals := make(map[int64]*model.Meal)
	out := make([]model.MealPlanWithMeal, 0, len(plans))
	for _, p := range plans {
		m, seen := meals[p.MealID]
		if !seen {
			m, err = h.mealStore.GetByID(ctx, p.MealID)
			if err != nil {
				h.logger.Error("get meal for plan", "plan_id", p.ID, "meal_id", p.MealID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to list meal plans")
				return
			}
			meals[p.MealID] = m
		}
		out = append(out, model.MealPlanWithMeal{MealPlan: p, Meal: m})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.MealID == nil || *req.MealID <= 0 {
		writeError(w, http.StatusBadRequest, "meal_id is required")
		return
	}
	if req.PlannedDate == nil {
		writeError(w, http.StatusBadRequest, "planned_date is required")
		return
	}
	if _, err := shopping.ParseDate(*req.PlannedDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid planned_date")
		return
	}
	if req.MealType == nil || !req.MealType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid meal_type")
		return
	}

	meal, err := h.mealStore.GetByID(r.Context(), *req.MealID)
	if err != nil {
		h.logger.Error("check meal", "meal_id", *req.MealID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check meal")
		return
	}
	if meal == nil {
		writeError(w, http.StatusBadRequest, "meal not found")
		return
	}

	p := model.MealPlan{
		UserID:      actingUser(r, req.UserID),
		MealID:      *req.MealID,
		PlannedDate: *req.PlannedDate,
		MealType:    *req.MealType,
	}
	if req.Completed != nil {
		p.Completed = *req.Completed
	}

	created, err := h.planStore.Create(r.Context(), p)
	if err != nil {
		h.logger.Error("create meal plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal plan")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMealPlan, websocket.ActionCreated, created.ID, map[string]any{"planned_date": created.PlannedDate}))
	writeJSON(w, http.StatusCreated, created)
}

// Update applies the fields present in the body.
func (h *MealPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.planStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get meal plan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meal plan")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}

	var req mealPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p := *existing
	if req.UserID != nil {
		p.UserID = req.UserID
	}
	if req.MealID != nil {
		p.MealID = *req.MealID
	}
	if req.PlannedDate != nil {
		if _, err := shopping.ParseDate(*req.PlannedDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid planned_date")
			return
		}
		p.PlannedDate = *req.PlannedDate
	}
	if req.MealType != nil {
		if !req.MealType.Valid() {
			writeError(w, http.StatusBadRequest, "invalid meal_type")
			return
		}
		p.MealType = *req.MealType
	}
	if req.Completed != nil {
		p.Completed = *req.Completed
	}

	updated, err := h.planStore.Update(r.Context(), p)
	if err != nil {
		h.logger.Error("update meal plan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update meal plan")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMealPlan, websocket.ActionUpdated, updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.planStore.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete meal plan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal plan")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMealPlan, websocket.ActionDeleted, id, nil))
	w.WriteHeader(http.StatusNoContent)
}
