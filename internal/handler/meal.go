package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/suggest"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type MealHandler struct {
	notifier
	mealStore *store.MealStore
	userStore *store.UserStore
	suggester *suggest.Service
	logger    *slog.Logger
}

func NewMealHandler(ms *store.MealStore, us *store.UserStore, sg *suggest.Service, hub Broadcaster, logger *slog.Logger) *MealHandler {
	return &MealHandler{notifier: notifier{hub}, mealStore: ms, userStore: us, suggester: sg, logger: logger}
}

type mealRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Cuisine         string         `json:"cuisine"`
	Ingredients     []string       `json:"ingredients"`
	Instructions    string         `json:"instructions"`
	MealType        model.MealType `json:"meal_type"`
	Servings        int            `json:"servings"`
	PrepTimeMinutes *int           `json:"prep_time_minutes"`
	CreatedBy       *int64         `json:"created_by"`
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, byUser, err := parseOptionalID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	var meals []model.Meal
	if byUser {
		meals, err = h.mealStore.ListByCreator(r.Context(), userID)
	} else {
		meals, err = h.mealStore.List(r.Context())
	}
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}
	if meals == nil {
		meals = []model.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	m, err := h.mealStore.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get meal", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.MealType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid meal_type")
		return
	}
	if req.Servings < 0 {
		writeError(w, http.StatusBadRequest, "servings must not be negative")
		return
	}

	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}

	m, err := h.mealStore.Create(r.Context(), model.Meal{
		Name:            req.Name,
		Description:     req.Description,
		Cuisine:         req.Cuisine,
		Ingredients:     ingredients,
		Instructions:    req.Instructions,
		MealType:        req.MealType,
		Servings:        req.Servings,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CreatedBy:       actingUser(r, req.CreatedBy),
	})
	if err != nil {
		h.logger.Error("create meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMeal, websocket.ActionCreated, m.ID, nil))
	writeJSON(w, http.StatusCreated, m)
}

type suggestionRequest struct {
	Cuisines []string       `json:"cuisines"`
	Dietary  []string       `json:"dietary"`
	MealType model.MealType `json:"mealType"`
	UserID   *int64         `json:"userId"`
}

// Suggestions proxies to the language model. Empty preference lists fall
// back to the acting user's saved preferences.
func (h *MealHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if !h.suggester.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "meal suggestions are not configured")
		return
	}

	var req suggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if len(req.Cuisines) == 0 && len(req.Dietary) == 0 {
		if uid := actingUser(r, req.UserID); uid != nil {
			u, err := h.userStore.GetByID(r.Context(), *uid)
			if err != nil {
				h.logger.Warn("load preferences", "user_id", *uid, "error", err)
			} else if u != nil {
				req.Cuisines = u.Preferences.Cuisines
				req.Dietary = u.Preferences.Dietary
			}
		}
	}

	meals, err := h.suggester.Suggest(r.Context(), suggest.Request{
		Cuisines: req.Cuisines,
		Dietary:  req.Dietary,
		MealType: req.MealType,
	})
	if errors.Is(err, suggest.ErrInvalidMealType) {
		writeError(w, http.StatusBadRequest, "invalid mealType")
		return
	}
	if err != nil {
		h.logger.Error("meal suggestions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate meal suggestions")
		return
	}
	writeJSON(w, http.StatusOK, meals)
}
