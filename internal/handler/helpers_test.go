package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/familyhub/internal/auth"
	"github.com/dukerupert/familyhub/internal/database"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type recordingHub struct {
	mu   sync.Mutex
	msgs []websocket.Message
}

func (h *recordingHub) Broadcast(msg websocket.Message) {
	h.mu.Lock()
	h.msgs = append(h.msgs, msg)
	h.mu.Unlock()
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.msgs))
	for i, m := range h.msgs {
		out[i] = m.Type
	}
	return out
}

type testEnv struct {
	db        *sql.DB
	hub       *recordingHub
	logger    *slog.Logger
	users     *store.UserStore
	meals     *store.MealStore
	plans     *store.MealPlanStore
	acts      *store.ActivityStore
	shopping  *store.ShoppingStore
	generator *shopping.Generator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		db:       db,
		hub:      &recordingHub{},
		logger:   logger,
		users:    store.NewUserStore(db),
		meals:    store.NewMealStore(db),
		plans:    store.NewMealPlanStore(db),
		acts:     store.NewActivityStore(db),
		shopping: store.NewShoppingStore(db),
	}
	env.generator = shopping.NewGenerator(env.plans, env.meals, env.shopping, shopping.WithLogger(logger), shopping.WithUsers(env.users))
	return env
}

func (e *testEnv) user(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), username, "pw", role, username, "", model.UserPreferences{})
	require.NoError(t, err)
	return u
}

func (e *testEnv) meal(t *testing.T, name string, ingredients ...string) *model.Meal {
	t.Helper()
	m, err := e.meals.Create(context.Background(), model.Meal{Name: name, MealType: model.MealTypeDinner, Ingredients: ingredients})
	require.NoError(t, err)
	return m
}

func (e *testEnv) plan(t *testing.T, mealID int64, date string) *model.MealPlan {
	t.Helper()
	p, err := e.plans.Create(context.Background(), model.MealPlan{MealID: mealID, PlannedDate: date, MealType: model.MealTypeDinner})
	require.NoError(t, err)
	return p
}

type reqOpt func(*http.Request)

func withID(id int64) reqOpt {
	return func(r *http.Request) { r.SetPathValue("id", strconv.FormatInt(id, 10)) }
}

func asUser(id int64) reqOpt {
	return func(r *http.Request) {
		*r = *r.WithContext(auth.WithAuth(r.Context(), auth.AuthContext{UserID: id, Demo: true}))
	}
}

func do(t *testing.T, h http.HandlerFunc, method, target string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
