package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/familyhub/internal/config"
	"github.com/dukerupert/familyhub/internal/database"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
)

func setupServer(t *testing.T, demoUser bool) (*httptest.Server, *store.MealStore, *store.MealPlanStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	u, err := store.NewUserStore(db).Create(ctx, "sarah", "pw", model.RoleParent, "Sarah Johnson", "", model.UserPreferences{})
	require.NoError(t, err)

	cfg := config.Config{
		Port:            "0",
		CORSOrigins:     []string{"http://kitchen.local"},
		GenerateTimeout: 2 * time.Second,
	}
	if demoUser {
		cfg.DemoUserID = u.ID
	}

	srv := New(db, cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store.NewMealStore(db), store.NewMealPlanStore(db), u.ID
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestGenerateEndToEnd(t *testing.T) {
	ts, meals, plans, userID := setupServer(t, false)
	ctx := context.Background()

	m, err := meals.Create(ctx, model.Meal{Name: "Chili", MealType: model.MealTypeDinner, Ingredients: []string{"beans", "onion"}})
	require.NoError(t, err)
	_, err = plans.Create(ctx, model.MealPlan{MealID: m.ID, PlannedDate: "2024-03-01", MealType: model.MealTypeDinner})
	require.NoError(t, err)

	resp := postJSON(t, ts.URL+"/api/shopping-lists/generate", map[string]any{
		"startDate": "2024-03-01", "endDate": "2024-03-07", "userId": userID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list model.EnrichedShoppingList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, "Shopping List 2024-03-01 to 2024-03-07", list.Name)
	require.Len(t, list.Items, 2)

	pdf, err := http.Get(ts.URL + "/api/shopping-lists/" + strconv.FormatInt(list.ID, 10) + "/pdf")
	require.NoError(t, err)
	defer pdf.Body.Close()
	assert.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
}

func TestGenerateUsesDemoIdentity(t *testing.T) {
	ts, _, _, userID := setupServer(t, true)

	resp := postJSON(t, ts.URL+"/api/shopping-lists/generate", map[string]any{
		"startDate": "2024-03-01", "endDate": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list model.EnrichedShoppingList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.NotNil(t, list.CreatedBy)
	assert.Equal(t, userID, *list.CreatedBy)
	assert.Empty(t, list.Items)
}

func TestGenerateWithoutUser(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	resp := postJSON(t, ts.URL+"/api/shopping-lists/generate", map[string]any{
		"startDate": "2024-03-01", "endDate": "2024-03-02",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestionsDisabled(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	resp := postJSON(t, ts.URL+"/api/meals/suggestions", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGenerateRateLimited(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	var last int
	for range rateLimitRequests + 1 {
		resp := postJSON(t, ts.URL+"/api/shopping-lists/generate", map[string]any{"startDate": "bad"})
		last = resp.StatusCode
		if last == http.StatusTooManyRequests {
			break
		}
		assert.Equal(t, http.StatusBadRequest, last)
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCORSPreflight(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/meals", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://kitchen.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://kitchen.local", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	ts, _, _, _ := setupServer(t, false)

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunStopsOnCancel(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	srv := New(db, config.Config{Port: "0", GenerateTimeout: time.Second}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
