package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/familyhub/internal/config"
	"github.com/dukerupert/familyhub/internal/handler"
	"github.com/dukerupert/familyhub/internal/middleware"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/suggest"
	ws "github.com/dukerupert/familyhub/internal/websocket"
)

const (
	rateLimitRequests = 10
	rateLimitWindow   = time.Minute
	cleanupInterval   = 10 * time.Minute
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	cfg         config.Config
	db          *sql.DB
	hub         *ws.Hub
	userStore   *store.UserStore
	healthH     *handler.HealthHandler
	userH       *handler.UserHandler
	mealH       *handler.MealHandler
	mealPlanH   *handler.MealPlanHandler
	activityH   *handler.ActivityHandler
	listH       *handler.ShoppingListHandler
	itemH       *handler.ShoppingItemHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires stores, the generator and handlers onto db. A nil suggester
// disables meal suggestions.
func New(db *sql.DB, cfg config.Config, suggester suggest.TextGenerator, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	mealStore := store.NewMealStore(db)
	planStore := store.NewMealPlanStore(db)
	activityStore := store.NewActivityStore(db)
	shoppingStore := store.NewShoppingStore(db)

	generator := shopping.NewGenerator(planStore, mealStore, shoppingStore,
		shopping.WithTimeout(cfg.GenerateTimeout),
		shopping.WithLogger(logger.With("component", "generator")),
		shopping.WithUsers(userStore),
	)
	suggestSvc := suggest.NewService(suggester, logger.With("component", "suggest"))

	return &Server{
		cfg:         cfg,
		db:          db,
		hub:         hub,
		userStore:   userStore,
		healthH:     handler.NewHealthHandler(db),
		userH:       handler.NewUserHandler(userStore, hub, logger.With("component", "user")),
		mealH:       handler.NewMealHandler(mealStore, userStore, suggestSvc, hub, logger.With("component", "meal")),
		mealPlanH:   handler.NewMealPlanHandler(planStore, mealStore, hub, logger.With("component", "meal_plan")),
		activityH:   handler.NewActivityHandler(activityStore, userStore, hub, logger.With("component", "activity")),
		listH:       handler.NewShoppingListHandler(shoppingStore, generator, hub, logger.With("component", "shopping_list")),
		itemH:       handler.NewShoppingItemHandler(shoppingStore, hub, logger.With("component", "shopping_item")),
		rateLimiter: middleware.NewRateLimiter(rateLimitRequests, rateLimitWindow),
		logger:      logger,
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthH.Check)

	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("GET /api/users/{id}", s.userH.Get)
	mux.HandleFunc("PUT /api/users/{id}/preferences", s.userH.UpdatePreferences)

	mux.HandleFunc("GET /api/meals", s.mealH.List)
	mux.HandleFunc("POST /api/meals", s.mealH.Create)
	mux.HandleFunc("GET /api/meals/{id}", s.mealH.Get)
	mux.HandleFunc("POST /api/meals/suggestions", s.rateLimited(s.mealH.Suggestions))

	mux.HandleFunc("GET /api/meal-plans", s.mealPlanH.List)
	mux.HandleFunc("POST /api/meal-plans", s.mealPlanH.Create)
	mux.HandleFunc("PUT /api/meal-plans/{id}", s.mealPlanH.Update)
	mux.HandleFunc("DELETE /api/meal-plans/{id}", s.mealPlanH.Delete)

	mux.HandleFunc("GET /api/activities", s.activityH.List)
	mux.HandleFunc("POST /api/activities", s.activityH.Create)
	mux.HandleFunc("PUT /api/activities/{id}", s.activityH.Update)
	mux.HandleFunc("DELETE /api/activities/{id}", s.activityH.Delete)

	mux.HandleFunc("GET /api/shopping-lists", s.listH.List)
	mux.HandleFunc("POST /api/shopping-lists", s.listH.Create)
	mux.HandleFunc("POST /api/shopping-lists/generate", s.rateLimited(s.listH.Generate))
	mux.HandleFunc("GET /api/shopping-lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/shopping-lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/shopping-lists/{id}/pdf", s.listH.PDF)

	mux.HandleFunc("POST /api/shopping-items", s.itemH.Create)
	mux.HandleFunc("PUT /api/shopping-items/{id}", s.itemH.Update)
	mux.HandleFunc("POST /api/shopping-items/{id}/toggle", s.itemH.Toggle)
	mux.HandleFunc("DELETE /api/shopping-items/{id}", s.itemH.Delete)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.CORSOrigins, s.logger.With("component", "websocket")))

	var h http.Handler = mux
	h = middleware.DemoIdentity(s.userStore, s.cfg.DemoUserID, s.logger.With("component", "auth"))(h)
	h = cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h).ServeHTTP
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down the HTTP server and closes websocket clients.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.GenerateTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("familyhub starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.rateLimiter.Cleanup(rateLimitWindow)
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
