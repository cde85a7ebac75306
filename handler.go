package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (store, config) for all route handlers.
type Handler struct {
	store         store
	loc           *time.Location   // calendar for "today" and chart days
	now           func() time.Time // overridable for tests
	openAIBaseURL string           // Base URL for OpenAI API (overridable for tests)
}

// today returns the current instant in the configured calendar.
func (h *Handler) today() time.Time {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	loc := h.loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// hosted Postgres closes idle connections after a few minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/register", h.register)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/logout", h.logout)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.updateProfile)
	api.GET("/dashboard", h.getDashboard)
	api.POST("/meal-log", h.createMealLog)
	api.GET("/meal-log/today", h.getMealToday)
	api.GET("/meal-log/week", h.getMealWeek)
	api.POST("/meal-log/suggest", h.suggestMealNutrition)
	api.POST("/workout-log", h.createWorkoutLog)
	api.GET("/workout-log", h.getWorkoutHistory)
	api.GET("/weight-log", h.getWeightLog)
	api.GET("/progress/workouts", h.getWorkoutProgress)
	api.GET("/progress/calories", h.getCalorieProgress)
}
