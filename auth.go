package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// register creates an account with its profile, initial targets and first
// weight log, and returns the new auth token.
// POST /api/register (public).
func (h *Handler) register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if body.Username == "" || body.Email == "" || body.Password == "" {
		apiError(c, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	weight, height := body.WeightKg.positive(), body.HeightCm.positive()
	var problems []string
	if weight.Value == nil {
		problems = append(problems, "valid current weight is required")
	}
	if height.Value == nil {
		problems = append(problems, "valid height is required")
	}
	if strings.TrimSpace(body.Goal) == "" {
		problems = append(problems, "primary goal is required")
	}
	if !nutrition.ValidFitnessLevel(body.FitnessLevel) {
		problems = append(problems, "fitness level must be one of: "+strings.Join(nutrition.FitnessLevels, ", "))
	}
	if len(problems) > 0 {
		apiError(c, http.StatusBadRequest, strings.Join(problems, "; "))
		return
	}

	warn := warnings{}
	goalWeight := body.GoalWeightKg.positive()
	warn.check("goal_weight_kg", goalWeight.Invalid)

	p := profile{
		WeightKg:           weight.Value,
		HeightCm:           height.Value,
		Goal:               optString(&body.Goal),
		GoalWeightKg:       goalWeight.Value,
		FitnessLevel:       &body.FitnessLevel,
		DietaryPreferences: optString(&body.DietaryPreferences),
	}
	if t, ok := nutrition.Estimate(nutrition.Inputs{
		WeightKg:     p.WeightKg,
		HeightCm:     p.HeightCm,
		Goal:         body.Goal,
		FitnessLevel: body.FitnessLevel,
		GoalWeightKg: p.GoalWeightKg,
	}); ok {
		p.setTargets(nutrition.TargetFields{Calories: &t.Calories, Protein: &t.Protein, Carbs: &t.Carbs, Fat: &t.Fat})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[register] Hash error: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	u, err := h.store.createAccount(c.Request.Context(), user{
		Username:  body.Username,
		Email:     body.Email,
		Password:  string(hash),
		AuthToken: uuid.New().String(),
	}, p)
	if errors.Is(err, errDuplicateUser) {
		apiError(c, http.StatusConflict, "username or email already exists")
		return
	}
	if err != nil {
		log.Printf("[register] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":    u.AuthToken,
		"user_id":  u.ID,
		"targets":  p.targets(),
		"warnings": warn,
	})
}

// login verifies username/password and returns the user's auth token.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.store.userByUsername(c.Request.Context(), body.Username)

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found, so timing does not reveal which usernames exist.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// logout revokes the caller's token by replacing it with a fresh one that is
// never returned, so every session holding the old token is signed out.
// POST /api/logout.
func (h *Handler) logout(c *gin.Context) {
	if err := h.store.rotateToken(c.Request.Context(), c.GetInt("user_id"), uuid.New().String()); err != nil {
		log.Printf("[logout] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, err := h.store.userIDByToken(c.Request.Context(), token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
