package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/meal-log/suggest.
type suggestRequest struct {
	Description string `json:"description"`
	MealType    string `json:"meal_type"`
}

// suggestionResponse is the estimated nutrition for a described meal, shaped
// like a meal log so the client can prefill the log form.
// Confidence is 1-5 indicating how accurate the estimate is.
type suggestionResponse struct {
	MealName   string  `json:"meal_name"`
	MealType   string  `json:"meal_type,omitempty"`
	Calories   int     `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	FiberG     float64 `json:"fiber_g"`
	SugarG     float64 `json:"sugar_g"`
	Confidence int     `json:"confidence"`
}

/* ─── OpenAI prompt constants ────────────────────────────────────────── */

const mealSystemPrompt = `You are a nutrition assistant. Parse the meal description and return a JSON object with:
- "meal_name" (string, cleaned up title case)
- "calories" (integer, total for the whole meal)
- "protein_g" (number, grams, total for the whole meal)
- "carbs_g" (number, grams, total for the whole meal)
- "fat_g" (number, grams, total for the whole meal)
- "fiber_g" (number, grams, total for the whole meal)
- "sugar_g" (number, grams, total for the whole meal)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Use your knowledge of similar foods to approximate. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

// dietaryContextTemplate is appended to the system prompt when the user has a
// dietary preference saved, so ambiguous items resolve to compliant versions
// (e.g. "burger" for a vegan is a plant-based patty).
const dietaryContextTemplate = `

The user follows this diet: %s. When the description is ambiguous, assume the version of the food that fits this diet.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestMealNutrition handles POST /api/meal-log/suggest.
// Accepts a free-text meal description, calls OpenAI to estimate its
// nutrition, and returns the suggestion. Nothing is logged.
func (h *Handler) suggestMealNutrition(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: h.buildMealPrompt(c)},
		{Role: "user", Content: req.Description},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL)
	if err != nil {
		log.Printf("[suggest] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Check if the AI returned an "unrecognized" error
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggest] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var suggestion suggestionResponse
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		log.Printf("[suggest] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// A usable suggestion needs at least a name and calories; negative
	// figures mean the model misread the input.
	if suggestion.MealName == "" || suggestion.Calories <= 0 ||
		suggestion.ProteinG < 0 || suggestion.CarbsG < 0 || suggestion.FatG < 0 ||
		suggestion.FiberG < 0 || suggestion.SugarG < 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	suggestion.MealType = mealTypeKey(&req.MealType)

	c.JSON(http.StatusOK, suggestion)
}

// buildMealPrompt adds the user's dietary preference to the system prompt.
// Falls back to the plain prompt if the profile can't be read or has none.
func (h *Handler) buildMealPrompt(c *gin.Context) string {
	if h.store == nil {
		return mealSystemPrompt
	}
	p, err := h.store.profileByUser(c.Request.Context(), c.GetInt("user_id"))
	if err != nil || p.DietaryPreferences == nil {
		return mealSystemPrompt
	}
	pref := strings.TrimSpace(*p.DietaryPreferences)
	if pref == "" || strings.EqualFold(pref, "none") {
		return mealSystemPrompt
	}
	return mealSystemPrompt + fmt.Sprintf(dietaryContextTemplate, pref)
}
