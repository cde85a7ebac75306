package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// getWeightLog returns the weight chart: one label/value per logged entry,
// oldest first. Entries are written by registration and profile edits.
// GET /api/weight-log?limit=N keeps only the latest N entries (default all).
func (h *Handler) getWeightLog(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.store.weightLogs(c.Request.Context(), c.GetInt("user_id"), limit)
	if err != nil {
		log.Printf("[getWeightLog] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	c.JSON(http.StatusOK, weightChart(logs, h.today().Location()))
}
