package controllers

import (
	"net/http"
	"strconv"

	"github.com/blogem/site-intake/models"
	"github.com/blogem/site-intake/response"
	"github.com/blogem/site-intake/services"
)

// StatsController serves the daily visit aggregation
type StatsController struct {
	services    *services.Services
	defaultDays int
	maxDays     int
}

// NewStatsController creates a new stats controller
func NewStatsController(services *services.Services, defaultDays, maxDays int) *StatsController {
	return &StatsController{
		services:    services,
		defaultDays: defaultDays,
		maxDays:     maxDays,
	}
}

type statsResponse struct {
	Days  int                 `json:"days"`
	Stats []models.DailyStats `json:"stats"`
}

// Index handles GET /stats?days=N
func (c *StatsController) Index(w http.ResponseWriter, r *http.Request) {
	days := c.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Send(w, models.Failed(http.StatusBadRequest, "days must be a positive integer"))
			return
		}
		days = n
	}
	if c.maxDays > 0 && days > c.maxDays {
		days = c.maxDays
	}

	stats := c.services.Access.GetStats(r.Context(), days)
	response.JSON(w, http.StatusOK, statsResponse{Days: days, Stats: stats})
}
