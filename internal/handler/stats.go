package handler

import (
	"net/http"
	"strconv"

	"github.com/aidar/taskhub/internal/service"
)

// StatsHandler обрабатывает эндпоинты статистики дашборда
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats обрабатывает GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetUserStats обрабатывает GET /stats/user?telegram_id=...
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	telegramID, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "telegram_id query parameter is required")
		return
	}

	stats, err := h.statsService.GetUserStats(r.Context(), telegramID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}
