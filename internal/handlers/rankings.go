package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/glmzsby/branch-points-api/internal/errors"
	"github.com/glmzsby/branch-points-api/internal/services"
)

// RankingHandler serves the leaderboards.
type RankingHandler struct {
	rankingService *services.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(rankingService *services.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// List returns the leaderboard for the requested period
// (total, week or month; defaults to total).
func (h *RankingHandler) List(c *gin.Context) {
	period := services.RankingPeriod(c.DefaultQuery("period", string(services.PeriodTotal)))

	entries, err := h.rankingService.PeriodRanking(period)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			apierrors.BadRequest(c, apierrors.ErrCodeInvalidInput, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build ranking")
		return
	}

	ranks := services.CompetitionRanks(entries)

	type row struct {
		Rank   int    `json:"rank"`
		UserID uint64 `json:"user_id"`
		Name   string `json:"name"`
		Points int    `json:"points"`
	}

	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{Rank: ranks[i], UserID: e.UserID, Name: e.Name, Points: e.Points}
	}

	c.JSON(http.StatusOK, gin.H{
		"period":   string(period),
		"rankings": rows,
	})
}
