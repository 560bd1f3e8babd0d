package api

import (
	"errors"
	"net/http"
	"time"

	"roulette/models"
	"roulette/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RouletteHandler exposes the roulette operations over HTTP
type RouletteHandler struct {
	roulette service.RouletteService
}

// NewRouletteHandler creates a new roulette handler
func NewRouletteHandler(roulette service.RouletteService) *RouletteHandler {
	return &RouletteHandler{roulette: roulette}
}

type spinHistoryEntry struct {
	PrizeID string    `json:"prizeId"`
	Label   string    `json:"label"`
	SpunAt  time.Time `json:"spunAt"`
}

type statusResponse struct {
	DailyTokens    int                `json:"dailyTokens"`
	PremiumTokens  int                `json:"premiumTokens"`
	LastDailyReset *time.Time         `json:"lastDailyReset"`
	DailyHistory   []spinHistoryEntry `json:"dailyHistory"`
	PremiumHistory []spinHistoryEntry `json:"premiumHistory"`
}

type spinRequest struct {
	Type string `json:"type" binding:"required"`
}

type spinResponse struct {
	PrizeID        string `json:"prizeId"`
	Label          string `json:"label"`
	MinutesGranted *int   `json:"minutesGranted"`
}

// GetStatus returns token balances and recent spins. Anonymous callers get a
// zeroed view rather than an error.
func (h *RouletteHandler) GetStatus(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, statusResponse{
			DailyHistory:   []spinHistoryEntry{},
			PremiumHistory: []spinHistoryEntry{},
		})
		return
	}

	status, err := h.roulette.Status(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, userID, "", err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		DailyTokens:    status.DailyTokens,
		PremiumTokens:  status.PremiumTokens,
		LastDailyReset: status.LastDailyReset,
		DailyHistory:   toHistoryEntries(status.DailyHistory),
		PremiumHistory: toHistoryEntries(status.PremiumHistory),
	})
}

// Spin consumes a token and returns the won prize
func (h *RouletteHandler) Spin(c *gin.Context) {
	userID := currentUserID(c)

	var req spinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a roulette type is required"})
		return
	}

	result, err := h.roulette.Spin(c.Request.Context(), userID, req.Type)
	if err != nil {
		h.renderError(c, userID, req.Type, err)
		return
	}

	c.JSON(http.StatusOK, spinResponse{
		PrizeID:        result.PrizeID,
		Label:          result.Label,
		MinutesGranted: result.Minutes,
	})
}

// renderError maps domain errors to HTTP responses. Internal faults are logged
// in full and surfaced generically.
func (h *RouletteHandler) renderError(c *gin.Context, userID, rouletteType string, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, service.ErrInvalidRouletteType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "roulette type must be daily or premium"})
	case errors.Is(err, service.ErrNoTokensAvailable):
		message := "no premium spins available"
		if rouletteType == string(models.RouletteTypeDaily) {
			message = "no spins left today, come back tomorrow"
		}
		c.JSON(http.StatusConflict, gin.H{"error": message})
	default:
		// Covers ErrUserNotFound too: an identity without a backing record is
		// an internal consistency fault, not something to explain to callers
		log.WithFields(log.Fields{
			"requestID": c.GetString(requestIDKey),
			"userID":    userID,
		}).WithError(err).Error("Roulette operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toHistoryEntries(records []*models.SpinRecord) []spinHistoryEntry {
	entries := make([]spinHistoryEntry, 0, len(records))
	for _, record := range records {
		label := record.PrizeID
		if prize, ok := models.FindPrize(record.RouletteType, record.PrizeID); ok {
			label = prize.Label
		}
		entries = append(entries, spinHistoryEntry{
			PrizeID: record.PrizeID,
			Label:   label,
			SpunAt:  record.SpunAt,
		})
	}
	return entries
}
