package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/dto"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
)

// obligationHandler exposes the obligation matcher as a standalone preview.
type obligationHandler struct {
	matcherService portssvc.MatcherSvc
}

func newObligationHandler(ms portssvc.MatcherSvc) *obligationHandler {
	return &obligationHandler{matcherService: ms}
}

// RegisterObligationRoutes registers routes related to recurring obligations.
func RegisterObligationRoutes(rg *gin.RouterGroup, ms portssvc.MatcherSvc) {
	h := newObligationHandler(ms)

	obligations := rg.Group("/obligations")
	{
		obligations.GET("/matches", h.previewMatches)
	}
}

// previewMatches godoc
// @Summary Preview obligation matches
// @Description Scores the user's open recurring obligations against an amount and concept without confirming anything.
// @Tags obligations
// @Produce  json
// @Param   amount query string true "Amount to match, decimal string"
// @Param   concept query string false "Concept to match"
// @Success 200 {array} dto.ObligationMatchResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Matching failed"
// @Security BearerAuth
// @Router /obligations/matches [get]
func (h *obligationHandler) previewMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount"})
		return
	}

	matches, err := h.matcherService.MatchObligations(c.Request.Context(), userID, amount, c.Query("concept"))
	if err != nil {
		logger.Error("Failed to match obligations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to match obligations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToObligationMatchResponses(matches))
}
