package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/dto"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
)

// ledgerHandler serves read access to the confirmed ledger history.
type ledgerHandler struct {
	processingService portssvc.ProcessingSvcFacade
}

func newLedgerHandler(ps portssvc.ProcessingSvcFacade) *ledgerHandler {
	return &ledgerHandler{processingService: ps}
}

// RegisterLedgerRoutes registers routes related to ledger entries.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ps portssvc.ProcessingSvcFacade) {
	h := newLedgerHandler(ps)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
	}
}

// listEntries godoc
// @Summary List ledger entries
// @Description Returns the user's confirmed ledger entries, newest first.
// @Tags ledger
// @Produce  json
// @Param   limit query int false "Maximum number of entries (default 50)"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Listing failed"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.processingService.ListLedgerEntries(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list ledger entries"})
		return
	}

	res := make([]dto.LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = dto.ToLedgerEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, res)
}
