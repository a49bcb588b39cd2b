package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/dto"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
)

// receiptHandler handles HTTP requests for receipt intake, lifecycle and confirmation.
type receiptHandler struct {
	receiptService    portssvc.ReceiptSvcFacade
	processingService portssvc.ProcessingSvcFacade
}

// newReceiptHandler creates a new receiptHandler.
func newReceiptHandler(rs portssvc.ReceiptSvcFacade, ps portssvc.ProcessingSvcFacade) *receiptHandler {
	return &receiptHandler{
		receiptService:    rs,
		processingService: ps,
	}
}

// RegisterReceiptRoutes registers routes related to receipts.
func RegisterReceiptRoutes(rg *gin.RouterGroup, rs portssvc.ReceiptSvcFacade, ps portssvc.ProcessingSvcFacade) {
	h := newReceiptHandler(rs, ps)

	// Batch uploads trigger classification (potentially inference-backed) per file,
	// so the endpoint is rate limited: 10 batches per minute per IP.
	rate, _ := limiter.NewRateFromFormatted("10-M")
	intakeLimiter := limiter.New(memory.NewStore(), rate)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("/batch", middleware.RateLimit(intakeLimiter), h.intakeBatch)
		receipts.GET("", h.listReceipts)
		receipts.GET("/:id", h.getReceipt)
		receipts.POST("/:id/confirm", h.confirmReceipt)
		receipts.POST("/:id/discard", h.discardReceipt)
	}
}

// intakeBatch godoc
// @Summary Upload a batch of receipt files
// @Description Validates, classifies and stores up to 20 files (10 MB each). Per-file failures are reported without aborting the batch.
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   batch body dto.IntakeRequest true "Batch of base64-encoded files"
// @Success 200 {object} dto.IntakeResponse
// @Failure 400 {object} ErrorResponse "Invalid batch"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 429 {object} ErrorResponse "Too many batches"
// @Failure 500 {object} ErrorResponse "Intake failed"
// @Security BearerAuth
// @Router /receipts/batch [post]
func (h *receiptHandler) intakeBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for intakeBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	files := make([]portssvc.IntakeFile, len(req.Files))
	for i, f := range req.Files {
		files[i] = portssvc.IntakeFile{
			FileName:     f.FileName,
			Content:      f.Content,
			DeclaredSize: f.Size,
		}
	}

	result, err := h.receiptService.IntakeBatch(c.Request.Context(), userID, files)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Batch intake failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process batch"})
		}
		return
	}

	c.JSON(http.StatusOK, toIntakeResponse(result))
}

// listReceipts godoc
// @Summary List the user's receipts
// @Description Returns the user's receipts, newest first, optionally filtered by status.
// @Tags receipts
// @Produce  json
// @Param   status query string false "Lifecycle status filter" Enums(pending, confirmed, discarded)
// @Success 200 {array} dto.ReceiptSummaryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Listing failed"
// @Security BearerAuth
// @Router /receipts [get]
func (h *receiptHandler) listReceipts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var status *domain.ReceiptStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ReceiptStatus(raw)
		if s != domain.ReceiptPending && s != domain.ReceiptConfirmed && s != domain.ReceiptDiscarded {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid status filter"})
			return
		}
		status = &s
	}

	receipts, err := h.receiptService.ListReceipts(c.Request.Context(), userID, status)
	if err != nil {
		logger.Error("Failed to list receipts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list receipts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptSummaryResponses(receipts))
}

// getReceipt godoc
// @Summary Get one receipt
// @Description Retrieves a single receipt owned by the user.
// @Tags receipts
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Success 200 {object} dto.ReceiptSummaryResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Receipt not found"
// @Failure 500 {object} ErrorResponse "Lookup failed"
// @Security BearerAuth
// @Router /receipts/{id} [get]
func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Receipt not found"})
		} else {
			logger.Error("Failed to get receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get receipt"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptSummaryResponse(receipt))
}

// confirmReceipt godoc
// @Summary Confirm a pending receipt
// @Description Extracts the structured transaction record from the receipt under the chosen category and commits the ledger entry atomically.
// @Tags receipts
// @Accept  json
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Param   confirmation body dto.ConfirmReceiptRequest true "Chosen category, optional content override and obligation link"
// @Success 200 {object} dto.ConfirmReceiptResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unsupported format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Receipt or obligation not found"
// @Failure 409 {object} ErrorResponse "Receipt already confirmed or discarded"
// @Failure 422 {object} ErrorResponse "Inference response could not be parsed"
// @Failure 500 {object} ErrorResponse "Confirmation failed"
// @Security BearerAuth
// @Router /receipts/{id}/confirm [post]
func (h *receiptHandler) confirmReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConfirmReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for confirmReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receiptID := c.Param("id")
	override := ""
	if req.Content != nil {
		override = *req.Content
	}

	outcome, err := h.processingService.ConfirmReceipt(c.Request.Context(), userID, receiptID,
		domain.ReceiptCategory(req.Category), override, req.RecurringObligationID)
	if err != nil {
		h.writeConfirmError(c, logger, receiptID, err)
		return
	}

	c.JSON(http.StatusOK, toConfirmResponse(outcome))
}

// writeConfirmError maps confirmation failures to HTTP statuses.
func (h *receiptHandler) writeConfirmError(c *gin.Context, logger *slog.Logger, receiptID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Receipt not accessible"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnparsableResponse):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrCategoryMissing):
		logger.Error("System category missing during confirmation", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "System category configuration is incomplete"})
	default:
		logger.Error("Failed to confirm receipt", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to confirm receipt"})
	}
}

// discardReceipt godoc
// @Summary Discard a pending receipt
// @Description Marks a pending receipt as discarded. Terminal receipts cannot be discarded again.
// @Tags receipts
// @Produce  json
// @Param   id path string true "Receipt ID"
// @Success 204 "Discarded"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Receipt not found"
// @Failure 409 {object} ErrorResponse "Receipt already confirmed or discarded"
// @Failure 500 {object} ErrorResponse "Discard failed"
// @Security BearerAuth
// @Router /receipts/{id}/discard [post]
func (h *receiptHandler) discardReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.receiptService.DiscardReceipt(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Receipt not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to discard receipt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to discard receipt"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// toIntakeResponse converts the service batch result into the transport shape, including
// the per-category statistics. Failures is always non-nil in the JSON output.
func toIntakeResponse(result *portssvc.IntakeResult) dto.IntakeResponse {
	successes := make([]dto.ReceiptSummaryResponse, len(result.Successes))
	counts := map[string]int{}
	for i := range result.Successes {
		successes[i] = dto.ToReceiptSummaryResponse(&result.Successes[i])
		counts[string(result.Successes[i].Category)]++
	}

	failures := make([]dto.IntakeFailureResponse, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = dto.IntakeFailureResponse{FileName: f.FileName, Reason: f.Reason}
	}

	return dto.IntakeResponse{
		Successes: successes,
		Failures:  failures,
		Statistics: dto.IntakeStatisticsResponse{
			Total:            len(result.Successes) + len(result.Failures),
			Successes:        len(result.Successes),
			Failures:         len(result.Failures),
			CountsByCategory: counts,
		},
	}
}

// toConfirmResponse converts a confirmation outcome into the transport shape.
func toConfirmResponse(outcome *portssvc.ConfirmOutcome) dto.ConfirmReceiptResponse {
	return dto.ConfirmReceiptResponse{
		Success:              true,
		ExtractedRecord:      *outcome.Record,
		Entry:                dto.ToLedgerEntryResponse(&outcome.Entry),
		Items:                dto.ToLedgerEntryItemResponses(outcome.Items),
		TransferArtifact:     dto.ToTransferArtifactResponse(outcome.Artifact),
		Obligation:           dto.ToObligationResponse(outcome.Obligation),
		ObligationCandidates: dto.ToObligationMatchResponses(outcome.Candidates),
	}
}
