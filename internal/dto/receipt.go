package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// IntakeFileRequest is one candidate file in a batch upload. Content carries the
// base64-encoded payload, optionally prefixed with a data URI header.
type IntakeFileRequest struct {
	FileName string `json:"filename" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Size     int64  `json:"size"`
}

// IntakeRequest is the batch upload payload.
type IntakeRequest struct {
	Files []IntakeFileRequest `json:"files" binding:"required,min=1"`
}

// ReceiptSummaryResponse is the classified-receipt summary returned by intake and the
// listing endpoints.
type ReceiptSummaryResponse struct {
	ReceiptID  string            `json:"receiptID"`
	FileName   string            `json:"fileName"`
	Category   string            `json:"category"`
	Confidence int               `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Status     string            `json:"status"`
	UploadedAt time.Time         `json:"uploadedAt"`
}

// IntakeFailureResponse records a single file's rejection; the batch carries on.
type IntakeFailureResponse struct {
	FileName string `json:"filename"`
	Reason   string `json:"reason"`
}

// IntakeStatisticsResponse aggregates the batch outcome.
type IntakeStatisticsResponse struct {
	Total            int            `json:"total"`
	Successes        int            `json:"successes"`
	Failures         int            `json:"failures"`
	CountsByCategory map[string]int `json:"countsByCategory"`
}

// IntakeResponse is the full intake result. Failures is always present, even when empty.
type IntakeResponse struct {
	Successes  []ReceiptSummaryResponse `json:"successes"`
	Failures   []IntakeFailureResponse  `json:"failures"`
	Statistics IntakeStatisticsResponse `json:"statistics"`
}

// ConfirmReceiptRequest asks for a pending receipt to be extracted and committed to the
// ledger. Content is optional; when absent the stored upload is used.
type ConfirmReceiptRequest struct {
	Category              string  `json:"category" binding:"required,receiptcategory"`
	Content               *string `json:"content"`
	RecurringObligationID *string `json:"recurringObligationID"`
}

// LedgerEntryResponse describes a created ledger entry.
type LedgerEntryResponse struct {
	EntryID         string    `json:"entryID"`
	Amount          string    `json:"amount"`
	Concept         string    `json:"concept"`
	EntryDate       time.Time `json:"entryDate"`
	CategoryID      string    `json:"categoryID"`
	MovementChannel string    `json:"movementChannel"`
	ObligationID    *string   `json:"recurringObligationID,omitempty"`
}

// LedgerEntryItemResponse describes a statement line-item row.
type LedgerEntryItemResponse struct {
	ItemID      string `json:"itemID"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	ItemDate    string `json:"itemDate,omitempty"`
}

// TransferArtifactResponse describes the supplementary transfer record.
type TransferArtifactResponse struct {
	ArtifactID         string `json:"artifactID"`
	OriginBank         string `json:"originBank"`
	DestinationBank    string `json:"destinationBank"`
	OriginAccount      string `json:"originAccount"`
	DestinationAccount string `json:"destinationAccount"`
	DestinationName    string `json:"destinationName"`
	Concept            string `json:"concept"`
	OperationNumber    string `json:"operationNumber"`
}

// ObligationMatchResponse is one ranked obligation candidate.
type ObligationMatchResponse struct {
	ObligationID   string `json:"obligationID"`
	Concept        string `json:"concept"`
	ExpectedAmount string `json:"expectedAmount"`
	Status         string `json:"status"`
	Score          int    `json:"score"`
	Rationale      string `json:"rationale"`
}

// ObligationResponse reflects an obligation's state after confirmation updated it.
type ObligationResponse struct {
	ObligationID    string     `json:"obligationID"`
	Concept         string     `json:"concept"`
	ExpectedAmount  string     `json:"expectedAmount"`
	Status          string     `json:"status"`
	LastFulfilledAt *time.Time `json:"lastFulfilledAt,omitempty"`
}

// ConfirmReceiptResponse is the full confirmation result.
type ConfirmReceiptResponse struct {
	Success              bool                              `json:"success"`
	ExtractedRecord      domain.ExtractedTransactionRecord `json:"extractedRecord"`
	Entry                LedgerEntryResponse               `json:"createdLedgerEntry"`
	Items                []LedgerEntryItemResponse         `json:"createdItems,omitempty"`
	TransferArtifact     *TransferArtifactResponse         `json:"createdTransferArtifact,omitempty"`
	Obligation           *ObligationResponse               `json:"updatedObligation,omitempty"`
	ObligationCandidates []ObligationMatchResponse         `json:"matchedObligationCandidates"`
}

// ToReceiptSummaryResponse converts a domain.PendingReceipt to its summary DTO.
func ToReceiptSummaryResponse(r *domain.PendingReceipt) ReceiptSummaryResponse {
	return ReceiptSummaryResponse{
		ReceiptID:  r.ReceiptID,
		FileName:   r.FileName,
		Category:   string(r.Category),
		Confidence: r.Confidence,
		Metadata:   r.Metadata,
		Status:     string(r.Status),
		UploadedAt: r.UploadedAt,
	}
}

// ToReceiptSummaryResponses converts a slice of domain.PendingReceipt.
func ToReceiptSummaryResponses(receipts []domain.PendingReceipt) []ReceiptSummaryResponse {
	res := make([]ReceiptSummaryResponse, len(receipts))
	for i := range receipts {
		res[i] = ToReceiptSummaryResponse(&receipts[i])
	}
	return res
}

// ToLedgerEntryResponse converts a domain.LedgerEntry.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		Amount:          e.Amount.String(),
		Concept:         e.Concept,
		EntryDate:       e.EntryDate,
		CategoryID:      e.CategoryID,
		MovementChannel: string(e.MovementChannel),
		ObligationID:    e.ObligationID,
	}
}

// ToLedgerEntryItemResponses converts statement item rows.
func ToLedgerEntryItemResponses(items []domain.LedgerEntryItem) []LedgerEntryItemResponse {
	if len(items) == 0 {
		return nil
	}
	res := make([]LedgerEntryItemResponse, len(items))
	for i, it := range items {
		res[i] = LedgerEntryItemResponse{
			ItemID:      it.ItemID,
			Description: it.Description,
			Amount:      it.Amount.String(),
			ItemDate:    it.ItemDate,
		}
	}
	return res
}

// ToTransferArtifactResponse converts a domain.TransferArtifact.
func ToTransferArtifactResponse(a *domain.TransferArtifact) *TransferArtifactResponse {
	if a == nil {
		return nil
	}
	return &TransferArtifactResponse{
		ArtifactID:         a.ArtifactID,
		OriginBank:         a.OriginBank,
		DestinationBank:    a.DestinationBank,
		OriginAccount:      a.OriginAccount,
		DestinationAccount: a.DestinationAccount,
		DestinationName:    a.DestinationName,
		Concept:            a.Concept,
		OperationNumber:    a.OperationNumber,
	}
}

// ToObligationMatchResponses converts ranked matcher output.
func ToObligationMatchResponses(matches []domain.ObligationMatch) []ObligationMatchResponse {
	res := make([]ObligationMatchResponse, len(matches))
	for i, m := range matches {
		res[i] = ObligationMatchResponse{
			ObligationID:   m.Obligation.ObligationID,
			Concept:        m.Obligation.Concept,
			ExpectedAmount: m.Obligation.ExpectedAmount.String(),
			Status:         string(m.Obligation.Status),
			Score:          m.Score,
			Rationale:      m.Rationale,
		}
	}
	return res
}

// ToObligationResponse converts a domain.RecurringObligation.
func ToObligationResponse(o *domain.RecurringObligation) *ObligationResponse {
	if o == nil {
		return nil
	}
	return &ObligationResponse{
		ObligationID:    o.ObligationID,
		Concept:         o.Concept,
		ExpectedAmount:  o.ExpectedAmount.String(),
		Status:          string(o.Status),
		LastFulfilledAt: o.LastFulfilledAt,
	}
}

// ReceiptCategoryValidator backs the `receiptcategory` binding tag: the category must be
// one of the confirmable receipt categories (unknown is not confirmable).
func ReceiptCategoryValidator(fl validator.FieldLevel) bool {
	category := domain.ReceiptCategory(fl.Field().String())
	return category.IsValid() && category != domain.CategoryUnknown
}
