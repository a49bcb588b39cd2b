package domain

import "time"

// ReceiptCategory is the closed set of document categories the classifier assigns.
type ReceiptCategory string

const (
	CategoryTransfer        ReceiptCategory = "transfer"
	CategoryUtilityBill     ReceiptCategory = "utility-bill"
	CategoryCardStatement   ReceiptCategory = "card-statement"
	CategoryPurchaseReceipt ReceiptCategory = "purchase-receipt"
	CategoryUnknown         ReceiptCategory = "unknown"
)

// IsValid reports whether c is one of the known categories.
func (c ReceiptCategory) IsValid() bool {
	switch c {
	case CategoryTransfer, CategoryUtilityBill, CategoryCardStatement, CategoryPurchaseReceipt, CategoryUnknown:
		return true
	}
	return false
}

// ReceiptStatus is the lifecycle state of a PendingReceipt. A receipt transitions
// exactly once out of pending, to either confirmed or discarded.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "pending"
	ReceiptConfirmed ReceiptStatus = "confirmed"
	ReceiptDiscarded ReceiptStatus = "discarded"
)

// ClassificationSource records which layer of the classifier produced the result.
type ClassificationSource string

const (
	SourceHeuristic ClassificationSource = "heuristic"
	SourceInference ClassificationSource = "inference"
	SourceFallback  ClassificationSource = "fallback"
)

// Classification is the tagged output of the document classifier. Confidence is
// informational (0-100); callers decide whether it warrants manual re-classification.
type Classification struct {
	Category   ReceiptCategory      `json:"category"`
	Confidence int                  `json:"confidence"`
	Source     ClassificationSource `json:"source"`
	Metadata   map[string]string    `json:"metadata,omitempty"`
}

// PendingReceipt is an uploaded, not-yet-confirmed document.
type PendingReceipt struct {
	ReceiptID  string            `json:"receiptID"`
	UserID     string            `json:"userID"`
	FileName   string            `json:"fileName"`
	Content    string            `json:"content"` // base64 payload as uploaded
	Category   ReceiptCategory   `json:"category"`
	Confidence int               `json:"confidence"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Status     ReceiptStatus     `json:"status"`
	UploadedAt time.Time         `json:"uploadedAt"`
}
