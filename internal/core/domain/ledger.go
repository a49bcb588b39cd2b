package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementChannel describes how the money moved.
type MovementChannel string

const (
	ChannelCash    MovementChannel = "cash"
	ChannelDigital MovementChannel = "digital"
	ChannelSavings MovementChannel = "savings"
	ChannelCard    MovementChannel = "card"
)

// Category is a fixed system spending category resolved by name during confirmation.
type Category struct {
	CategoryID  string `json:"categoryID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// System category names the ledger writer resolves per receipt category.
const (
	CategoryNameTransfers  = "Transfers"
	CategoryNameUtilities  = "Utilities"
	CategoryNameCreditCard = "Credit Card"
	CategoryNameShopping   = "Shopping"
)

// LedgerEntry is the canonical money-movement record. Entries are created exclusively by
// the ledger writer inside a transaction and are immutable afterwards.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`
	UserID          string          `json:"userID"`
	Amount          decimal.Decimal `json:"amount"`
	Concept         string          `json:"concept"`
	EntryDate       time.Time       `json:"entryDate"`
	CategoryID      string          `json:"categoryID"`
	MovementChannel MovementChannel `json:"movementChannel"`
	ObligationID    *string         `json:"recurringObligationID,omitempty"`
	ReceiptID       *string         `json:"receiptID,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// LedgerEntryItem is a line-item detail row under a card-statement entry.
type LedgerEntryItem struct {
	ItemID      string          `json:"itemID"`
	EntryID     string          `json:"entryID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ItemDate    string          `json:"itemDate,omitempty"`
}

// TransferArtifact is the supplementary record created for transfer receipts. It owns an
// exclusive one-to-one back-reference to the ledger entry it generated.
type TransferArtifact struct {
	ArtifactID         string    `json:"artifactID"`
	LedgerEntryID      string    `json:"ledgerEntryID"`
	OriginBank         string    `json:"originBank"`
	DestinationBank    string    `json:"destinationBank"`
	OriginAccount      string    `json:"originAccount"`
	DestinationAccount string    `json:"destinationAccount"`
	DestinationName    string    `json:"destinationName"`
	Concept            string    `json:"concept"`
	OperationNumber    string    `json:"operationNumber"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ChannelForCategory maps a receipt category to the movement channel its ledger entry
// records: transfers and utility payments are digital, statements settle by card, and
// point-of-sale purchase receipts default to cash.
func ChannelForCategory(category ReceiptCategory) MovementChannel {
	switch category {
	case CategoryCardStatement:
		return ChannelCard
	case CategoryPurchaseReceipt:
		return ChannelCash
	default:
		return ChannelDigital
	}
}

// SystemCategoryNameFor maps a receipt category to the system category record the
// ledger writer must resolve. Unknown receipts cannot be confirmed.
func SystemCategoryNameFor(category ReceiptCategory) (string, bool) {
	switch category {
	case CategoryTransfer:
		return CategoryNameTransfers, true
	case CategoryUtilityBill:
		return CategoryNameUtilities, true
	case CategoryCardStatement:
		return CategoryNameCreditCard, true
	case CategoryPurchaseReceipt:
		return CategoryNameShopping, true
	}
	return "", false
}
