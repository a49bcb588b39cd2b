package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry mirrors the ledger_entries table.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	UserID          string          `db:"user_id"`
	Amount          decimal.Decimal `db:"amount"`
	Concept         string          `db:"concept"`
	EntryDate       time.Time       `db:"entry_date"`
	CategoryID      string          `db:"category_id"`
	MovementChannel string          `db:"movement_channel"`
	ObligationID    *string         `db:"recurring_obligation_id"`
	ReceiptID       *string         `db:"receipt_id"`
	CreatedAt       time.Time       `db:"created_at"`
}

// LedgerEntryItem mirrors the ledger_entry_items table.
type LedgerEntryItem struct {
	ItemID      string          `db:"item_id"`
	EntryID     string          `db:"entry_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	ItemDate    string          `db:"item_date"` // nullable, stored as text
}

// TransferArtifact mirrors the transfer_artifacts table.
type TransferArtifact struct {
	ArtifactID         string    `db:"artifact_id"`
	LedgerEntryID      *string   `db:"ledger_entry_id"` // unique, set after the entry insert
	OriginBank         string    `db:"origin_bank"`
	DestinationBank    string    `db:"destination_bank"`
	OriginAccount      string    `db:"origin_account"`
	DestinationAccount string    `db:"destination_account"`
	DestinationName    string    `db:"destination_name"`
	Concept            string    `db:"concept"`
	OperationNumber    string    `db:"operation_number"`
	CreatedAt          time.Time `db:"created_at"`
}
