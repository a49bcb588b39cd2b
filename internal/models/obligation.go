package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringObligation mirrors the recurring_obligations table.
type RecurringObligation struct {
	ObligationID    string          `db:"obligation_id"`
	UserID          string          `db:"user_id"`
	Concept         string          `db:"concept"`
	ExpectedAmount  decimal.Decimal `db:"expected_amount"`
	Status          string          `db:"status"`
	CategoryID      string          `db:"category_id"` // nullable
	LastFulfilledAt *time.Time      `db:"last_fulfilled_at"`
	AuditFields
}
