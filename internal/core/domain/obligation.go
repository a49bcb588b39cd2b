package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus is the fulfillment state of a recurring obligation. Under correct
// operation it moves monotonically: pending → partially_fulfilled → fulfilled.
type ObligationStatus string

const (
	ObligationPending            ObligationStatus = "pending"
	ObligationPartiallyFulfilled ObligationStatus = "partially_fulfilled"
	ObligationFulfilled          ObligationStatus = "fulfilled"
)

// RecurringObligation is a recognized recurring financial commitment. Its status is a
// deterministic function of the sum of linked ledger-entry amounts, recomputed by the
// ledger writer inside the confirm transaction.
type RecurringObligation struct {
	ObligationID    string           `json:"obligationID"`
	UserID          string           `json:"userID"`
	Concept         string           `json:"concept"`
	ExpectedAmount  decimal.Decimal  `json:"expectedAmount"`
	Status          ObligationStatus `json:"status"`
	CategoryID      string           `json:"categoryID,omitempty"`
	LastFulfilledAt *time.Time       `json:"lastFulfilledAt,omitempty"`
	AuditFields
}

// FulfillmentStatusFor derives the obligation status from the cumulative sum of linked
// ledger-entry amounts against the expected amount. It is the single source of truth for
// the state invariant and is order-independent: only the final sum matters.
func FulfillmentStatusFor(linkedSum, expected decimal.Decimal) ObligationStatus {
	switch {
	case expected.IsPositive() && linkedSum.GreaterThanOrEqual(expected):
		return ObligationFulfilled
	case linkedSum.IsPositive():
		return ObligationPartiallyFulfilled
	default:
		return ObligationPending
	}
}

// ObligationMatch is one ranked candidate produced by the recurring-obligation matcher.
// The score is a heuristic hint (0-100), never an authoritative link.
type ObligationMatch struct {
	Obligation RecurringObligation `json:"obligation"`
	Score      int                 `json:"score"`
	Rationale  string              `json:"rationale"`
}
