package services

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MatcherSvc scores the user's open recurring obligations against an extracted amount
// and concept. Results are ranked hints above a minimum confidence threshold, never an
// authoritative link.
type MatcherSvc interface {
	MatchObligations(ctx context.Context, userID string, amount decimal.Decimal, concept string) ([]domain.ObligationMatch, error)
}
