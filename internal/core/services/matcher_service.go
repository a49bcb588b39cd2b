package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
)

// matcherService scores open recurring obligations against an extracted amount and
// concept. Scores are heuristic hints; the confirm flow only offers them to the caller.
type matcherService struct {
	obligationRepo portsrepo.ObligationRepositoryFacade
	cfg            config.MatcherConfig
}

// NewMatcherService creates a new MatcherService.
func NewMatcherService(obligationRepo portsrepo.ObligationRepositoryFacade, cfg config.MatcherConfig) portssvc.MatcherSvc {
	return &matcherService{
		obligationRepo: obligationRepo,
		cfg:            cfg,
	}
}

var _ portssvc.MatcherSvc = (*matcherService)(nil)

// MatchObligations scores the user's pending and partially fulfilled obligations and
// returns the candidates at or above the minimum score, sorted descending. The sort is
// stable: ties keep the repository's ordering.
func (s *matcherService) MatchObligations(ctx context.Context, userID string, amount decimal.Decimal, concept string) ([]domain.ObligationMatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	obligations, err := s.obligationRepo.ListOpenObligationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open obligations for matching: %w", err)
	}

	matches := make([]domain.ObligationMatch, 0, len(obligations))
	for _, obligation := range obligations {
		score, rationale := s.score(obligation, amount, concept)
		if score < s.cfg.MinimumScore {
			continue
		}
		matches = append(matches, domain.ObligationMatch{
			Obligation: obligation,
			Score:      score,
			Rationale:  rationale,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if s.cfg.MaxCandidates > 0 && len(matches) > s.cfg.MaxCandidates {
		matches = matches[:s.cfg.MaxCandidates]
	}

	logger.Debug("Obligation matching completed",
		slog.Int("open_obligations", len(obligations)),
		slog.Int("candidates", len(matches)))
	return matches, nil
}

// score computes the weighted amount and concept sub-scores for one obligation.
func (s *matcherService) score(obligation domain.RecurringObligation, amount decimal.Decimal, concept string) (int, string) {
	var rationale []string

	amountScore := decimal.Zero
	tolerance := obligation.ExpectedAmount.Mul(decimal.NewFromFloat(s.cfg.AmountTolerance))
	if tolerance.IsPositive() {
		delta := amount.Sub(obligation.ExpectedAmount).Abs()
		if delta.LessThanOrEqual(tolerance) {
			// weight × (1 − |Δ|/tolerance): full weight at an exact amount, fading
			// linearly to zero at the edge of the band.
			factor := decimal.NewFromInt(1).Sub(delta.Div(tolerance))
			amountScore = decimal.NewFromInt(int64(s.cfg.AmountWeight)).Mul(factor)
			rationale = append(rationale, fmt.Sprintf("amount within %d%% of expected %s", int(s.cfg.AmountTolerance*100), obligation.ExpectedAmount.String()))
		}
	}

	conceptScore := decimal.Zero
	normalizedA := normalizeConcept(concept)
	normalizedB := normalizeConcept(obligation.Concept)
	if normalizedA != "" && normalizedB != "" &&
		(strings.Contains(normalizedA, normalizedB) || strings.Contains(normalizedB, normalizedA)) {
		conceptScore = decimal.NewFromInt(int64(s.cfg.ConceptWeight))
		rationale = append(rationale, fmt.Sprintf("concept matches %q", obligation.Concept))
	}

	total := int(amountScore.Add(conceptScore).Round(0).IntPart())
	return total, strings.Join(rationale, "; ")
}

// normalizeConcept lowercases and strips everything but letters so that
// "Pago EDESUR 03/2026" and "edesur" compare equal on the letters that matter.
func normalizeConcept(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
