package services

import (
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider portssvc.InferenceProvider) *portssvc.ServiceContainer {
	classifierSvc := NewClassifierService(provider, cfg.Classifier)
	extractorSvc := NewExtractorService(provider, cfg.Extractor)
	matcherSvc := NewMatcherService(repos.ObligationRepo, cfg.Matcher)
	ledgerWriterSvc := NewLedgerWriterService()

	return &portssvc.ServiceContainer{
		ReceiptSvc: NewReceiptService(repos.ReceiptRepo, classifierSvc, cfg.Intake),
		ProcessingSvc: NewProcessingService(
			repos.ReceiptRepo,
			repos.ObligationRepo,
			repos.CategoryRepo,
			repos.LedgerRepo,
			extractorSvc,
			matcherSvc,
			ledgerWriterSvc,
		),
		MatcherSvc: matcherSvc,
		UserSvc:    NewUserService(repos.UserRepo),
	}
}
