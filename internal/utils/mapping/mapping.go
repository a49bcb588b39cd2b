// Package mapping converts between domain entities and DB row models.
package mapping

import (
	"encoding/json"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	"github.com/juanbartrock/gastos_receipts_backend/internal/models"
)

// ToModelReceipt converts a domain.PendingReceipt to its row model. Metadata is encoded
// as JSON for the jsonb column; an encoding failure degrades to null metadata rather
// than failing the write.
func ToModelReceipt(d domain.PendingReceipt) models.PendingReceipt {
	var meta []byte
	if len(d.Metadata) > 0 {
		meta, _ = json.Marshal(d.Metadata)
	}
	return models.PendingReceipt{
		ReceiptID:  d.ReceiptID,
		UserID:     d.UserID,
		FileName:   d.FileName,
		Content:    d.Content,
		Category:   string(d.Category),
		Confidence: d.Confidence,
		Metadata:   meta,
		Status:     string(d.Status),
		UploadedAt: d.UploadedAt,
	}
}

// ToDomainReceipt converts a row model back to the domain entity.
func ToDomainReceipt(m models.PendingReceipt) domain.PendingReceipt {
	var meta map[string]string
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &meta)
	}
	return domain.PendingReceipt{
		ReceiptID:  m.ReceiptID,
		UserID:     m.UserID,
		FileName:   m.FileName,
		Content:    m.Content,
		Category:   domain.ReceiptCategory(m.Category),
		Confidence: m.Confidence,
		Metadata:   meta,
		Status:     domain.ReceiptStatus(m.Status),
		UploadedAt: m.UploadedAt,
	}
}

// ToDomainObligation converts a row model to the domain entity.
func ToDomainObligation(m models.RecurringObligation) domain.RecurringObligation {
	return domain.RecurringObligation{
		ObligationID:    m.ObligationID,
		UserID:          m.UserID,
		Concept:         m.Concept,
		ExpectedAmount:  m.ExpectedAmount,
		Status:          domain.ObligationStatus(m.Status),
		CategoryID:      m.CategoryID,
		LastFulfilledAt: m.LastFulfilledAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToModelEntry converts a domain.LedgerEntry to its row model.
func ToModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		Concept:         d.Concept,
		EntryDate:       d.EntryDate,
		CategoryID:      d.CategoryID,
		MovementChannel: string(d.MovementChannel),
		ObligationID:    d.ObligationID,
		ReceiptID:       d.ReceiptID,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainEntry converts a row model back to the domain entity.
func ToDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		Concept:         m.Concept,
		EntryDate:       m.EntryDate,
		CategoryID:      m.CategoryID,
		MovementChannel: domain.MovementChannel(m.MovementChannel),
		ObligationID:    m.ObligationID,
		ReceiptID:       m.ReceiptID,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainUser converts a row model to the domain entity.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
