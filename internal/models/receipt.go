package models

import "time"

// PendingReceipt mirrors the pending_receipts table.
type PendingReceipt struct {
	ReceiptID  string    `db:"receipt_id"`
	UserID     string    `db:"user_id"`
	FileName   string    `db:"file_name"`
	Content    string    `db:"content"` // base64 payload
	Category   string    `db:"category"`
	Confidence int       `db:"confidence"`
	Metadata   []byte    `db:"metadata"` // jsonb
	Status     string    `db:"status"`
	UploadedAt time.Time `db:"uploaded_at"`
}
