package domain

import "github.com/shopspring/decimal"

// ExtractedTransactionRecord is the transient, category-shaped value object produced by
// the structured extractor and consumed immediately by the ledger writer. Exactly one of
// the category fields is populated, matching Category. It is never persisted verbatim.
type ExtractedTransactionRecord struct {
	Category      ReceiptCategory      `json:"category"`
	Transfer      *TransferRecord      `json:"transfer,omitempty"`
	UtilityBill   *UtilityBillRecord   `json:"utilityBill,omitempty"`
	CardStatement *CardStatementRecord `json:"cardStatement,omitempty"`
	Purchase      *PurchaseRecord      `json:"purchase,omitempty"`
}

// Amount returns the headline amount of the record, whichever category shape it carries.
func (r ExtractedTransactionRecord) Amount() decimal.Decimal {
	switch {
	case r.Transfer != nil:
		return r.Transfer.Amount
	case r.UtilityBill != nil:
		return r.UtilityBill.Amount
	case r.CardStatement != nil:
		return r.CardStatement.MinimumPayment
	case r.Purchase != nil:
		return r.Purchase.Amount
	}
	return decimal.Zero
}

// Concept returns the free-text concept of the record, if any.
func (r ExtractedTransactionRecord) Concept() string {
	switch {
	case r.Transfer != nil:
		return r.Transfer.Concept
	case r.UtilityBill != nil:
		return r.UtilityBill.Concept
	case r.CardStatement != nil:
		return r.CardStatement.Bank
	case r.Purchase != nil:
		return r.Purchase.Merchant
	}
	return ""
}

// TransferRecord is the schema extracted from a bank transfer receipt.
type TransferRecord struct {
	Amount             decimal.Decimal `json:"amount"`
	OriginBank         string          `json:"originBank"`
	DestinationBank    string          `json:"destinationBank"`
	OriginAccount      string          `json:"originAccount"`      // CBU/CVU/alias
	DestinationAccount string          `json:"destinationAccount"` // CBU/CVU/alias
	DestinationName    string          `json:"destinationName"`
	Concept            string          `json:"concept"`
	Date               string          `json:"date"` // YYYY-MM-DD as extracted, may be empty
	OperationNumber    string          `json:"operationNumber"`
}

// UtilityBillRecord is the schema extracted from a utility bill payment receipt.
type UtilityBillRecord struct {
	Amount        decimal.Decimal `json:"amount"`
	Entity        string          `json:"entity"`
	Concept       string          `json:"concept"`
	PaymentDate   string          `json:"paymentDate"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientNumber  string          `json:"clientNumber"`
}

// CardStatementRecord is the schema extracted from a credit card statement.
type CardStatementRecord struct {
	Bank           string              `json:"bank"`
	CardNumber     string              `json:"cardNumber"` // masked, last four at most
	Holder         string              `json:"holder"`
	DueDate        string              `json:"dueDate"`
	ClosingDate    string              `json:"closingDate"`
	MinimumPayment decimal.Decimal     `json:"minimumPayment"`
	Balance        decimal.Decimal     `json:"balance"`
	Movements      []StatementMovement `json:"movements"`
}

// StatementMovement is a single line item on a card statement.
type StatementMovement struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// PurchaseRecord is the schema extracted from a point-of-sale purchase receipt.
type PurchaseRecord struct {
	Amount        decimal.Decimal `json:"amount"`
	Merchant      string          `json:"merchant"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	TicketNumber  string          `json:"ticketNumber"`
}
