package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_ParenthesizedLiterals(t *testing.T) {
	raw := []byte("%PDF-1.4\n1 0 obj\nBT (Factura Edesur) Tj (Total: 1234.50) Tj ET\n\x00\x01\x02")
	got := Extract(raw, 0)
	assert.Contains(t, got, "Factura Edesur")
	assert.Contains(t, got, "Total: 1234.50")
}

func TestExtract_EscapedAndNestedParens(t *testing.T) {
	raw := []byte(`(pago \(parcial\)) Tj (anidado (interno) fin) Tj`)
	got := Extract(raw, 0)
	assert.Contains(t, got, "pago (parcial)")
	assert.Contains(t, got, "anidado (interno) fin")
}

func TestExtract_PlainPrintableRuns(t *testing.T) {
	raw := append([]byte{0x00, 0x01}, []byte("Comprobante de transferencia bancaria")...)
	raw = append(raw, 0xFF, 0xFE)
	got := Extract(raw, 0)
	assert.Contains(t, got, "Comprobante de transferencia bancaria")
}

func TestExtract_SkipsOperatorSoup(t *testing.T) {
	// Mostly digits and operators: should not survive the letter-density check.
	raw := []byte("0.24 0 0 0.24 91 740 cm 1 0 0 1 0 0")
	got := Extract(raw, 0)
	assert.NotContains(t, got, "740")
}

func TestExtract_Truncation(t *testing.T) {
	raw := []byte("(abcdefghij klmnopqrst uvwxyzabcd)")
	got := Extract(raw, 10)
	assert.Len(t, []rune(got), 10)
}

func TestExtract_EmptyInput(t *testing.T) {
	assert.Empty(t, Extract(nil, 100))
}
