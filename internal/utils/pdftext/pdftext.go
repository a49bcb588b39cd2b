// Package pdftext performs a best-effort scrape of the text layer of a PDF by scanning
// the raw byte stream. It is not a PDF renderer: compressed or image-only documents
// yield little or nothing, and the caller is expected to treat an empty result as
// "no text context available" rather than an error.
package pdftext

import (
	"strings"
)

const minPlainRun = 6

// Extract collects parenthesized string literals (the uncompressed Tj/TJ operands) and
// plain printable runs from content, concatenated with spaces and truncated to maxLen
// runes. maxLen <= 0 means no limit.
func Extract(content []byte, maxLen int) string {
	var sb strings.Builder
	var plain []byte

	flushPlain := func() {
		if len(plain) >= minPlainRun && looksLikeText(plain) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.Write(plain)
		}
		plain = plain[:0]
	}

	for i := 0; i < len(content); i++ {
		c := content[i]

		if c == '(' {
			flushPlain()
			literal, next := readLiteral(content, i+1)
			if len(literal) > 0 && looksLikeText(literal) {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.Write(literal)
			}
			i = next
			continue
		}

		if isPrintable(c) {
			plain = append(plain, c)
		} else {
			flushPlain()
		}
	}
	flushPlain()

	text := sb.String()
	if maxLen > 0 {
		runes := []rune(text)
		if len(runes) > maxLen {
			text = string(runes[:maxLen])
		}
	}
	return text
}

// readLiteral consumes a parenthesized PDF string starting just after the opening
// parenthesis and returns its printable content plus the index of the closing byte.
// Nested parentheses and backslash escapes follow the PDF string syntax.
func readLiteral(content []byte, start int) ([]byte, int) {
	var out []byte
	depth := 1
	i := start
	for ; i < len(content); i++ {
		c := content[i]
		switch c {
		case '\\':
			if i+1 < len(content) {
				i++
				if isPrintable(content[i]) {
					out = append(out, content[i])
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out, i
			}
			out = append(out, c)
		default:
			if isPrintable(c) {
				out = append(out, c)
			}
		}
	}
	return out, i
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c < 0x7F
}

// looksLikeText rejects runs that are mostly PDF operators or hex soup: at least a third
// of the bytes must be letters.
func looksLikeText(run []byte) bool {
	letters := 0
	for _, c := range run {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			letters++
		}
	}
	return letters*3 >= len(run)
}
