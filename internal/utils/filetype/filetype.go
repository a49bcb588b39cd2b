// Package filetype determines the container format of an uploaded document from its
// leading bytes, independent of the declared filename.
package filetype

import "bytes"

// Kind is the detected container format of a document.
type Kind string

const (
	PDF   Kind = "pdf"
	Image Kind = "image"
)

var (
	pdfSignature  = []byte("%PDF")
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// Detect sniffs the first bytes of content and reports whether it is a PDF or an image.
// Unrecognized content is reported as an image: extraction prompts degrade more
// gracefully on an unexpected image than on a silently skipped PDF. Detect never fails.
func Detect(content []byte) Kind {
	switch {
	case bytes.HasPrefix(content, pdfSignature):
		return PDF
	case bytes.HasPrefix(content, jpegSignature):
		return Image
	case bytes.HasPrefix(content, pngSignature):
		return Image
	default:
		return Image
	}
}

// MimeType returns the MIME type to declare for content when sending it to the
// inference service.
func MimeType(content []byte) string {
	switch {
	case bytes.HasPrefix(content, pdfSignature):
		return "application/pdf"
	case bytes.HasPrefix(content, pngSignature):
		return "image/png"
	default:
		return "image/jpeg"
	}
}
