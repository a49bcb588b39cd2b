package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    Kind
	}{
		{"pdf header", []byte("%PDF-1.7\n%âãÏÓ"), PDF},
		{"jpeg SOI marker", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, Image},
		{"png signature", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, Image},
		{"plain text defaults to image", []byte("hello world"), Image},
		{"short buffer defaults to image", []byte{0x01}, Image},
		{"empty buffer defaults to image", nil, Image},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.content))
		})
	}
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeType([]byte("%PDF-1.4")))
	assert.Equal(t, "image/png", MimeType([]byte{0x89, 0x50, 0x4E, 0x47}))
	assert.Equal(t, "image/jpeg", MimeType([]byte{0xFF, 0xD8, 0xFF}))
	// Unknown content is sent as JPEG, matching the image default of Detect.
	assert.Equal(t, "image/jpeg", MimeType([]byte("whatever")))
}
