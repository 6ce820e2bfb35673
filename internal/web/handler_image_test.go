package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   string
		wantOK bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg", true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png", true},
		{"gif", []byte("GIF89a"), "image/gif", true},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...), "image/webp", true},
		{"riff wave", append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...), "", false},
		{"html", []byte("<!DOCTYPE html><html></html>"), "", false},
		{"pdf", []byte("%PDF-1.4 not an image"), "", false},
		{"bmp", []byte("BM\x00\x00\x00\x00"), "", false},
		{"empty", []byte{}, "", false},
		{"short riff", []byte("RIFF"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
