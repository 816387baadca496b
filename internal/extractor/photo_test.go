package extractor

import (
	"bytes"
	"testing"
)

func TestExtractPhotoEXIFNoBlock(t *testing.T) {
	t.Parallel()

	// A minimal JPEG header with no EXIF APP1 segment.
	jpegStub := append([]byte{0xFF, 0xD8, 0xFF, 0xDB}, bytes.Repeat([]byte{0x00}, 64)...)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"plain text", []byte("not an image at all")},
		{"jpeg without exif", jpegStub},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractPhotoEXIF(tt.data); got != nil {
				t.Errorf("ExtractPhotoEXIF() = %v, want nil", got)
			}
		})
	}
}
