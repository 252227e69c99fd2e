package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Type
	}{
		{"photo.jpg", TypeImage},
		{"photo.JPEG", TypeImage},
		{"diagram.svg", TypeImage},
		{"clip.mp4", TypeVideo},
		{"clip.MKV", TypeVideo},
		{"song.mp3", TypeAudio},
		{"song.m4a", TypeAudio},
		{"report.pdf", TypeDocument},
		{"sheet.xlsx", TypeDocument},
		{"archive.tar", TypeOther},
		{"binary", TypeOther},
		{"trailing.", TypeOther},
		{"", TypeOther},
		{".hidden", TypeOther},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.filename))
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
		// no TB unit: anything at terabyte scale stays in GB
		{2 * 1024 * 1024 * 1024 * 1024, "2048.00 GB"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatSize(tc.n))
		})
	}
}
