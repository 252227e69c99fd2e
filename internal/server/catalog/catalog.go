// Package catalog projects raw object-store listings into the display
// metadata the client renders: name, classified type, human-readable size,
// upload date and an ephemeral download capability. Nothing here is
// persisted; every projection is recomputed from a fresh listing.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Type is the coarse file classification derived from the filename
// extension.
type Type string

const (
	TypeImage    Type = "image"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeDocument Type = "document"
	TypeOther    Type = "other"
)

var typeByExtension = map[string]Type{
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"bmp": TypeImage, "webp": TypeImage, "svg": TypeImage,

	"mp4": TypeVideo, "avi": TypeVideo, "mov": TypeVideo, "wmv": TypeVideo,
	"flv": TypeVideo, "webm": TypeVideo, "mkv": TypeVideo,

	"mp3": TypeAudio, "wav": TypeAudio, "flac": TypeAudio, "aac": TypeAudio,
	"ogg": TypeAudio, "m4a": TypeAudio,

	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"txt": TypeDocument, "rtf": TypeDocument, "odt": TypeDocument,
	"ppt": TypeDocument, "pptx": TypeDocument, "xls": TypeDocument,
	"xlsx": TypeDocument,
}

// Classify maps a filename to its display type by extension,
// case-insensitively. Files without an extension, or with an unknown one,
// are "other".
func Classify(filename string) Type {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return TypeOther
	}
	if t, ok := typeByExtension[strings.ToLower(filename[i+1:])]; ok {
		return t
	}
	return TypeOther
}

var sizeUnits = [...]string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with base-1024 scaling and two decimals.
// Zero is rendered as exactly "0 B". Sizes at or above a gigabyte stay in
// GB.
func FormatSize(n int64) string {
	if n == 0 {
		return "0 B"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}

// Entry is the projection of one stored object for display. DownloadURL is
// empty when signing failed for this object; the listing as a whole still
// succeeds.
type Entry struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Size              int64     `json:"size"`
	SizeFormatted     string    `json:"sizeFormatted"`
	Type              Type      `json:"type"`
	UploadDate        time.Time `json:"uploadDate"`
	DownloadURL       string    `json:"downloadUrl,omitempty"`
	DownloadExpiresAt time.Time `json:"downloadExpiresAt,omitzero"`
}
