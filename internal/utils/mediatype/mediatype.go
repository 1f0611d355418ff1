// Package mediatype maps staged files to MIME types.
//
// ExtensionDetector reproduces the seeder's historical heuristic: the type is
// taken from the filename extension alone. ContentDetector inspects the bytes
// instead and falls back to the extension table when the content is unknown.
package mediatype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultType is returned for extensions missing from the table.
const DefaultType = "image/png"

// Detection modes accepted by NewDetector.
const (
	ModeExtension = "extension"
	ModeContent   = "content"
)

// Detector resolves the MIME type of a staged file.
type Detector interface {
	Detect(filename string, data []byte) string
}

var extensionTable = map[string]string{
	".webp": "image/webp",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ExtensionDetector maps the filename extension through a fixed table.
type ExtensionDetector struct{}

// Detect implements Detector.
func (ExtensionDetector) Detect(filename string, _ []byte) string {
	return ByExtension(filename)
}

// ByExtension returns the MIME type for filename's extension.
func ByExtension(filename string) string {
	if t, ok := extensionTable[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return DefaultType
}

// ContentDetector sniffs the payload.
type ContentDetector struct{}

// Detect implements Detector.
func (ContentDetector) Detect(filename string, data []byte) string {
	m := mimetype.Detect(data)
	if m.Is("application/octet-stream") || m.Is("text/plain") {
		return ByExtension(filename)
	}
	return m.String()
}

// NewDetector returns the detector for mode. An empty mode selects extension matching.
func NewDetector(mode string) (Detector, error) {
	switch strings.ToLower(mode) {
	case "", ModeExtension:
		return ExtensionDetector{}, nil
	case ModeContent:
		return ContentDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown mime detection mode %q", mode)
	}
}
