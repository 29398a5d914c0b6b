// Package extract turns an uploaded document into best-effort raw text.
//
// Plain text files are read verbatim. Images and PDFs produce fixed
// placeholder text: real OCR and PDF parsing run outside this service and
// the downstream review step lets the user fill in what the placeholder
// cannot.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validation failures callers map to client errors.
var (
	ErrUnsupportedFile = errors.New("unsupported file extension")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
)

// MaxFileSize is the upload size ceiling, matching the storage bucket limit.
const MaxFileSize = 10 << 20 // 10 MB

// Format classifies a file by extension for the text-acquisition step.
type Format string

const (
	TXT   Format = "TXT"
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedExtensions holds the accepted upload extensions (without dot).
var AllowedExtensions = map[string]Format{
	"txt":  TXT,
	"pdf":  PDF,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
}

const (
	imagePlaceholder = "This is a placeholder for OCR text extraction from images"
	pdfPlaceholder   = "This is a placeholder for text extraction from PDFs"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ValidateFile enforces the closed extension set and the size ceiling before
// any byte is uploaded. Returns the normalized extension.
func ValidateFile(filename string, size int64) (string, error) {
	ext := NormalizeExt(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if size > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes over the %d limit", ErrFileTooLarge, size, int64(MaxFileSize))
	}
	return ext, nil
}

// Text produces raw text for a validated upload. The only failure mode is
// upstream I/O; given the bytes, this always succeeds.
func Text(filename string, data []byte) string {
	ext := NormalizeExt(filepath.Ext(filename))
	switch AllowedExtensions[ext] {
	case IMAGE:
		return imagePlaceholder
	case PDF:
		return pdfPlaceholder
	default:
		return string(data)
	}
}

// ContentType maps a normalized extension to the MIME type sent to storage.
func ContentType(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "text/plain"
	}
}
