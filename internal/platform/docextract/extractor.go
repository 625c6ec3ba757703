// Package docextract turns uploaded medical record files into plain text for
// order intake and care-plan prompts.
package docextract

import (
	"context"
	"errors"
)

var (
	// ErrNotPDF means the upload is not a PDF at all (wrong magic bytes).
	ErrNotPDF = errors.New("file is not a PDF")
	// ErrExtraction means the upload looked like a PDF but could not be
	// parsed (truncated, corrupt xref, bad streams).
	ErrExtraction = errors.New("failed to extract text from PDF")
)

// Document is the result of a successful extraction.
type Document struct {
	Pages int
	Text  string
}

// TextExtractor extracts plain text from an uploaded document. Implementations
// must return ErrNotPDF for non-PDF input and wrap ErrExtraction for parse
// failures so handlers can map them to distinct responses.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*Document, error)
}
