package docextract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// PDFExtractor extracts text from PDF files page by page. Pages are joined
// with a newline; pages without a text layer contribute an empty string, so
// a scanned-image PDF yields an empty Text with a nonzero page count.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (doc *Document, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}

	// The parser panics on some malformed files instead of returning an
	// error. Treat those the same as any other corrupt input.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	total := reader.NumPage()
	texts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		texts = append(texts, text)
	}

	return &Document{Pages: total, Text: strings.Join(texts, "\n")}, nil
}
