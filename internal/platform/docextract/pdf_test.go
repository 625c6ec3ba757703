package docextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a minimal uncompressed PDF with one text page per entry,
// computing the xref offsets as objects are emitted.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	n := len(pages)
	fontObj := 3 + 2*n
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), n))
	for i := range pages {
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			3+i, fontObj, 3+n+i))
	}
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			3+n+i, len(stream), stream))
	}
	writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj))

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", fontObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", fontObj+1, xrefPos)
	return buf.Bytes()
}

func TestExtract_MultiPagePDF(t *testing.T) {
	e := NewPDFExtractor()
	doc, err := e.Extract(context.Background(), buildPDF([]string{"AlphaPageOne", "BetaPageTwo"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", doc.Pages)
	}

	first := strings.Index(doc.Text, "AlphaPageOne")
	second := strings.Index(doc.Text, "BetaPageTwo")
	if first < 0 || second < 0 {
		t.Fatalf("expected text from both pages, got %q", doc.Text)
	}
	if first > second {
		t.Errorf("expected page text in page order, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "\n") {
		t.Errorf("expected pages joined with a newline, got %q", doc.Text)
	}
}

func TestExtract_RejectsNonPDF(t *testing.T) {
	e := NewPDFExtractor()
	for _, data := range [][]byte{
		[]byte("hello world"),
		[]byte("{\"not\": \"a pdf\"}"),
		{0x89, 0x50, 0x4E, 0x47}, // PNG magic
		{},
	} {
		_, err := e.Extract(context.Background(), data)
		if !errors.Is(err, ErrNotPDF) {
			t.Errorf("expected ErrNotPDF for %q, got %v", data, err)
		}
	}
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := NewPDFExtractor()
	// Valid magic bytes followed by garbage: the parser must fail, and the
	// failure must be classified as an extraction error, not a format error.
	_, err := e.Extract(context.Background(), []byte("%PDF-1.7\ngarbage that is not a pdf body"))
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
	if errors.Is(err, ErrNotPDF) {
		t.Error("corrupt PDF must not be classified as not-a-PDF")
	}
}

func TestExtract_TruncatedPDF(t *testing.T) {
	e := NewPDFExtractor()
	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("expected ErrExtraction for truncated file, got %v", err)
	}
}
