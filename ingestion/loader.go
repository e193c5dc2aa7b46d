package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/unidoc/unioffice/v2/document"
	"github.com/unidoc/unioffice/v2/presentation"
	"github.com/xuri/excelize/v2"
)

// File is one uploaded document awaiting ingestion.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadDocuments extracts text documents from a file, dispatching on its
// declared content type with the extension as a fallback. Unsupported
// formats fail with ErrUnsupportedFormat; the caller treats this as a
// per-file failure, not a batch failure.
func LoadDocuments(ctx context.Context, file File) ([]schema.Document, error) {
	reader := bytes.NewReader(file.Data)

	switch normalizeFormat(file) {
	case "pdf":
		return documentloaders.NewPDF(reader, int64(len(file.Data))).Load(ctx)
	case "csv":
		return documentloaders.NewCSV(reader).Load(ctx)
	case "html":
		return documentloaders.NewHTML(reader).Load(ctx)
	case "text":
		return documentloaders.NewText(reader).Load(ctx)
	case "docx":
		return loadWord(file)
	case "xlsx":
		return loadSpreadsheet(file)
	case "pptx":
		return loadPresentation(file)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, file.Name, file.ContentType)
	}
}

// loadWord extracts paragraph text from a Word document, one line per
// paragraph.
func loadWord(file File) ([]schema.Document, error) {
	doc, err := document.Read(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var b strings.Builder
	for _, paragraph := range doc.Paragraphs() {
		for _, run := range paragraph.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteByte('\n')
	}

	return []schema.Document{{
		PageContent: b.String(),
		Metadata:    map[string]any{"source": file.Name},
	}}, nil
}

// loadSpreadsheet renders each sheet of an Excel workbook as one
// document, rows as lines with cells separated by " | ". Sheets whose
// rows cannot be read are skipped rather than failing the file.
func loadSpreadsheet(file File) ([]schema.Document, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	var docs []schema.Document
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			continue
		}
		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, " | "))
			b.WriteByte('\n')
		}
		docs = append(docs, schema.Document{
			PageContent: b.String(),
			Metadata:    map[string]any{"source": file.Name, "sheet": sheet},
		})
	}
	return docs, nil
}

// loadPresentation extracts the text content of a PowerPoint deck as a
// single document.
func loadPresentation(file File) ([]schema.Document, error) {
	deck, err := presentation.Read(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return nil, err
	}
	defer deck.Close()

	return []schema.Document{{
		PageContent: deck.ExtractText().Text(),
		Metadata:    map[string]any{"source": file.Name},
	}}, nil
}

func normalizeFormat(file File) string {
	contentType := file.ContentType
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	switch contentType {
	case "application/pdf":
		return "pdf"
	case "text/csv", "application/csv":
		return "csv"
	case "text/html":
		return "html"
	case "text/plain", "text/markdown":
		return "text"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return "xlsx"
	case "application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return "pptx"
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".pdf":
		return "pdf"
	case ".csv":
		return "csv"
	case ".html", ".htm":
		return "html"
	case ".txt", ".md":
		return "text"
	case ".docx":
		return "docx"
	case ".xlsx":
		return "xlsx"
	case ".pptx":
		return "pptx"
	}

	return ""
}
