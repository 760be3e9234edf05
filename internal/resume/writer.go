package resume

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Writer serializes a Document.
type Writer interface {
	Write(w io.Writer, doc Document) error
}

// WriterFor picks a Writer from the output file extension.
func WriterFor(filename string) (Writer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCXWriter{}, nil
	case ".txt":
		return TextWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported resume format %q (use .docx or .txt)", filepath.Ext(filename))
	}
}

// TextWriter writes the document as UTF-8 plain text.
type TextWriter struct{}

// Write implements Writer.
func (TextWriter) Write(w io.Writer, doc Document) error {
	if _, err := io.WriteString(w, doc.PlainText()); err != nil {
		return &RenderError{Format: "text", Message: "failed to write", Cause: err}
	}
	return nil
}
