package resume

import (
	"bytes"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEndRE = regexp.MustCompile(`</w:p>`)
	lineBreakRE    = regexp.MustCompile(`<w:br\s*/>`)
	tagRE          = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText reads a .docx file and returns its body text with one line per
// paragraph. Empty paragraphs are dropped.
func ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &InspectError{Path: path, Cause: err}
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &InspectError{Path: path, Cause: err}
	}
	defer func() { _ = r.Close() }()

	return xmlToText(r.Editable().GetContent()), nil
}

func xmlToText(content string) string {
	content = paragraphEndRE.ReplaceAllString(content, "\n")
	content = lineBreakRE.ReplaceAllString(content, "\n")
	content = tagRE.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
