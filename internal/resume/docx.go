package resume

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Page margins in twentieths of a point.
const (
	marginTopBottom = 720  // 0.5"
	marginLeftRight = 1080 // 0.75"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + wordNS + `">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:after="60"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/><w:color w:val="17365D"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="80"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/><w:color w:val="365F91"/></w:rPr></w:style>
</w:styles>`

// DOCXWriter writes a minimal WordprocessingML package: the name as a
// centered title, a centered contact line, and Heading1 sections.
type DOCXWriter struct{}

// Write implements Writer.
func (DOCXWriter) Write(w io.Writer, doc Document) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", DocumentXML(doc)},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return &RenderError{Format: "docx", Message: "failed to create " + part.name, Cause: err}
		}
		if _, err := io.WriteString(f, part.content); err != nil {
			return &RenderError{Format: "docx", Message: "failed to write " + part.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &RenderError{Format: "docx", Message: "failed to finish package", Cause: err}
	}
	return nil
}

// DocumentXML renders word/document.xml for doc.
func DocumentXML(doc Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)

	writeParagraph(&b, "Title", true, para(Run{Text: doc.Name}))
	if doc.Contact != "" {
		writeParagraph(&b, "", true, plain(doc.Contact))
	}
	for _, s := range doc.Sections {
		writeParagraph(&b, "Heading1", false, plain(s.Heading))
		for _, p := range s.Paragraphs {
			writeParagraph(&b, "", false, p)
		}
	}

	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		marginTopBottom, marginLeftRight, marginTopBottom, marginLeftRight)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, style string, center bool, p Paragraph) {
	b.WriteString("<w:p>")
	if style != "" || center {
		b.WriteString("<w:pPr>")
		if style != "" {
			fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, style)
		}
		if center {
			b.WriteString(`<w:jc w:val="center"/>`)
		}
		b.WriteString("</w:pPr>")
	}
	for _, r := range p.Runs {
		b.WriteString("<w:r>")
		if r.Bold {
			b.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		if r.Break {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escapeXML(r.Text))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p>")
}

// escapeXML escapes text for element content.
func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
