package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadParagraphs parses a .docx and returns its body paragraphs with their
// style ids. Unstyled paragraphs report StyleBody.
func ReadParagraphs(data []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: open: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, errors.New("docx: word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: open document part: %w", err)
	}
	defer rc.Close()
	return decodeBody(rc)
}

func decodeBody(r io.Reader) ([]Paragraph, error) {
	dec := xml.NewDecoder(r)
	var (
		out    []Paragraph
		cur    *Paragraph
		text   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parse document part: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &Paragraph{Style: StyleBody}
				text.Reset()
			case "pStyle":
				if cur != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							cur.Style = Style(a.Value)
						}
					}
				}
			case "t":
				inText = true
			case "br":
				if cur != nil {
					text.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText && cur != nil {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if cur != nil {
					cur.Text = text.String()
					out = append(out, *cur)
					cur = nil
				}
			}
		}
	}
}

// Headings returns the text of every Heading1/Heading2 paragraph in order.
func Headings(paras []Paragraph) []string {
	var out []string
	for _, p := range paras {
		if p.Style == StyleHeading1 || p.Style == StyleHeading2 {
			out = append(out, p.Text)
		}
	}
	return out
}
