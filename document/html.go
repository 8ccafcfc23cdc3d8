package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"

	"comply_desk/generator"
)

// HeadingTags maps heading styles to the HTML element used in outline
// previews. generate.js in the server package carries the same table.
var HeadingTags = map[Style]string{
	StyleTitle:    "h1",
	StyleHeading1: "h2",
	StyleHeading2: "h3",
}

// Markdown renders the outline as Markdown, following the same layout as the
// Word document. All plan text is escaped so it can never become markup.
func Markdown(plan generator.OutlinePlan, meta Meta) string {
	var b strings.Builder
	prevBullet := false
	for _, p := range Layout(plan, meta) {
		if p.Text == "" {
			continue
		}
		if prevBullet && p.Style != StyleBullet {
			b.WriteString("\n")
		}
		switch p.Style {
		case StyleTitle, StyleHeading1, StyleHeading2:
			level := int(HeadingTags[p.Style][1] - '0')
			b.WriteString(strings.Repeat("#", level) + " " + escapeLine(p.Text) + "\n\n")
		case StyleBullet:
			b.WriteString("- " + escapeBlock(p.Text, "  ") + "\n")
		default:
			b.WriteString(escapeBlock(p.Text, "") + "\n\n")
		}
		prevBullet = p.Style == StyleBullet
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// HTML converts the outline Markdown to an HTML fragment.
func HTML(plan generator.OutlinePlan, meta Meta) (string, error) {
	return mdToHTML(Markdown(plan, meta))
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// escapeLine backslash-escapes every ASCII punctuation character and folds
// line breaks into spaces, for single-line constructs such as headings.
func escapeLine(s string) string {
	return escapePunct(strings.Join(strings.Fields(s), " "))
}

// escapeBlock escapes s and keeps its non-blank lines as hard line breaks,
// indenting continuation lines by indent.
func escapeBlock(s, indent string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, escapePunct(line))
	}
	return strings.Join(lines, "\\\n"+indent)
}

func escapePunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
