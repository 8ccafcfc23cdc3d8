// Package document turns an outline plan into a Word document and an HTML preview.
package document

import "comply_desk/generator"

// DefaultTitle is used when the request carries no product name.
const DefaultTitle = "Comply-Desk Compliance Kit"

// Headings for the fixed top-level outline fields.
const (
	HeadingSummary        = "Summary"
	HeadingImplementation = "Implementation plan"
	HeadingNotes          = "Notes & disclaimer"
)

// Style is the paragraph style a block is rendered with.
type Style string

const (
	StyleTitle    Style = "Title"
	StyleHeading1 Style = "Heading1"
	StyleHeading2 Style = "Heading2"
	StyleBody     Style = "Normal"
	StyleBullet   Style = "ListBullet"
)

// Meta carries the request fields the document needs besides the plan.
type Meta struct {
	ProductName  string
	BusinessName string
}

// Paragraph is one block of the rendered document.
type Paragraph struct {
	Style Style
	Text  string
}

// Layout maps a plan to the ordered paragraph list of the document.
// Absent fields produce no paragraphs.
func Layout(plan generator.OutlinePlan, meta Meta) []Paragraph {
	title := meta.ProductName
	if title == "" {
		title = DefaultTitle
	}
	forLine := ""
	if meta.BusinessName != "" {
		forLine = "For: " + meta.BusinessName
	}

	out := []Paragraph{
		{Style: StyleTitle, Text: title},
		{Style: StyleBody, Text: forLine},
		{Style: StyleBody},
	}

	if plan.Summary != "" {
		out = append(out,
			Paragraph{Style: StyleHeading1, Text: HeadingSummary},
			Paragraph{Style: StyleBody, Text: plan.Summary})
	}

	for _, s := range plan.Sections {
		if s.Title != "" {
			out = append(out, Paragraph{Style: StyleHeading2, Text: s.Title})
		}
		if s.Description != "" {
			out = append(out, Paragraph{Style: StyleBody, Text: s.Description})
		}
		for _, item := range s.Items {
			out = append(out, Paragraph{Style: StyleBullet, Text: item})
		}
	}

	if plan.Implementation != "" {
		out = append(out,
			Paragraph{Style: StyleHeading2, Text: HeadingImplementation},
			Paragraph{Style: StyleBody, Text: plan.Implementation})
	}

	if plan.Notes != "" || plan.Disclaimer != "" {
		out = append(out, Paragraph{Style: StyleHeading2, Text: HeadingNotes})
		if plan.Notes != "" {
			out = append(out, Paragraph{Style: StyleBody, Text: plan.Notes})
		}
		if plan.Disclaimer != "" {
			out = append(out, Paragraph{Style: StyleBody, Text: plan.Disclaimer})
		}
	}
	return out
}
