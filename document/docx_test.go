package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comply_desk/generator"
)

var exampleMeta = Meta{ProductName: "OSHA Compliance Essentials Kit", BusinessName: "Acme Co"}

func examplePlan() generator.OutlinePlan {
	return generator.OutlinePlan{
		Summary:    "S",
		Sections:   []generator.Section{{Title: "T", Items: []string{"a", "b"}}},
		Disclaimer: "D",
	}
}

func TestRenderExampleRoundTrip(t *testing.T) {
	data, err := Render(examplePlan(), exampleMeta)
	require.NoError(t, err)

	paras, err := ReadParagraphs(data)
	require.NoError(t, err)

	assert.Equal(t, []Paragraph{
		{Style: StyleTitle, Text: "OSHA Compliance Essentials Kit"},
		{Style: StyleBody, Text: "For: Acme Co"},
		{Style: StyleBody},
		{Style: StyleHeading1, Text: "Summary"},
		{Style: StyleBody, Text: "S"},
		{Style: StyleHeading2, Text: "T"},
		{Style: StyleBullet, Text: "a"},
		{Style: StyleBullet, Text: "b"},
		{Style: StyleHeading2, Text: "Notes & disclaimer"},
		{Style: StyleBody, Text: "D"},
	}, paras)
	assert.Equal(t, []string{"Summary", "T", "Notes & disclaimer"}, Headings(paras))
}

func TestLayoutFullPlanOrder(t *testing.T) {
	plan := generator.OutlinePlan{
		Summary: "sum",
		Sections: []generator.Section{
			{Title: "One", Description: "first", Items: []string{"x"}},
			{Title: "Two"},
		},
		Implementation: "impl",
		Notes:          "notes",
		Disclaimer:     "disc",
	}
	got := Headings(Layout(plan, exampleMeta))
	assert.Equal(t, []string{"Summary", "One", "Two", "Implementation plan", "Notes & disclaimer"}, got)
}

func TestLayoutSkipsAbsentFields(t *testing.T) {
	paras := Layout(generator.OutlinePlan{}, Meta{})
	require.Len(t, paras, 3)
	assert.Equal(t, Paragraph{Style: StyleTitle, Text: DefaultTitle}, paras[0])
	assert.Equal(t, Paragraph{Style: StyleBody}, paras[1])
	assert.Empty(t, Headings(paras))
}

func TestLayoutNotesWithoutDisclaimer(t *testing.T) {
	paras := Layout(generator.OutlinePlan{Notes: "n"}, exampleMeta)
	last := paras[len(paras)-2:]
	assert.Equal(t, []Paragraph{
		{Style: StyleHeading2, Text: HeadingNotes},
		{Style: StyleBody, Text: "n"},
	}, last)
}

func TestRenderIsDeterministic(t *testing.T) {
	a, err := Render(examplePlan(), exampleMeta)
	require.NoError(t, err)
	b, err := Render(examplePlan(), exampleMeta)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestRenderEscapesAndKeepsLineBreaks(t *testing.T) {
	raw := "<w:p>Tom & Jerry\n\"quoted\"\x01"
	data, err := Render(generator.FallbackPlan(raw), exampleMeta)
	require.NoError(t, err)

	paras, err := ReadParagraphs(data)
	require.NoError(t, err)

	var bullet string
	for _, p := range paras {
		if p.Style == StyleBullet {
			bullet = p.Text
		}
	}
	assert.Equal(t, "<w:p>Tom & Jerry\n\"quoted\"\uFFFD", bullet)
	assert.Equal(t, []string{"Summary", "Raw content", "Implementation plan", "Notes & disclaimer"}, Headings(paras))
}

func TestReadParagraphsRejectsNonDocx(t *testing.T) {
	_, err := ReadParagraphs([]byte("not a zip"))
	assert.Error(t, err)
}

func TestRenderContainsPackageParts(t *testing.T) {
	data, err := Render(examplePlan(), exampleMeta)
	require.NoError(t, err)
	for _, name := range []string{"[Content_Types].xml", "word/document.xml", "word/styles.xml", "word/numbering.xml"} {
		assert.True(t, strings.Contains(string(data), name), name)
	}
}
