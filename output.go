package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"comply_desk/catalog"
	"comply_desk/document"
)

var (
	colorInfo    = lipgloss.Color("#5FAFFF")
	colorError   = lipgloss.Color("#FF5F87")
	colorSuccess = lipgloss.Color("#00D787")
	colorMuted   = lipgloss.Color("#888888")
	colorAccent  = lipgloss.Color("#AF87FF")
)

var (
	styleTitle   = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	styleHeading = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
)

// styled reports whether stdout is a terminal worth colouring.
func styled() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

func render(s lipgloss.Style, text string) string {
	if !styled() {
		return text
	}
	return s.Render(text)
}

// printParagraphs writes a document layout to w, one block per line.
func printParagraphs(w io.Writer, paras []document.Paragraph) {
	for _, p := range paras {
		if p.Text == "" {
			continue
		}
		switch p.Style {
		case document.StyleTitle:
			fmt.Fprintln(w, render(styleTitle, p.Text))
			fmt.Fprintln(w)
		case document.StyleHeading1, document.StyleHeading2:
			fmt.Fprintln(w)
			fmt.Fprintln(w, render(styleHeading, p.Text))
		case document.StyleBullet:
			fmt.Fprintln(w, "  • "+strings.ReplaceAll(p.Text, "\n", "\n    "))
		default:
			fmt.Fprintln(w, p.Text)
		}
	}
}

func printCatalog(w io.Writer, products []catalog.Product) {
	for _, p := range products {
		line := render(styleTitle, p.Slug) + "  " + p.Name
		if p.Price != "" {
			line += "  " + render(styleMuted, p.Price)
		}
		if p.Badge != "" {
			line += "  " + render(styleSuccess, "["+p.Badge+"]")
		}
		fmt.Fprintln(w, line)
	}
}
