package docs

import (
	"errors"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// Format selects how document content is rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "text", "markdown" or "" (text).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("invalid format %q, use text or markdown", s)
}

// Render returns the body of doc in the given format. Multi-tab documents
// render every tab in order, each introduced by its title. Plain text is
// trimmed of surrounding whitespace.
func Render(doc *docs.Document, format Format) (string, error) {
	if doc == nil {
		return "", errors.New("document is nil")
	}

	r := &renderer{markdown: format == FormatMarkdown}
	if len(doc.Tabs) > 0 {
		r.tabs(doc.Tabs, 0)
	} else if doc.Body != nil {
		r.body(doc.Body)
	}

	if r.markdown {
		return r.out.String(), nil
	}
	return strings.TrimSpace(r.out.String()), nil
}

type renderer struct {
	out      strings.Builder
	markdown bool
}

func (r *renderer) tabs(tabs []*docs.Tab, depth int) {
	for i, tab := range tabs {
		title := ""
		if tab.TabProperties != nil {
			title = tab.TabProperties.Title
		}
		// A lone untitled tab is an ordinary document.
		if title != "" || len(tabs) > 1 || depth > 0 {
			if title == "" {
				title = fmt.Sprintf("Tab %d", i+1)
			}
			r.tabHeading(title, depth)
		}
		if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
			r.body(tab.DocumentTab.Body)
		}
		r.tabs(tab.ChildTabs, depth+1)
	}
}

func (r *renderer) tabHeading(title string, depth int) {
	if r.markdown {
		r.out.WriteString(strings.Repeat("#", min(depth+2, 6)))
		r.out.WriteString(" ")
		r.out.WriteString(title)
		r.out.WriteString("\n\n")
		return
	}
	if r.out.Len() > 0 {
		r.out.WriteString("\n")
	}
	r.out.WriteString("=== ")
	r.out.WriteString(title)
	r.out.WriteString(" ===\n")
}

func (r *renderer) body(b *docs.Body) {
	for _, el := range b.Content {
		switch {
		case el.Paragraph != nil:
			r.paragraph(el.Paragraph)
		case el.Table != nil:
			r.table(el.Table)
		}
	}
}

func (r *renderer) paragraph(p *docs.Paragraph) {
	if !r.markdown {
		for _, el := range p.Elements {
			if el.TextRun != nil {
				r.out.WriteString(el.TextRun.Content)
			}
		}
		return
	}

	var line strings.Builder
	for _, el := range p.Elements {
		switch {
		case el.TextRun != nil:
			line.WriteString(markdownRun(el.TextRun))
		case el.InlineObjectElement != nil:
			line.WriteString("[inline object]")
		}
	}
	text := strings.TrimRight(line.String(), "\n")
	if text == "" {
		r.out.WriteString("\n")
		return
	}

	if level := headingLevel(p.ParagraphStyle); level > 0 {
		r.out.WriteString(strings.Repeat("#", level))
		r.out.WriteString(" ")
	} else if p.Bullet != nil {
		r.out.WriteString(strings.Repeat("  ", int(p.Bullet.NestingLevel)))
		r.out.WriteString("- ")
	}
	r.out.WriteString(text)
	r.out.WriteString("\n")
	if p.Bullet == nil {
		r.out.WriteString("\n")
	}
}

func headingLevel(style *docs.ParagraphStyle) int {
	if style == nil {
		return 0
	}
	switch style.NamedStyleType {
	case "TITLE", "HEADING_1":
		return 1
	case "SUBTITLE", "HEADING_2":
		return 2
	case "HEADING_3":
		return 3
	case "HEADING_4":
		return 4
	case "HEADING_5":
		return 5
	case "HEADING_6":
		return 6
	}
	return 0
}

func markdownRun(run *docs.TextRun) string {
	content := run.Content
	style := run.TextStyle
	if style == nil || strings.TrimSpace(content) == "" {
		return content
	}

	// Keep the trailing newline outside of any markup.
	trail := ""
	if strings.HasSuffix(content, "\n") {
		content = strings.TrimSuffix(content, "\n")
		trail = "\n"
	}

	switch {
	case style.Link != nil && style.Link.Url != "":
		return "[" + strings.TrimSpace(content) + "](" + style.Link.Url + ")" + trail
	case style.WeightedFontFamily != nil && strings.Contains(style.WeightedFontFamily.FontFamily, "Courier"):
		return "`" + strings.TrimSpace(content) + "`" + trail
	case style.Bold && style.Italic:
		return "***" + content + "***" + trail
	case style.Bold:
		return "**" + content + "**" + trail
	case style.Italic:
		return "*" + content + "*" + trail
	}
	return content + trail
}

func (r *renderer) table(t *docs.Table) {
	for rowIndex, row := range t.TableRows {
		cells := make([]string, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			cells = append(cells, cellText(cell))
		}

		if !r.markdown {
			r.out.WriteString(strings.Join(cells, "\t"))
			r.out.WriteString("\n")
			continue
		}

		r.out.WriteString("| ")
		r.out.WriteString(strings.Join(cells, " | "))
		r.out.WriteString(" |\n")
		if rowIndex == 0 {
			r.out.WriteString("|")
			r.out.WriteString(strings.Repeat(" --- |", len(cells)))
			r.out.WriteString("\n")
		}
	}
	if r.markdown {
		r.out.WriteString("\n")
	}
}

func cellText(cell *docs.TableCell) string {
	var parts []string
	for _, el := range cell.Content {
		if el.Paragraph == nil {
			continue
		}
		for _, pe := range el.Paragraph.Elements {
			if pe.TextRun == nil {
				continue
			}
			if s := strings.TrimSpace(pe.TextRun.Content); s != "" {
				parts = append(parts, strings.ReplaceAll(s, "\n", " "))
			}
		}
	}
	return strings.Join(parts, " ")
}
