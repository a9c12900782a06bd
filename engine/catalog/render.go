package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Highlight used for thumbnails without a matching pose.
const invalidColour = "#CC3333"

type styles struct {
	title   lipgloss.Style
	cell    lipgloss.Style
	valid   lipgloss.Style
	invalid lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true),
		cell:    r.NewStyle().Width(20).Bold(true),
		valid:   r.NewStyle(),
		invalid: r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(invalidColour)),
		faint:   r.NewStyle().Faint(true),
	}
}

// Render writes the grid of applicable poses followed by the full thumbnail list.
func (c *Catalog) Render(w io.Writer) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	switch {
	case !c.HasLibrary():
		b.WriteString(st.invalid.Render("No pose file found in the assets folder"))
		b.WriteString("\n")
	case c.store.IsEmpty():
		b.WriteString(st.invalid.Render(fmt.Sprintf("Pose file %s defines no poses", c.store.Path())))
		b.WriteString("\n")
	}

	valid := c.Valid()
	b.WriteString(st.title.Render(fmt.Sprintf("Poses (%d of %d thumbnails applicable)", len(valid), len(c.entries))))
	b.WriteString("\n")
	for row := 0; row < c.Rows(); row++ {
		cells := []string{}
		for _, e := range valid {
			if e.Row == row {
				cells = append(cells, st.cell.Render(e.Name))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	if len(c.entries) > 0 {
		b.WriteString("\n")
		b.WriteString(st.title.Render("Thumbnails"))
		b.WriteString("\n")
	}
	for _, e := range c.entries {
		if e.Valid {
			b.WriteString(st.valid.Render("  " + e.Name))
			b.WriteString("\n")
			continue
		}
		line := "  " + e.Name + " (not in pose file)"
		if e.Suggestion != "" {
			line += fmt.Sprintf(" did you mean %s?", e.Suggestion)
		}
		b.WriteString(st.invalid.Render(line))
		b.WriteString("\n")
	}

	if len(c.orphans) > 0 {
		b.WriteString("\n")
		b.WriteString(st.faint.Render("Poses without thumbnail: " + strings.Join(c.orphans, ", ")))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
