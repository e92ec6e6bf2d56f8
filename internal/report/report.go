// Package report turns resolved cities into a markdown reading, renders it
// for the terminal and exports it to disk.
package report

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/astroguide/internal/resolver"
	"github.com/mark3labs/astroguide/internal/wizard"
)

// Reading is everything needed to describe one result.
type Reading struct {
	Outcome   resolver.Outcome
	AvatarID  string
	CreatedAt time.Time
}

// Title returns the heading used for the document and its file name.
func (r Reading) Title() string {
	title := "Astrocartography reading"
	if opt, ok := wizard.FocusOptionFor(r.Outcome.Focus); ok {
		title = opt.Title + " reading"
	}
	return fmt.Sprintf("%s %s", title, r.CreatedAt.Format("2006-01-02"))
}

// Summary is a one-line description for index tables.
func (r Reading) Summary() string {
	names := make([]string, len(r.Outcome.Cities))
	for i, c := range r.Outcome.Cities {
		names[i] = c.City
	}
	return fmt.Sprintf("%s: %s", r.Outcome.Planet, strings.Join(names, ", "))
}

// Markdown renders the reading as a markdown document.
func Markdown(r Reading) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title())

	if avatar, ok := wizard.AvatarByID(r.AvatarID); ok {
		fmt.Fprintf(&b, "Guided by **%s** %s\n\n", avatar.Name, avatar.Symbol)
	}
	if opt, ok := wizard.FocusOptionFor(r.Outcome.Focus); ok {
		fmt.Fprintf(&b, "%s. Ruling planet: **%s**.\n\n", opt.Description, r.Outcome.Planet)
	}

	b.WriteString("| # | City | Country | Population | Distance | Orb |\n")
	b.WriteString("|---|------|---------|-----------:|---------:|----:|\n")
	for i, c := range r.Outcome.Cities {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s° |\n",
			i+1,
			escapeCell(c.City),
			escapeCell(c.Country),
			resolver.FormatPopulation(c.Population),
			resolver.FormatDistance(c.DistanceKm),
			resolver.FormatOrb(c.Orb),
		)
	}

	b.WriteString("\nA smaller orb means a stronger planetary influence.\n")

	if actions := wizard.InsightsFor(r.Outcome.Focus); len(actions) > 0 {
		b.WriteString("\n## Recommended Actions\n\n")
		for _, in := range actions {
			fmt.Fprintf(&b, "- **%s** (%s): %s. <%s>\n", in.Title, in.Platform, in.Description, in.Link)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// Render renders markdown for a terminal of the given width.
// Falls back to the raw markdown if rendering fails.
func Render(content string, width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// EditorCommand returns the command that opens path in the user's $EDITOR.
func EditorCommand(path string) (*exec.Cmd, error) {
	cmd, err := editor.Command("astroguide", path)
	if err != nil {
		return nil, fmt.Errorf("preparing editor: %w", err)
	}
	return cmd, nil
}
