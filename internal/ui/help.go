package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	inputtypes "pathgrip/internal/ui/input/types"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// previewPagerMsg contains the result of a file preview
type previewPagerMsg struct {
	path string
	err  error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys inputtypes.KeyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys inputtypes.KeyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent renders the help page shown in the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("pathgrip Help"))
	help.WriteString("\n")

	section := func(title string, bindings []key.Binding) {
		help.WriteString(sectionStyle.Render(title))
		help.WriteString("\n")
		for _, b := range bindings {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", h.Key)), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	full := r.keys.FullHelp()
	section("Suggestions", full[0])
	section("Prompt", full[1])

	help.WriteString(sectionStyle.Render("Completion"))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Paths are separated by commas, semicolons or new lines."))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Suggestions appear once the path under the cursor has two characters."))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Inserting a suggestion replaces that path and adds \", \"."))

	return help.String()
}
