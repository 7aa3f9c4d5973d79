package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/voxnote/voxnote/internal/notify"
	"github.com/voxnote/voxnote/internal/session"
	"github.com/voxnote/voxnote/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if n := m.center.Current(); n != nil {
		sections = append(sections, renderNotification(n))
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("VOXNOTE")
	category := ui.DimStyle.Render(" — category: ") + ui.CategoryStyle.Render(string(m.session.Category))

	var file string
	if f := m.session.File; f != nil {
		file = ui.DimStyle.Render(fmt.Sprintf("  %s (%s)", f.Name, humanize.IBytes(uint64(f.SizeBytes))))
	}

	return title + category + file
}

func (m Model) renderStatusBar() string {
	stage := m.session.Stage

	var dot string
	switch {
	case stage.Busy():
		dot = ui.BusyDotStyle.Render("● " + strings.ToUpper(stage.String()))
	case stage == session.StageSummarized || stage == session.StageTranscribed:
		dot = ui.DoneDotStyle.Render("● " + strings.ToUpper(stage.String()))
	default:
		dot = ui.IdleDotStyle.Render("○ " + strings.ToUpper(stage.String()))
	}

	var hint string
	switch stage {
	case session.StageTranscribing:
		hint = "  " + ui.DimStyle.Render("Uploading audio and transcribing...")
	case session.StageSummarizing:
		hint = "  " + ui.DimStyle.Render("Generating summary and notes...")
	}

	return dot + hint
}

func renderNotification(n *notify.Notification) string {
	switch n.Severity {
	case notify.Success:
		return ui.NotifySuccessStyle.Render("✓ ") + ui.NotifySuccessStyle.Render(n.Text)
	case notify.Error:
		return ui.NotifyErrorStyle.Render("✗ ") + ui.NotifyErrorStyle.Render(n.Text)
	default:
		return ui.NotifyInfoStyle.Render("· " + n.Text)
	}
}

func (m Model) renderMainContent() string {
	fileW := m.filePanelWidth()
	contentW := m.contentPanelWidth()
	contentH := m.contentVisibleLines()

	filePanel := m.renderFilePanel(fileW, contentH)
	contentPanel := m.renderContentPanel(contentW, contentH)

	divider := ui.DividerStyle.Render("│")

	fileLines := strings.Split(filePanel, "\n")
	contentLines := strings.Split(contentPanel, "\n")

	var rows []string
	for i := 0; i < contentH; i++ {
		fl := strings.Repeat(" ", fileW)
		if i < len(fileLines) {
			fl = padRight(fileLines[i], fileW)
		}
		cl := ""
		if i < len(contentLines) {
			cl = contentLines[i]
		}
		rows = append(rows, fl+divider+cl)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderFilePanel(width, height int) string {
	var lines []string
	lines = append(lines, padRight(ui.PanelTitleStyle.Render(fmt.Sprintf("FILES (%d)", len(m.entries))), width))

	switch {
	case !m.filesOK:
		lines = append(lines, ui.DimStyle.Render("  Audio directory unavailable"))
	case len(m.entries) == 0:
		lines = append(lines, ui.DimStyle.Render("  No files found"))
		lines = append(lines, ui.DimStyle.Render("  Drop audio into "+m.cfg.Audio.Dir))
	default:
		for i, e := range m.entries {
			label := fmt.Sprintf("%s  %s", e.Name, humanize.IBytes(uint64(e.SizeBytes)))
			var line string
			switch {
			case i == m.cursor:
				line = ui.SelectedStyle.Render("> " + label)
			case m.session.File != nil && m.session.File.Path == e.Path:
				line = "* " + label
			default:
				line = "  " + label
			}
			lines = append(lines, truncateToWidth(line, width))
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderContentPanel(width, height int) string {
	var lines []string

	switch {
	case m.session.Summary != "":
		lines = append(lines, ui.PanelTitleStyle.Render("SUMMARY"))
		for _, l := range wrapText(ui.Sanitize(m.session.Summary), width-2) {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "")
		lines = append(lines, ui.PanelTitleStyle.Render("NOTES"))
		for _, note := range m.session.Notes {
			wrapped := wrapText(ui.Sanitize(note), width-4)
			lines = append(lines, "  "+ui.NoteBulletStyle.Render("•")+" "+wrapped[0])
			for _, wl := range wrapped[1:] {
				lines = append(lines, "    "+wl)
			}
		}

	case m.session.Transcript != "":
		lines = append(lines, ui.PanelTitleStyle.Render("TRANSCRIPT"))
		for _, l := range wrapText(ui.Sanitize(m.session.Transcript), width-2) {
			lines = append(lines, "  "+l)
		}

	case m.session.Stage == session.StageFileSelected || m.session.Stage == session.StageTranscribing:
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Press t to transcribe the selected file"))

	default:
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Select an audio file with j/k and Enter"))
	}

	if len(lines) > height {
		// Keep the tail visible; long transcripts overflow from the top.
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var parts []string

	key := func(k, desc string, enabled bool) string {
		if enabled {
			return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
		}
		return ui.FooterKeyOffStyle.Render(k + " " + desc)
	}

	parts = append(parts, key("Enter", "Select", len(m.entries) > 0))
	parts = append(parts, key("t", "Transcribe", m.session.CanTranscribe()))
	parts = append(parts, key("s", "Summarize", m.session.CanSummarize()))
	parts = append(parts, key("c", "Category", true))
	parts = append(parts, key("r", "Reset", true))
	parts = append(parts, key("q", "Quit", true))

	return strings.Join(parts, "  ")
}

func (m Model) filePanelWidth() int {
	if m.width == 0 {
		return 30
	}
	return max(20, m.width*35/100)
}

func (m Model) contentPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.filePanelWidth()-1)
}

func (m Model) contentVisibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + dividers(2) + notification(1) + footer(1)
	return max(5, m.height-6)
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
