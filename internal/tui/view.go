package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/jask/searchbot/internal/backend"
	"github.com/jask/searchbot/internal/pane"
)

const appTitle = "searchbot"

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	header := renderHeader(a)
	status := renderStatusBar(a)
	footer := renderFooter(a)
	available := max(0, a.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))

	var body string
	if available > 0 {
		body = lipgloss.NewStyle().Padding(0, 1).Render(a.renderBody(max(1, a.width-2), available))
	}
	body = fitHeight(body, available)
	view := strings.Join([]string{header, status, body, footer}, "\n")
	view = fitHeight(view, max(1, a.height))
	return appStyle.Width(max(1, a.width)).MaxWidth(max(1, a.width)).Render(view)
}

func (a *App) renderBody(width, height int) string {
	switch a.shell.Active() {
	case pane.TabImage:
		return a.renderImage(width)
	case pane.TabOCR:
		return a.renderOCR(width)
	case pane.TabChat:
		return a.renderChat(width, height)
	case pane.TabPDF:
		return a.renderPDF(width)
	}
	return a.renderSearch(width)
}

func (a *App) renderSearch(width int) string {
	s := a.shell.Search
	lines := []string{
		titleStyle.Render("Web search"),
		a.inputs[inputQuery].View(),
		button("Ask", "Thinking…", s.CanSubmit(), s.Loading),
	}
	if s.Err != nil {
		lines = append(lines, "", errorStyle.Render(wrap(pane.Describe(s.Err), width)))
	}
	if s.Answer != "" {
		lines = append(lines, "", wrap(s.Answer, width))
	}
	if src := s.SourceLines(); len(src) > 0 {
		lines = append(lines, "", labelStyle.Render("Sources"))
		for i, l := range src {
			lines = append(lines, wrap(hyperlink(s.Sources[i], l), width))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderImage(width int) string {
	m := a.shell.Image
	buttons := button("Generate", "Generating…", m.CanSubmit(), m.Loading) + " " +
		button("Clear", "Clear", len(m.Images) > 0, false)
	lines := []string{
		titleStyle.Render("Text to image"),
		a.inputs[inputPrompt].View(),
		buttons,
	}
	if m.Err != nil {
		lines = append(lines, "", errorStyle.Render(wrap(pane.Describe(m.Err), width)))
	}
	for i, img := range m.Images {
		size := humanize.Bytes(uint64(len(img.Base64) * 3 / 4))
		lines = append(lines, "",
			successStyle.Render(fmt.Sprintf("Image %d", i+1))+labelStyle.Render(" · PNG · ~"+size),
			labelStyle.Render(ansi.Truncate(img.DataURI(), width, "…")))
	}
	if len(m.Images) > 0 {
		lines = append(lines, "", labelStyle.Render("ctrl+s saves to "+a.cfg.Images.Dir))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderOCR(width int) string {
	o := a.shell.OCR
	lines := []string{
		titleStyle.Render("Upload an image (JPG/PNG)"),
		a.inputs[inputOCRPath].View(),
		button("Run OCR", "Reading…", !o.Loading && a.pathValue(inputOCRPath) != "", o.Loading),
	}
	if o.File != nil {
		lines = append(lines, labelStyle.Render(fileLabel(*o.File)))
	}
	if o.Err != nil {
		lines = append(lines, "", errorStyle.Render(wrap(pane.Describe(o.Err), width)))
	}
	if o.Text != "" {
		lines = append(lines, "", blockStyle.Width(max(4, width-2)).Render(o.Text))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderChat(width, height int) string {
	c := a.shell.Chat
	head := []string{
		titleStyle.Render("Chat") + " " + badgeStyle.Render("session "+c.SessionLabel()),
		a.inputs[inputMessage].View(),
		button("Send", "Thinking…", c.CanSubmit(), c.Loading),
	}
	if c.Err != nil {
		head = append(head, errorStyle.Render(wrap(pane.Describe(c.Err), width)))
	}
	transcript := wrap(strings.Trim(c.Transcript.String(), "\n"), max(1, width-4))
	room := max(1, height-len(head)-3)
	box := blockStyle.Width(max(4, width-2)).Render(tailLines(transcript, room))
	return strings.Join(append(head, box), "\n")
}

func (a *App) renderPDF(width int) string {
	p := a.shell.PDF
	marker := func(f inputField) string {
		if a.pdfField == f {
			return titleStyle.Render("▸ ")
		}
		return "  "
	}
	lines := []string{
		titleStyle.Render("1) Upload a PDF → 2) Ask about its content"),
		"",
		marker(inputPDFPath) + a.inputs[inputPDFPath].View(),
		"  " + button("Upload & Index", "Uploading & indexing…", !p.Busy() && a.pathValue(inputPDFPath) != "", p.Uploading),
	}
	if p.File != nil {
		lines = append(lines, "  "+labelStyle.Render(fileLabel(*p.File)))
	}
	if p.Status != "" && !p.Uploading {
		style := errorStyle
		if strings.HasPrefix(p.Status, "Indexed") {
			style = successStyle
		}
		lines = append(lines, "  "+style.Render(wrap(p.Status, width-2)))
	}
	if p.State() == pane.Indexed {
		lines = append(lines, "  "+badgeStyle.Render("doc_id "+p.DocID))
	}
	lines = append(lines,
		"",
		marker(inputQuestion)+a.inputs[inputQuestion].View(),
		"  "+button("Ask", "Thinking…", p.CanAsk(), p.Asking),
	)
	if p.Answer != "" {
		lines = append(lines, "", wrap(p.Answer, width))
	}
	if cited := p.CitedLabel(); cited != "" && !p.Asking {
		lines = append(lines, labelStyle.Render(cited))
	}
	return strings.Join(lines, "\n")
}

func button(label, busyLabel string, enabled, busy bool) string {
	switch {
	case busy:
		return busyStyle.Render(busyLabel)
	case enabled:
		return buttonStyle.Render(label)
	default:
		return buttonOffStyle.Render(label)
	}
}

// hyperlink makes label an OSC 8 link to url in terminals that support it.
func hyperlink(url, label string) string {
	return ansi.SetHyperlink(url) + label + ansi.ResetHyperlink()
}

func fileLabel(up backend.Upload) string {
	return fmt.Sprintf("%s · %s · %s", filepath.Base(up.Name), up.ContentType, humanize.Bytes(uint64(len(up.Data))))
}

func renderHeader(a *App) string {
	tabs := make([]string, 0, len(pane.Tabs()))
	for i, t := range pane.Tabs() {
		label := fmt.Sprintf("%d:%s", i+1, t.Title())
		if t == a.shell.Active() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	left := headerAppStyle.Render(" " + appTitle)
	right := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))
	right = ansi.Truncate(right, max(1, a.width), "")
	leftW := ansi.StringWidth(left)
	rightW := ansi.StringWidth(right)
	gap := 1
	if leftW+rightW+1 < a.width {
		gap = a.width - leftW - rightW
	}
	return renderBar(headerBarStyle, max(1, a.width), left+strings.Repeat(" ", gap)+right, colorMantle)
}

func renderStatusBar(a *App) string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrBarStyle, max(1, a.width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, a.width), msg, colorSurface0)
}

func renderFooter(a *App) string {
	bindings := a.keys.BindingsForScope(a.scope())
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		label := b.Help
		if label == "" {
			label = b.Keys[0]
		}
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Description))
		h := kb.Help()
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	return renderBar(footerStyle, max(1, a.width), strings.Join(parts, sep), bg)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Background(bg).Width(width).MaxWidth(width).Render(line)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wrap(s, width, "")
}

func tailLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func fitHeight(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
