package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/1broseidon/walltile/internal/layout"
	"github.com/1broseidon/walltile/internal/termimage"
	"github.com/1broseidon/walltile/internal/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	canvasSel  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

const helpText = "tab/shift-tab: monitor  ↑/↓: wallpaper  K/J: move  f: fitting  x: remove  enter: apply  a: add  r: refresh  q: quit"

// Chrome: status bar, blank line, help bar.
const chromeLines = 3

func (m rootModel) contentHeight() int {
	h := m.height - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m rootModel) listWidth() int {
	w := m.width * 2 / 5
	if w < 24 {
		w = 24
	}
	return w
}

// View implements tea.Model.
func (m rootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	left := lipgloss.NewStyle().
		Width(m.listWidth()).
		Height(m.contentHeight()).
		Render(m.leftPane())

	rightWidth := m.width - m.listWidth()
	if rightWidth < 10 {
		rightWidth = 10
	}
	right := m.rightPane(rightWidth)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		"",
		dimStyle.Width(m.width).Padding(0, 1).Render(helpText),
	)
}

func (m rootModel) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d monitors", len(m.snap.Monitors)),
		fmt.Sprintf("%d wallpapers", len(m.snap.Wallpapers)),
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errStyle.Render(m.status))
		} else {
			parts = append(parts, m.status)
		}
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(strings.Join(parts, "  "))
}

func (m rootModel) leftPane() string {
	if !m.adding {
		return m.list.View()
	}
	prompt := lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Render("Add wallpaper:") + "\n" +
			m.input.View() + "\n" +
			dimStyle.Render("enter: confirm  esc: cancel"))
	listHeight := m.contentHeight() - lipgloss.Height(prompt)
	if listHeight < 1 {
		listHeight = 1
	}
	l := m.list
	l.SetSize(m.listWidth(), listHeight)
	return prompt + "\n" + l.View()
}

func (m rootModel) rightPane(width int) string {
	inner := width - 5
	if inner < 5 {
		inner = 5
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Monitors"))
	b.WriteString("\n\n")
	b.WriteString(m.monitorCanvas(inner, m.canvasHeight()))
	b.WriteString("\n")
	if mon, ok := m.snap.SelectedMonitor(); ok {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%s  %dx%d+%d+%d", mon.Name, mon.Width, mon.Height, mon.X, mon.Y)))
	} else {
		b.WriteString(dimStyle.Render("no monitors"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.wallpaperDetail())

	return lipgloss.NewStyle().
		Width(width).
		Height(m.contentHeight()).
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236")).
		Render(b.String())
}

func (m rootModel) canvasHeight() int {
	h := m.contentHeight() - ThumbRows - 9
	if h > 14 {
		h = 14
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m rootModel) monitorCanvas(width, height int) string {
	rects := make([]layout.PreviewRect, len(m.snap.Monitors))
	for i, mon := range m.snap.Monitors {
		rects[i] = mon.Preview
	}
	lines := layout.RenderCanvas(rects, m.snap.Selected, width, height)
	return canvasSel.Render(strings.Join(lines, "\n"))
}

func (m rootModel) wallpaperDetail() string {
	w, ok := m.highlighted()
	if !ok {
		return dimStyle.Render("No wallpapers. Press a to add one.")
	}

	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	field("File:", w.Filename)
	field("Size:", w.SizeLabel())
	field("Fitting:", w.Fitting.String())
	b.WriteString("\n")
	b.WriteString(m.thumbnail(w))
	return b.String()
}

func (m rootModel) thumbnail(w viewmodel.WallpaperView) string {
	entry, ok := m.app.Presentation().Thumbnail(w.ID)
	if !ok {
		return dimStyle.Render("loading…")
	}
	switch tex := entry.Texture.(type) {
	case string:
		return tex
	case image.Image:
		return termimage.Halfblocks(tex, ThumbCols, ThumbRows)
	}
	return ""
}
