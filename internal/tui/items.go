package tui

import (
	"fmt"

	"github.com/1broseidon/walltile/internal/viewmodel"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// wallpaperItem is a list item for one wallpaper.
type wallpaperItem struct {
	view viewmodel.WallpaperView
}

func (i wallpaperItem) Title() string { return i.view.Filename }

func (i wallpaperItem) Description() string {
	return fmt.Sprintf("Size: %s | %s", i.view.SizeLabel(), i.view.Fitting)
}

func (i wallpaperItem) FilterValue() string { return i.view.Filename }

func buildWallpaperItems(views []viewmodel.WallpaperView) []list.Item {
	items := make([]list.Item, len(views))
	for i, v := range views {
		items[i] = wallpaperItem{view: v}
	}
	return items
}

func newWallpaperList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Wallpapers"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
