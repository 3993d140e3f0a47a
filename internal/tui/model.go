package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/model"
	"github.com/1broseidon/walltile/internal/viewmodel"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Thumbnail area in cells. Thumbnails are pre-rendered at this size.
const (
	ThumbCols = 32
	ThumbRows = 12
)

// changeMsg carries a presentation change into the program.
type changeMsg viewmodel.Change

// actionMsg reports the outcome of an action run as a command.
type actionMsg struct {
	text string
	err  error
}

// pickedMsg reports the outcome of the file picker.
type pickedMsg struct {
	wallpaper model.Wallpaper
	ok        bool
	err       error
}

// rootModel is the bubbletea model for the wallpaper manager.
type rootModel struct {
	app  *app.App
	snap viewmodel.Snapshot

	list list.Model

	// Path prompt, used when no file dialog is available.
	adding bool
	input  textinput.Model

	status    string
	statusErr bool

	width  int
	height int
}

func newRootModel(a *app.App) rootModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/wallpaper.jpg"
	ti.CharLimit = 4096

	m := rootModel{
		app:   a,
		list:  newWallpaperList(),
		input: ti,
	}
	m.refresh()
	return m
}

// refresh re-reads the presentation snapshot, keeping the highlighted
// wallpaper under the cursor when it still exists.
func (m *rootModel) refresh() {
	current, hasCurrent := m.highlighted()
	m.snap = m.app.Presentation().Snapshot()
	m.list.SetItems(buildWallpaperItems(m.snap.Wallpapers))

	if !hasCurrent {
		return
	}
	for i, w := range m.snap.Wallpapers {
		if w.ID == current.ID {
			m.list.Select(i)
			return
		}
	}
}

func (m rootModel) highlighted() (viewmodel.WallpaperView, bool) {
	item, ok := m.list.SelectedItem().(wallpaperItem)
	if !ok {
		return viewmodel.WallpaperView{}, false
	}
	return item.view, true
}

func (m *rootModel) setStatus(text string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = text
	m.statusErr = false
}

// Init implements tea.Model.
func (m rootModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), m.contentHeight())
		return m, nil

	case changeMsg:
		m.refresh()
		return m, nil

	case actionMsg:
		m.setStatus(msg.text, msg.err)
		m.refresh()
		return m, nil

	case pickedMsg:
		switch {
		case errors.Is(msg.err, app.ErrNoPicker):
			m.setStatus("no file dialog available, enter a path", nil)
			return m.startAdding()
		case msg.err != nil:
			m.setStatus("", msg.err)
		case msg.ok:
			m.setStatus("added "+msg.wallpaper.Filename(), nil)
		default:
			m.setStatus("add cancelled", nil)
		}
		m.refresh()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	pres := m.app.Presentation()
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		pres.SelectNext(1)
		m.refresh()
		return m, nil

	case "shift+tab":
		pres.SelectNext(-1)
		m.refresh()
		return m, nil

	case "K":
		return m, m.updateHighlighted(model.MoveUp())

	case "J":
		return m, m.updateHighlighted(model.MoveDown())

	case "f":
		w, ok := m.highlighted()
		if !ok {
			return m, nil
		}
		return m, m.updateHighlighted(model.SetFitting(w.Fitting.Next()))

	case "x", "delete":
		return m, m.updateHighlighted(model.Remove())

	case "enter":
		return m, m.applyHighlighted()

	case "a":
		return m, pickCmd(m.app)

	case "r":
		return m, refreshCmd(m.app)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m rootModel) startAdding() (tea.Model, tea.Cmd) {
	m.adding = true
	m.input.Reset()
	m.input.Focus()
	return m, textinput.Blink
}

func (m rootModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			m.adding = false
			m.input.Blur()
			if path == "" {
				return m, nil
			}
			return m, addCmd(m.app, path)
		case "esc":
			m.adding = false
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m rootModel) updateHighlighted(op model.Operation) tea.Cmd {
	w, ok := m.highlighted()
	if !ok {
		return nil
	}
	return updateCmd(m.app, w.ID, w.Filename, op)
}

func (m rootModel) applyHighlighted() tea.Cmd {
	w, ok := m.highlighted()
	if !ok {
		return nil
	}
	mon, ok := m.snap.SelectedMonitor()
	if !ok {
		return func() tea.Msg { return actionMsg{err: fmt.Errorf("no monitor selected")} }
	}
	return applyCmd(m.app, mon.ID, w.ID, w.Filename)
}

func updateCmd(a *app.App, id uuid.UUID, name string, op model.Operation) tea.Cmd {
	return func() tea.Msg {
		err := a.UpdateWallpaper(id, op)
		a.Presentation().Sync()
		return actionMsg{text: fmt.Sprintf("%s: %s", name, op), err: err}
	}
}

func applyCmd(a *app.App, monitorID string, id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		err := a.ApplyWallpaper(monitorID, id)
		return actionMsg{text: fmt.Sprintf("applied %s to %s", name, monitorID), err: err}
	}
}

func addCmd(a *app.App, path string) tea.Cmd {
	return func() tea.Msg {
		w, err := a.AddWallpaper(path, nil)
		a.Presentation().Sync()
		return actionMsg{text: "added " + w.Filename(), err: err}
	}
}

func pickCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		w, ok, err := a.PickWallpaper(context.Background())
		a.Presentation().Sync()
		return pickedMsg{wallpaper: w, ok: ok, err: err}
	}
}

func refreshCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		err := a.RefreshMonitors()
		a.Presentation().Sync()
		monitors, _ := a.State().Monitors()
		return actionMsg{text: fmt.Sprintf("%d monitors", len(monitors)), err: err}
	}
}
