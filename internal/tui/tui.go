// Package tui is the interactive terminal front end: a monitor preview, the
// wallpaper list and a thumbnail of the highlighted wallpaper.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/1broseidon/walltile/internal/app"
	"github.com/1broseidon/walltile/internal/viewmodel"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run shows the TUI for a until the user quits or ctx is cancelled. The
// caller runs a's workers.
func Run(ctx context.Context, a *app.App) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newRootModel(a), tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the program reads the message, and Update itself
	// publishes selection changes, so forward from a separate goroutine.
	sub := a.Presentation().Subscribe(func(c viewmodel.Change) {
		go p.Send(changeMsg(c))
	})
	defer sub.Unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
