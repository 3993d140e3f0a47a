package picker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

type terminalPicker struct {
	startDir string
}

// NewTerminal returns a picker that browses the filesystem in the terminal.
func NewTerminal() Picker {
	start, err := os.UserHomeDir()
	if err != nil {
		start = "."
	}
	return &terminalPicker{startDir: start}
}

func (p *terminalPicker) Pick(ctx context.Context, extensions []string) (string, error) {
	allowed := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			allowed = append(allowed, "."+ext)
		}
	}

	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title(Title).
				Description(strings.Join(allowed, " ")).
				CurrentDirectory(p.startDir).
				AllowedTypes(allowed).
				FileAllowed(true).
				DirAllowed(false).
				Picking(true).
				Value(&path),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("terminal picker: %w", err)
	}
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
