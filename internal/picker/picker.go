// Package picker asks the user for an image file, through a desktop dialog
// when one is installed and through a terminal form otherwise.
package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user dismisses the picker.
var ErrCancelled = errors.New("file picker cancelled")

// Picker returns the path of one chosen file.
type Picker interface {
	Pick(ctx context.Context, extensions []string) (string, error)
}

// Title is shown on every picker.
const Title = "Add wallpaper"

// runner executes a dialog command and returns its stdout and exit code.
type runner func(ctx context.Context, name string, args ...string) ([]byte, int, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), exitErr.ExitCode(), nil
	}
	if err != nil {
		return nil, -1, err
	}
	return stdout.Bytes(), 0, nil
}

// dialogPicker drives an external dialog program that prints the chosen path
// on stdout and exits 1 on cancel.
type dialogPicker struct {
	command string
	args    func(extensions []string) []string
	run     runner
}

func (d *dialogPicker) Pick(ctx context.Context, extensions []string) (string, error) {
	out, code, err := d.run(ctx, d.command, d.args(extensions)...)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", d.command, err)
	}
	switch code {
	case 0:
	case 1:
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("%s exited with code %d", d.command, code)
	}
	path := strings.TrimRight(string(out), "\r\n")
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}

// NewZenity returns a picker backed by zenity --file-selection.
func NewZenity() Picker {
	return &dialogPicker{
		command: "zenity",
		args: func(extensions []string) []string {
			return []string{
				"--file-selection",
				"--title=" + Title,
				"--file-filter=Images | " + globs(extensions),
				"--file-filter=All files | *",
			}
		},
		run: execRunner,
	}
}

// NewKdialog returns a picker backed by kdialog --getopenfilename.
func NewKdialog() Picker {
	return &dialogPicker{
		command: "kdialog",
		args: func(extensions []string) []string {
			start, _ := os.UserHomeDir()
			return []string{
				"--title", Title,
				"--getopenfilename", start,
				globs(extensions) + "|Images",
			}
		},
		run: execRunner,
	}
}

func globs(extensions []string) string {
	parts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		parts = append(parts, "*."+ext)
	}
	return strings.Join(parts, " ")
}

// DetectBackend returns the first dialog program found in PATH, in priority
// order: zenity, kdialog. It falls back to the terminal picker.
func DetectBackend() string {
	if _, err := exec.LookPath("zenity"); err == nil {
		return "zenity"
	}
	if _, err := exec.LookPath("kdialog"); err == nil {
		return "kdialog"
	}
	return "terminal"
}

// New returns the picker for a file_picker setting.
func New(backend string) (Picker, error) {
	if backend == "" || backend == "auto" {
		backend = DetectBackend()
	}
	switch backend {
	case "zenity":
		return NewZenity(), nil
	case "kdialog":
		return NewKdialog(), nil
	case "terminal":
		return NewTerminal(), nil
	default:
		return nil, fmt.Errorf("unknown file picker %q (valid: auto, zenity, kdialog, terminal)", backend)
	}
}
