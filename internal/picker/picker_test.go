package picker

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func fakeRunner(out string, code int, err error, gotArgs *[]string) runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, int, error) {
		*gotArgs = append([]string{name}, args...)
		return []byte(out), code, err
	}
}

func TestDialogPickerResults(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		code    int
		runErr  error
		want    string
		wantErr error
	}{
		{"selected", "/home/u/Pictures/sea.jpg\n", 0, nil, "/home/u/Pictures/sea.jpg", nil},
		{"cancelled", "", 1, nil, "", ErrCancelled},
		{"empty output", "\n", 0, nil, "", ErrCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var args []string
			p := NewZenity().(*dialogPicker)
			p.run = fakeRunner(tc.out, tc.code, tc.runErr, &args)

			got, err := p.Pick(context.Background(), []string{"jpg", ".png"})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("path = %q, want %q", got, tc.want)
			}
			if args[0] != "zenity" || !strings.Contains(strings.Join(args, " "), "Images | *.jpg *.png") {
				t.Fatalf("args = %q", args)
			}
		})
	}
}

func TestDialogPickerFailures(t *testing.T) {
	var args []string
	p := NewKdialog().(*dialogPicker)

	p.run = fakeRunner("", 254, nil, &args)
	if _, err := p.Pick(context.Background(), []string{"png"}); err == nil || errors.Is(err, ErrCancelled) {
		t.Fatalf("unexpected exit code should be an error, got %v", err)
	}

	p.run = fakeRunner("", -1, errors.New("not found"), &args)
	if _, err := p.Pick(context.Background(), []string{"png"}); err == nil || errors.Is(err, ErrCancelled) {
		t.Fatalf("run failure should be an error, got %v", err)
	}
	if args[0] != "kdialog" || args[len(args)-1] != "*.png|Images" {
		t.Fatalf("args = %q", args)
	}
}

func TestGlobs(t *testing.T) {
	if got := globs([]string{"jpg", ".PNG", " ", "webp"}); got != "*.jpg *.PNG *.webp" {
		t.Fatalf("globs = %q", got)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"zenity", "kdialog", "terminal", "auto"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("nautilus"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
