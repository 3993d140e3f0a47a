// Package termimage draws images into a terminal, either with Unicode half
// blocks or through the kitty, iTerm2 and sixel graphics protocols.
package termimage

import (
	"fmt"
	"os"
	"strings"
)

// Protocol selects how an image is written to the terminal.
type Protocol int

const (
	ProtocolAuto Protocol = iota
	ProtocolHalfblocks
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
)

var protocolNames = [...]string{
	ProtocolAuto:       "auto",
	ProtocolHalfblocks: "halfblocks",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
}

func (p Protocol) String() string {
	if int(p) >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol accepts a protocol name as written in the config file.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolAuto, nil
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, nil
	case "kitty":
		return ProtocolKitty, nil
	case "iterm2":
		return ProtocolITerm2, nil
	case "sixel":
		return ProtocolSixel, nil
	}
	return ProtocolAuto, fmt.Errorf("unknown thumbnail protocol %q", s)
}

// Detect picks a graphics protocol from the environment. Terminals known to
// speak the kitty or iTerm2 protocol get it unless the session is remote;
// everything else gets half blocks.
func Detect() Protocol {
	if isSSH() {
		return ProtocolHalfblocks
	}

	switch strings.ToLower(os.Getenv("TERM_PROGRAM")) {
	case "ghostty", "kitty", "wezterm":
		return ProtocolKitty
	case "iterm.app":
		return ProtocolITerm2
	}

	switch term := os.Getenv("TERM"); {
	case term == "xterm-kitty", term == "xterm-ghostty":
		return ProtocolKitty
	case strings.Contains(term, "sixel"):
		return ProtocolSixel
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return ProtocolKitty
	}
	if os.Getenv("ITERM_SESSION_ID") != "" || os.Getenv("LC_TERMINAL") == "iTerm2" {
		return ProtocolITerm2
	}
	return ProtocolHalfblocks
}

// Resolve turns ProtocolAuto into a concrete protocol.
func (p Protocol) Resolve() Protocol {
	if p == ProtocolAuto {
		return Detect()
	}
	return p
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
