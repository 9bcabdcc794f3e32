package ui

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// GetTerminalWidth returns the width of the terminal using a fallback chain:
// 1. Direct TTY query via golang.org/x/term
// 2. COLUMNS environment variable
// 3. tput cols command
// 4. Default fallback of 80
func GetTerminalWidth() int {
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if width, err := strconv.Atoi(cols); err == nil && width > 0 {
			return width
		}
	}

	if width := getTputCols(); width > 0 {
		return width
	}

	return 80
}

// getTputCols uses tput to query terminal width
func getTputCols() int {
	cmd := exec.Command("tput", "cols")
	output, err := cmd.Output()
	if err != nil {
		return 0
	}
	width, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalSupportsColor reports whether stdout can show ANSI colors.
func TerminalSupportsColor() bool {
	return IsTerminal(os.Stdout) && termenv.ColorProfile() != termenv.Ascii
}
