package ui

// base_model.go provides common TUI functionality for Bubble Tea models.

import (
	tea "github.com/charmbracelet/bubbletea"
)

// StandardInit returns the standard Init command: ask for the window size
// so the first frame is laid out correctly.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys returns true and Quit cmd for q/esc/ctrl+c keys.
//
// Example:
//
//	case tea.KeyMsg:
//	    if quit, cmd := HandleQuitKeys(msg.String()); quit {
//	        m.quitting = true
//	        return m, cmd
//	    }
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}

// HandleQuitKeysNoEsc returns true and Quit cmd for ctrl+c only.
// Use while a text field has focus, where q is input and esc cancels editing.
func HandleQuitKeysNoEsc(key string) (bool, tea.Cmd) {
	if key == "ctrl+c" {
		return true, tea.Quit
	}
	return false, nil
}
