package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmClear asks before emptying the clipboard history.
func ConfirmClear(count int) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Clear %d clipped time range(s)?", count)).
				Description("The clipboard history cannot be restored").
				Affirmative("Yes, clear").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return confirm, nil
}

// ConfirmOverwrite asks before replacing an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
				Affirmative("Overwrite").
				Negative("Keep").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, nil // keep the file on cancel
	}
	return confirm, nil
}
