package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

const newActivityOption = "\x00new"

// promptActivity shows the known activities as a select list with an
// entry for typing a new name.
func promptActivity(names []string) (string, error) {
	choice := newActivityOption
	if len(names) > 0 {
		opts := make([]huh.Option[string], 0, len(names)+1)
		for _, n := range names {
			opts = append(opts, huh.NewOption(n, n))
		}
		opts = append(opts, huh.NewOption("New activity…", newActivityOption))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What were you doing?").
					Options(opts...).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return "", fmt.Errorf("activity prompt: %w", err)
		}
	}
	if choice != newActivityOption {
		return choice, nil
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("activity prompt: %w", err)
	}
	return name, nil
}
