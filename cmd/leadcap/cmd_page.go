package main

import (
	"errors"
	"fmt"

	"leadcap/cmd/leadcap/ui"
	"leadcap/internal/page"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// pageCmd opens the interactive capture page
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Open the interactive capture page",
	Long: `Opens the lead capture page in the terminal: the form, the status line and
the lead table. Diagnostics go to logging.file only, if set.`,
	Args: cobra.NoArgs,
	RunE: runPage,
}

func runPage(cmd *cobra.Command, args []string) error {
	state := page.NewState(messages())
	ctrl, err := newController(state)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	model := ui.NewLeadPageModel(ctx, ctrl, state, styles())
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("page exited: %w", err)
	}
	return nil
}
