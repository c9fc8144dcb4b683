package main

import (
	"fmt"

	"leadcap/cmd/leadcap/ui"
	"leadcap/internal/lead"

	"github.com/spf13/cobra"
)

var addForm lead.Form

// addCmd submits one lead
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit a lead",
	Long: `Validates the three fields, sends POST /lead and reloads the list.

The phone number is masked as (DD) DDDDD-DDDD before it is sent.

Example:
  leadcap add --nome "Ana Souza" --email ana@example.com --telefone 11987654321`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addForm.Nome, "nome", "", "Full name")
	addCmd.Flags().StringVar(&addForm.Email, "email", "", "Email address")
	addCmd.Flags().StringVar(&addForm.Telefone, "telefone", "", "Phone number")
}

func runAdd(cmd *cobra.Command, args []string) error {
	st := styles()
	view := ui.NewConsoleView(cmd.ErrOrStderr(), messages(), st, false)
	ctrl, err := newController(view)
	if err != nil {
		return err
	}

	form := addForm
	form.Telefone = lead.FormatPhoneMask(form.Telefone)
	if err := ctrl.SubmitLead(cmd.Context(), form); err != nil {
		return shownError{err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), st.Counter.Render(view.Snapshot().Counter))
	return nil
}
