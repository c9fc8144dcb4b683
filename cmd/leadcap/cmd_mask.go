package main

import (
	"fmt"

	"leadcap/internal/lead"

	"github.com/spf13/cobra"
)

// maskCmd applies the phone mask
var maskCmd = &cobra.Command{
	Use:   "mask VALUE...",
	Short: "Format phone numbers as (DD) DDDDD-DDDD",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range args {
			fmt.Fprintln(cmd.OutOrStdout(), lead.FormatPhoneMask(v))
		}
		return nil
	},
}
