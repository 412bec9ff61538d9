package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/featureroutes/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe an error code, or list all codes when none is given.

Examples:
  featureroutes explain
  featureroutes explain E120`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%s  %-10s %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return fmt.Errorf("unknown error code %q", args[0])
			}
			fmt.Fprintf(out, "%s: %s\n\n", code, t.Message)
			fmt.Fprintf(out, "  Category: %s\n", t.Category)
			if t.Detail != "" {
				fmt.Fprintf(out, "\n  %s\n", t.Detail)
			}
			if t.DocURL != "" {
				fmt.Fprintf(out, "\n  Learn more: %s\n", t.DocURL)
			}
			return nil
		},
	}
}
