package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// SuggestionsCmd returns the suggestions command
func SuggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Manage the suggestion index",
		Long:  "List and rebuild typeahead suggestions",
	}

	cmd.AddCommand(SuggestionsListCmd())
	cmd.AddCommand(SuggestionsRebuildCmd())

	return cmd
}

// SuggestionsListCmd returns the suggestions list command
func SuggestionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List suggestions by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return withStack(cmd.Context(), func(ctx context.Context, stack *searchStack) error {
				labels, err := stack.search.Suggestions(ctx, prefix)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if outputFormat == "json" {
					return writeJSON(w, map[string]interface{}{"suggestions": labels})
				}
				if len(labels) == 0 {
					fmt.Fprintln(w, "No suggestions found")
					return nil
				}
				for _, l := range labels {
					fmt.Fprintln(w, l)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

// SuggestionsRebuildCmd returns the suggestions rebuild command
func SuggestionsRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild suggestion counts from the query log",
		Long:  "Apply logged queries whose suggestion update never landed. Safe to run against a live server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(cmd.Context(), func(ctx context.Context, stack *searchStack) error {
				applied, err := stack.recorder.Rebuild(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Suggestions rebuilt: %d applied\n", applied)
				return nil
			})
		},
	}
}
