package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"merchmagic/internal/catalog"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List product templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tICON")
			for _, t := range catalog.Templates() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Icon)
			}
			return w.Flush()
		},
	}
}

func newSuggestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "List quick edit instructions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, s := range catalog.EditSuggestions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i, s)
			}
			return nil
		},
	}
}
