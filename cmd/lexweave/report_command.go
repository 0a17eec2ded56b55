package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexweave/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut     bool
		pendingOnly bool
	)

	cmd := &cobra.Command{
		Use:   "report <bundle-id>",
		Short: "Show the field-level audit for a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			b, err := st.GetBundle(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			audit := report.BuildAudit(b)
			if jsonOut {
				return writeJSON(cmd, audit)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bundle %s (%s)\n", audit.BundleID, audit.State)
			if len(audit.Pending) > 0 {
				fmt.Fprintf(out, "pending capabilities: %v\n", audit.Pending)
			}
			for _, inc := range audit.Inconsistencies {
				fmt.Fprintf(out, "inconsistency: %s\n", inc)
			}

			rows := make([][]string, 0, len(audit.Rows))
			for _, row := range audit.Rows {
				if pendingOnly && !row.Pending {
					continue
				}
				owner := row.Owner
				if row.Origin {
					owner = "(origin)"
				}
				rows = append(rows, []string{row.Path, owner, mark(row.Valid), mark(row.Pending), row.Value})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Owner", "Valid", "Pending", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Show only fields with pending work")
	return cmd
}

func mark(v bool) string {
	if v {
		return "yes"
	}
	return ""
}
