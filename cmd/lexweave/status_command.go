package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lexweave/internal/bundle"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bundle counts and the most recent bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}

			counts, err := st.CountByState(cmd.Context())
			if err != nil {
				return err
			}
			bundles, err := st.ListBundles(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				summary := map[string]any{"counts": counts, "total": len(bundles)}
				var items []map[string]string
				for _, b := range bundles {
					items = append(items, map[string]string{
						"id":     b.ID,
						"state":  string(b.State),
						"source": snippet(b.SourceText),
						"target": snippet(b.TargetText),
					})
				}
				summary["bundles"] = items
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			countRows := make([][]string, 0, len(counts))
			for _, state := range bundle.AllStates() {
				countRows = append(countRows, []string{string(state), strconv.Itoa(counts[state])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"State", "Bundles"},
				countRows,
				[]columnAlignment{alignLeft, alignRight},
			))

			if len(bundles) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(bundles))
			for _, b := range bundles {
				rows = append(rows, []string{b.ID, string(b.State), snippet(b.SourceText), snippet(b.TargetText)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "State", "Source", "Target"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= 32 {
		return text
	}
	return string(runes[:31]) + "…"
}
