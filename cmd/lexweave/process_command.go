package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lexweave/internal/bundle"
	"lexweave/internal/engine"
	"lexweave/internal/report"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		once    bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "process [<bundle-id>]",
		Short: "Run enrichment passes until a bundle converges",
		Long:  "Run enrichment passes for one bundle, or for every pending bundle when no id is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, tracker, err := ctx.buildEngineWithTracker(cmd.Context())
			if err != nil {
				return err
			}

			var ids []string
			if len(args) == 1 {
				ids = args
			} else {
				st, err := ctx.ensureStore(cmd.Context())
				if err != nil {
					return err
				}
				pending, err := st.ListBundles(cmd.Context(), bundle.StatePending, bundle.StateEnriching)
				if err != nil {
					return err
				}
				for _, b := range pending {
					ids = append(ids, b.ID)
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no pending bundles")
					return nil
				}
			}

			for _, id := range ids {
				if len(ids) > 1 && !jsonOut {
					fmt.Fprintf(cmd.OutOrStdout(), "bundle %s:\n", id)
				}
				if err := processBundle(cmd, eng, tracker, id, once, jsonOut); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single pass instead of converging")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")

	return cmd
}

func processBundle(cmd *cobra.Command, eng *engine.Engine, tracker *report.Tracker, bundleID string, once, jsonOut bool) error {
	if once {
		pass, err := eng.RunPass(cmd.Context(), bundleID)
		if err != nil {
			return err
		}
		if jsonOut {
			return writeJSON(cmd, map[string]any{
				"pass":     pass,
				"outcomes": tracker.Outcomes(bundleID),
			})
		}
		printPass(cmd, pass)
		return nil
	}

	result, err := eng.Converge(cmd.Context(), bundleID)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(cmd, map[string]any{
			"converged": result.Converged,
			"passes":    result.Passes,
			"outcomes":  tracker.Outcomes(bundleID),
			"writes":    tracker.Writes(bundleID),
		})
	}
	for i := range result.Passes {
		fmt.Fprintf(cmd.OutOrStdout(), "pass %d:\n", i+1)
		printPass(cmd, &result.Passes[i])
	}
	if result.Converged {
		fmt.Fprintln(cmd.OutOrStdout(), "bundle fully enriched")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "pass limit reached before convergence")
	}
	return nil
}

func printPass(cmd *cobra.Command, pass *engine.PassResult) {
	out := cmd.OutOrStdout()
	if pass.AllClear {
		fmt.Fprintln(out, "  no pending work")
		return
	}
	rows := make([][]string, 0, len(pass.Capabilities))
	for _, c := range pass.Capabilities {
		status := "deferred"
		if c.Invoked {
			status = "ok"
		}
		detail := ""
		if c.Err != nil {
			status = "failed"
			detail = c.Err.Error()
		}
		rows = append(rows, []string{c.ID.String(), status, detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Capability", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "  fields written: %s, lexicon writes: %s, remaining: %d\n",
		strconv.Itoa(pass.FieldsWritten), strconv.Itoa(pass.LexiconWrites), len(pass.Remaining))
	for _, inc := range pass.Inconsistencies {
		fmt.Fprintf(out, "  inconsistency: %s\n", inc)
	}
}
