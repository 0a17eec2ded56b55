package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexweave/internal/bundle"
	"lexweave/internal/config"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		fromFile    string
		sourceStart int64
		sourceEnd   int64
		targetStart int64
		targetEnd   int64
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "add [<source-text> <target-text>]",
		Short: "Add a bundle from a text pair or a wire-format JSON file",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}

			var b *bundle.Bundle
			switch {
			case fromFile != "":
				if len(args) != 0 {
					return errors.New("--file cannot be combined with text arguments")
				}
				b, err = loadBundleFile(fromFile)
				if err != nil {
					return err
				}
			case len(args) == 2:
				b = bundle.New(args[0], args[1])
				b.SourceTiming = bundle.Timing{StartMs: sourceStart, EndMs: sourceEnd}
				b.TargetTiming = bundle.Timing{StartMs: targetStart, EndMs: targetEnd}
			default:
				return errors.New("provide a source/target text pair or --file")
			}

			if err := st.PutBundle(cmd.Context(), b); err != nil {
				return fmt.Errorf("add bundle: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]string{"id": b.ID, "state": string(b.State)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Read a wire-format bundle document instead of text arguments")
	cmd.Flags().Int64Var(&sourceStart, "source-start", 0, "Source cue start in milliseconds")
	cmd.Flags().Int64Var(&sourceEnd, "source-end", 0, "Source cue end in milliseconds")
	cmd.Flags().Int64Var(&targetStart, "target-start", 0, "Target cue start in milliseconds")
	cmd.Flags().Int64Var(&targetEnd, "target-end", 0, "Target cue end in milliseconds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")

	return cmd
}

func loadBundleFile(path string) (*bundle.Bundle, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read bundle file: %w", err)
	}
	b, err := bundle.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bundle file %s: %w", path, err)
	}
	if !b.HasOrigin() {
		return nil, fmt.Errorf("bundle file %s carries no source or target text", path)
	}
	if b.State == "" {
		b.State = bundle.StatePending
	}
	return b, nil
}
