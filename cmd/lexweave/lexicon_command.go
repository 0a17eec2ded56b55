package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexweave/internal/config"
	"lexweave/internal/lexicon"
)

func newLexiconCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage the lexical reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newLexiconImportCommand(ctx))
	cmd.AddCommand(newLexiconListCommand(ctx))
	return cmd
}

func newLexiconImportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import JSON-lines lexicon entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := loadLexiconFile(args[0])
			if err != nil {
				return err
			}
			imported, err := st.ImportLexicon(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries\n", imported)
			return nil
		},
	}
	return cmd
}

func newLexiconListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored lexicon entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := st.AllEntries(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				gloss := ""
				if len(e.Senses) > 0 {
					gloss = e.Senses[0].Gloss
				}
				rows = append(rows, []string{e.Word, e.Romanization, fmt.Sprintf("%d", len(e.Senses)), gloss})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Word", "Romanization", "Senses", "First gloss"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func loadLexiconFile(path string) ([]lexicon.Entry, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open lexicon file: %w", err)
	}
	defer file.Close()
	return lexicon.ParseLines(file)
}
