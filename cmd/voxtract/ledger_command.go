package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"voxtract/internal/features"
	"voxtract/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List the failures recorded by the last extraction batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(firstNonEmpty(outputDir, cfg.Paths.OutputDir), cfg.Extraction.LedgerName)
			entries, err := ledger.Entries(path)
			if err != nil {
				return err
			}
			groups := groupLedger(entries)

			if jsonOutput {
				type groupJSON struct {
					Family     string   `json:"family"`
					Recordings []string `json:"recordings"`
				}
				payload := struct {
					Path     string      `json:"path"`
					Failures int         `json:"failures"`
					Families []groupJSON `json:"families"`
				}{Path: path, Failures: len(entries), Families: []groupJSON{}}
				for _, group := range groups {
					payload.Families = append(payload.Families, groupJSON{Family: group.family, Recordings: group.recordings})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No failures recorded in %s\n", path)
				return nil
			}
			fmt.Fprintf(out, "%d failures in %s\n", len(entries), path)
			for _, group := range groups {
				fmt.Fprintf(out, "\n%s (%d)\n", group.family, len(group.recordings))
				for _, rec := range group.recordings {
					fmt.Fprintf(out, "  - %s\n", rec)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output root holding the ledger (default from config: paths.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of text")
	return cmd
}

type ledgerGroup struct {
	family     string
	recordings []string
}

// groupLedger groups entries by family in extraction order; families the
// ledger names but the binary does not know come last, in first-seen order.
func groupLedger(entries []ledger.Entry) []ledgerGroup {
	byFamily := make(map[string][]string)
	var order []string
	for _, entry := range entries {
		if _, seen := byFamily[entry.Family]; !seen {
			order = append(order, entry.Family)
		}
		byFamily[entry.Family] = append(byFamily[entry.Family], entry.Recording)
	}

	groups := make([]ledgerGroup, 0, len(byFamily))
	for _, family := range features.All() {
		if recs, ok := byFamily[family.Name]; ok {
			groups = append(groups, ledgerGroup{family: family.Name, recordings: recs})
			delete(byFamily, family.Name)
		}
	}
	for _, name := range order {
		if recs, ok := byFamily[name]; ok {
			groups = append(groups, ledgerGroup{family: name, recordings: recs})
		}
	}
	return groups
}
