package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// familyReportJSON is the machine-readable form of one family pass.
type familyReportJSON struct {
	Family       string `json:"family"`
	Total        int    `json:"total"`
	Extracted    int    `json:"extracted"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	Pending      int    `json:"pending"`
	LedgerErrors int    `json:"ledger_errors,omitempty"`
}

type summaryJSON struct {
	RunID      string             `json:"run_id,omitempty"`
	InputDir   string             `json:"input_dir"`
	OutputRoot string             `json:"output_root"`
	Static     bool               `json:"static"`
	Recordings int                `json:"recordings"`
	Failures   int                `json:"failures"`
	LedgerPath string             `json:"ledger_path"`
	Canceled   bool               `json:"canceled"`
	Message    string             `json:"message"`
	Families   []familyReportJSON `json:"families"`
}
