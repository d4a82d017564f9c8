package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voxtract/internal/selection"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var source string
	var dest string
	var keywords []string
	var preserve bool

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Copy .wav files whose names contain any of the given keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keywords) == 0 {
				return errors.New("at least one --keywords value is required")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			files, err := selection.Scan(source)
			if err != nil {
				return err
			}
			report := selection.Report{Source: source, Found: len(files)}
			fmt.Fprintf(out, "%s\n\n", report.FoundMessage())

			report, err = selection.New(logger).Copy(cmd.Context(), files, selection.Options{
				Source:            source,
				Dest:              dest,
				Keywords:          keywords,
				PreserveStructure: preserve,
				OnCopied: func(n int, copied selection.Copied) {
					fmt.Fprintf(out, "[%d] Copied: %s → %s\n", n, copied.Source, copied.Dest)
				},
				OnFailed: func(failure selection.Failure) {
					fmt.Fprintf(out, "Error copying %s: %v\n", failure.Source, failure.Err)
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", report.DoneMessage())
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source directory to search recursively")
	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory for copied files")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "Keywords to match in file names (case-insensitive)")
	cmd.Flags().BoolVar(&preserve, "preserve-structure", false, "Preserve the source folder structure under dest")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.MarkFlagRequired("keywords")
	return cmd
}
