package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"webpmill/internal/manifest"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent conversion runs from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Manifest.Enabled {
				return fmt.Errorf("manifest is disabled in configuration")
			}

			store, err := manifest.Open(cfg.ManifestPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			headers := []string{"Run", "Started", "Input", "Output", "Converted", "Skipped", "Errors"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					run.InputRoot,
					run.OutputRoot,
					strconv.FormatInt(run.Converted, 10),
					strconv.FormatInt(run.Skipped, 10),
					strconv.FormatInt(run.Errors, 10),
				})
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable(headers, rows, map[int]bool{4: true, 5: true, 6: true}))
				return nil
			}
			fmt.Fprintln(out, strings.Join(headers, "\t"))
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
