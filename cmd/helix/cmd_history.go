package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helix/internal/audit"
	"helix/internal/format"
	"helix/internal/store"
)

var historyFlags struct {
	db   string
	run  string
	sar  string
	wide bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived runs or show one archived run or SAR",
	Long: `History reads the run archive. Without flags it lists archived runs.
With --run it renders that run's full report; --sar additionally selects
one target's archived SAR as JSON.`,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.db, "db", store.DefaultDBPath, "Run archive DB path")
	f.StringVar(&historyFlags.run, "run", "", "Run identifier to show")
	f.StringVar(&historyFlags.sar, "sar", "", "Target id; with --run, print that target's SAR JSON")
	f.BoolVar(&historyFlags.wide, "markdown", false, "Render the run report as Markdown instead of the terminal layout")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := store.Open(historyFlags.db)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()

	if historyFlags.run == "" {
		if historyFlags.sar != "" {
			return fmt.Errorf("--sar requires --run")
		}
		runs, err := s.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "no archived runs")
			return nil
		}
		t := format.NewTable(format.ASCII)
		t.Header("RUN", "STATUS", "TARGETS", "SARS", "ERRORS", "FINISHED")
		for _, r := range runs {
			t.Row(r.RunID, r.Status, r.Targets, r.WithSAR, r.Errored, r.Finished)
		}
		fmt.Fprintln(out, t.String())
		return nil
	}

	if historyFlags.sar != "" {
		sar, err := s.GetSAR(historyFlags.run, historyFlags.sar)
		if err != nil {
			return err
		}
		return printJSON(out, sar)
	}

	result, err := s.GetRun(historyFlags.run)
	if err != nil {
		return err
	}
	if historyFlags.wide {
		fmt.Fprint(out, audit.FormatSummaryMarkdown(result))
		return nil
	}
	fmt.Fprint(out, audit.FormatRunReport(result))
	return nil
}
