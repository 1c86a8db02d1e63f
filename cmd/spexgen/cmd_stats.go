package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spexgen/internal/audit"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent packaging runs from the audit store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(statsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		for _, r := range runs {
			status := "ok"
			if !r.Success {
				status = "failed: " + r.ErrorMessage
			}
			fmt.Printf("%s  %s/%s  files=%d  %dms  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.Provider, r.Model, r.FileCount, r.DurationMs, status)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsLimit, "limit", 20, "Maximum number of runs to show")
}
