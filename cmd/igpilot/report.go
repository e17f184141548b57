package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igpilot/pkg/config"
	"igpilot/pkg/session"
	"igpilot/pkg/storage"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the persisted session reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, globalFlags())
		if err != nil {
			return err
		}

		writer, err := storage.NewReportWriter(cfg.Storage.ReportDir)
		if err != nil {
			return err
		}
		paths, err := writer.List()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("no session reports found")
			return nil
		}

		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			var report session.Report
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			finish := "still running"
			if report.FinishTime != nil {
				finish = report.FinishTime.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("session %s\n", report.ID)
			fmt.Printf("  started:      %s\n", report.StartTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("  finished:     %s\n", finish)
			fmt.Printf("  interactions: %d (%d successful)\n",
				report.TotalInteractions, report.SuccessfulInteractions)
			fmt.Printf("  likes: %d  comments: %d  watched: %d  followed: %d  scraped: %d\n",
				report.TotalLikes, report.TotalComments, report.TotalWatched,
				report.TotalFollowed, report.TotalScraped)
			for source, count := range report.ScrapedBySource {
				fmt.Printf("    scraped from %s: %d\n", source, count)
			}
		}
		return nil
	},
}
