package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var velocityDays int

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Show completion throughput",
	Long: `Summarize completions from the event log: totals, per-day counts, and
per-agent statistics over the reporting window.`,
	RunE: runVelocity,
}

func init() {
	velocityCmd.Flags().IntVar(&velocityDays, "days", 14, "Reporting window in days")
}

func runVelocity(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}
	if !ctx.cfg.History.Enabled {
		return fmt.Errorf("history is disabled in config (history.enabled)")
	}

	db, err := ctx.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	since := nowFunc().AddDate(0, 0, -velocityDays)
	report, err := db.Velocity(since)
	if err != nil {
		return err
	}

	fmt.Printf("Velocity over the last %d days\n\n", velocityDays)
	fmt.Printf("  Completed: %d\n", report.Completed)
	if report.Completed > 0 {
		fmt.Printf("  Avg duration: %s\n", time.Duration(report.AvgDurationMins)*time.Minute)
	}

	if len(report.PerDay) > 0 {
		fmt.Println("\nPer day:")
		maxCount := 0
		for _, dc := range report.PerDay {
			if dc.Count > maxCount {
				maxCount = dc.Count
			}
		}
		for _, dc := range report.PerDay {
			bar := strings.Repeat("█", dc.Count*20/maxCount)
			fmt.Printf("  %s %3d %s\n", dc.Day, dc.Count, color.GreenString(bar))
		}
	}

	if len(report.PerAgent) > 0 {
		fmt.Println("\nPer agent:")
		for _, as := range report.PerAgent {
			fmt.Printf("  %-20s %3d completed, avg %s\n",
				as.Agent, as.Completed, time.Duration(as.AvgDurationMins)*time.Minute)
		}
	}

	return nil
}
