package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/schedule"
)

var whyCmd = &cobra.Command{
	Use:   "why <unit-id>",
	Short: "Explain why a unit can or cannot start",
	Long: `Report the full dependency picture for one unit: its explicit
dependencies, the implicit previous-task-in-epic dependency, and any
enclosing-scope (epic, milestone, phase) dependencies that are incomplete.`,
	Args: cobra.ExactArgs(1),
	RunE: runWhy,
}

func runWhy(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	report, err := ctx.scheduler().Explain(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", color.New(color.Bold).Sprint(report.TaskID), report.Title)
	fmt.Printf("  Status: %s\n", statusColor(report.Status).Sprint(report.Status))
	if report.OnPath {
		fmt.Printf("  Critical path: yes (position %d)\n", report.PathIndex+1)
	} else {
		fmt.Println("  Critical path: no")
	}

	if report.CanStart {
		fmt.Printf("\n%s This unit can start now.\n", color.GreenString("✓"))
	} else {
		fmt.Printf("\n%s This unit cannot start yet.\n", color.RedString("✗"))
	}

	if len(report.Explicit) > 0 {
		fmt.Println("\nExplicit dependencies:")
		for _, dep := range report.Explicit {
			printDependency(dep)
		}
	}

	if report.Implicit != nil {
		fmt.Println("\nImplicit dependency (previous task in epic):")
		printDependency(*report.Implicit)
	}

	if len(report.RollupBlockers) > 0 {
		fmt.Println("\nWaiting on enclosing scopes:")
		for _, id := range report.RollupBlockers {
			fmt.Printf("  %s %s is not fully complete\n", color.RedString("✗"), id)
		}
	}

	return nil
}

func printDependency(dep schedule.DependencyStatus) {
	if !dep.Found {
		fmt.Printf("  %s %s (unresolved reference)\n", color.RedString("✗"), dep.ID)
		return
	}
	mark := color.RedString("✗")
	if dep.Satisfied {
		mark = color.GreenString("✓")
	}
	fmt.Printf("  %s %s  %s [%s]\n", mark, dep.ID, dep.Title, dep.Status)
}
