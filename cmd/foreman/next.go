package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/schedule"
)

var nextShowPath bool

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next unit to work on",
	Long: `Compute the critical path through the backlog and report the next unit
an agent should claim.

The next unit is the highest ranked available unit: bugs first, then tasks,
then ideas, ordered by priority and position on the critical path.`,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().BoolVar(&nextShowPath, "path", false, "Also print the full critical path")
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	sched := ctx.scheduler()
	path, next, err := sched.Calculate()
	if err != nil {
		var cycleErr *schedule.CycleError
		if errors.As(err, &cycleErr) {
			fmt.Println(color.RedString("Dependency cycle detected:"))
			for _, cycle := range cycleErr.Cycles {
				fmt.Print("  ")
				for i, id := range cycle {
					if i > 0 {
						fmt.Print(" -> ")
					}
					fmt.Print(id)
				}
				fmt.Println()
			}
		}
		return err
	}

	if next == "" {
		fmt.Println("Nothing available to work on.")
		if blocked := sched.FindPendingBlocked(); len(blocked) > 0 {
			fmt.Printf("%d pending unit(s) are blocked; run 'foreman blocked' for details.\n", len(blocked))
		}
		return nil
	}

	task := ctx.tree.FindTask(next)
	fmt.Printf("Next: %s", color.New(color.FgGreen, color.Bold).Sprint(next))
	if task != nil {
		fmt.Printf("  %s", task.Title)
		if task.EstimateHours > 0 {
			fmt.Printf("  (%gh, %s)", task.EstimateHours, task.Complexity)
		}
	}
	fmt.Println()

	if nextShowPath {
		fmt.Println("\nCritical path:")
		for _, id := range path {
			marker := "  "
			if id == next {
				marker = color.GreenString("> ")
			}
			line := id
			if t := ctx.tree.FindTask(id); t != nil {
				line = fmt.Sprintf("%s  %s", id, t.Title)
			}
			fmt.Printf("%s%s\n", marker, line)
		}
	}

	return nil
}
