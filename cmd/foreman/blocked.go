package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var blockedCmd = &cobra.Command{
	Use:   "blocked",
	Short: "List pending units that cannot start",
	Long: `List every pending, unclaimed unit whose dependencies are not satisfied,
and the units most directly holding them up.`,
	RunE: runBlocked,
}

func runBlocked(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	sched := ctx.scheduler()
	blocked := sched.FindPendingBlocked()
	if len(blocked) == 0 {
		fmt.Println("Nothing is blocked.")
		return nil
	}

	fmt.Printf("Blocked units (%d):\n", len(blocked))
	for _, id := range blocked {
		line := "  " + id
		if task := ctx.tree.FindTask(id); task != nil {
			line += "  " + task.Title
		}
		fmt.Println(line)
	}

	roots := sched.FindRootBlockers()
	if len(roots) > 0 {
		fmt.Println("\nHolding them up:")
		for _, id := range roots {
			task := ctx.tree.FindTask(id)
			if task == nil {
				continue
			}
			state := statusColor(task.Status).Sprint(task.Status)
			owner := ""
			if task.ClaimedBy != "" {
				owner = " by " + task.ClaimedBy
			}
			fmt.Printf("  %s  %s [%s%s]\n", color.New(color.Bold).Sprint(id), task.Title, state, owner)
		}
	}

	return nil
}
