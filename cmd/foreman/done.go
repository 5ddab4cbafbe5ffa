package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/history"
)

var doneCmd = &cobra.Command{
	Use:   "done <unit-id> [unit-id...]",
	Short: "Mark claimed units complete",
	Long: `Mark one or more units as done. Records the claim-to-completion duration
when the unit was claimed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	now := nowFunc()
	for _, id := range args {
		task := ctx.tree.FindTask(id)
		if task == nil {
			return fmt.Errorf("unknown unit %q", id)
		}
		if err := task.Complete(now); err != nil {
			return err
		}
	}

	if err := ctx.store.Save(ctx.tree); err != nil {
		return err
	}

	for _, id := range args {
		task := ctx.tree.FindTask(id)
		ctx.recordEvent(task, history.EventComplete, task.ClaimedBy)
		if task.DurationMinutes != nil {
			printOK("Completed %s (%dm)", id, *task.DurationMinutes)
		} else {
			printOK("Completed %s", id)
		}
	}

	// Show what opened up.
	sched := ctx.scheduler()
	_, next, err := sched.Calculate()
	if err == nil && next != "" {
		fmt.Printf("Next: %s\n", next)
	}
	return nil
}
