package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/history"
)

var unclaimCmd = &cobra.Command{
	Use:   "unclaim <unit-id> [unit-id...]",
	Short: "Release claimed units back to the pool",
	Long:  `Return claimed units to pending and clear their ownership.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnclaim,
}

func runUnclaim(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	agents := make(map[string]string, len(args))
	for _, id := range args {
		task := ctx.tree.FindTask(id)
		if task == nil {
			return fmt.Errorf("unknown unit %q", id)
		}
		agents[id] = task.ClaimedBy
		if err := task.Release(); err != nil {
			return err
		}
	}

	if err := ctx.store.Save(ctx.tree); err != nil {
		return err
	}

	for _, id := range args {
		ctx.recordEvent(ctx.tree.FindTask(id), history.EventUnclaim, agents[id])
		printOK("Released %s", id)
	}
	return nil
}
