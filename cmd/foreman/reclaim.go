package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/history"
	"github.com/ShayCichocki/foreman/internal/store"
)

var (
	reclaimMaxAgeMinutes int
	reclaimDryRun        bool
)

var reclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Reset stale claims back to pending",
	Long: `Find units that were claimed but never completed and reset them.

A claim is stale once it has been in progress longer than the configured
threshold (scheduling.stale_claim_minutes, default 120). The original agent
may still be working; reclaiming favors liveness over safety.

Examples:
  foreman reclaim --dry-run     # list stale claims without touching them
  foreman reclaim --max-age 30  # use a 30 minute threshold`,
	RunE: runReclaim,
}

func init() {
	reclaimCmd.Flags().IntVar(&reclaimMaxAgeMinutes, "max-age", 0, "Stale threshold in minutes (defaults to config)")
	reclaimCmd.Flags().BoolVar(&reclaimDryRun, "dry-run", false, "List stale claims without resetting them")
}

func runReclaim(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	maxAge := ctx.cfg.StaleClaimAge()
	if reclaimMaxAgeMinutes > 0 {
		maxAge = time.Duration(reclaimMaxAgeMinutes) * time.Minute
	}

	now := nowFunc()
	if reclaimDryRun {
		stale := store.FindStaleClaims(ctx.tree, maxAge, now)
		if len(stale) == 0 {
			fmt.Println("No stale claims.")
			return nil
		}
		fmt.Printf("Stale claims (older than %s):\n", maxAge)
		for _, task := range stale {
			age := now.Sub(*task.ClaimedAt).Round(time.Minute)
			fmt.Printf("  %s  %s by %s (%s ago)\n", task.ID, task.Title, task.ClaimedBy, age)
		}
		return nil
	}

	agents := make(map[string]string)
	for _, task := range store.FindStaleClaims(ctx.tree, maxAge, now) {
		agents[task.ID] = task.ClaimedBy
	}

	reclaimed, err := store.ReclaimStale(ctx.tree, maxAge, now)
	if err != nil {
		return err
	}
	if len(reclaimed) == 0 {
		fmt.Println("No stale claims.")
		return nil
	}

	if err := ctx.store.Save(ctx.tree); err != nil {
		return err
	}

	for _, id := range reclaimed {
		ctx.recordEvent(ctx.tree.FindTask(id), history.EventReclaim, agents[id])
		printOK("Reclaimed %s (was %s)", id, agents[id])
	}
	return nil
}
