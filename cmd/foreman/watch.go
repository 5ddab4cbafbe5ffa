package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/config"
	"github.com/ShayCichocki/foreman/internal/schedule"
	"github.com/ShayCichocki/foreman/internal/store"
	"github.com/ShayCichocki/foreman/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live board of the backlog",
	Long: `Open a terminal board showing the critical path, available units, and
active claims. The board reloads automatically when the backlog file changes,
so it tracks other agents claiming and completing work.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	dataDir, err := store.Find(cwd)
	if err != nil {
		return err
	}
	st := store.New(dataDir)

	loader := func() tui.Snapshot {
		snap := tui.Snapshot{At: nowFunc()}
		tree, err := st.Load()
		if err != nil {
			snap.Err = err
			return snap
		}
		snap.Tree = tree
		snap.Project = tree.Project

		sched := schedule.New(tree, cfg.Multipliers())
		path, next, err := sched.Calculate()
		if err != nil {
			snap.Err = err
			return snap
		}
		snap.Path = path
		snap.Next = next
		snap.Available = sched.Prioritize(sched.FindAllAvailable(), path)
		return snap
	}

	return tui.Watch(st.BacklogPath(), loader, cfg.Watch.RefreshRate)
}
