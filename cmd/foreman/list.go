package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/pkg/models"
)

var (
	listStatus string
	listAgent  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedulable units",
	Long: `List every task, bug, and idea in declaration order.

Examples:
  foreman list
  foreman list --status in_progress
  foreman list --agent alice`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listAgent, "agent", "", "Filter by claiming agent")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	if listStatus != "" && !models.Status(listStatus).Valid() {
		return fmt.Errorf("unknown status %q", listStatus)
	}

	shown := 0
	for _, task := range ctx.tree.AllTasks() {
		if listStatus != "" && task.Status != models.Status(listStatus) {
			continue
		}
		if listAgent != "" && task.ClaimedBy != listAgent {
			continue
		}
		shown++

		line := fmt.Sprintf("%-18s %-12s %s", task.ID, statusColor(task.Status).Sprint(task.Status), task.Title)
		if task.ClaimedBy != "" {
			line += color.CyanString(" (%s)", task.ClaimedBy)
		}
		fmt.Println(line)
	}

	if shown == 0 {
		fmt.Println("No matching units.")
	}
	return nil
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the backlog hierarchy",
	Long:  `Print the full phase / milestone / epic / task hierarchy plus bugs and ideas.`,
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	// Markers are best effort: a cycle in the graph still lets the tree render.
	onPath := make(map[string]bool)
	available := make(map[string]bool)
	sched := ctx.scheduler()
	if path, _, err := sched.Calculate(); err == nil {
		for _, id := range path {
			onPath[id] = true
		}
		for _, id := range sched.FindAllAvailable() {
			available[id] = true
		}
	}

	if ctx.tree.Project != "" {
		fmt.Println(color.New(color.Bold).Sprint(ctx.tree.Project))
	}

	for pi := range ctx.tree.Phases {
		phase := &ctx.tree.Phases[pi]
		fmt.Printf("%s  %s\n", color.New(color.Bold).Sprint(phase.ID), phase.Name)
		for mi := range phase.Milestones {
			milestone := &phase.Milestones[mi]
			fmt.Printf("  %s  %s\n", milestone.ID, milestone.Name)
			for ei := range milestone.Epics {
				epic := &milestone.Epics[ei]
				fmt.Printf("    %s  %s\n", epic.ID, epic.Name)
				for ti := range epic.Tasks {
					printTreeTask(&epic.Tasks[ti], "      ", onPath, available)
				}
			}
		}
	}

	if len(ctx.tree.Bugs) > 0 {
		fmt.Println(color.New(color.Bold).Sprint("bugs"))
		for i := range ctx.tree.Bugs {
			printTreeTask(&ctx.tree.Bugs[i], "  ", onPath, available)
		}
	}
	if len(ctx.tree.Ideas) > 0 {
		fmt.Println(color.New(color.Bold).Sprint("ideas"))
		for i := range ctx.tree.Ideas {
			printTreeTask(&ctx.tree.Ideas[i], "  ", onPath, available)
		}
	}
	return nil
}

func printTreeTask(task *models.Task, indent string, onPath, available map[string]bool) {
	mark := " "
	switch task.Status {
	case models.StatusDone:
		mark = color.GreenString("✓")
	case models.StatusInProgress:
		mark = color.CyanString("…")
	case models.StatusBlocked:
		mark = color.RedString("!")
	case models.StatusRejected, models.StatusCancelled:
		mark = color.New(color.Faint).Sprint("-")
	default:
		if available[task.ID] {
			mark = color.GreenString("+")
		}
	}
	line := fmt.Sprintf("%s%s %s  %s", indent, mark, task.ID, task.Title)
	if onPath[task.ID] {
		line += color.YellowString(" *")
	}
	if task.ClaimedBy != "" {
		line += color.CyanString(" (%s)", task.ClaimedBy)
	}
	fmt.Println(line)
}
