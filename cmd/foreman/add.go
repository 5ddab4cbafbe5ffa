package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/store"
	"github.com/ShayCichocki/foreman/pkg/models"
)

var (
	addTitle      string
	addEstimate   float64
	addComplexity string
	addPriority   string
	addDependsOn  []string
	addPhase      string
	addMilestone  string
	addEpic       string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a unit to the backlog",
	Long: `Add a phase, milestone, epic, task, bug, or idea to the backlog.

IDs are allocated automatically within the parent scope. Dependencies may be
given fully qualified or relative to the enclosing scope.

Examples:
  foreman add phase --title "Foundation"
  foreman add milestone --phase P1 --title "Storage"
  foreman add epic --milestone P1.M1 --title "Schema"
  foreman add task --epic P1.M1.E1 --title "Write migrations" --estimate 4 --complexity high
  foreman add task --epic P1.M1.E1 --title "Wire it up" --depends T001
  foreman add bug --title "Crash on empty file" --priority critical`,
}

func init() {
	for _, sub := range []*cobra.Command{addPhaseCmd, addMilestoneCmd, addEpicCmd, addTaskCmd, addBugCmd, addIdeaCmd} {
		sub.Flags().StringVar(&addTitle, "title", "", "Title of the unit (required)")
		sub.Flags().Float64Var(&addEstimate, "estimate", 0, "Estimate in hours")
		sub.Flags().StringVar(&addComplexity, "complexity", "", "Complexity: low, medium, high, critical")
		sub.MarkFlagRequired("title")
		addCmd.AddCommand(sub)
	}

	addMilestoneCmd.Flags().StringVar(&addPhase, "phase", "", "Parent phase ID (required)")
	addMilestoneCmd.MarkFlagRequired("phase")
	addMilestoneCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Milestone IDs this depends on")

	addEpicCmd.Flags().StringVar(&addMilestone, "milestone", "", "Parent milestone ID (required)")
	addEpicCmd.MarkFlagRequired("milestone")
	addEpicCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Epic IDs this depends on")

	addTaskCmd.Flags().StringVar(&addEpic, "epic", "", "Parent epic ID (required)")
	addTaskCmd.MarkFlagRequired("epic")
	addTaskCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Unit IDs this depends on")
	addTaskCmd.Flags().StringVar(&addPriority, "priority", "", "Priority: critical, high, medium, low")

	addPhaseCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Phase IDs this depends on")
	addPhaseCmd.Flags().StringVar(&addPriority, "priority", "", "Priority: critical, high, medium, low")

	addBugCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Unit IDs this depends on")
	addBugCmd.Flags().StringVar(&addPriority, "priority", "", "Priority: critical, high, medium, low")

	addIdeaCmd.Flags().StringSliceVar(&addDependsOn, "depends", nil, "Unit IDs this depends on")
	addIdeaCmd.Flags().StringVar(&addPriority, "priority", "", "Priority: critical, high, medium, low")
}

var addPhaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Add a phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			id := store.NextPhaseID(ctx.tree)
			ctx.tree.Phases = append(ctx.tree.Phases, models.Phase{
				ID:            id,
				Name:          addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Priority:      models.Priority(addPriority),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

var addMilestoneCmd = &cobra.Command{
	Use:   "milestone",
	Short: "Add a milestone to a phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			phase := ctx.tree.FindPhase(addPhase)
			if phase == nil {
				return "", fmt.Errorf("unknown phase %q", addPhase)
			}
			id := store.NextMilestoneID(phase)
			phase.Milestones = append(phase.Milestones, models.Milestone{
				ID:            id,
				Name:          addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Complexity:    models.Complexity(addComplexity),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

var addEpicCmd = &cobra.Command{
	Use:   "epic",
	Short: "Add an epic to a milestone",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			milestone := ctx.tree.FindMilestone(addMilestone)
			if milestone == nil {
				return "", fmt.Errorf("unknown milestone %q", addMilestone)
			}
			id := store.NextEpicID(milestone)
			milestone.Epics = append(milestone.Epics, models.Epic{
				ID:            id,
				Name:          addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Complexity:    models.Complexity(addComplexity),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

var addTaskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add a task to an epic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			epic := ctx.tree.FindEpic(addEpic)
			if epic == nil {
				return "", fmt.Errorf("unknown epic %q", addEpic)
			}
			id := store.NextTaskID(epic)
			epic.Tasks = append(epic.Tasks, models.Task{
				ID:            id,
				Title:         addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Complexity:    models.Complexity(addComplexity),
				Priority:      models.Priority(addPriority),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

var addBugCmd = &cobra.Command{
	Use:   "bug",
	Short: "Add a bug",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			id := store.NextBugID(ctx.tree)
			ctx.tree.Bugs = append(ctx.tree.Bugs, models.Task{
				ID:            id,
				Title:         addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Complexity:    models.Complexity(addComplexity),
				Priority:      models.Priority(addPriority),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

var addIdeaCmd = &cobra.Command{
	Use:   "idea",
	Short: "Add an idea",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTree(func(ctx *cmdContext) (string, error) {
			id := store.NextIdeaID(ctx.tree)
			ctx.tree.Ideas = append(ctx.tree.Ideas, models.Task{
				ID:            id,
				Title:         addTitle,
				Status:        models.StatusPending,
				EstimateHours: addEstimate,
				Complexity:    models.Complexity(addComplexity),
				Priority:      models.Priority(addPriority),
				DependsOn:     addDependsOn,
			})
			return id, nil
		})
	},
}

// withTree loads the backlog, applies a mutation, validates, and saves.
// Validation reruns Normalize so a bad add (duplicate dep ID, bad status)
// never reaches disk.
func withTree(mutate func(*cmdContext) (string, error)) error {
	ctx, err := loadContext()
	if err != nil {
		return err
	}

	id, err := mutate(ctx)
	if err != nil {
		return err
	}

	if err := store.Normalize(ctx.tree); err != nil {
		return err
	}
	if err := ctx.store.Save(ctx.tree); err != nil {
		return err
	}

	printOK("Added %s: %s", id, addTitle)
	return nil
}
