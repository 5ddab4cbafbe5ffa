package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/config"
	"github.com/ShayCichocki/foreman/internal/history"
)

var (
	claimAgent       string
	claimSiblings    int
	claimIndependent int
)

var claimCmd = &cobra.Command{
	Use:   "claim [unit-id]",
	Short: "Claim a unit of work",
	Long: `Claim a unit for the current agent. With no argument the scheduler picks
the next available unit.

Batch claiming hands an agent several units at once:
  --siblings N      also claim up to N follow-on tasks in the same epic
  --independent N   also claim up to N tasks from unrelated parts of the tree

Sibling batches assume the agent completes them in order; independent batches
pick units that cannot conflict with each other.

Examples:
  foreman claim                          # claim whatever is next
  foreman claim P1.M1.E1.T002            # claim a specific task
  foreman claim --siblings 2             # claim next plus 2 siblings
  foreman claim --independent 3 --agent ci-runner`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClaim,
}

func init() {
	claimCmd.Flags().StringVar(&claimAgent, "agent", "", "Agent identity (defaults to FOREMAN_AGENT, config, or hostname)")
	claimCmd.Flags().IntVar(&claimSiblings, "siblings", 0, "Also claim up to N sibling tasks in the same epic")
	claimCmd.Flags().IntVar(&claimIndependent, "independent", 0, "Also claim up to N independent tasks elsewhere in the tree")
}

func runClaim(cmd *cobra.Command, args []string) error {
	if claimSiblings > 0 && claimIndependent > 0 {
		return fmt.Errorf("--siblings and --independent are mutually exclusive")
	}

	ctx, err := loadContext()
	if err != nil {
		return err
	}

	agent, source := config.ResolveAgent(ctx.cfg, claimAgent)
	if err := config.ValidateAgentName(agent); err != nil {
		return err
	}

	sched := ctx.scheduler()

	primary := ""
	if len(args) > 0 {
		primary = args[0]
		ok, err := sched.CanStart(primary)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unit %s is not available (run 'foreman why %s')", primary, primary)
		}
	} else {
		_, next, err := sched.Calculate()
		if err != nil {
			return err
		}
		if next == "" {
			fmt.Println("Nothing available to claim.")
			return nil
		}
		primary = next
	}

	batch := []string{primary}
	switch {
	case claimSiblings > 0:
		siblings, err := sched.FindSiblingTasks(primary, claimSiblings)
		if err != nil {
			return err
		}
		batch = append(batch, siblings...)
	case claimIndependent > 0:
		independent, err := sched.FindIndependentTasks(primary, claimIndependent)
		if err != nil {
			return err
		}
		batch = append(batch, independent...)
	}

	now := nowFunc()
	for _, id := range batch {
		task := ctx.tree.FindTask(id)
		if task == nil {
			return fmt.Errorf("unknown unit %q", id)
		}
		if err := task.Claim(agent, now); err != nil {
			return err
		}
	}

	if err := ctx.store.Save(ctx.tree); err != nil {
		return err
	}

	for _, id := range batch {
		ctx.recordEvent(ctx.tree.FindTask(id), history.EventClaim, agent)
	}

	if len(batch) == 1 {
		printOK("Claimed %s as %s (agent from %s)", primary, agent, source)
	} else {
		printOK("Claimed %d units as %s (agent from %s)", len(batch), agent, source)
		for _, id := range batch {
			line := "  " + id
			if t := ctx.tree.FindTask(id); t != nil {
				line += "  " + t.Title
			}
			fmt.Println(line)
		}
	}
	return nil
}
