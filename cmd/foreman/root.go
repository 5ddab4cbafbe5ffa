package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/config"
	"github.com/ShayCichocki/foreman/internal/history"
	"github.com/ShayCichocki/foreman/internal/schedule"
	"github.com/ShayCichocki/foreman/internal/store"
	"github.com/ShayCichocki/foreman/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "foreman",
	Short: "File-backed project backlog with a critical path scheduler",
	Long: `Foreman tracks a hierarchical backlog (phases, milestones, epics, tasks,
plus flat bugs and ideas) in a YAML file and schedules work for agents.

The scheduler builds a weighted dependency graph from the backlog, finds the
critical path, and picks the next unit an agent should claim. Multiple agents
can work the same backlog: claims are recorded in the file and stale claims
can be reclaimed.

Core commands:
  foreman init          Set up a backlog in the current directory
  foreman next          Show the critical path and the next unit to work
  foreman claim         Claim the next available unit (or a specific one)
  foreman done          Mark a claimed unit complete
  foreman why <id>      Explain why a unit can or cannot start`,
	SilenceUsage: true,
	RunE:         runSummary,
}

// runSummary prints a quick board summary when foreman is invoked bare.
// Outside a project it falls back to the help text.
func runSummary(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext()
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return cmd.Help()
		}
		return err
	}

	if ctx.tree.Project != "" {
		fmt.Println(color.New(color.Bold).Sprint(ctx.tree.Project))
	}

	counts := make(map[models.Status]int)
	claimed := 0
	for _, task := range ctx.tree.AllTasks() {
		counts[task.Status]++
		if task.Claimed() {
			claimed++
		}
	}
	total := len(ctx.tree.AllTasks())
	fmt.Printf("%d units: %d pending, %d in progress, %d done\n",
		total, counts[models.StatusPending], counts[models.StatusInProgress], counts[models.StatusDone])
	if claimed > 0 {
		fmt.Printf("%d claimed\n", claimed)
	}

	_, next, err := ctx.scheduler().Calculate()
	if err != nil {
		return err
	}
	if next == "" {
		fmt.Println("Nothing available to work on.")
		return nil
	}
	line := next
	if task := ctx.tree.FindTask(next); task != nil {
		line += "  " + task.Title
	}
	fmt.Printf("Next: %s\n", color.New(color.FgGreen, color.Bold).Sprint(line))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(unclaimCmd)
	rootCmd.AddCommand(reclaimCmd)
	rootCmd.AddCommand(whyCmd)
	rootCmd.AddCommand(blockedCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(velocityCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// cmdContext bundles the objects most commands need.
type cmdContext struct {
	cfg   *config.Config
	store *store.Store
	tree  *models.Tree
}

// loadContext discovers the project, loads config and the backlog tree.
func loadContext() (*cmdContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	dataDir, err := store.Find(cwd)
	if err != nil {
		return nil, err
	}

	st := store.New(dataDir)
	tree, err := st.Load()
	if err != nil {
		return nil, err
	}

	return &cmdContext{cfg: cfg, store: st, tree: tree}, nil
}

// scheduler builds a scheduler over the loaded tree with configured
// multipliers.
func (c *cmdContext) scheduler() *schedule.Scheduler {
	return schedule.New(c.tree, c.cfg.Multipliers())
}

// recordEvent appends an event to the history log. History failures are
// reported but never block the command: the backlog file is the source of
// truth, the log is advisory.
func (c *cmdContext) recordEvent(task *models.Task, event history.EventType, agent string) {
	if !c.cfg.History.Enabled {
		return
	}
	path := c.cfg.History.Path
	if path == "" {
		path = history.DefaultPath(c.store.Dir())
	}
	db, err := history.Open(path)
	if err != nil {
		printWarn("history: %v", err)
		return
	}
	defer db.Close()
	if err := db.Record(task, event, agent, nowFunc()); err != nil {
		printWarn("history: %v", err)
	}
}

// openHistory opens the event log for read-side commands.
func (c *cmdContext) openHistory() (*history.DB, error) {
	path := c.cfg.History.Path
	if path == "" {
		path = history.DefaultPath(c.store.Dir())
	}
	return history.Open(path)
}

func printOK(format string, args ...any) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printWarn(format string, args ...any) {
	fmt.Printf("%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}

func statusColor(status models.Status) *color.Color {
	switch status {
	case models.StatusDone:
		return color.New(color.FgGreen)
	case models.StatusInProgress:
		return color.New(color.FgCyan)
	case models.StatusBlocked:
		return color.New(color.FgRed)
	case models.StatusRejected, models.StatusCancelled:
		return color.New(color.Faint)
	default:
		return color.New(color.FgWhite)
	}
}
