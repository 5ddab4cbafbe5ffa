package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foreman/internal/store"
)

var initProjectName string

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a backlog in a directory",
	Long: `Initialize a directory for use with Foreman.

Creates the .foreman data directory with an empty backlog document. The
directory argument is optional and defaults to the current directory.

Examples:
  foreman init                       # Initialize current directory
  foreman init ./myproject           # Initialize specific directory
  foreman init --project "Widgets"   # Override the project name`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initProjectName, "project", "", "Project name (defaults to the directory name)")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	project := initProjectName
	if project == "" {
		project = filepath.Base(absPath)
	}

	st := store.New(filepath.Join(absPath, store.DataDirName))
	if err := st.Init(project); err != nil {
		return err
	}

	printOK("Initialized backlog for %q in %s", project, st.Dir())
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  foreman add phase --title \"Phase 1\"")
	fmt.Println("  foreman add task --epic P1.M1.E1 --title \"your first task\"")
	fmt.Println("  foreman next")
	return nil
}
