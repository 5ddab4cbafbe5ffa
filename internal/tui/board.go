// Package tui provides the live backlog board shown by watch mode.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/foreman/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true).
			MarginTop(1)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC857"))

	nextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96E6A1")).
			Bold(true)

	claimedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45B7D1"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Snapshot is one computed view of the backlog.
type Snapshot struct {
	Project   string
	Path      []string
	Next      string
	Available []string
	Tree      *models.Tree
	Err       error
	At        time.Time
}

// Loader recomputes a snapshot from disk.
type Loader func() Snapshot

// SnapshotMsg delivers a freshly computed snapshot to the board.
type SnapshotMsg struct {
	Snapshot Snapshot
}

// FileChangedMsg is sent when the backlog document changes on disk.
type FileChangedMsg struct{}

// WatchErrMsg reports a watcher failure. The board keeps running and shows
// the error in the footer.
type WatchErrMsg struct {
	Err error
}

// tickMsg drives the periodic redraw that keeps claim ages current between
// file changes.
type tickMsg time.Time

// Board is the bubbletea model for watch mode.
type Board struct {
	loader   Loader
	refresh  time.Duration
	snapshot Snapshot
	spinner  spinner.Model
	loading  bool
	watchErr error
	width    int
	height   int
	quitting bool
}

// NewBoard creates a Board that pulls snapshots from the given loader. A
// positive refresh interval redraws the board periodically so relative times
// stay current; zero disables periodic redraws.
func NewBoard(loader Loader, refresh time.Duration) *Board {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857"))
	return &Board{
		loader:  loader,
		refresh: refresh,
		spinner: s,
		loading: true,
	}
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.reload(), b.tick())
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			b.quitting = true
			return b, tea.Quit
		case "r":
			b.loading = true
			return b, b.reload()
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height

	case FileChangedMsg:
		b.loading = true
		return b, b.reload()

	case SnapshotMsg:
		b.loading = false
		b.snapshot = msg.Snapshot

	case WatchErrMsg:
		b.watchErr = msg.Err

	case tickMsg:
		return b, b.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}

	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.quitting {
		return ""
	}

	var out strings.Builder

	project := b.snapshot.Project
	if project == "" {
		project = "backlog"
	}
	out.WriteString(titleStyle.Render("foreman watch: " + project))
	out.WriteString("\n")

	if b.loading {
		out.WriteString(b.spinner.View() + " reloading...\n")
	} else if !b.snapshot.At.IsZero() {
		out.WriteString(dimStyle.Render("updated " + b.snapshot.At.Format("15:04:05")))
		out.WriteString("\n")
	}

	if b.snapshot.Err != nil {
		out.WriteString(sectionStyle.Render("Error"))
		out.WriteString("\n" + errStyle.Render(b.snapshot.Err.Error()) + "\n")
		return out.String() + b.footer()
	}

	out.WriteString(sectionStyle.Render("Critical path"))
	out.WriteString("\n")
	if len(b.snapshot.Path) == 0 {
		out.WriteString(dimStyle.Render("  (empty)") + "\n")
	}
	for _, id := range b.snapshot.Path {
		line := "  " + id
		if title := b.unitTitle(id); title != "" {
			line += "  " + title
		}
		if id == b.snapshot.Next {
			out.WriteString(nextStyle.Render(line+"  <- next") + "\n")
		} else {
			out.WriteString(pathStyle.Render(line) + "\n")
		}
	}

	out.WriteString(sectionStyle.Render("Available"))
	out.WriteString("\n")
	if len(b.snapshot.Available) == 0 {
		out.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for _, id := range b.snapshot.Available {
		line := "  " + id
		if title := b.unitTitle(id); title != "" {
			line += "  " + title
		}
		out.WriteString(line + "\n")
	}

	claimed := b.claimedUnits()
	out.WriteString(sectionStyle.Render("In progress"))
	out.WriteString("\n")
	if len(claimed) == 0 {
		out.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for _, task := range claimed {
		age := ""
		if task.ClaimedAt != nil {
			age = fmt.Sprintf(" (%s)", time.Since(*task.ClaimedAt).Round(time.Minute))
		}
		out.WriteString(claimedStyle.Render(fmt.Sprintf("  %s  %s by %s%s", task.ID, task.Title, task.ClaimedBy, age)) + "\n")
	}

	return out.String() + b.footer()
}

func (b *Board) footer() string {
	footer := "\n" + dimStyle.Render("r to reload | q to quit")
	if b.watchErr != nil {
		footer += "\n" + errStyle.Render("watch: "+b.watchErr.Error())
	}
	return footer + "\n"
}

func (b *Board) unitTitle(id string) string {
	if b.snapshot.Tree == nil {
		return ""
	}
	if task := b.snapshot.Tree.FindTask(id); task != nil {
		return task.Title
	}
	return ""
}

func (b *Board) claimedUnits() []*models.Task {
	if b.snapshot.Tree == nil {
		return nil
	}
	var claimed []*models.Task
	for _, task := range b.snapshot.Tree.AllTasks() {
		if task.Status == models.StatusInProgress {
			claimed = append(claimed, task)
		}
	}
	return claimed
}

func (b *Board) reload() tea.Cmd {
	loader := b.loader
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: loader()}
	}
}

func (b *Board) tick() tea.Cmd {
	if b.refresh <= 0 {
		return nil
	}
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
