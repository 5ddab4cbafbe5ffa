package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the rename+create burst an atomic save produces into a
// single reload.
const debounce = 200 * time.Millisecond

// Watch runs the board and reloads it whenever the backlog document changes.
// It blocks until the user quits.
func Watch(backlogPath string, loader Loader, refresh time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: saves replace the file by rename,
	// which drops a watch registered on the old inode.
	if err := watcher.Add(filepath.Dir(backlogPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(backlogPath), err)
	}

	board := NewBoard(loader, refresh)
	p := tea.NewProgram(board, tea.WithAltScreen())

	done := make(chan struct{})
	go func() {
		var timer *time.Timer
		target := filepath.Base(backlogPath)
		for {
			select {
			case <-done:
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					p.Send(FileChangedMsg{})
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.Send(WatchErrMsg{Err: err})
			}
		}
	}()

	_, err = p.Run()
	close(done)
	return err
}
