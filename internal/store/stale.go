package store

import (
	"time"

	"github.com/ShayCichocki/foreman/pkg/models"
)

// DefaultStaleClaimAge is how old a claim may grow before reclamation.
const DefaultStaleClaimAge = 120 * time.Minute

// FindStaleClaims returns units claimed longer than maxAge ago that were
// never completed. The original claimant may still be working; reclaiming
// anyway is a deliberate liveness-over-safety tradeoff.
func FindStaleClaims(tree *models.Tree, maxAge time.Duration, now time.Time) []*models.Task {
	var stale []*models.Task
	for _, task := range tree.AllTasks() {
		if task.Status != models.StatusInProgress || task.ClaimedAt == nil {
			continue
		}
		if now.Sub(*task.ClaimedAt) >= maxAge {
			stale = append(stale, task)
		}
	}
	return stale
}

// ReclaimStale resets every stale claim back to pending and returns the IDs
// that were reset. The caller is responsible for saving the tree.
func ReclaimStale(tree *models.Tree, maxAge time.Duration, now time.Time) ([]string, error) {
	var reclaimed []string
	for _, task := range FindStaleClaims(tree, maxAge, now) {
		if err := task.Release(); err != nil {
			return reclaimed, err
		}
		reclaimed = append(reclaimed, task.ID)
	}
	return reclaimed, nil
}
