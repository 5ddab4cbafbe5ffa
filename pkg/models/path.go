package models

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	hierarchicalIDPattern = regexp.MustCompile(`^P\d+(\.M\d+(\.E\d+(\.T\d+)?)?)?$`)
	bugIDPattern          = regexp.MustCompile(`^B\d+$`)
	ideaIDPattern         = regexp.MustCompile(`^I\d+$`)
	shortIDPattern        = regexp.MustCompile(`^(M|E|T)\d+$`)
)

// UnitPath is a parsed hierarchical ID. Deeper components are empty when the
// ID names a coarser scope (e.g. "P1.M2" has empty Epic and Task).
type UnitPath struct {
	Phase     string
	Milestone string
	Epic      string
	Task      string
}

// Depth returns how many levels the path names (1 = phase ... 4 = task).
func (p UnitPath) Depth() int {
	switch {
	case p.Task != "":
		return 4
	case p.Epic != "":
		return 3
	case p.Milestone != "":
		return 2
	default:
		return 1
	}
}

// ParseUnitPath parses a hierarchical ID like "P1.M1.E1.T001" into its
// components. Auxiliary IDs (B1, I1) are not paths and are rejected.
func ParseUnitPath(id string) (UnitPath, error) {
	id = strings.TrimSpace(id)
	if !hierarchicalIDPattern.MatchString(id) {
		return UnitPath{}, fmt.Errorf("malformed hierarchical id: %q", id)
	}
	parts := strings.Split(id, ".")
	path := UnitPath{Phase: parts[0]}
	if len(parts) > 1 {
		path.Milestone = parts[0] + "." + parts[1]
	}
	if len(parts) > 2 {
		path.Epic = path.Milestone + "." + parts[2]
	}
	if len(parts) > 3 {
		path.Task = path.Epic + "." + parts[3]
	}
	return path, nil
}

// ValidUnitID reports whether id is a well-formed unit identifier: a
// hierarchical ID, a short scope-relative ID, or an auxiliary bug/idea ID.
func ValidUnitID(id string) bool {
	id = strings.TrimSpace(id)
	return hierarchicalIDPattern.MatchString(id) ||
		shortIDPattern.MatchString(id) ||
		bugIDPattern.MatchString(id) ||
		ideaIDPattern.MatchString(id)
}
