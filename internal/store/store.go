// Package store persists the backlog tree as a YAML document under the
// project data directory. There is no locking: concurrent agents each run a
// full load-compute-save cycle and the last writer wins.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/foreman/pkg/models"
)

const (
	// DataDirName is the per-project data directory.
	DataDirName = ".foreman"
	// BacklogFile is the backlog document inside the data directory.
	BacklogFile = "backlog.yaml"
)

// ErrNotInitialized indicates no backlog exists at the store's path.
var ErrNotInitialized = errors.New("no backlog found (run 'foreman init' first)")

// Store reads and writes one project's backlog.
type Store struct {
	dir string
}

// New creates a Store rooted at the given data directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's data directory.
func (s *Store) Dir() string { return s.dir }

// BacklogPath returns the path of the backlog document.
func (s *Store) BacklogPath() string { return filepath.Join(s.dir, BacklogFile) }

// Find walks up from startDir looking for an existing data directory,
// mirroring how project config files are discovered.
func Find(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DataDirName)
		if info, err := os.Stat(filepath.Join(candidate, BacklogFile)); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialized
		}
		dir = parent
	}
}

// Init creates the data directory and an empty backlog for the project.
func (s *Store) Init(project string) error {
	if _, err := os.Stat(s.BacklogPath()); err == nil {
		return fmt.Errorf("already initialized: %s exists", s.BacklogPath())
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return s.Save(&models.Tree{Project: project})
}

// Load reads, parses, and normalizes the backlog tree.
func (s *Store) Load() (*models.Tree, error) {
	data, err := os.ReadFile(s.BacklogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("read backlog: %w", err)
	}

	var tree models.Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse backlog: %w", err)
	}
	if err := Normalize(&tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// Save writes the tree back to disk. The write goes through a temp file and
// rename so readers never see a torn document.
func (s *Store) Save(tree *models.Tree) error {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode backlog: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, BacklogFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp backlog: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write backlog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp backlog: %w", err)
	}
	if err := os.Rename(tmpPath, s.BacklogPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace backlog: %w", err)
	}
	return nil
}
