package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/parselord/stacks"
)

// DefaultPath is where the daemon keeps its config when -config is not given.
const DefaultPath = "parselord.yaml"

// Store owns the live Config. Readers take deep-copied snapshots; writers go
// through Update or Edit, which persist before returning.
type Store struct {
	mu   sync.RWMutex
	cfg  Config
	path string // empty: memory only

	lastWritten []byte
}

// NewMemoryStore returns a Store that never touches disk.
func NewMemoryStore(cfg Config) *Store {
	cfg = cfg.Clone()
	return &Store{cfg: cfg}
}

// Open loads path, or starts from Default if the file does not exist yet.
// The file is not created until the first change.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, cfg: Default()}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no config file, using defaults", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	s.lastWritten = data
	return s, nil
}

func parse(data []byte) (Config, error) {
	// Unmarshal over defaults so keys missing from the file keep their
	// default values.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PriorityStacks == nil {
		cfg.PriorityStacks = make(map[uint32]*stacks.JobConfig)
	}
	return cfg, nil
}

func (s *Store) Path() string { return s.path }

// Snapshot returns a deep copy safe to read without locks.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Update applies fn to the live config and persists the result. If fn
// returns an error nothing is written and the config is left untouched.
func (s *Store) Update(fn func(c *Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cfg.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.cfg = next
	return s.saveLocked()
}

// Edit implements stacks.Store. The in-memory tree keeps the change even if
// persisting fails; the error is returned to the caller.
func (s *Store) Edit(fn func(jobs map[uint32]*stacks.JobConfig) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.PriorityStacks == nil {
		s.cfg.PriorityStacks = make(map[uint32]*stacks.JobConfig)
	}
	changed, err := fn(s.cfg.PriorityStacks)
	if err != nil || !changed {
		return err
	}
	return s.saveLocked()
}

// Save writes the current config to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(&s.cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	s.lastWritten = data
	return nil
}

// Reload re-reads the file. It reports whether anything changed; content
// identical to our own last write is ignored. A file that fails to parse
// leaves the live config in place.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}
	// Read under the lock so a save racing with the watcher cannot be
	// overwritten by the bytes it replaced.
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("read config: %w", err)
	}
	if bytes.Equal(data, s.lastWritten) {
		return false, nil
	}
	cfg, err := parse(data)
	if err != nil {
		return false, err
	}
	s.cfg = cfg
	s.lastWritten = data
	return true, nil
}
