package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/slots/pkg/core"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the lifecycle and cell values of one instance.
type Snapshot struct {
	Instance string `yaml:"instance"`
	State    string `yaml:"state"`
	Version  uint64 `yaml:"version"`
	Cells    []any  `yaml:"cells"`
}

// snapshotSource is satisfied by *core.Instance[T].
type snapshotSource interface {
	Name() string
	State() core.InstanceState
	Version() uint64
	CellValues() []any
}

// CaptureSnapshot records the committed cells of inst. Cell values must be
// plain data; handler closures are never stored in cells.
func CaptureSnapshot(inst snapshotSource) *Snapshot {
	return &Snapshot{
		Instance: inst.Name(),
		State:    inst.State().String(),
		Version:  inst.Version(),
		Cells:    inst.CellValues(),
	}
}

// MatchesFile compares the snapshot against a golden YAML file.
// With SLOTS_UPDATE_SNAPSHOTS=1 the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("SLOTS_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: SLOTS_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	actual, err := s.Marshal()
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %v", err)
		return
	}
	if diff := lineDiff(string(expected), string(actual)); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\nTo update: SLOTS_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Diff returns a line diff between two snapshots, or "" if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := s.Marshal()
	b, _ := other.Marshal()
	return lineDiff(string(b), string(a))
}

func lineDiff(expected, actual string) string {
	return cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n"))
}
