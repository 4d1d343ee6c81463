package testing

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/slots/pkg/core"
)

type fakeT struct {
	errors []string
	fatals []string
}

func (f *fakeT) Helper()      {}
func (f *fakeT) Name() string { return "fake" }
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func mountPair(t *testing.T) (*Tester, *core.Instance[core.State[string]]) {
	tester := NewTesterWithT(t)
	inst := Mount(tester, "Pair", func(h *core.Hooks) core.State[string] {
		core.UseState(h, 7)
		return core.UseState(h, "a")
	})
	return tester, inst
}

func TestCaptureSnapshot(t *testing.T) {
	_, inst := mountPair(t)

	snap := CaptureSnapshot(inst)

	if snap.Instance != "Pair" || snap.State != "clean" || snap.Version != 1 {
		t.Errorf("Unexpected snapshot header: %+v", snap)
	}
	if len(snap.Cells) != 2 || snap.Cells[0] != 7 || snap.Cells[1] != "a" {
		t.Errorf("Unexpected cells: %v", snap.Cells)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	tester, inst := mountPair(t)
	a := CaptureSnapshot(inst)
	b := CaptureSnapshot(inst)
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	inst.Output().Set("b")
	tester.MustPump()
	c := CaptureSnapshot(inst)
	if diff := c.Diff(a); diff == "" {
		t.Error("expected a diff after an update")
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	tester, inst := mountPair(t)
	path := filepath.Join(t.TempDir(), "nested", "pair.snapshot.yaml")

	if err := CaptureSnapshot(inst).UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}
	CaptureSnapshot(inst).MatchesFile(t, path)

	inst.Output().Set("changed")
	tester.MustPump()

	fake := &fakeT{}
	CaptureSnapshot(inst).MatchesFile(fake, path)
	if len(fake.errors) != 1 || !strings.Contains(fake.errors[0], "snapshot mismatch") {
		t.Errorf("Expected a mismatch report, got %v", fake.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	_, inst := mountPair(t)
	fake := &fakeT{}

	CaptureSnapshot(inst).MatchesFile(fake, filepath.Join(t.TempDir(), "missing.yaml"))

	if len(fake.fatals) != 1 || !strings.Contains(fake.fatals[0], "SLOTS_UPDATE_SNAPSHOTS=1") {
		t.Errorf("Expected a missing-file report, got %v", fake.fatals)
	}
}
