// Package testing provides a harness for testing components and behavior
// units without a host event loop.
//
// # Quick Start
//
// Create a tester, mount a component, fire handlers and pump:
//
//	func TestCounter(t *testing.T) {
//	    tester := slotstest.NewTesterWithT(t)
//	    counter := slotstest.Mount(tester, "Counter", Counter)
//
//	    counter.Output().Increment()
//	    tester.Pump()
//
//	    if counter.Output().Label != "Count: 1" {
//	        t.Errorf("unexpected label %q", counter.Output().Label)
//	    }
//	}
//
// The tester installs its own error handler, so consistency violations and
// render errors are collected instead of logged and can be asserted with
// Errors.
//
// # Snapshot Testing
//
// Capture and compare the cells of an instance:
//
//	snapshot := slotstest.CaptureSnapshot(counter)
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.yaml")
//
// Update snapshots with:
//
//	SLOTS_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import slotstest "github.com/go-drift/slots/pkg/testing"
package testing
