// Package staleness decides whether an invocation's outputs still
// faithfully reflect its inputs and description, or whether it must
// re-run.
package staleness

import (
	"time"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
)

// Detector evaluates invocations against the filesystem and the prior
// build's recorded state.
type Detector struct {
	fs ports.Filesystem
}

// NewDetector creates a Detector reading through the given filesystem.
func NewDetector(filesystem ports.Filesystem) *Detector {
	return &Detector{fs: filesystem}
}

// IsStale reports whether the invocation must re-run, with a reason
// suitable for logs. record is the persisted state from the last
// successful run, nil when the invocation has never completed.
//
// The decision procedure, in order: a missing declared output is stale;
// any declared input, input dependency, or previously discovered input
// newer than the oldest output is stale; a changed description
// (executable, arguments, environment, working directory) is stale even
// when no file moved. Phony inputs participate only while present on
// disk, and order dependencies never participate at all.
func (d *Detector) IsStale(inv *domain.Invocation, record *domain.InvocationRecord) (bool, string) {
	if record == nil {
		return true, "never built"
	}

	// Without outputs there is nothing to compare timestamps against, so
	// the invocation can never be proven up to date.
	if len(inv.Outputs) == 0 {
		return true, "no declared outputs"
	}

	oldestOutput, missing := d.oldestOutput(inv.Outputs)
	if missing != "" {
		return true, "missing output " + missing
	}

	for _, set := range [][]string{inv.Inputs, inv.InputDependencies, record.DiscoveredInputs} {
		for _, input := range set {
			info, err := d.fs.Stat(input)
			if err != nil {
				// A vanished input cannot be proven older than the
				// outputs; re-run so the tool reports the real problem.
				return true, "missing input " + input
			}
			if info.ModTime().After(oldestOutput) {
				return true, "input " + input + " changed"
			}
		}
	}

	for _, input := range inv.PhonyInputs {
		info, err := d.fs.Stat(input)
		if err != nil {
			// Phony inputs may legitimately not exist.
			continue
		}
		if info.ModTime().After(oldestOutput) {
			return true, "input " + input + " changed"
		}
	}

	if record.DescriptionHash != inv.DescriptionHash() {
		return true, "command changed"
	}

	return false, ""
}

// oldestOutput stats every declared output and returns the oldest
// modification time, or the first missing path. Outputs of invocations
// that create product structure are directories; Stat covers those the
// same way.
func (d *Detector) oldestOutput(outputs []string) (time.Time, string) {
	var oldest time.Time
	for i, output := range outputs {
		info, err := d.fs.Stat(output)
		if err != nil {
			return time.Time{}, output
		}
		if i == 0 || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
	}
	return oldest, ""
}
