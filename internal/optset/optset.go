// Package optset implements the option-set decomposition driver of
// spec.md §4.7: the command line may be split by bare `/` into
// independent sets, threading a global JSON document and a global
// namespace between them.
package optset

import (
	"fmt"

	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/namespace"
)

// TransientOption names one of the flags spec.md §4.7 calls out as
// transient across sets ("debug, indent, raw, quote-solidus, size,
// force-write, - read-from-stdin"): it may appear only in the first or
// last set; appearance elsewhere is ignored with a notice.
type TransientOption string

const (
	OptDebug        TransientOption = "debug"
	OptIndent       TransientOption = "indent"
	OptRaw          TransientOption = "raw"
	OptQuoteSolidus TransientOption = "quote-solidus"
	OptSize         TransientOption = "size"
	OptForceWrite   TransientOption = "force-write"
	OptStdin        TransientOption = "stdin"
)

var transientOptions = map[TransientOption]bool{
	OptDebug: true, OptIndent: true, OptRaw: true, OptQuoteSolidus: true,
	OptSize: true, OptForceWrite: true, OptStdin: true,
}

// Set is one `/`-delimited slice of the command line, already split by
// the caller's argv tokenizer (internal/cli owns the actual `/`
// splitting; it splits on bare `/` tokens and leaves quoting to the shell).
type Set struct {
	Args      []string
	Transient map[TransientOption]bool // transient options this set specified
}

// Notice is a non-fatal diagnostic surfaced when a transient option
// appears somewhere other than the first or last set.
type Notice struct {
	Set     int
	Option  TransientOption
	Message string
}

// Run executes a single set's worth of work. The driver calls it once
// per Set, threading the returned document and namespace into the next
// call — supplied by the caller (cmd/jtc wires the walk/ops
// pipeline here) so this package stays ignorant of the engine's
// internals, mirroring internal/interleave's Driver decoupling.
type Run func(set Set, doc *jval.Value, ns *namespace.NS) (*jval.Value, error)

// Driver threads the global JSON document and global namespace across
// a command line's option sets (spec.md §4.7).
type Driver struct {
	run Run
}

// NewDriver returns a Driver that executes each set via run.
func NewDriver(run Run) *Driver {
	return &Driver{run: run}
}

// Execute runs every set in order: "the first set's output becomes the
// input of the next." Between sets it re-normalizes array indices (if
// doc mutated, via the caller-supplied run's own bookkeeping — run is
// expected to call jval.Tree.NormalizeIdx itself when it mutates),
// hands the same global namespace to every set's run (so names bound by
// one set are visible to the next; there is no separate merge step), and
// preserves $file. It also validates the transient-option placement
// rule, returning any violations as Notices rather than failing the run.
func (d *Driver) Execute(sets []Set, doc *jval.Value, global *namespace.NS, file string) (*jval.Value, []Notice, error) {
	if global == nil {
		global = namespace.New()
	}
	global.Set(namespace.FileKey, jval.NewString(file))

	notices := validateTransientPlacement(sets)

	cur := doc
	for i, s := range sets {
		out, err := d.run(s, cur, global)
		if err != nil {
			return cur, notices, fmt.Errorf("optset: set %d: %w", i, err)
		}
		cur = out
	}
	return cur, notices, nil
}

// validateTransientPlacement implements spec.md §4.7: transient options
// "may appear only in the first or last set; appearance elsewhere is
// ignored with a notice."
func validateTransientPlacement(sets []Set) []Notice {
	var notices []Notice
	if len(sets) == 0 {
		return nil
	}
	last := len(sets) - 1
	for i, s := range sets {
		if i == 0 || i == last {
			continue
		}
		for opt := range s.Transient {
			if transientOptions[opt] {
				notices = append(notices, Notice{
					Set:     i,
					Option:  opt,
					Message: fmt.Sprintf("transient option %q ignored in set %d (only valid in first or last set)", opt, i),
				})
			}
		}
	}
	return notices
}
