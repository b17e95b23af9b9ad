// Package ops implements the operation engine of spec.md §4.6: compare,
// insert, update, swap and purge, each driven by compiled destination
// walks and an optional source (static JSON, a file, a walk, or a
// shell-evaluated command).
package ops

import (
	"os/exec"
	"strings"

	"github.com/mibar/jtc/internal/jval"
)

// Source yields the values an operation applies against its destination
// matches, one at a time, the way spec.md §4.6 describes a source:
// "static JSON, a file, a walk, or a shell-evaluated CLI".
type Source interface {
	Next() (*jval.Value, bool, error)
}

type sliceSource struct {
	values []*jval.Value
	pos    int
}

// FromValues wraps an already-materialized sequence of values (typically
// the snapshots of a source walk, see internal/interleave.Match) as a
// Source.
func FromValues(values []*jval.Value) Source {
	return &sliceSource{values: values}
}

// Static wraps a single JSON value — literal source text or a parsed
// file — as a one-shot Source.
func Static(v *jval.Value) Source {
	return &sliceSource{values: []*jval.Value{v}}
}

func (s *sliceSource) Next() (*jval.Value, bool, error) {
	if s.pos >= len(s.values) {
		return nil, false, nil
	}
	v := s.values[s.pos]
	s.pos++
	return v, true, nil
}

type shellSource struct {
	cmdline string
	done    bool
}

// Shell runs cmdline through the system shell (spec.md §4.6 "Shell
// evaluation"): the caller has already interpolated the command line via
// namespace.InterpolateShell. Its stdout is parsed as JSON; if that
// fails, the trimmed output is promoted to a JSON string instead (the
// printer handles escaping on output, so no separate sanitization step
// is needed here).
func Shell(cmdline string) Source {
	return &shellSource{cmdline: cmdline}
}

func (s *shellSource) Next() (*jval.Value, bool, error) {
	if s.done {
		return nil, false, nil
	}
	s.done = true
	out, err := exec.Command("sh", "-c", s.cmdline).Output()
	if err != nil {
		return nil, false, err
	}
	text := strings.TrimRight(string(out), "\n")
	if v, perr := jval.Parse([]byte(text), jval.Options{}); perr == nil {
		return v, true, nil
	}
	return jval.NewString(text), true, nil
}
