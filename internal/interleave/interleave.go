// Package interleave implements the scheduler of spec.md §4.5: given k
// compiled walks, each driving its own sequence of matches, it produces
// a single output sequence grouped by lexicographic offset prefix.
//
// Each walk's materialized matches are held in the teacher's
// internal/queue.Queue, extended here with a Peek so the scheduler can
// compare every lane's front match before deciding which lane to
// dequeue from.
package interleave

import (
	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/queue"
)

// Driver is the subset of walk.Iterator the scheduler drives: advancing
// to the next match and snapshotting enough of its state (current
// value, path, per-step counters, label-update marker) to reproduce a
// Match. Kept as an interface, rather than importing internal/walk
// directly, so the scheduler stays ignorant of the evaluator's internals.
type Driver interface {
	Next() (bool, error)
	Current() *jval.Value
	Path() []string
	Counters() []int
	IsLabelUpdate() bool
}

// Match is one snapshot produced by a walk: spec.md §4.5's "iterator",
// captured eagerly at materialization time since the live Driver is
// mutated in place by each Next() call.
type Match struct {
	WalkIndex     int
	Value         *jval.Value
	Path          []string
	Counters      []int
	IsLabelUpdate bool
}

// Materialize drives d to exhaustion, snapshotting every match (spec.md
// §4.5 step 1: "For each walk, materialize all produced iterators into
// a queue").
func Materialize(walkIdx int, d Driver) ([]Match, error) {
	var out []Match
	for {
		ok, err := d.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, Match{
			WalkIndex:     walkIdx,
			Value:         d.Current(),
			Path:          append([]string(nil), d.Path()...),
			Counters:      append([]int(nil), d.Counters()...),
			IsLabelUpdate: d.IsLabelUpdate(),
		})
	}
}

// lane is one walk's queue of not-yet-emitted matches.
type lane struct {
	q queue.Queue[Match]
}

func newLane(items []Match) *lane {
	q := queue.New[Match]()
	for _, m := range items {
		q.Enqueue(m)
	}
	return &lane{q: q}
}

func (l *lane) empty() bool { return l.q.IsEmpty() }

func (l *lane) front() Match {
	m, _ := l.q.Peek()
	return m
}

func (l *lane) pop() Match {
	m, _ := l.q.Dequeue()
	return m
}

// Result is one emitted match together with the scheduling metadata
// spec.md §4.5(c) says must ride along with it: the grouping size (how
// many lanes competed at the deciding column) and the lowest front
// counter at that column, both consumed by object-jsonizing output to
// decide when to open a new object.
type Result struct {
	Match
	GroupSize   int
	LowestFront int
}

// Schedule runs the interleaving algorithm of spec.md §4.5 over one
// materialized match queue per walk, in walk order.
func Schedule(walks [][]Match) []Result {
	lanes := make([]*lane, len(walks))
	for i, items := range walks {
		lanes[i] = newLane(items)
	}

	var out []Result
	for {
		actuals := actualLanes(lanes)
		if len(actuals) == 0 {
			break
		}
		if len(actuals) == 1 {
			l := actuals[0]
			m := l.front()
			out = append(out, Result{Match: l.pop(), GroupSize: 1, LowestFront: lowestNonNegative(m.Counters)})
			continue
		}

		width := 0
		for _, l := range actuals {
			if n := len(l.front().Counters); n > width {
				width = n
			}
		}

		survivors := append([]*lane(nil), actuals...)
		lowest := -1
		groupSize := len(survivors)
		for col := 0; col < width && len(survivors) > 1; col++ {
			lowest = -1
			for _, l := range survivors {
				v := counterAt(l.front().Counters, col)
				if v < 0 {
					continue
				}
				if lowest < 0 || v < lowest {
					lowest = v
				}
			}
			if lowest < 0 {
				// Every surviving lane is non-iterable at this column;
				// carry all forward unchanged (spec.md §4.5 step 3).
				continue
			}
			// The size of the competing set AT this column (spec.md
			// §4.5(c)) is measured before narrowing it down.
			groupSize = len(survivors)
			var next []*lane
			for _, l := range survivors {
				v := counterAt(l.front().Counters, col)
				if v < 0 || v == lowest {
					next = append(next, l)
				}
			}
			survivors = next
		}

		winner := survivors[0]
		out = append(out, Result{Match: winner.pop(), GroupSize: groupSize, LowestFront: lowest})
	}
	return out
}

func counterAt(row []int, col int) int {
	if col >= len(row) {
		return -1
	}
	return row[col]
}

func actualLanes(lanes []*lane) []*lane {
	var out []*lane
	for _, l := range lanes {
		if !l.empty() {
			out = append(out, l)
		}
	}
	return out
}

func lowestNonNegative(row []int) int {
	lowest := -1
	for _, v := range row {
		if v < 0 {
			continue
		}
		if lowest < 0 || v < lowest {
			lowest = v
		}
	}
	return lowest
}

// Sequential concatenates every walk's matches in walk order: the `-n`
// mode of spec.md §4.5 ("Disables interleaving; walks are concatenated
// in order"). Doubling (`-nn`) is a display concern (suppressing
// grouping for jsonized array output) and is applied by the caller over
// these Results rather than here: every Result below already carries
// GroupSize 1, which is what `-nn` wants regardless of mode.
func Sequential(walks [][]Match) []Result {
	var out []Result
	for _, items := range walks {
		for _, m := range items {
			out = append(out, Result{Match: m, GroupSize: 1, LowestFront: lowestNonNegative(m.Counters)})
		}
	}
	return out
}
