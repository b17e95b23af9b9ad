package interleave

import (
	"reflect"
	"testing"
)

func matches(walkIdx int, counters ...[]int) []Match {
	var out []Match
	for _, c := range counters {
		out = append(out, Match{WalkIndex: walkIdx, Counters: c})
	}
	return out
}

func TestScheduleGroupsBySharedPrefix(t *testing.T) {
	// Walk 0 yields offsets [0,0] and [0,1]; walk 1 yields [0,0]. The two
	// [0,0] matches should interleave ahead of walk 0's [0,1] (spec.md
	// §4.5: "iterators that share prefixes across walks interleave").
	walks := [][]Match{
		matches(0, []int{0, 0}, []int{0, 1}),
		matches(1, []int{0, 0}),
	}
	results := Schedule(walks)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].WalkIndex != 0 || !reflect.DeepEqual(results[0].Counters, []int{0, 0}) {
		t.Fatalf("result[0] = %+v, want walk 0, counters [0 0]", results[0])
	}
	if results[1].WalkIndex != 1 || !reflect.DeepEqual(results[1].Counters, []int{0, 0}) {
		t.Fatalf("result[1] = %+v, want walk 1, counters [0 0]", results[1])
	}
	if results[2].WalkIndex != 0 || !reflect.DeepEqual(results[2].Counters, []int{0, 1}) {
		t.Fatalf("result[2] = %+v, want walk 0, counters [0 1]", results[2])
	}
}

func TestScheduleSingleWalkPreservesOrder(t *testing.T) {
	walks := [][]Match{matches(0, []int{0}, []int{1}, []int{2})}
	results := Schedule(walks)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if !reflect.DeepEqual(r.Counters, []int{i}) {
			t.Fatalf("result[%d].Counters = %v, want [%d]", i, r.Counters, i)
		}
		if r.GroupSize != 1 {
			t.Fatalf("result[%d].GroupSize = %d, want 1", i, r.GroupSize)
		}
	}
}

func TestScheduleNonIterableCounterDoesNotCompete(t *testing.T) {
	// A step offset of -1 (non-iterable) must be carried forward without
	// competing (spec.md §4.5 step 3).
	walks := [][]Match{
		matches(0, []int{-1, 0}),
		matches(1, []int{-1, 1}),
	}
	results := Schedule(walks)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].GroupSize != 2 {
		t.Fatalf("result[0].GroupSize = %d, want 2", results[0].GroupSize)
	}
	if results[0].WalkIndex != 0 {
		t.Fatalf("result[0].WalkIndex = %d, want 0", results[0].WalkIndex)
	}
	if results[1].WalkIndex != 1 {
		t.Fatalf("result[1].WalkIndex = %d, want 1", results[1].WalkIndex)
	}
}

func TestSequentialConcatenatesInWalkOrder(t *testing.T) {
	walks := [][]Match{
		matches(0, []int{5}, []int{1}),
		matches(1, []int{0}),
	}
	results := Sequential(walks)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	gotOrder := []int{results[0].WalkIndex, results[1].WalkIndex, results[2].WalkIndex}
	wantOrder := []int{0, 0, 1}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("walk order = %v, want %v", gotOrder, wantOrder)
	}
	for i, r := range results {
		if r.GroupSize != 1 {
			t.Fatalf("result[%d].GroupSize = %d, want 1", i, r.GroupSize)
		}
	}
}
