package ops

import (
	"testing"

	"github.com/mibar/jtc/internal/jval"
)

func parseTree(t *testing.T, src string) *jval.Tree {
	t.Helper()
	v, err := jval.Parse([]byte(src), jval.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return jval.NewTree(v)
}

func TestInsertObjectMergesNonClashingLabels(t *testing.T) {
	tr := parseTree(t, `{"a":1}`)
	src, err := jval.Parse([]byte(`{"b":2}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: tr.Root()}
	if err := Insert(tr, []Pair{{Dest: dest, Src: src}}, false); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	b, ok := tr.Root().Get("b")
	if !ok || b.Num() != 2.0 {
		t.Fatalf("b = (%v, %v), want (2, true)", b, ok)
	}
}

func TestInsertArrayNoMergeAppendsIterableAsIs(t *testing.T) {
	tr := parseTree(t, `[1]`)
	src, err := jval.Parse([]byte(`[2,3]`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: tr.Root()}
	if err := Insert(tr, []Pair{{Dest: dest, Src: src}}, false); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if tr.Root().Len() != 2 {
		t.Fatalf("root has %d children, want 2", tr.Root().Len())
	}
	second, _ := tr.Root().At(1)
	if second.Kind() != jval.Array || second.Len() != 2 {
		t.Fatalf("second child = kind %v len %d, want array len 2", second.Kind(), second.Len())
	}
}

func TestInsertArrayMergeAppendsEachChild(t *testing.T) {
	tr := parseTree(t, `[1]`)
	src, err := jval.Parse([]byte(`[2,3]`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: tr.Root()}
	if err := Insert(tr, []Pair{{Dest: dest, Src: src}}, true); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if tr.Root().Len() != 3 {
		t.Fatalf("root has %d children, want 3", tr.Root().Len())
	}
}

func TestInsertNeverOverwritesExistingLabel(t *testing.T) {
	tr := parseTree(t, `{"a":1}`)
	src, err := jval.Parse([]byte(`{"a":99}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: tr.Root()}
	if err := Insert(tr, []Pair{{Dest: dest, Src: src}}, false); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	a, _ := tr.Root().Get("a")
	if a.Num() != 1.0 {
		t.Fatalf("a = %v, want unchanged 1", a.Num())
	}
}

func TestUpdateReplacesOutrightWithoutMerge(t *testing.T) {
	tr := parseTree(t, `{"a":{"x":1}}`)
	a, _ := tr.Root().Get("a")
	src, err := jval.Parse([]byte(`{"y":2}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: a}
	if err := Update(tr, []Pair{{Dest: dest, Src: src}}, false); err != nil {
		t.Fatalf("Update: %v", err)
	}

	a2, _ := tr.Root().Get("a")
	if _, hasX := a2.Get("x"); hasX {
		t.Fatal("x should be gone after an outright replace")
	}
	y, hasY := a2.Get("y")
	if !hasY || y.Num() != 2.0 {
		t.Fatalf("y = (%v, %v), want (2, true)", y, hasY)
	}
}

func TestUpdateMergeOverwritesClashingLabels(t *testing.T) {
	tr := parseTree(t, `{"a":{"x":1,"z":3}}`)
	a, _ := tr.Root().Get("a")
	src, err := jval.Parse([]byte(`{"x":99}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	dest := Dest{Value: a}
	if err := Update(tr, []Pair{{Dest: dest, Src: src}}, true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	a2, _ := tr.Root().Get("a")
	x, _ := a2.Get("x")
	if x.Num() != 99.0 {
		t.Fatalf("x = %v, want 99", x.Num())
	}
	z, hasZ := a2.Get("z")
	if !hasZ || z.Num() != 3.0 {
		t.Fatalf("z = (%v, %v), want (3, true)", z, hasZ)
	}
}

func TestUpdateLabelRenameDeferredDeepestFirst(t *testing.T) {
	tr := parseTree(t, `{"age":30,"nested":{"n":1}}`)
	age, _ := tr.Root().Get("age")
	nested, _ := tr.Root().Get("nested")
	n, _ := nested.Get("n")

	pairs := []Pair{
		{Dest: Dest{Value: age, IsLabelUpdate: true, Depth: 1}, Src: jval.NewString("years")},
		{Dest: Dest{Value: n, IsLabelUpdate: true, Depth: 2}, Src: jval.NewString("count")},
	}
	if err := Update(tr, pairs, false); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, hasAge := tr.Root().Get("age"); hasAge {
		t.Fatal("age should be renamed away")
	}
	years, hasYears := tr.Root().Get("years")
	if !hasYears || years.Num() != 30.0 {
		t.Fatalf("years = (%v, %v), want (30, true)", years, hasYears)
	}

	nested2, _ := tr.Root().Get("nested")
	if _, hasN := nested2.Get("n"); hasN {
		t.Fatal("n should be renamed away")
	}
	count, hasCount := nested2.Get("count")
	if !hasCount || count.Num() != 1.0 {
		t.Fatalf("count = (%v, %v), want (1, true)", count, hasCount)
	}
}

func TestSwapSkipsInvalidatedPair(t *testing.T) {
	tr := parseTree(t, `{"a":1,"b":2}`)
	a, _ := tr.Root().Get("a")
	b, _ := tr.Root().Get("b")

	outcomes, err := Swap(tr, [][2]SwapSide{{
		{Value: a, Validator: alwaysInvalid{}},
		{Value: b},
	}})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if len(outcomes) != 1 || !outcomes[0].Skipped {
		t.Fatalf("outcomes = %+v, want one skipped pair", outcomes)
	}

	// Values untouched since the pair was skipped.
	a2, _ := tr.Root().Get("a")
	if a2.Num() != 1.0 {
		t.Fatalf("a = %v, want unchanged 1", a2.Num())
	}
}

type alwaysInvalid struct{}

func (alwaysInvalid) IsValid() bool { return false }

func TestSwapExchangesValuesInPlace(t *testing.T) {
	tr := parseTree(t, `{"a":1,"b":2}`)
	a, _ := tr.Root().Get("a")
	b, _ := tr.Root().Get("b")

	outcomes, err := Swap(tr, [][2]SwapSide{{{Value: a}, {Value: b}}})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if outcomes[0].Skipped {
		t.Fatal("swap should not have been skipped")
	}

	a2, _ := tr.Root().Get("a")
	b2, _ := tr.Root().Get("b")
	if a2.Num() != 2.0 || b2.Num() != 1.0 {
		t.Fatalf("a/b = %v/%v, want 2/1", a2.Num(), b2.Num())
	}
}

func TestPurgeDeletesEveryMatch(t *testing.T) {
	tr := parseTree(t, `{"a":1,"b":2,"c":3}`)
	b, _ := tr.Root().Get("b")
	if err := Purge(tr, []Dest{{Value: b}}, false); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if _, ok := tr.Root().Get("b"); ok {
		t.Fatal("b should be purged")
	}
	if tr.Root().Len() != 2 {
		t.Fatalf("root has %d children, want 2", tr.Root().Len())
	}
}

func TestPurgeInvertRetainsAncestorsAndDescendantsOnly(t *testing.T) {
	tr := parseTree(t, `{"a":{"keep":1,"sibling":2},"other":3}`)
	a, _ := tr.Root().Get("a")
	keep, _ := a.Get("keep")

	if err := Purge(tr, []Dest{{Value: keep}}, true); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if _, hasOther := tr.Root().Get("other"); hasOther {
		t.Fatal("other should be purged by -pp")
	}
	a2, hasA := tr.Root().Get("a")
	if !hasA {
		t.Fatal("a is an ancestor of keep and should survive")
	}
	if _, hasSibling := a2.Get("sibling"); hasSibling {
		t.Fatal("sibling should be purged by -pp")
	}
	if _, hasKeep := a2.Get("keep"); !hasKeep {
		t.Fatal("keep should survive -pp")
	}
}

func TestCompareReportsMismatchOnDifference(t *testing.T) {
	tr := parseTree(t, `{"a":{"x":1}}`)
	a, _ := tr.Root().Get("a")
	src, err := jval.Parse([]byte(`{"x":2}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	results := Compare([]Pair{{Dest: Dest{Value: a}, Src: src}})
	if len(results) != 1 || !results[0].Mismatch {
		t.Fatalf("results = %+v, want one mismatch", results)
	}
}

func TestCompareNoMismatchOnEqualValues(t *testing.T) {
	tr := parseTree(t, `{"a":{"x":1}}`)
	a, _ := tr.Root().Get("a")
	src, err := jval.Parse([]byte(`{"x":1}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse src: %v", err)
	}

	results := Compare([]Pair{{Dest: Dest{Value: a}, Src: src}})
	if results[0].Mismatch {
		t.Fatal("equal values should not mismatch")
	}
}

func TestBindSingleDestinationAppliesAllSourceYields(t *testing.T) {
	tr := parseTree(t, `{"a":1}`)
	dests := []Dest{{Value: tr.Root()}}
	src := FromValues([]*jval.Value{jval.NewNumber(1), jval.NewNumber(2), jval.NewNumber(3)})

	pairs, err := Bind(dests, src)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	for i, p := range pairs {
		if p.Dest.Value != tr.Root() {
			t.Fatalf("pair %d destination is not the root", i)
		}
	}
}

func TestBindRoundRobinsMultipleDestinations(t *testing.T) {
	tr := parseTree(t, `{"a":1,"b":2}`)
	a, _ := tr.Root().Get("a")
	b, _ := tr.Root().Get("b")
	dests := []Dest{{Value: a}, {Value: b}}
	src := FromValues([]*jval.Value{jval.NewNumber(10)})

	pairs, err := Bind(dests, src)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].Src.Num() != 10.0 || pairs[1].Src.Num() != 10.0 {
		t.Fatalf("got src values %v/%v, want 10/10", pairs[0].Src.Num(), pairs[1].Src.Num())
	}
}
