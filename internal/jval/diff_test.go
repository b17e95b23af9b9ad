package jval

import "testing"

func TestDiffSelfIsEmpty(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":[1,2,{"c":true}]}`), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v2, err := Parse([]byte(`{"a":1,"b":[1,2,{"c":true}]}`), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	onlyA, onlyB := Diff(v, v2)
	if onlyA != nil {
		t.Fatalf("onlyA = %v, want nil", onlyA)
	}
	if onlyB != nil {
		t.Fatalf("onlyB = %v, want nil", onlyB)
	}
}

func TestDiffReportsLabelsOnEachSide(t *testing.T) {
	a, _ := Parse([]byte(`{"x":1,"only_a":true}`), Options{})
	b, _ := Parse([]byte(`{"x":1,"only_b":true}`), Options{})

	onlyA, onlyB := Diff(a, b)
	if onlyA == nil {
		t.Fatal("onlyA is nil")
	}
	if onlyB == nil {
		t.Fatal("onlyB is nil")
	}
	av, ok := onlyA.Get("only_a")
	if !ok || !av.Bool() {
		t.Fatalf("onlyA[only_a] = (%v, %v), want (true, true)", av, ok)
	}
	if _, ok := onlyA.Get("x"); ok {
		t.Fatal("onlyA should not contain shared label x")
	}
	bv, ok := onlyB.Get("only_b")
	if !ok || !bv.Bool() {
		t.Fatalf("onlyB[only_b] = (%v, %v), want (true, true)", bv, ok)
	}
}

func TestDiffArraysZipPositionally(t *testing.T) {
	a, _ := Parse([]byte(`[1,2,3]`), Options{})
	b, _ := Parse([]byte(`[1,9]`), Options{})

	onlyA, onlyB := Diff(a, b)
	if onlyA == nil {
		t.Fatal("onlyA is nil")
	}
	// mismatched "2" at index 1 + extra "3"
	if n := len(onlyA.Children()); n != 2 {
		t.Fatalf("onlyA has %d children, want 2", n)
	}
	if onlyB == nil {
		t.Fatal("onlyB is nil")
	}
	// mismatched "9" at index 1
	if n := len(onlyB.Children()); n != 1 {
		t.Fatalf("onlyB has %d children, want 1", n)
	}
}
