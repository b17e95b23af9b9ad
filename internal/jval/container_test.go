package jval

import (
	"reflect"
	"testing"
)

func TestArrayPushBackPreservesOrder(t *testing.T) {
	tr := NewTree(NewArray())
	arr := tr.Root()
	for i := 0; i < 3; i++ {
		if _, err := tr.PushBack(arr, NewNumber(float64(i))); err != nil {
			t.Fatalf("PushBack %d: %v", i, err)
		}
	}
	got := arr.Children()
	if len(got) != 3 {
		t.Fatalf("got %d children, want 3", len(got))
	}
	for i, v := range got {
		if v.Num() != float64(i) {
			t.Fatalf("child %d = %v, want %v", i, v.Num(), i)
		}
	}
}

func TestArrayPushFrontYieldsLesserKey(t *testing.T) {
	tr := NewTree(NewArray())
	arr := tr.Root()
	_, _ = tr.PushBack(arr, NewString("b"))
	if _, err := tr.PushFront(arr, NewString("a")); err != nil {
		t.Fatalf("PushFront: %v", err)
	}

	got := arr.Children()
	if len(got) != 2 {
		t.Fatalf("got %d children, want 2", len(got))
	}
	if got[0].Str() != "a" || got[1].Str() != "b" {
		t.Fatalf("got [%q, %q], want [a, b]", got[0].Str(), got[1].Str())
	}
}

func TestNormalizeIdxIdempotent(t *testing.T) {
	tr := NewTree(NewArray())
	arr := tr.Root()
	_, _ = tr.PushBack(arr, NewNumber(1))
	_, _ = tr.PushFront(arr, NewNumber(0))
	_, _ = tr.PushBack(arr, NewNumber(2))

	tr.NormalizeIdx(arr)
	keysOnce := append([]string(nil), arr.Keys()...)
	tr.NormalizeIdx(arr)
	if !reflect.DeepEqual(keysOnce, arr.Keys()) {
		t.Fatalf("keys changed on second normalize: %v -> %v", keysOnce, arr.Keys())
	}

	for i, v := range arr.Children() {
		if v.Num() != float64(i) {
			t.Fatalf("child %d = %v, want %v", i, v.Num(), i)
		}
	}
}

func TestObjectEqualityIgnoresInsertionOrder(t *testing.T) {
	a := NewObject()
	tr := NewTree(a)
	_ = tr.SetLabel(a, "x", NewNumber(1), false)
	_ = tr.SetLabel(a, "y", NewNumber(2), false)

	b := NewObject()
	trB := NewTree(b)
	_ = trB.SetLabel(b, "y", NewNumber(2), false)
	_ = trB.SetLabel(b, "x", NewNumber(1), false)

	if !a.Equal(b) {
		t.Fatal("objects with the same labels in different insertion order should be equal")
	}
}

func TestArrayEqualityIsPositional(t *testing.T) {
	a := NewArray()
	trA := NewTree(a)
	_, _ = trA.PushBack(a, NewNumber(1))
	_, _ = trA.PushBack(a, NewNumber(2))

	b := NewArray()
	trB := NewTree(b)
	_, _ = trB.PushBack(b, NewNumber(2))
	_, _ = trB.PushBack(b, NewNumber(1))

	if a.Equal(b) {
		t.Fatal("arrays with the same elements in different order should not be equal")
	}
}

func TestRenameLabelPreservesPosition(t *testing.T) {
	obj := NewObject()
	tr := NewTree(obj)
	_ = tr.SetLabel(obj, "age", NewNumber(30), false)
	_ = tr.SetLabel(obj, "name", NewString("Al"), false)

	if err := tr.RenameLabel(obj, "age", "years"); err != nil {
		t.Fatalf("RenameLabel: %v", err)
	}
	want := []string{"years", "name"}
	if !reflect.DeepEqual(obj.Keys(), want) {
		t.Fatalf("keys = %v, want %v", obj.Keys(), want)
	}
}
