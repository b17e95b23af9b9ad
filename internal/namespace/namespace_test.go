package namespace

import (
	"testing"

	"github.com/mibar/jtc/internal/jval"
)

func TestSetGetErase(t *testing.T) {
	ns := New()
	ns.Set("x", jval.NewNumber(3))
	v, ok := ns.Get("x")
	if !ok || v.Num() != 3.0 {
		t.Fatalf("Get(x) = (%v, %v), want (3, true)", v, ok)
	}

	ns.Erase("x")
	if _, ok := ns.Get("x"); ok {
		t.Fatal("x should be absent after Erase")
	}
}

func TestMergeOverwritesClashes(t *testing.T) {
	a := New()
	a.Set("x", jval.NewNumber(1))
	b := New()
	b.Set("x", jval.NewNumber(2))
	b.Set("y", jval.NewNumber(3))

	a.Merge(b)
	if v, _ := a.Get("x"); v.Num() != 2.0 {
		t.Fatalf("x = %v, want 2", v.Num())
	}
	if v, _ := a.Get("y"); v.Num() != 3.0 {
		t.Fatalf("y = %v, want 3", v.Num())
	}
}

func TestSeenTracksFirstOccurrence(t *testing.T) {
	ns := New()
	set := DedupSetName(0)
	if ns.Seen(set, "a") {
		t.Fatal("first sighting of a should not be seen")
	}
	if !ns.Seen(set, "a") {
		t.Fatal("second sighting of a should be seen")
	}
	if ns.Seen(set, "b") {
		t.Fatal("first sighting of b should not be seen")
	}
}

func TestInterpolateNakedStripsQuotesAndBrackets(t *testing.T) {
	ns := New()
	ns.Set("name", jval.NewString("Al"))
	out := Interpolate(`"Hi {name}"`, ns, nil)
	if out != `"Hi Al"` {
		t.Fatalf("got %q, want %q", out, `"Hi Al"`)
	}
}

func TestInterpolateDoubleBracePreservesForm(t *testing.T) {
	ns := New()
	ns.Set("name", jval.NewString("Al"))
	out := Interpolate(`{{name}}`, ns, nil)
	if out != `"Al"` {
		t.Fatalf("got %q, want %q", out, `"Al"`)
	}
}

func TestInterpolateEmptyTokenUsesCurrent(t *testing.T) {
	ns := New()
	cur := jval.NewNumber(7)
	out := Interpolate(`value={}`, ns, cur)
	if out != "value=7" {
		t.Fatalf("got %q, want %q", out, "value=7")
	}
}

func TestInterpolateUnresolvedLeftLiteral(t *testing.T) {
	ns := New()
	out := Interpolate(`{missing}`, ns, nil)
	if out != `{missing}` {
		t.Fatalf("got %q, want %q", out, `{missing}`)
	}
}

func TestInterpolateShellQuotesOnlySubstitution(t *testing.T) {
	ns := New()
	ns.Set("name", jval.NewString("a b;c"))
	out := InterpolateShell(`echo {name}`, ns, nil)
	if out != `echo a\ b\;c` {
		t.Fatalf("got %q, want %q", out, `echo a\ b\;c`)
	}
}
