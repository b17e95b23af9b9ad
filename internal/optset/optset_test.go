package optset

import (
	"testing"

	"github.com/mibar/jtc/internal/jval"
	"github.com/mibar/jtc/internal/namespace"
)

func TestExecuteThreadsDocumentBetweenSets(t *testing.T) {
	doc, err := jval.Parse([]byte(`{"n":1}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	d := NewDriver(func(s Set, in *jval.Value, ns *namespace.NS) (*jval.Value, error) {
		tr := jval.NewTree(in)
		n, _ := tr.Root().Get("n")
		if err := tr.Replace(tr.Root(), "n", jval.NewNumber(n.Num()+1)); err != nil {
			t.Fatalf("Replace: %v", err)
		}
		return tr.Root(), nil
	})

	out, notices, err := d.Execute([]Set{{}, {}}, doc, namespace.New(), "in.json")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("notices = %v, want none", notices)
	}
	n, ok := out.Get("n")
	if !ok || n.Num() != 3.0 {
		t.Fatalf("n = (%v, %v), want (3, true)", n, ok)
	}
}

func TestExecuteBindsFileKeyIntoGlobalNamespace(t *testing.T) {
	doc, err := jval.Parse([]byte(`{}`), jval.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ns := namespace.New()

	d := NewDriver(func(s Set, in *jval.Value, ns *namespace.NS) (*jval.Value, error) {
		return in, nil
	})
	if _, _, err := d.Execute([]Set{{}}, doc, ns, "data.json"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	v, ok := ns.Get(namespace.FileKey)
	if !ok || v.Str() != "data.json" {
		t.Fatalf("FileKey = (%v, %v), want (data.json, true)", v, ok)
	}
}

func TestTransientOptionInMiddleSetProducesNotice(t *testing.T) {
	sets := []Set{
		{},
		{Transient: map[TransientOption]bool{OptDebug: true}},
		{},
	}
	notices := validateTransientPlacement(sets)
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(notices))
	}
	if notices[0].Set != 1 {
		t.Fatalf("notice.Set = %d, want 1", notices[0].Set)
	}
	if notices[0].Option != OptDebug {
		t.Fatalf("notice.Option = %v, want OptDebug", notices[0].Option)
	}
}

func TestTransientOptionInFirstOrLastSetIsFine(t *testing.T) {
	sets := []Set{
		{Transient: map[TransientOption]bool{OptDebug: true}},
		{},
		{Transient: map[TransientOption]bool{OptRaw: true}},
	}
	notices := validateTransientPlacement(sets)
	if len(notices) != 0 {
		t.Fatalf("notices = %v, want none", notices)
	}
}
