package jval

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRoundTripsPrint(t *testing.T) {
	src := []byte(`{"a":{"b":[1,2,3]},"c":"x\ny","d":true,"e":null}`)
	v, err := Parse(src, Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out := Print(v, PrinterConfig{Mode: Raw})
	v2, err := Parse([]byte(out), Options{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !v.Equal(v2) {
		t.Fatalf("round trip changed value: %s", out)
	}
}

func TestParseRejectsTrailingComma(t *testing.T) {
	if _, err := Parse([]byte(`[1,2,]`), Options{}); err == nil {
		t.Fatal("expected an error for a trailing comma")
	}
}

func TestParseNumberPreservesLiteralText(t *testing.T) {
	v, err := Parse([]byte(`1.50`), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := v.NumText(); got != "1.50" {
		t.Fatalf("NumText() = %q, want %q", got, "1.50")
	}
	if got := Print(v, PrinterConfig{Mode: Raw}); got != "1.50" {
		t.Fatalf("Print() = %q, want %q", got, "1.50")
	}
}

func TestSolidusEscapeOptional(t *testing.T) {
	if _, err := Parse([]byte(`"a/b"`), Options{RequireEscapedSolidus: false}); err != nil {
		t.Fatalf("unescaped solidus should parse when not required: %v", err)
	}

	if _, err := Parse([]byte(`"a/b"`), Options{RequireEscapedSolidus: true}); err == nil {
		t.Fatal("expected an error when solidus escaping is required")
	}

	v, err := Parse([]byte(`"a\/b"`), Options{RequireEscapedSolidus: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := v.Str(); got != "a/b" {
		t.Fatalf("Str() = %q, want %q", got, "a/b")
	}
}

func TestDecoderStreamsConcatenatedValues(t *testing.T) {
	d := NewDecoder([]byte(`1 2   3`), Options{})
	var got []float64
	for {
		v, err := d.Next()
		if err == ErrNoMoreJSON {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v.Num())
	}
	want := []float64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecoderNoMoreJSONOnTrailingWhitespace(t *testing.T) {
	d := NewDecoder([]byte(`{"a":1}   `), Options{})
	if _, err := d.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	_, err := d.Next()
	if !errors.Is(err, ErrNoMoreJSON) {
		t.Fatalf("second Next error = %v, want ErrNoMoreJSON", err)
	}
}

func TestUnicodeEscapeSurrogatePair(t *testing.T) {
	v, err := Parse([]byte("\"\x5cud83d\x5cude00\""), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := v.Str(); got != "😀" {
		t.Fatalf("Str() = %q, want %q", got, "😀")
	}
}
