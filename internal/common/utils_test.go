package common

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Name":        "name",
		"OutputFile":  "output_file",
		"HTTPPort":    "http_port",
		"V":           "v",
		"output_file": "output_file",
		"Base64Data":  "base64_data",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFieldByDest(t *testing.T) {
	type ns struct {
		OutputFile string
		unexported int
	}
	typ := reflect.TypeOf(ns{})

	if f, ok := FieldByDest(typ, "output_file"); !ok || f.Name != "OutputFile" {
		t.Errorf("folded lookup failed: %v %v", f.Name, ok)
	}
	if f, ok := FieldByDest(typ, "OutputFile"); !ok || f.Name != "OutputFile" {
		t.Errorf("exact lookup failed: %v %v", f.Name, ok)
	}
	if _, ok := FieldByDest(typ, "unexported"); ok {
		t.Error("unexported field must not be found")
	}
	if _, ok := FieldByDest(typ, "missing"); ok {
		t.Error("missing field must not be found")
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"add", "remove", "status"}
	if got := ClosestMatch("ad", candidates); got != "add" {
		t.Errorf("got %q", got)
	}
	if got := ClosestMatch("remvoe", candidates); got != "remove" {
		t.Errorf("got %q", got)
	}
	if got := ClosestMatch("xyzzy", candidates); got != "" {
		t.Errorf("got %q, want no suggestion", got)
	}
}
