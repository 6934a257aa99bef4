package core

import (
	"net"
	"reflect"
	"testing"
	"time"
)

func TestDeriveConvert(t *testing.T) {
	cases := []struct {
		name  string
		typ   reflect.Type
		token string
		want  any
	}{
		{"string", reflect.TypeOf(""), "hello", "hello"},
		{"int", reflect.TypeOf(0), "42", 42},
		{"int base prefix", reflect.TypeOf(0), "0x10", 16},
		{"int64", reflect.TypeOf(int64(0)), "-7", int64(-7)},
		{"uint16", reflect.TypeOf(uint16(0)), "65535", uint16(65535)},
		{"float64", reflect.TypeOf(0.0), "2.5", 2.5},
		{"bool", reflect.TypeOf(false), "true", true},
		{"duration", reflect.TypeOf(time.Duration(0)), "1h30m", 90 * time.Minute},
		{"text unmarshaler", reflect.TypeOf(net.IP{}), "127.0.0.1", net.ParseIP("127.0.0.1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fn, _, err := deriveConvert(tc.typ)
			if err != nil {
				t.Fatalf("deriveConvert(%s): %v", tc.typ, err)
			}
			got, err := fn(tc.token)
			if err != nil {
				t.Fatalf("convert(%q): %v", tc.token, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("convert(%q) = %#v, want %#v", tc.token, got, tc.want)
			}
		})
	}
}

func TestDeriveConvertRejectsUnsupported(t *testing.T) {
	if _, _, err := deriveConvert(reflect.TypeOf(map[string]int{})); err == nil {
		t.Fatal("expected error for map type")
	}
	if _, _, err := deriveConvert(reflect.TypeOf(struct{}{})); err == nil {
		t.Fatal("expected error for struct type")
	}
}

func TestDeriveConvertBadToken(t *testing.T) {
	fn, _, err := deriveConvert(reflect.TypeOf(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fn("not-a-number"); err == nil {
		t.Fatal("expected conversion error")
	}
}

func TestCoerceLossless(t *testing.T) {
	type level string
	got, err := coerce(reflect.ValueOf(1), reflect.TypeOf(0.0))
	if err != nil || got.Interface() != 1.0 {
		t.Errorf("int into float64: %v, %v", got, err)
	}
	got, err = coerce(reflect.ValueOf("high"), reflect.TypeOf(level("")))
	if err != nil || got.Interface() != level("high") {
		t.Errorf("string into named string: %v, %v", got, err)
	}
	got, err = coerce(reflect.ValueOf(int8(5)), reflect.TypeOf(int64(0)))
	if err != nil || got.Interface() != int64(5) {
		t.Errorf("widening int: %v, %v", got, err)
	}
}

func TestCoerceRejectsLossy(t *testing.T) {
	if _, err := coerce(reflect.ValueOf(300), reflect.TypeOf(int8(0))); err == nil {
		t.Error("overflowing int8 accepted")
	}
	if _, err := coerce(reflect.ValueOf(1.5), reflect.TypeOf(0)); err == nil {
		t.Error("fractional value into int accepted")
	}
	if _, err := coerce(reflect.ValueOf(-1), reflect.TypeOf(uint(0))); err == nil {
		t.Error("negative value into uint accepted")
	}
	if _, err := coerce(reflect.ValueOf(65), reflect.TypeOf("")); err == nil {
		t.Error("int into string accepted (would produce a rune)")
	}
}

func TestHolderReset(t *testing.T) {
	h := &holder{
		action:    Store,
		fieldType: reflect.TypeOf(0.0),
		defVal:    reflect.ValueOf(1.5),
	}
	conv, _, _ := deriveConvert(reflect.TypeOf(0.0))
	h.convert = conv

	h.reset()
	if got := h.value().Interface(); got != 1.5 {
		t.Fatalf("after reset got %v, want declared default 1.5", got)
	}
	if err := h.Set("3.25"); err != nil {
		t.Fatal(err)
	}
	if got := h.value().Interface(); got != 3.25 {
		t.Fatalf("after Set got %v", got)
	}
	h.reset()
	if got := h.value().Interface(); got != 1.5 {
		t.Fatalf("second reset got %v, want 1.5", got)
	}
}

func TestHolderCount(t *testing.T) {
	h := &holder{action: Count, fieldType: reflect.TypeOf(0), noOptDef: noOptCount}
	h.reset()
	for i := 0; i < 3; i++ {
		if err := h.Set(noOptCount); err != nil {
			t.Fatal(err)
		}
	}
	if got := h.value().Interface(); got != 3 {
		t.Fatalf("count = %v, want 3", got)
	}
	// Explicit value overrides the running count, matching pflag's count flag.
	if err := h.Set("10"); err != nil {
		t.Fatal(err)
	}
	if got := h.value().Interface(); got != 10 {
		t.Fatalf("count = %v, want 10", got)
	}
}

func TestHolderChoices(t *testing.T) {
	conv, _, _ := deriveConvert(reflect.TypeOf(""))
	h := &holder{
		action:    Store,
		fieldType: reflect.TypeOf(""),
		convert:   conv,
		choices:   []string{"red", "green", "blue"},
	}
	h.reset()
	if err := h.Set("green"); err != nil {
		t.Fatal(err)
	}
	if err := h.Set("purple"); err == nil {
		t.Fatal("expected invalid choice error")
	}
}

func TestHolderStoreConstRejectsValue(t *testing.T) {
	h := &holder{
		attr:      "--mode",
		action:    StoreConst,
		fieldType: reflect.TypeOf(""),
		constVal:  reflect.ValueOf("fast"),
		noOptDef:  "fast",
	}
	h.reset()
	if err := h.Set("fast"); err != nil {
		t.Fatal(err)
	}
	if got := h.value().Interface(); got != "fast" {
		t.Fatalf("got %v", got)
	}
	if err := h.Set("slow"); err == nil {
		t.Fatal("expected error for explicit value on const action")
	}
}
