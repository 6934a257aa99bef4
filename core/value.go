package core

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// holder is the materialized value slot of one argument for one binding run.
// It implements pflag.Value, so the engine performs all token conversion and
// error reporting through it; the facade copies the accumulated value into
// the result struct after a parse.
type holder struct {
	attr      string
	action    Action
	fieldType reflect.Type
	convert   ConvertFunc // token converter; nil for fixed-value actions
	typeName  string
	listMode  bool
	choices   []string      // rendered allowed tokens; empty means unrestricted
	constVal  reflect.Value // valid for const-producing actions
	defVal    reflect.Value // valid when a default was declared
	noOptDef  string        // engine NoOptDefVal, "" when a value is mandatory
	cur       reflect.Value
}

// reset re-arms the holder for a fresh parse run, restoring the declared
// default (or the zero value).
func (h *holder) reset() {
	h.cur = reflect.New(h.fieldType).Elem()
	if h.defVal.IsValid() {
		h.cur.Set(h.defVal)
	}
}

func (h *holder) Set(s string) error {
	switch h.action {
	case Count:
		if s == noOptCount {
			h.cur.SetInt(h.cur.Int() + 1)
			return nil
		}
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return err
		}
		h.cur.SetInt(n)
		return nil
	case Help, Version:
		h.cur.SetBool(true)
		return nil
	case StoreTrue, StoreFalse:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		h.cur.SetBool(b)
		return nil
	case StoreConst:
		if s != h.noOptDef {
			return fmt.Errorf("argument %s does not take a value", h.attr)
		}
		h.cur.Set(h.constVal)
		return nil
	case AppendConst:
		h.cur.Set(reflect.Append(h.cur, h.constVal))
		return nil
	}

	if err := h.checkChoice(s); err != nil {
		return err
	}
	v, err := h.convert(s)
	if err != nil {
		return err
	}
	if h.listMode {
		rv, err := coerce(reflect.ValueOf(v), h.fieldType.Elem())
		if err != nil {
			return err
		}
		h.cur.Set(reflect.Append(h.cur, rv))
		return nil
	}
	rv, err := coerce(reflect.ValueOf(v), h.fieldType)
	if err != nil {
		return err
	}
	h.cur.Set(rv)
	return nil
}

func (h *holder) checkChoice(s string) error {
	if len(h.choices) == 0 {
		return nil
	}
	for _, c := range h.choices {
		if s == c {
			return nil
		}
	}
	return fmt.Errorf("invalid choice: %q (choose from %s)", s, joinChoices(h.choices))
}

func (h *holder) String() string {
	if !h.cur.IsValid() {
		return ""
	}
	return fmt.Sprint(h.cur.Interface())
}

func (h *holder) Type() string { return h.typeName }

// value returns the accumulated value for this run.
func (h *holder) value() reflect.Value { return h.cur }

// noOptCount is the engine convention for a bare count flag occurrence.
const noOptCount = "+1"

// coerce adapts v to type t, converting when assignment alone is not enough
// (e.g. an untyped int default stored into a float64 field). Only lossless
// conversions are accepted: a value that would not survive the round trip
// back to its own type (overflow, fractional truncation) is an error, as is
// any cross-kind conversion outside the numeric kinds (int→string would
// yield a rune, not a rendering).
func coerce(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if !v.Type().ConvertibleTo(t) {
		return reflect.Value{}, fmt.Errorf("cannot store %s into %s", v.Type(), t)
	}
	if v.Kind() == t.Kind() {
		// Same-kind conversion (named types) cannot lose information.
		return v.Convert(t), nil
	}
	if numericKind(v.Kind()) && numericKind(t.Kind()) {
		// A sign flip survives the round trip (two's complement), so it is
		// checked separately from width and precision loss.
		negative := (intKind(v.Kind()) && v.Int() < 0) || (floatKind(v.Kind()) && v.Float() < 0)
		if uintKind(t.Kind()) && negative {
			return reflect.Value{}, fmt.Errorf("value %v does not fit in %s", v.Interface(), t)
		}
		if uintKind(v.Kind()) && intKind(t.Kind()) && v.Uint() > math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("value %v does not fit in %s", v.Interface(), t)
		}
		c := v.Convert(t)
		if c.Convert(v.Type()).Interface() != v.Interface() {
			return reflect.Value{}, fmt.Errorf("value %v does not fit in %s", v.Interface(), t)
		}
		return c, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot store %s into %s", v.Type(), t)
}

func intKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func uintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func floatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func numericKind(k reflect.Kind) bool {
	return intKind(k) || uintKind(k) || floatKind(k)
}

// deriveConvert builds a token converter for a result field type. This is the
// annotation-derived converter of the original design: the statically
// declared field type doubles as the conversion function when the argument
// declares none of its own.
func deriveConvert(t reflect.Type) (ConvertFunc, string, error) {
	// Named types first: time.Duration is an int64 by kind.
	if t == durationType {
		return func(s string) (any, error) {
			return time.ParseDuration(s)
		}, "duration", nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(s string) (any, error) {
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return nil, err
			}
			return p.Elem().Interface(), nil
		}, "string", nil
	}

	switch t.Kind() {
	case reflect.String:
		return func(s string) (any, error) {
			v := reflect.New(t).Elem()
			v.SetString(s)
			return v.Interface(), nil
		}, "string", nil
	case reflect.Bool:
		return func(s string) (any, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetBool(b)
			return v.Interface(), nil
		}, "bool", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := t.Bits()
		return func(s string) (any, error) {
			n, err := strconv.ParseInt(s, 0, bits)
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetInt(n)
			return v.Interface(), nil
		}, t.Kind().String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := t.Bits()
		return func(s string) (any, error) {
			n, err := strconv.ParseUint(s, 0, bits)
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetUint(n)
			return v.Interface(), nil
		}, t.Kind().String(), nil
	case reflect.Float32, reflect.Float64:
		bits := t.Bits()
		return func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, bits)
			if err != nil {
				return nil, err
			}
			v := reflect.New(t).Elem()
			v.SetFloat(f)
			return v.Interface(), nil
		}, t.Kind().String(), nil
	}
	return nil, "", fmt.Errorf("no converter for type %s", t)
}

func joinChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
