package core

// Action selects how the underlying engine treats an occurrence of an
// argument, mirroring the argparse action vocabulary.
type Action string

const (
	Store       Action = "store"
	StoreConst  Action = "store_const"
	StoreTrue   Action = "store_true"
	StoreFalse  Action = "store_false"
	Append      Action = "append"
	AppendConst Action = "append_const"
	Count       Action = "count"
	Extend      Action = "extend"
	Help        Action = "help"
	Version     Action = "version"
)

// fixedValue reports whether the action produces a fixed non-string value, in
// which case no string-to-value converter may be derived for it.
func (a Action) fixedValue() bool {
	switch a {
	case StoreConst, StoreTrue, StoreFalse, AppendConst, Count, Help, Version:
		return true
	}
	return false
}

// listValued reports whether the action accumulates values into a slice.
func (a Action) listValued() bool {
	return a == Append || a == AppendConst || a == Extend
}

// Nargs describes how many command-line tokens an argument consumes.
// The zero value means "not specified" (one token, single value).
type Nargs struct {
	n    int
	kind byte // 0 exact, '?', '*', '+'
}

// Exactly returns an Nargs consuming exactly n tokens, producing a list.
func Exactly(n int) Nargs { return Nargs{n: n} }

var (
	// Optional consumes zero or one token ('?').
	Optional = Nargs{kind: '?'}
	// ZeroOrMore consumes any number of tokens ('*'), producing a list.
	ZeroOrMore = Nargs{kind: '*'}
	// OneOrMore consumes at least one token ('+'), producing a list.
	OneOrMore = Nargs{kind: '+'}
)

// listValued reports whether the nargs form produces a list value.
// As in argparse, an exact count always does, even for n == 1.
func (n Nargs) listValued() bool {
	return n.kind == '*' || n.kind == '+' || n.kind == 0
}

// bounds returns the minimum and maximum number of tokens consumed.
// max < 0 means unbounded.
func (n Nargs) bounds() (int, int) {
	switch n.kind {
	case '?':
		return 0, 1
	case '*':
		return 0, -1
	case '+':
		return 1, -1
	default:
		return n.n, n.n
	}
}

// ConvertFunc converts one command-line token into a value. It is the Go
// counterpart of the argparse "type" callable.
type ConvertFunc func(string) (any, error)

// optKey identifies one registration parameter of an argument.
type optKey int

const (
	optAction optKey = iota
	optNargs
	optConst
	optDefault
	optType
	optChoices
	optRequired
	optHelp
	optMetavar
	optDest
)

// optionSet records registration parameters, tracking presence explicitly:
// a parameter that was never supplied is absent from the map rather than
// present with a zero value, so "not provided" and "set to the zero value"
// remain distinguishable.
type optionSet struct {
	m map[optKey]any
}

func newOptionSet() optionSet { return optionSet{m: make(map[optKey]any)} }

func (o *optionSet) set(k optKey, v any) { o.m[k] = v }

func (o *optionSet) setDefault(k optKey, v any) {
	if _, ok := o.m[k]; !ok {
		o.m[k] = v
	}
}

func (o *optionSet) has(k optKey) bool { _, ok := o.m[k]; return ok }

func (o *optionSet) get(k optKey) (any, bool) { v, ok := o.m[k]; return v, ok }

func (o *optionSet) str(k optKey) string {
	if v, ok := o.m[k]; ok {
		return v.(string)
	}
	return ""
}

func (o *optionSet) boolean(k optKey) bool {
	if v, ok := o.m[k]; ok {
		return v.(bool)
	}
	return false
}

func (o *optionSet) action() Action {
	if v, ok := o.m[optAction]; ok {
		return v.(Action)
	}
	return Store
}

func (o *optionSet) nargs() (Nargs, bool) {
	if v, ok := o.m[optNargs]; ok {
		return v.(Nargs), true
	}
	return Nargs{}, false
}
