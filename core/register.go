package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MartinScharrer/argparse-typed/errors"
	"github.com/MartinScharrer/argparse-typed/internal/common"
)

// groupAnnotation is the flag annotation carrying the argument-group id of a
// flag, following the engine's own annotation-based group conventions.
const groupAnnotation = "argparse_typed_group"

// scope is the per-command materialization state of one binding run: the
// engine command, the flag-bound holders, the declared positionals and the
// subcommand slots reachable from it.
type scope struct {
	cmd         *cobra.Command
	entries     []*flagBinding
	positionals []*posBinding
	slots       map[string]*scope
	slotNames   []string
	sub         *subparsersHandle
	helpFlags   []string
	verFlags    []verFlag
}

type verFlag struct {
	name    string
	message string
}

type flagBinding struct {
	h        *holder
	fieldIdx []int
	name     string
}

type posBinding struct {
	attr     string
	fieldIdx []int
	convert  ConvertFunc
	nargs    Nargs
	hasNargs bool
	choices  []string
	defVal   reflect.Value
	listMode bool
	elemType reflect.Type
	fullType reflect.Type
}

// groupHandle is the materialized form of an argument group. The engine has
// no first-class group object; member flags are tagged with the group id
// through a flag annotation instead.
type groupHandle struct {
	sc    *scope
	id    string
	title string
}

// mutexHandle is the materialized form of a mutually exclusive group. Member
// names accumulate during registration; the engine marks are applied once the
// whole registry has been walked.
type mutexHandle struct {
	sc       *scope
	group    *groupHandle
	required bool
	names    []string
}

type subparsersHandle struct {
	sc       *scope
	required bool
	groupID  string
	destIdx  []int
	names    []string
}

// Binding is the result of registering a schema against a command: the full
// set of materialized scopes plus the field bindings needed to move parsed
// values into a result struct. Bindings are independent of each other; one
// schema may be bound to any number of commands, each binding carrying its
// own engine state.
type Binding[NS any] struct {
	root   *scope
	scopes []*scope
	nsType reflect.Type
}

// Bind registers every declaration of the schema against cmd, in declaration
// order, and returns the binding. This is the standalone entry point for
// composing a schema into a pre-existing cobra command; Parser uses it
// internally.
//
// Containers must have been added before their children: a child whose
// parent is not yet materialized is registered against cmd itself. Binding
// the same schema twice to one command trips the engine's duplicate-flag
// handling, exactly as registering the same flag twice by hand would.
func Bind[NS any](cmd *cobra.Command, s *Schema[NS]) (*Binding[NS], error) {
	if s.nsType.Kind() != reflect.Struct {
		return nil, errors.NewConfigError("result type %s is not a struct", s.nsType)
	}
	b := &Binding[NS]{root: newScope(cmd), nsType: s.nsType}
	b.scopes = []*scope{b.root}

	var mutexes []*mutexHandle
	for pair := s.reg.Oldest(); pair != nil; pair = pair.Next() {
		name, n := pair.Key, pair.Value
		switch v := n.(type) {
		case *MutexGroup:
			sc := b.scopeOf(v)
			mh := &mutexHandle{sc: sc, required: v.required}
			if v.title != "" || v.description != "" {
				// Wrapping argument group first, exclusive group inside it.
				mh.group = &groupHandle{sc: sc, id: name, title: v.title}
			}
			mutexes = append(mutexes, mh)
			v.setHandle(mh)
		case *Group:
			sc := b.scopeOf(v)
			v.setHandle(&groupHandle{sc: sc, id: name, title: v.title})
		case *Argument:
			if err := b.addArgument(name, v); err != nil {
				return nil, err
			}
		case *Subparsers:
			if err := b.addSubparsers(name, v); err != nil {
				return nil, err
			}
		case *Subparser:
			if err := b.addSubparser(v); err != nil {
				return nil, err
			}
		default:
			return nil, errors.NewConfigError("unsupported declaration node %T for %q", n, name)
		}
	}

	for _, m := range mutexes {
		if len(m.names) == 0 {
			continue
		}
		m.sc.cmd.MarkFlagsMutuallyExclusive(m.names...)
		if m.required {
			m.sc.cmd.MarkFlagsOneRequired(m.names...)
		}
	}
	return b, nil
}

func newScope(cmd *cobra.Command) *scope {
	cmd.Flags().SortFlags = false
	return &scope{cmd: cmd, slots: make(map[string]*scope)}
}

// scopeOf resolves the command scope a node belongs to by walking its parent
// chain. Nodes without a materialized container parent fall back to the
// top-level command being configured.
func (b *Binding[NS]) scopeOf(n Node) *scope {
	for p := n.parent(); p != nil; p = p.parent() {
		switch h := p.handle().(type) {
		case *scope:
			return h
		case *groupHandle:
			return h.sc
		case *mutexHandle:
			return h.sc
		case *subparsersHandle:
			return h.sc
		}
	}
	return b.root
}

func (b *Binding[NS]) addSubparsers(name string, v *Subparsers) error {
	sc := b.scopeOf(v)
	if sc.sub != nil {
		return errors.NewConfigError("parser %s already has a subparsers collection", sc.cmd.Name())
	}
	sh := &subparsersHandle{sc: sc, required: v.required}
	if v.dest != "" {
		f, ok := common.FieldByDest(b.nsType, v.dest)
		if !ok {
			return errors.NewUnknownField(v.dest, b.nsType.String())
		}
		if f.Type.Kind() != reflect.String {
			return errors.NewConfigError("subparsers dest %q must be a string field, got %s", v.dest, f.Type)
		}
		sh.destIdx = f.Index
	}
	if v.title != "" {
		sc.cmd.AddGroup(&cobra.Group{ID: name, Title: v.title})
		sh.groupID = name
	}
	sc.sub = sh
	v.setHandle(sh)
	return nil
}

func (b *Binding[NS]) addSubparser(v *Subparser) error {
	sh, ok := v.parentHandle().(*subparsersHandle)
	if !ok {
		return errors.NewConfigError("subparser %q declared before its subparsers collection", v.name)
	}
	sub := &cobra.Command{
		Use:           v.name,
		Short:         v.help,
		Long:          v.description,
		Aliases:       v.aliases,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	if sh.groupID != "" {
		sub.GroupID = sh.groupID
	}
	sh.sc.cmd.AddCommand(sub)
	child := newScope(sub)
	sh.sc.slots[v.name] = child
	for _, alias := range v.aliases {
		sh.sc.slots[alias] = child
	}
	sh.sc.slotNames = append(sh.sc.slotNames, v.name)
	sh.names = append(sh.names, v.name)
	b.scopes = append(b.scopes, child)
	v.setHandle(child)
	return nil
}

// addArgument validates one argument declaration and registers it with the
// engine flag set of its resolved parent scope.
func (b *Binding[NS]) addArgument(attr string, a *Argument) error {
	if len(a.names) == 0 {
		return errors.NewConfigError("argument %q needs at least one name", attr)
	}
	action := a.opts.action()
	positional := len(a.names) == 1 && !strings.HasPrefix(a.names[0], "-")

	// Name/dest validation: the parsed result's attribute name must always be
	// predictable from the name the declaration was added under.
	if positional {
		if common.Fold(a.names[0]) != common.Fold(attr) {
			return errors.NewPositionalName(a.names[0], attr)
		}
		if dv, ok := a.opts.get(optDest); ok {
			// Positionals derive their destination from the name; an explicit
			// dest is only tolerated when it restates it.
			if dest := dv.(string); common.Fold(dest) != common.Fold(attr) {
				return errors.NewDestMismatch(dest, attr)
			}
		}
	} else {
		a.opts.setDefault(optDest, attr)
		if dest := a.opts.str(optDest); common.Fold(dest) != common.Fold(attr) {
			return errors.NewDestMismatch(dest, attr)
		}
	}

	sc, gh, mh := b.resolveParent(a)

	needsField := action != Help && action != Version
	var field reflect.StructField
	if needsField {
		var ok bool
		field, ok = common.FieldByDest(b.nsType, attr)
		if !ok {
			return errors.NewUnknownField(attr, b.nsType.String())
		}
	}

	nargs, hasNargs := a.opts.nargs()
	listMode := action.listValued() || (hasNargs && nargs.listValued() && !action.fixedValue())
	if listMode && field.Type.Kind() != reflect.Slice {
		return errors.NewConfigError("argument %q accumulates values and requires a slice field, got %s", attr, field.Type)
	}

	// Converter: an explicit one always wins; otherwise it is derived from
	// the declared field type, except for actions that produce fixed
	// non-string values which must not be coerced at all.
	var convert ConvertFunc
	typeName := "value"
	switch {
	case a.opts.has(optType):
		v, _ := a.opts.get(optType)
		convert = v.(ConvertFunc)
	case action.fixedValue():
		// no token conversion
	default:
		base := field.Type
		if listMode {
			base = base.Elem()
		}
		var err error
		convert, typeName, err = deriveConvert(base)
		if err != nil {
			return errors.NewUnsupportedFieldType(attr, base.String())
		}
	}

	switch action {
	case StoreTrue, StoreFalse:
		if field.Type.Kind() != reflect.Bool {
			return errors.NewConfigError("argument %q with action %s requires a bool field, got %s", attr, action, field.Type)
		}
	case Count:
		switch field.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return errors.NewConfigError("argument %q with action count requires an int field, got %s", attr, field.Type)
		}
	}

	var defVal reflect.Value
	if dv, ok := a.opts.get(optDefault); ok && needsField {
		rv, err := coerce(reflect.ValueOf(dv), field.Type)
		if err != nil {
			return errors.NewInvalidValue(attr, "default", field.Type.String())
		}
		defVal = rv
	} else if action == StoreFalse {
		// Implicit default: absent means true. Coerced so named bool types
		// store their own type.
		rv, err := coerce(reflect.ValueOf(true), field.Type)
		if err != nil {
			return errors.NewInvalidValue(attr, "default", field.Type.String())
		}
		defVal = rv
	}

	var constVal reflect.Value
	if cv, ok := a.opts.get(optConst); ok {
		if needsField {
			target := field.Type
			if action == AppendConst {
				target = target.Elem()
			}
			rv, err := coerce(reflect.ValueOf(cv), target)
			if err != nil {
				return errors.NewInvalidValue(attr, "const", target.String())
			}
			constVal = rv
		} else {
			// Version carries its message as the const.
			constVal = reflect.ValueOf(cv)
		}
	}

	if (action == StoreConst || action == AppendConst) && !constVal.IsValid() {
		return errors.NewConfigError("argument %q with action %s needs a const value", attr, action)
	}

	var choices []string
	if cs, ok := a.opts.get(optChoices); ok {
		for _, c := range cs.([]any) {
			choices = append(choices, fmt.Sprint(c))
		}
	}

	if positional {
		if action.fixedValue() {
			return errors.NewConfigError("positional argument %q cannot use action %s", attr, action)
		}
		pb := &posBinding{
			attr:     a.names[0],
			fieldIdx: field.Index,
			convert:  convert,
			nargs:    nargs,
			hasNargs: hasNargs,
			choices:  choices,
			defVal:   defVal,
			listMode: listMode,
			fullType: field.Type,
		}
		if listMode {
			pb.elemType = field.Type.Elem()
		}
		sc.positionals = append(sc.positionals, pb)
		a.setHandle(sc)
		return nil
	}

	longs, shorts, err := splitNames(attr, a.names)
	if err != nil {
		return err
	}
	primary := common.Fold(attr)
	if len(longs) > 0 {
		primary = longs[0]
	}

	h := &holder{
		attr:     "--" + primary,
		action:   action,
		convert:  convert,
		typeName: typeName,
		listMode: listMode,
		choices:  choices,
		constVal: constVal,
		defVal:   defVal,
	}
	if needsField {
		h.fieldType = field.Type
	} else {
		h.fieldType = reflect.TypeOf(false)
		h.typeName = "bool"
	}
	switch action {
	case StoreTrue, Help, Version:
		h.typeName = "bool"
		h.noOptDef = "true"
	case StoreFalse:
		h.typeName = "bool"
		h.noOptDef = "false"
	case Count:
		h.typeName = "count"
		h.noOptDef = noOptCount
	case StoreConst, AppendConst:
		h.noOptDef = fmt.Sprint(constVal.Interface())
	default:
		if hasNargs && nargs.kind == '?' && constVal.IsValid() {
			// Bare occurrence produces the const, as with argparse nargs='?'.
			h.noOptDef = fmt.Sprint(constVal.Interface())
		}
	}
	h.reset()

	usage := a.opts.str(optHelp)
	if mv := a.opts.str(optMetavar); mv != "" {
		// The engine derives the value placeholder from a back-quoted token
		// inside the usage text.
		usage = strings.TrimSpace("`" + mv + "` " + usage)
	}

	fs := sc.cmd.Flags()
	shorthand := ""
	if len(shorts) > 0 {
		shorthand = shorts[0]
	}
	fs.VarP(h, primary, shorthand, usage)
	f := fs.Lookup(primary)
	if h.noOptDef != "" {
		f.NoOptDefVal = h.noOptDef
	}
	if len(longs) > 1 {
		for _, extra := range longs[1:] {
			fs.Var(h, extra, usage)
			alias := fs.Lookup(extra)
			alias.Hidden = true
			alias.NoOptDefVal = h.noOptDef
		}
	}
	if len(shorts) > 1 {
		for _, extra := range shorts[1:] {
			fs.VarP(h, extra, extra, usage)
			alias := fs.Lookup(extra)
			alias.Hidden = true
			alias.NoOptDefVal = h.noOptDef
		}
	}

	if gh != nil {
		_ = fs.SetAnnotation(primary, groupAnnotation, []string{gh.id})
	}
	if mh != nil {
		if mh.group != nil {
			_ = fs.SetAnnotation(primary, groupAnnotation, []string{mh.group.id})
		}
		mh.names = append(mh.names, primary)
	}
	if a.opts.boolean(optRequired) {
		_ = sc.cmd.MarkFlagRequired(primary)
	}

	switch action {
	case Help:
		sc.helpFlags = append(sc.helpFlags, primary)
	case Version:
		msg := ""
		if constVal.IsValid() {
			msg = fmt.Sprint(constVal.Interface())
		}
		sc.verFlags = append(sc.verFlags, verFlag{name: primary, message: msg})
	default:
		sc.entries = append(sc.entries, &flagBinding{h: h, fieldIdx: field.Index, name: primary})
	}
	a.setHandle(f)
	return nil
}

// resolveParent maps the node's parent handle to the command scope the
// argument registers against, plus the group/exclusive-group context when
// the parent is one.
func (b *Binding[NS]) resolveParent(a *Argument) (*scope, *groupHandle, *mutexHandle) {
	switch h := a.parentHandle().(type) {
	case *scope:
		return h, nil, nil
	case *groupHandle:
		return h.sc, h, nil
	case *mutexHandle:
		return h.sc, h.group, h
	default:
		return b.root, nil, nil
	}
}

// splitNames separates flag names into long and shorthand forms. A "-x" name
// with a single character is a shorthand; anything else (with one or two
// leading dashes) is a long name.
func splitNames(attr string, names []string) (longs, shorts []string, err error) {
	for _, name := range names {
		switch {
		case strings.HasPrefix(name, "--"):
			longs = append(longs, name[2:])
		case strings.HasPrefix(name, "-"):
			if len(name) == 2 {
				shorts = append(shorts, name[1:])
			} else {
				longs = append(longs, name[1:])
			}
		default:
			return nil, nil, errors.NewConfigError("argument %q mixes positional name %q with options", attr, name)
		}
	}
	return longs, shorts, nil
}

// Fill copies the values accumulated by the engine into ns. It considers
// every scope whose flag set the engine has parsed (the root command and, in
// a cobra Execute run, the invoked subcommand chain) and binds args, the
// leftover tokens cobra hands a Run function, to that scope's positionals.
func (b *Binding[NS]) Fill(ns *NS, args []string) error {
	if !common.IsStructPtr(ns) {
		return errors.NewConfigError("parse target must be a pointer to a struct")
	}
	nsv := reflect.ValueOf(ns).Elem()
	var deepest *scope
	for _, sc := range b.scopes {
		if !sc.cmd.Flags().Parsed() {
			continue
		}
		copyScope(sc, nsv)
		deepest = sc
	}
	if deepest == nil {
		return nil
	}
	extra, err := bindPositionals(deepest, nsv, args, 0)
	if err != nil {
		return err
	}
	if len(extra) > 0 {
		return errors.NewUnrecognizedArgs(extra)
	}
	return nil
}

// copyScope moves every flag-bound holder value of the scope into the result
// struct.
func copyScope(sc *scope, nsv reflect.Value) {
	for _, e := range sc.entries {
		nsv.FieldByIndex(e.fieldIdx).Set(e.h.value())
	}
}

// bindPositionals distributes leftover engine tokens over the scope's
// declared positionals according to their nargs, reserving enough tokens for
// later required positionals before letting an earlier variadic consume the
// rest. reserve tokens at the tail are left untouched for the caller (the
// subcommand route token). Unconsumed tokens are returned.
func bindPositionals(sc *scope, nsv reflect.Value, tokens []string, reserve int) ([]string, error) {
	n := len(sc.positionals)
	mins := make([]int, n)
	maxs := make([]int, n)
	for i, pb := range sc.positionals {
		if pb.hasNargs {
			mins[i], maxs[i] = pb.nargs.bounds()
		} else {
			mins[i], maxs[i] = 1, 1
		}
	}
	suffix := make([]int, n+1)
	suffix[n] = reserve
	for i := n - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + mins[i]
	}

	avail := tokens
	for i, pb := range sc.positionals {
		if pb.defVal.IsValid() {
			nsv.FieldByIndex(pb.fieldIdx).Set(pb.defVal)
		}
		budget := len(avail) - suffix[i+1]
		take := maxs[i]
		if take < 0 || take > budget {
			take = budget
		}
		if take < 0 {
			take = 0
		}
		if take < mins[i] {
			return nil, errors.NewMissingArg(pb.attr)
		}
		if take == 0 {
			continue
		}
		if err := setPositional(pb, nsv, avail[:take]); err != nil {
			return nil, err
		}
		avail = avail[take:]
	}
	return avail, nil
}

func setPositional(pb *posBinding, nsv reflect.Value, tokens []string) error {
	convertOne := func(tok string, target reflect.Type) (reflect.Value, error) {
		if len(pb.choices) > 0 {
			allowed := false
			for _, c := range pb.choices {
				if tok == c {
					allowed = true
					break
				}
			}
			if !allowed {
				return reflect.Value{}, errors.NewParseError(fmt.Sprintf(
					"argument %s: invalid choice: %q (choose from %s)", pb.attr, tok, joinChoices(pb.choices)))
			}
		}
		v, err := pb.convert(tok)
		if err != nil {
			return reflect.Value{}, errors.NewParseError(fmt.Sprintf(
				"argument %s: invalid value %q: %v", pb.attr, tok, err))
		}
		return coerce(reflect.ValueOf(v), target)
	}

	field := nsv.FieldByIndex(pb.fieldIdx)
	if pb.listMode {
		out := reflect.MakeSlice(pb.fullType, 0, len(tokens))
		for _, tok := range tokens {
			rv, err := convertOne(tok, pb.elemType)
			if err != nil {
				return err
			}
			out = reflect.Append(out, rv)
		}
		field.Set(out)
		return nil
	}
	rv, err := convertOne(tokens[0], pb.fullType)
	if err != nil {
		return err
	}
	field.Set(rv)
	return nil
}
