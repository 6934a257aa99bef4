package core

// Node is the common interface of everything that can be registered in a
// Schema: arguments, argument groups, mutually exclusive groups, subparser
// collections and subparser slots.
//
// Every node carries an optional parent link (navigation only; a container
// never holds a child list) and a materialized handle, the opaque engine
// object created for it during registration. The handle is per registration
// run: binding the same schema to a second parser overwrites it, and each
// binding keeps its own independent engine state.
type Node interface {
	setParent(Node)
	parent() Node
	setHandle(any)
	handle() any
}

// node is the embedded base of all declaration nodes.
type node struct {
	up   Node
	impl any
}

func (n *node) setParent(p Node) { n.up = p }
func (n *node) parent() Node     { return n.up }
func (n *node) setHandle(h any)  { n.impl = h }
func (n *node) handle() any      { return n.impl }

// parentHandle returns the materialized handle of the node's parent, or nil
// when the node has no parent or the parent has not been materialized. The
// registration engine falls back to the top-level parser in that case.
func (n *node) parentHandle() any {
	if n.up == nil {
		return nil
	}
	return n.up.handle()
}

// Argument declares one command-line option or positional argument. It holds
// the raw registration parameters until the registration engine consumes it;
// it is not usable on its own.
//
// A single name without a dash prefix declares a positional argument and must
// match the attribute name it is added under. Anything else declares an
// option: "--long" names map to long flags, "-s" names to the shorthand.
type Argument struct {
	node
	names []string
	opts  optionSet
}

// NewArgument declares an argument with the given flag or positional names.
func NewArgument(names ...string) *Argument {
	return &Argument{names: names, opts: newOptionSet()}
}

// Action sets how an occurrence of the argument is handled.
func (a *Argument) Action(act Action) *Argument { a.opts.set(optAction, act); return a }

// NArgs sets the number of command-line tokens the argument consumes.
func (a *Argument) NArgs(n Nargs) *Argument { a.opts.set(optNargs, n); return a }

// Const sets the value produced by actions that take no command-line value,
// and the value used when an Optional-nargs option is given without one.
func (a *Argument) Const(v any) *Argument { a.opts.set(optConst, v); return a }

// Default sets the value produced when the argument is absent.
func (a *Argument) Default(v any) *Argument { a.opts.set(optDefault, v); return a }

// Type sets an explicit token converter. When set it takes precedence over
// the converter derived from the result field's type.
func (a *Argument) Type(fn ConvertFunc) *Argument { a.opts.set(optType, fn); return a }

// Choices restricts the allowed values of the argument.
func (a *Argument) Choices(vs ...any) *Argument { a.opts.set(optChoices, vs); return a }

// Required marks an option as mandatory. Only meaningful for options.
func (a *Argument) Required(b bool) *Argument { a.opts.set(optRequired, b); return a }

// Help sets the help text shown for the argument.
func (a *Argument) Help(s string) *Argument { a.opts.set(optHelp, s); return a }

// Metavar sets the value placeholder used in help output.
func (a *Argument) Metavar(s string) *Argument { a.opts.set(optMetavar, s); return a }

// Dest sets the result attribute explicitly. It must match the attribute
// name the argument is added under; its only use is self-documentation.
func (a *Argument) Dest(s string) *Argument { a.opts.set(optDest, s); return a }

// Group declares an argument group with an optional title and description.
// Children reference the group through their parent link; the group itself
// holds no child list.
type Group struct {
	node
	title       string
	description string
}

// NewGroup declares an argument group.
func NewGroup(title, description string) *Group {
	return &Group{title: title, description: description}
}

// Argument declares an argument inside the group.
func (g *Group) Argument(names ...string) *Argument {
	a := NewArgument(names...)
	a.setParent(g)
	return a
}

// MutexGroup declares a mutually exclusive group: at most one of its member
// options may be given, or exactly one when the group is required. If a title
// or description is set, materialization first creates a wrapping argument
// group and places the exclusive group inside it.
type MutexGroup struct {
	Group
	required bool
}

// NewMutexGroup declares a mutually exclusive group.
func NewMutexGroup(required bool) *MutexGroup {
	return &MutexGroup{required: required}
}

// Titled sets the wrapping group's title and description.
func (m *MutexGroup) Titled(title, description string) *MutexGroup {
	m.title = title
	m.description = description
	return m
}

// Argument declares an argument inside the exclusive group.
func (m *MutexGroup) Argument(names ...string) *Argument {
	a := NewArgument(names...)
	a.setParent(m)
	return a
}

// Subparsers declares a collection of subcommands on a parser. A parser may
// carry at most one collection.
type Subparsers struct {
	node
	title       string
	description string
	dest        string
	required    bool
}

// NewSubparsers declares a subparsers collection.
func NewSubparsers() *Subparsers { return &Subparsers{} }

// Title sets a heading under which the subcommands are listed.
func (s *Subparsers) Title(t string) *Subparsers { s.title = t; return s }

// Description sets the collection's description.
func (s *Subparsers) Description(d string) *Subparsers { s.description = d; return s }

// Dest names a string result field that receives the chosen subcommand name.
func (s *Subparsers) Dest(d string) *Subparsers { s.dest = d; return s }

// Required makes choosing a subcommand mandatory.
func (s *Subparsers) Required(b bool) *Subparsers { s.required = b; return s }

// Parser declares a subcommand slot inside the collection.
func (s *Subparsers) Parser(name string) *Subparser {
	p := &Subparser{name: name}
	p.setParent(s)
	return p
}

// Subparser declares one subcommand. It can itself parent arguments, groups
// and further nested subparser collections.
type Subparser struct {
	node
	name        string
	help        string
	description string
	aliases     []string
}

// Help sets the one-line help shown in the parent's subcommand list.
func (p *Subparser) Help(s string) *Subparser { p.help = s; return p }

// Description sets the long description shown in the subcommand's own help.
func (p *Subparser) Description(s string) *Subparser { p.description = s; return p }

// Aliases sets alternative names for the subcommand.
func (p *Subparser) Aliases(names ...string) *Subparser { p.aliases = names; return p }

// Argument declares an argument belonging to the subcommand.
func (p *Subparser) Argument(names ...string) *Argument {
	a := NewArgument(names...)
	a.setParent(p)
	return a
}

// ArgumentGroup declares an argument group belonging to the subcommand.
func (p *Subparser) ArgumentGroup(title, description string) *Group {
	g := NewGroup(title, description)
	g.setParent(p)
	return g
}

// MutuallyExclusiveGroup declares an exclusive group belonging to the
// subcommand.
func (p *Subparser) MutuallyExclusiveGroup(required bool) *MutexGroup {
	m := NewMutexGroup(required)
	m.setParent(p)
	return m
}

// Subparsers declares a nested subparsers collection on the subcommand.
func (p *Subparser) Subparsers() *Subparsers {
	s := NewSubparsers()
	s.setParent(p)
	return s
}
