package typedargs

import "github.com/MartinScharrer/argparse-typed/core"

// Schema describes the command line of a program declaratively; NS is the
// result struct its parsers fill.
type Schema[NS any] = core.Schema[NS]

// Parser parses command lines described by a Schema into NS result structs.
type Parser[NS any] = core.Parser[NS]

// Binding is the materialized state of one schema registered against one
// cobra command.
type Binding[NS any] = core.Binding[NS]

// Declaration node types, created by the constructors in this package or by
// the factory methods on their container nodes.
type (
	Argument   = core.Argument
	Group      = core.Group
	MutexGroup = core.MutexGroup
	Subparsers = core.Subparsers
	Subparser  = core.Subparser
)

// Action selects how an occurrence of an argument is handled.
type Action = core.Action

const (
	Store       = core.Store
	StoreConst  = core.StoreConst
	StoreTrue   = core.StoreTrue
	StoreFalse  = core.StoreFalse
	Append      = core.Append
	AppendConst = core.AppendConst
	Count       = core.Count
	Extend      = core.Extend
	Help        = core.Help
	Version     = core.Version
)

// Nargs describes how many command-line tokens an argument consumes.
type Nargs = core.Nargs

var (
	// Exactly consumes exactly n tokens, producing a list.
	Exactly = core.Exactly
	// Optional consumes zero or one token.
	Optional = core.Optional
	// ZeroOrMore consumes any number of tokens, producing a list.
	ZeroOrMore = core.ZeroOrMore
	// OneOrMore consumes at least one token, producing a list.
	OneOrMore = core.OneOrMore
)

// ConvertFunc converts one command-line token into a value.
type ConvertFunc = core.ConvertFunc

// Option configures a Parser at construction time.
type Option = core.Option

var (
	WithProg        = core.WithProg
	WithUsage       = core.WithUsage
	WithDescription = core.WithDescription
	WithEpilog      = core.WithEpilog
	WithVersion     = core.WithVersion
	WithoutHelp     = core.WithoutHelp
	WithExitOnError = core.WithExitOnError
	WithOutput      = core.WithOutput
	WithErrOutput   = core.WithErrOutput
)
