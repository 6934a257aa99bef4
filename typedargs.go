package typedargs

import (
	"github.com/spf13/cobra"

	"github.com/MartinScharrer/argparse-typed/core"
)

// NewSchema creates an empty schema for the result struct NS. Declarations
// are added with Schema.Add under the name of the result field they fill:
//
//	type Args struct {
//		Verbose bool
//		File    string
//	}
//
//	s := typedargs.NewSchema[Args]()
//	s.Add("Verbose", typedargs.NewArgument("-v", "--verbose").
//		Action(typedargs.StoreTrue).
//		Help("enable verbose output"))
//	s.Add("File", typedargs.NewArgument("file").
//		Help("input file"))
//
//	p, err := s.Parser(typedargs.WithProg("mytool"))
//	args, err := p.ParseArgs(nil)
func NewSchema[NS any]() *Schema[NS] { return core.NewSchema[NS]() }

// New builds a parser for the schema. Configuration mistakes in the schema
// (unknown result fields, name/dest mismatches, unconvertible field types)
// are reported here; failures of an actual command line surface from the
// parse methods.
func New[NS any](s *Schema[NS], opts ...Option) (*Parser[NS], error) {
	return core.New(s, opts...)
}

// Must panics when err is non-nil, for parsers built from static
// declarations:
//
//	var parser = typedargs.Must(typedargs.New(schema))
func Must[NS any](p *Parser[NS], err error) *Parser[NS] { return core.Must(p, err) }

// Bind registers the schema's declarations against an existing cobra
// command instead of building a standalone parser. The returned binding
// fills result structs from the command's parsed state; call Fill from the
// command's Run function:
//
//	b, err := typedargs.Bind(cmd, schema)
//	cmd.RunE = func(cmd *cobra.Command, args []string) error {
//		var ns Args
//		if err := b.Fill(&ns, args); err != nil {
//			return err
//		}
//		...
//	}
func Bind[NS any](cmd *cobra.Command, s *Schema[NS]) (*Binding[NS], error) {
	return core.Bind(cmd, s)
}

// NewArgument declares an option or positional argument. A single name
// without a dash prefix declares a positional; "--long" and "-s" names
// declare an option with long and shorthand forms.
var NewArgument = core.NewArgument

// ArgumentGroup declares an argument group with a title and description.
// Arguments created through the group's Argument method are listed under its
// heading.
var ArgumentGroup = core.NewGroup

// MutuallyExclusiveGroup declares a group of options of which at most one
// may be given, or exactly one when required is true.
var MutuallyExclusiveGroup = core.NewMutexGroup

// NewSubparsers declares a collection of subcommands. Each Subparsers.Parser
// call adds one subcommand slot, which can carry its own arguments, groups
// and nested collections.
var NewSubparsers = core.NewSubparsers
