package core

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MartinScharrer/argparse-typed/errors"
	"github.com/MartinScharrer/argparse-typed/internal/common"
)

// osExit is swapped out in tests.
var osExit = os.Exit

// Option configures a Parser.
type Option func(*config)

type config struct {
	prog        string
	usage       string
	description string
	epilog      string
	version     string
	noHelp      bool
	exitOnError bool
	out         io.Writer
	errOut      io.Writer
}

// WithProg sets the program name used in usage and error messages. The
// default is the base name of the running executable.
func WithProg(prog string) Option { return func(c *config) { c.prog = prog } }

// WithUsage overrides the generated usage line.
func WithUsage(usage string) Option { return func(c *config) { c.usage = usage } }

// WithDescription sets the text shown before the argument help.
func WithDescription(d string) Option { return func(c *config) { c.description = d } }

// WithEpilog sets the text shown after the argument help.
func WithEpilog(e string) Option { return func(c *config) { c.epilog = e } }

// WithVersion sets the version string and adds a --version flag reporting it.
func WithVersion(v string) Option { return func(c *config) { c.version = v } }

// WithoutHelp suppresses the automatic -h/--help flag on the top-level
// parser. Subcommands keep theirs.
func WithoutHelp() Option { return func(c *config) { c.noHelp = true } }

// WithExitOnError controls error handling. When true (the default), a failed
// parse prints the usage line and the error and exits the process with
// status 2; when false, the error is returned to the caller instead.
func WithExitOnError(b bool) Option { return func(c *config) { c.exitOnError = b } }

// WithOutput redirects help and version output, which goes to stdout by
// default.
func WithOutput(w io.Writer) Option { return func(c *config) { c.out = w } }

// WithErrOutput redirects usage and error output, which goes to stderr by
// default.
func WithErrOutput(w io.Writer) Option { return func(c *config) { c.errOut = w } }

// Parser parses command lines described by a Schema into fresh NS result
// structs. Every parse run starts from a zero-valued struct, so results never
// leak between runs and parses may repeat on the same parser.
//
// A Parser is not safe for concurrent parse calls; build one per goroutine
// from the shared schema instead.
type Parser[NS any] struct {
	cfg     config
	schema  *Schema[NS]
	binding *Binding[NS]
	cmd     *cobra.Command
}

// New builds a parser for the schema, materializing every declaration
// against a fresh engine command. Configuration mistakes in the schema are
// reported here, not at parse time.
func New[NS any](s *Schema[NS], opts ...Option) (*Parser[NS], error) {
	cfg := config{exitOnError: true, out: os.Stdout, errOut: os.Stderr}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.prog == "" {
		cfg.prog = filepath.Base(os.Args[0])
	}
	cmd := &cobra.Command{
		Use:           cfg.prog,
		Long:          cfg.description,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	if cfg.epilog != "" {
		cmd.SetHelpTemplate(cmd.HelpTemplate() + cfg.epilog + "\n")
	}
	cmd.SetOut(cfg.out)
	cmd.SetErr(cfg.errOut)

	b, err := Bind(cmd, s)
	if err != nil {
		return nil, err
	}
	if cfg.version != "" {
		cmd.Version = cfg.version
		cmd.InitDefaultVersionFlag()
	}
	for _, sc := range b.scopes {
		if sc == b.root && cfg.noHelp {
			continue
		}
		sc.cmd.InitDefaultHelpFlag()
	}
	return &Parser[NS]{cfg: cfg, schema: s, binding: b, cmd: cmd}, nil
}

// Must returns p or panics when err is non-nil. It wraps New for parsers
// built from static declarations.
func Must[NS any](p *Parser[NS], err error) *Parser[NS] {
	if err != nil {
		panic(err)
	}
	return p
}

// Command exposes the underlying engine command, e.g. to hook the parser
// into a larger cobra application.
func (p *Parser[NS]) Command() *cobra.Command { return p.cmd }

// ParseArgs parses args into a fresh result struct. A nil args parses the
// process command line. On failure the parser either exits or returns the
// error, per WithExitOnError.
func (p *Parser[NS]) ParseArgs(args []string) (*NS, error) {
	ns := new(NS)
	_, err := p.run(ns, args, false)
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// ParseKnownArgs is ParseArgs except that unknown flags and surplus
// positionals do not fail the parse; they are returned as leftover tokens.
func (p *Parser[NS]) ParseKnownArgs(args []string) (*NS, []string, error) {
	ns := new(NS)
	rest, err := p.run(ns, args, true)
	if err != nil {
		return nil, nil, err
	}
	return ns, rest, nil
}

// ParseIntermixedArgs parses args with flags and positionals freely
// interleaved. The engine interleaves natively, so this matches ParseArgs;
// it exists so call sites can state the intent.
func (p *Parser[NS]) ParseIntermixedArgs(args []string) (*NS, error) {
	return p.ParseArgs(args)
}

// ParseKnownIntermixedArgs is the known-args variant of
// ParseIntermixedArgs.
func (p *Parser[NS]) ParseKnownIntermixedArgs(args []string) (*NS, []string, error) {
	return p.ParseKnownArgs(args)
}

// ParseArgsInto parses args into a caller-provided result struct instead of
// a fresh one. Fields without a matching occurrence are still overwritten
// with their declared default or zero value.
func (p *Parser[NS]) ParseArgsInto(ns *NS, args []string) error {
	_, err := p.run(ns, args, false)
	return err
}

func (p *Parser[NS]) run(ns *NS, args []string, known bool) ([]string, error) {
	if args == nil {
		args = os.Args[1:]
	}
	rest, err := p.parse(ns, args, known)
	if err != nil && p.cfg.exitOnError && !goerrors.Is(err, pflag.ErrHelp) {
		p.fail(err)
	}
	return rest, err
}

// parse walks the command scopes from the root down, letting the engine
// consume flags at each level and routing on the first unconsumed positional
// when the scope declares subcommands.
func (p *Parser[NS]) parse(ns *NS, args []string, known bool) ([]string, error) {
	if !common.IsStructPtr(ns) {
		return nil, errors.NewConfigError("parse target must be a pointer to a struct")
	}
	nsv := reflect.ValueOf(ns).Elem()
	for _, sc := range p.binding.scopes {
		resetScope(sc)
	}

	sc := p.binding.root
	for {
		fs := sc.cmd.Flags()
		fs.ParseErrorsWhitelist.UnknownFlags = known
		hasSlots := len(sc.slotNames) > 0
		// With subcommands the first positional routes, so flag parsing must
		// stop there instead of interleaving past it.
		fs.SetInterspersed(!hasSlots)
		if err := fs.Parse(args); err != nil {
			return nil, errors.NewParseError(err.Error())
		}
		if err := p.handleHelpVersion(sc); err != nil {
			return nil, err
		}
		if err := sc.cmd.ValidateRequiredFlags(); err != nil {
			return nil, errors.NewParseError(err.Error())
		}
		if err := sc.cmd.ValidateFlagGroups(); err != nil {
			return nil, errors.NewParseError(err.Error())
		}
		copyScope(sc, nsv)

		rest := fs.Args()
		if !hasSlots {
			extra, err := bindPositionals(sc, nsv, rest, 0)
			if err != nil {
				return nil, err
			}
			if len(extra) > 0 && !known {
				return nil, errors.NewUnrecognizedArgs(extra)
			}
			return extra, nil
		}

		reserve := 0
		if sc.sub != nil && sc.sub.required {
			reserve = 1
		}
		extra, err := bindPositionals(sc, nsv, rest, reserve)
		if err != nil {
			return nil, err
		}
		if len(extra) == 0 {
			if sc.sub != nil && sc.sub.required {
				return nil, errors.NewMissingSubcommand(sc.slotNames)
			}
			return nil, nil
		}
		child, ok := sc.slots[extra[0]]
		if !ok {
			if known {
				return extra, nil
			}
			return nil, errors.NewUnknownSubcommand(extra[0], common.ClosestMatch(extra[0], sc.slotNames))
		}
		if sc.sub != nil && sc.sub.destIdx != nil {
			nsv.FieldByIndex(sc.sub.destIdx).SetString(child.cmd.Name())
		}
		args = extra[1:]
		sc = child
	}
}

// handleHelpVersion services help and version flags seen during the engine
// parse. Both short-circuit the run: with exit-on-error enabled the process
// exits with status 0, otherwise pflag.ErrHelp is returned so callers can
// tell the benign stop from a real parse failure.
func (p *Parser[NS]) handleHelpVersion(sc *scope) error {
	fs := sc.cmd.Flags()
	helpWanted := false
	if f := fs.Lookup("help"); f != nil && f.Changed {
		helpWanted = true
	}
	for _, name := range sc.helpFlags {
		if f := fs.Lookup(name); f != nil && f.Changed {
			helpWanted = true
		}
	}
	if helpWanted {
		_ = sc.cmd.Help()
		if p.cfg.exitOnError {
			osExit(0)
		}
		return pflag.ErrHelp
	}

	versionMsg := ""
	versionWanted := false
	if f := fs.Lookup("version"); f != nil && f.Changed && sc.cmd.Version != "" {
		versionWanted = true
		versionMsg = sc.cmd.Version
	}
	for _, vf := range sc.verFlags {
		if f := fs.Lookup(vf.name); f != nil && f.Changed {
			versionWanted = true
			if vf.message != "" {
				versionMsg = vf.message
			} else if versionMsg == "" {
				versionMsg = p.cfg.version
			}
		}
	}
	if versionWanted {
		if versionMsg == "" {
			versionMsg = p.cmd.Name()
		}
		fmt.Fprintln(p.cfg.out, versionMsg)
		if p.cfg.exitOnError {
			osExit(0)
		}
		return pflag.ErrHelp
	}
	return nil
}

// resetScope re-arms a scope for a fresh run: holder values go back to their
// defaults and the engine's per-flag seen markers are cleared.
func resetScope(sc *scope) {
	sc.cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, e := range sc.entries {
		e.h.reset()
	}
}

func (p *Parser[NS]) fail(err error) {
	if p.cfg.usage != "" {
		fmt.Fprintf(p.cfg.errOut, "usage: %s\n", p.cfg.usage)
	} else {
		fmt.Fprintf(p.cfg.errOut, "usage: %s\n", p.cmd.UseLine())
	}
	fmt.Fprintf(p.cfg.errOut, "%s: error: %v\n", p.cmd.Name(), err)
	osExit(2)
}
