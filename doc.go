// Package typedargs is a declarative, statically typed command-line argument
// definition library for Go.
//
// A command line is described once, as a schema of argument declarations tied
// to a plain result struct; parsing then fills a fresh instance of that
// struct, so every parsed value carries its declared Go type. Options,
// positionals, argument groups, mutually exclusive groups and nested
// subcommands follow the argparse vocabulary, materialized onto
// spf13/cobra and spf13/pflag.
package typedargs

//go:generate gomarkdoc ./ -o docs/typedargs.md
