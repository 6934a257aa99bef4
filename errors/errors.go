// Package errors defines the error types reported by argparse-typed.
//
// Two separate families exist. Configuration errors are programmer mistakes
// in a schema definition; they are reported once, while the schema is being
// registered against a parser, and should never be caught and retried.
// Parse errors arise from the command line actually being parsed and follow
// the parser's error-handling mode.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Sentinel categories usable with errors.Is.
var (
	// ErrConfig marks all schema configuration errors.
	ErrConfig = stderrors.New("invalid argument configuration")
	// ErrParse marks all command-line input errors produced by this package.
	ErrParse = stderrors.New("argument parsing failed")
)

// ConfigError represents a generic schema configuration error.
type ConfigError struct{ Msg string }

func (e ConfigError) Error() string { return e.Msg }
func (e ConfigError) Unwrap() error { return ErrConfig }

// PositionalNameError indicates a positional argument whose single name does
// not match the attribute name it was registered under.
type PositionalNameError struct{ Name, Attr string }

func (e PositionalNameError) Error() string {
	return fmt.Sprintf("positional argument %q must match attribute name %q", e.Name, e.Attr)
}
func (e PositionalNameError) Unwrap() error { return ErrConfig }

// DestMismatchError indicates an explicit destination that differs from the
// attribute name the argument was registered under.
type DestMismatchError struct{ Dest, Attr string }

func (e DestMismatchError) Error() string {
	return fmt.Sprintf("destination %q must match attribute name %q", e.Dest, e.Attr)
}
func (e DestMismatchError) Unwrap() error { return ErrConfig }

// UnknownFieldError indicates an argument destination that names no exported
// field of the result struct.
type UnknownFieldError struct{ Attr, Struct string }

func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("argument %q has no matching field in %s", e.Attr, e.Struct)
}
func (e UnknownFieldError) Unwrap() error { return ErrConfig }

// UnsupportedFieldTypeError indicates a result field whose type no converter
// can be derived for.
type UnsupportedFieldTypeError struct{ Attr, Type string }

func (e UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("unsupported type for argument %q: %s", e.Attr, e.Type)
}
func (e UnsupportedFieldTypeError) Unwrap() error { return ErrConfig }

// InvalidValueError indicates a declared default or const value that cannot be
// stored in the matching result field.
type InvalidValueError struct{ Attr, Kind, Type string }

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("%s value for argument %q is not assignable to %s", e.Kind, e.Attr, e.Type)
}
func (e InvalidValueError) Unwrap() error { return ErrConfig }

// ParseError represents a generic parsing error intended for user-facing
// messages.
type ParseError struct{ Msg string }

func (e ParseError) Error() string { return e.Msg }
func (e ParseError) Unwrap() error { return ErrParse }

// MissingArgError indicates a required positional argument was not provided.
type MissingArgError struct{ Name string }

func (e MissingArgError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Name)
}
func (e MissingArgError) Unwrap() error { return ErrParse }

// UnknownSubcommandError indicates the user invoked a subcommand that does not
// exist. Suggestion, if present, is a close match the user may have intended.
type UnknownSubcommandError struct{ Name, Suggestion string }

func (e UnknownSubcommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown subcommand: %s (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown subcommand: %s", e.Name)
}
func (e UnknownSubcommandError) Unwrap() error { return ErrParse }

// MissingSubcommandError indicates a required subcommand was not given.
type MissingSubcommandError struct{ Choices []string }

func (e MissingSubcommandError) Error() string {
	return fmt.Sprintf("a subcommand is required (choose from %s)", strings.Join(e.Choices, ", "))
}
func (e MissingSubcommandError) Unwrap() error { return ErrParse }

// UnrecognizedArgsError indicates tokens left over after all declared
// arguments were bound.
type UnrecognizedArgsError struct{ Args []string }

func (e UnrecognizedArgsError) Error() string {
	return fmt.Sprintf("unrecognized arguments: %s", strings.Join(e.Args, " "))
}
func (e UnrecognizedArgsError) Unwrap() error { return ErrParse }

// Helper constructors
func NewConfigError(format string, args ...any) error {
	return ConfigError{Msg: fmt.Sprintf(format, args...)}
}
func NewPositionalName(name, attr string) error { return PositionalNameError{Name: name, Attr: attr} }
func NewDestMismatch(dest, attr string) error   { return DestMismatchError{Dest: dest, Attr: attr} }
func NewUnknownField(attr, structName string) error {
	return UnknownFieldError{Attr: attr, Struct: structName}
}
func NewUnsupportedFieldType(attr, typ string) error {
	return UnsupportedFieldTypeError{Attr: attr, Type: typ}
}
func NewInvalidValue(attr, kind, typ string) error {
	return InvalidValueError{Attr: attr, Kind: kind, Type: typ}
}
func NewParseError(msg string) error  { return ParseError{Msg: msg} }
func NewMissingArg(name string) error { return MissingArgError{Name: name} }
func NewUnknownSubcommand(name, suggestion string) error {
	return UnknownSubcommandError{Name: name, Suggestion: suggestion}
}
func NewMissingSubcommand(choices []string) error {
	return MissingSubcommandError{Choices: choices}
}
func NewUnrecognizedArgs(args []string) error { return UnrecognizedArgsError{Args: args} }
