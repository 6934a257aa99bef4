package core

import (
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema describes the command line of a program declaratively. NS is the
// result struct populated by parsing; its exported fields are the
// destinations of the declared arguments, and their types double as the
// default token converters.
//
// The registry of declarations lives on the Schema, keyed by attribute name,
// so the result struct itself only ever holds parsed values; declarations and
// results can never collide. Adding a node performs no validation: all
// checking happens when the schema is bound to a parser, which has access to
// the engine's constraints.
type Schema[NS any] struct {
	reg    *orderedmap.OrderedMap[string, Node]
	nsType reflect.Type
}

// NewSchema creates an empty schema for the result struct NS.
func NewSchema[NS any]() *Schema[NS] {
	var ns NS
	return &Schema[NS]{
		reg:    orderedmap.New[string, Node](),
		nsType: reflect.TypeOf(&ns).Elem(),
	}
}

// Add registers a declaration node under an attribute name. Nodes are bound
// in Add order, so containers must be added before their children. Names
// with a leading underscore are reserved and ignored. Re-adding a name
// replaces the node but keeps the original position.
func (s *Schema[NS]) Add(name string, n Node) *Schema[NS] {
	if strings.HasPrefix(name, "_") {
		return s
	}
	s.reg.Set(name, n)
	return s
}

// Names returns the attribute names in declaration order.
func (s *Schema[NS]) Names() []string {
	names := make([]string, 0, s.reg.Len())
	for pair := s.reg.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Parser builds a parser for this schema. It is a convenience for New.
func (s *Schema[NS]) Parser(opts ...Option) (*Parser[NS], error) {
	return New(s, opts...)
}
