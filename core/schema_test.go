package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaDeclarationOrder(t *testing.T) {
	type ns struct{ A, B, C bool }
	s := NewSchema[ns]()
	s.Add("C", NewArgument("--c").Action(StoreTrue))
	s.Add("A", NewArgument("--a").Action(StoreTrue))
	s.Add("B", NewArgument("--b").Action(StoreTrue))

	want := []string{"C", "A", "B"}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("declaration order mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaUnderscoreNamesIgnored(t *testing.T) {
	type ns struct{ A bool }
	s := NewSchema[ns]()
	s.Add("_private", NewArgument("--x"))
	s.Add("A", NewArgument("--a").Action(StoreTrue))

	want := []string{"A"}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("underscore name leaked into registry (-want +got):\n%s", diff)
	}
}

func TestSchemaReAddKeepsPosition(t *testing.T) {
	type ns struct{ A, B bool }
	s := NewSchema[ns]()
	s.Add("A", NewArgument("--a").Action(StoreTrue))
	s.Add("B", NewArgument("--b").Action(StoreTrue))
	s.Add("A", NewArgument("--a").Action(StoreFalse))

	want := []string{"A", "B"}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("re-add moved the declaration (-want +got):\n%s", diff)
	}
}
