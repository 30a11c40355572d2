package object

import (
	"fern/internal/errs"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Define("Node", []StructField{
		{Name: "val", Type: "int"},
		{Name: "next", Type: "Node"},
	}); err != nil {
		t.Fatalf("define Node failed: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	return r
}

func TestInstantiateSeedsDefaults(t *testing.T) {
	r := newTestRegistry(t)

	n, err := r.Instantiate("Node")
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}

	val, ok := n.Fields["val"].(*Integer)
	if !ok || val.Value != 0 {
		t.Errorf("int field not seeded with 0, got %v", n.Fields["val"])
	}
	if n.Fields["next"] != NIL {
		t.Errorf("struct field not seeded with nil, got %v", n.Fields["next"])
	}
}

func TestInstancesOwnTheirFields(t *testing.T) {
	r := newTestRegistry(t)

	a, _ := r.Instantiate("Node")
	b, _ := r.Instantiate("Node")

	a.Fields["val"] = &Integer{Value: 7}
	if got := b.Fields["val"].(*Integer).Value; got != 0 {
		t.Errorf("mutating one instance leaked into another: got %d", got)
	}
	if a == b {
		t.Errorf("two instantiations returned the same instance")
	}
}

func TestDuplicateStructIsNameError(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("Pair", nil); err != nil {
		t.Fatalf("first define failed: %v", err)
	}
	err := r.Define("Pair", nil)
	if kind, _ := errs.KindOf(err); kind != errs.NameError {
		t.Errorf("duplicate struct: got %v, want NameError", err)
	}
}

func TestDuplicateFieldIsNameError(t *testing.T) {
	r := NewRegistry()
	err := r.Define("Pair", []StructField{
		{Name: "a", Type: "int"},
		{Name: "a", Type: "string"},
	})
	if kind, _ := errs.KindOf(err); kind != errs.NameError {
		t.Errorf("duplicate field: got %v, want NameError", err)
	}
}

func TestUnknownFieldTypeIsTypeError(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("Broken", []StructField{{Name: "x", Type: "Ghost"}}); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	err := r.Validate()
	if kind, _ := errs.KindOf(err); kind != errs.TypeError {
		t.Errorf("unknown field type: got %v, want TypeError", err)
	}
}

func TestForwardReferencesAreLegal(t *testing.T) {
	r := NewRegistry()
	if err := r.Define("A", []StructField{{Name: "b", Type: "B"}}); err != nil {
		t.Fatalf("define A failed: %v", err)
	}
	if err := r.Define("B", []StructField{{Name: "a", Type: "A"}}); err != nil {
		t.Fatalf("define B failed: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("mutually recursive structs rejected: %v", err)
	}
}

func TestUnknownStructInstantiateIsTypeError(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Instantiate("Ghost")
	if kind, _ := errs.KindOf(err); kind != errs.TypeError {
		t.Errorf("unknown struct: got %v, want TypeError", err)
	}
}
