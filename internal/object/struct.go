package object

import (
	"bytes"
	"fern/internal/errs"
	"strings"
)

type StructField struct {
	Name string
	Type string
}

type StructSchema struct {
	Name       string
	Fields     []StructField
	FieldIndex map[string]int
}

func (s *StructSchema) HasField(name string) bool {
	_, ok := s.FieldIndex[name]
	return ok
}

// StructInstance is a reference-semantics record: every variable, field and
// argument holding it sees mutations made through any other holder. Equality
// between instances is pointer identity.
type StructInstance struct {
	Schema *StructSchema
	Fields map[string]Object
}

func (s *StructInstance) Type() ObjectType { return ObjectType(s.Schema.Name) }
func (s *StructInstance) Inspect() string {
	var out bytes.Buffer

	out.WriteString(s.Schema.Name)
	out.WriteString(" {")
	parts := []string{}
	for _, field := range s.Schema.Fields {
		parts = append(parts, field.Name+": "+s.Fields[field.Name].Inspect())
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")

	return out.String()
}

// Registry holds every declared struct schema for one program run. It is
// fully built and validated before any statement executes, which is what
// makes forward references between struct types legal.
type Registry struct {
	schemas map[string]*StructSchema
}

func NewRegistry() *Registry {
	return &Registry{schemas: map[string]*StructSchema{}}
}

func (r *Registry) Define(name string, fields []StructField) error {
	if _, exists := r.schemas[name]; exists {
		return errs.Name("Duplicate struct definition: %s", name)
	}
	schema := &StructSchema{
		Name:       name,
		Fields:     fields,
		FieldIndex: make(map[string]int, len(fields)),
	}
	for i, field := range fields {
		if _, dup := schema.FieldIndex[field.Name]; dup {
			return errs.Name("Duplicate field name %s in struct %s", field.Name, name)
		}
		schema.FieldIndex[field.Name] = i
	}
	r.schemas[name] = schema
	return nil
}

// Validate checks every field's declared type now that all struct names are
// known.
func (r *Registry) Validate() error {
	for _, schema := range r.schemas {
		for _, field := range schema.Fields {
			switch field.Type {
			case INT_OBJ, STRING_OBJ, BOOL_OBJ:
			default:
				if !r.Contains(field.Type) {
					return errs.Type("Field %s of struct %s has unknown type %s",
						field.Name, schema.Name, field.Type)
				}
			}
		}
	}
	return nil
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

func (r *Registry) Schema(name string) (*StructSchema, bool) {
	schema, ok := r.schemas[name]
	return schema, ok
}

// Instantiate produces a new instance whose field storage is owned by that
// instance alone; no two instances ever alias field storage.
func (r *Registry) Instantiate(name string) (*StructInstance, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, errs.Type("Struct %s not found", name)
	}
	fields := make(map[string]Object, len(schema.Fields))
	for _, field := range schema.Fields {
		fields[field.Name] = r.DefaultValue(field.Type)
	}
	return &StructInstance{Schema: schema, Fields: fields}, nil
}

// DefaultValue returns the value a freshly declared variable or field of the
// given type holds: 0, "", false, or nil for struct types. The caller is
// responsible for only passing declarable types.
func (r *Registry) DefaultValue(typeName string) Object {
	switch typeName {
	case INT_OBJ:
		return &Integer{Value: 0}
	case STRING_OBJ:
		return &String{Value: ""}
	case BOOL_OBJ:
		return FALSE
	default:
		return NIL
	}
}
