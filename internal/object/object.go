package object

import "strconv"

const (
	INT_OBJ    = "int"
	STRING_OBJ = "string"
	BOOL_OBJ   = "bool"
	NIL_OBJ    = "nil"
	VOID_OBJ   = "void"
)

// A struct-typed value reports its declared struct name as its ObjectType,
// so tags line up with the type names written in source.
type ObjectType string

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	VOID  = &Void{}
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INT_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOL_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// Void is the result of calling a void-declared function. It is not a value
// the language can store or compare; the evaluator rejects it everywhere a
// real value is required.
type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "void" }

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// CoerceIntToBool maps an Integer to its truthiness: 0 is false, anything
// else is true. Values of any other type pass through unchanged. Callers
// apply this only at the coercion points; arithmetic never coerces.
func CoerceIntToBool(o Object) Object {
	if i, ok := o.(*Integer); ok {
		if i.Value == 0 {
			return FALSE
		}
		return TRUE
	}
	return o
}
