package evaluator

import (
	"bufio"
	"io"
	"log/slog"

	"fern/internal/ast"
	"fern/internal/errs"
	"fern/internal/object"
)

// execStatus threads early-return signals up through nested statement
// execution. It is the only non-error control flow in the evaluator; a
// Return status carries the returned value with it.
type execStatus int

const (
	statusContinue execStatus = iota
	statusReturn
)

type signature struct {
	Name  string
	Arity int
}

type Evaluator struct {
	structs   *object.Registry
	functions map[signature]*ast.FunctionDefinition
	env       *object.Environment

	out io.Writer
	in  *bufio.Scanner
}

func New(out io.Writer, in io.Reader) *Evaluator {
	return &Evaluator{
		out: out,
		in:  bufio.NewScanner(in),
	}
}

// Run loads the struct and function tables, then calls the zero-argument
// main through the ordinary dispatch path. Any returned error carries one
// of the errs kinds and ends the run; there is no recovery.
func (e *Evaluator) Run(program *ast.Program) error {
	if err := e.loadStructs(program); err != nil {
		return err
	}
	if err := e.loadFunctions(program); err != nil {
		return err
	}

	e.env = object.NewEnvironment()
	e.env.PushFrame()
	defer e.env.PopFrame()

	_, err := e.callFunction("main", nil)
	return err
}

func (e *Evaluator) loadStructs(program *ast.Program) error {
	e.structs = object.NewRegistry()
	for _, sd := range program.Structs {
		fields := make([]object.StructField, len(sd.Fields))
		for i, field := range sd.Fields {
			fields[i] = object.StructField{Name: field.Name.Value, Type: field.Type}
		}
		if err := e.structs.Define(sd.Name.Value, fields); err != nil {
			return err
		}
	}
	// field types are checked after all names are known, so structs may
	// reference structs declared later in the file
	return e.structs.Validate()
}

func (e *Evaluator) loadFunctions(program *ast.Program) error {
	e.functions = map[signature]*ast.FunctionDefinition{}
	for _, fd := range program.Functions {
		for _, param := range fd.Parameters {
			if !e.isDeclarableType(param.Type) {
				return errs.Type("Parameter can not be of type %s", param.Type)
			}
		}
		if fd.ReturnType != object.VOID_OBJ && !e.isDeclarableType(fd.ReturnType) {
			return errs.Type("Function %s can not return type %s", fd.Name.Value, fd.ReturnType)
		}
		key := signature{Name: fd.Name.Value, Arity: len(fd.Parameters)}
		if _, exists := e.functions[key]; exists {
			return errs.Name("Duplicate definition for function %s taking %d params",
				key.Name, key.Arity)
		}
		e.functions[key] = fd
	}
	return nil
}

// isDeclarableType reports whether a variable, field or parameter may be
// declared with the given type. void and nil are not declarable.
func (e *Evaluator) isDeclarableType(name string) bool {
	switch name {
	case object.INT_OBJ, object.STRING_OBJ, object.BOOL_OBJ:
		return true
	}
	return e.structs.Contains(name)
}

// runStatements executes one statement sequence in a fresh Block: a function
// body, an if-arm, or one loop-body iteration. It stops at the first Return
// status and pops the Block on every exit path.
func (e *Evaluator) runStatements(statements []ast.Statement) (execStatus, object.Object, error) {
	e.env.PushBlock()
	defer e.env.PopBlock()

	for _, statement := range statements {
		status, value, err := e.runStatement(statement)
		if err != nil {
			return statusContinue, nil, err
		}
		if status == statusReturn {
			return statusReturn, value, nil
		}
	}

	return statusContinue, object.NIL, nil
}

func (e *Evaluator) runStatement(statement ast.Statement) (execStatus, object.Object, error) {
	slog.Debug("exec", slog.String("statement", statement.String()))

	switch statement := statement.(type) {
	case *ast.VarStatement:
		return statusContinue, object.NIL, e.runVarStatement(statement)
	case *ast.AssignStatement:
		return statusContinue, object.NIL, e.runAssignStatement(statement)
	case *ast.ExpressionStatement:
		_, err := e.evalExpression(statement.Expression)
		return statusContinue, object.NIL, err
	case *ast.ReturnStatement:
		return e.runReturnStatement(statement)
	case *ast.IfStatement:
		return e.runIfStatement(statement)
	case *ast.ForStatement:
		return e.runForStatement(statement)
	}

	return statusContinue, object.NIL, nil
}

func (e *Evaluator) runVarStatement(statement *ast.VarStatement) error {
	if !e.isDeclarableType(statement.Type) {
		return errs.Type("No type %s exists", statement.Type)
	}
	if !e.env.Define(statement.Name.Value, e.structs.DefaultValue(statement.Type)) {
		return errs.Name("Duplicate definition for variable %s", statement.Name.Value)
	}
	return nil
}

func (e *Evaluator) runAssignStatement(statement *ast.AssignStatement) error {
	value, err := e.evalExpression(statement.Value)
	if err != nil {
		return err
	}

	if target, ok := statement.Target.(*ast.FieldAccess); ok {
		return e.assignField(target, value)
	}

	target := statement.Target.(*ast.Identifier)
	current, ok := e.env.Get(target.Value)
	if !ok {
		return errs.Name("Undefined variable %s in assignment", target.Value)
	}
	if current.Type() == object.BOOL_OBJ {
		value = object.CoerceIntToBool(value)
	}
	if !e.assignCompatible(current, value) {
		return errs.Type("Types %s and %s are incompatible for assignment",
			current.Type(), value.Type())
	}
	e.env.Assign(target.Value, value)
	return nil
}

// assignCompatible applies the variable-assignment typing rule: the new
// value must share the target's current type, or one side is nil and the
// other a struct instance. A struct-typed variable starts out holding nil,
// which is what makes `n = new Node` legal after `var n: Node`.
func (e *Evaluator) assignCompatible(current, value object.Object) bool {
	if value.Type() == object.VOID_OBJ {
		return false
	}
	if current.Type() == value.Type() {
		return true
	}
	_, currentIsNil := current.(*object.Nil)
	_, valueIsNil := value.(*object.Nil)
	_, currentIsStruct := current.(*object.StructInstance)
	_, valueIsStruct := value.(*object.StructInstance)
	return (currentIsStruct && valueIsNil) || (currentIsNil && valueIsStruct)
}

func (e *Evaluator) assignField(target *ast.FieldAccess, value object.Object) error {
	instance, err := e.resolveInstance(target.Base)
	if err != nil {
		return err
	}
	if !instance.Schema.HasField(target.Field.Value) {
		return errs.Name("%s is not a field of struct %s",
			target.Field.Value, instance.Schema.Name)
	}
	if value.Type() == object.VOID_OBJ {
		return errs.Type("Can not store a void value in field %s", target.Field.Value)
	}
	instance.Fields[target.Field.Value] = value
	return nil
}

func (e *Evaluator) runReturnStatement(statement *ast.ReturnStatement) (execStatus, object.Object, error) {
	if statement.Value == nil {
		return statusReturn, object.NIL, nil
	}
	value, err := e.evalExpression(statement.Value)
	if err != nil {
		return statusContinue, nil, err
	}
	return statusReturn, value, nil
}

func (e *Evaluator) runIfStatement(statement *ast.IfStatement) (execStatus, object.Object, error) {
	condition, err := e.evalCondition(statement.Condition, "if")
	if err != nil {
		return statusContinue, nil, err
	}

	if condition {
		return e.runStatements(statement.Consequence)
	}
	if statement.Alternative != nil {
		return e.runStatements(statement.Alternative)
	}

	return statusContinue, object.NIL, nil
}

func (e *Evaluator) runForStatement(statement *ast.ForStatement) (execStatus, object.Object, error) {
	// init runs once in the enclosing Block so the counter survives across
	// iterations; only the body gets a fresh Block each pass
	if _, _, err := e.runStatement(statement.Init); err != nil {
		return statusContinue, nil, err
	}

	for {
		condition, err := e.evalCondition(statement.Condition, "for")
		if err != nil {
			return statusContinue, nil, err
		}
		if !condition {
			break
		}

		status, value, err := e.runStatements(statement.Body)
		if err != nil {
			return statusContinue, nil, err
		}
		if status == statusReturn {
			return statusReturn, value, nil
		}

		if _, _, err := e.runStatement(statement.Update); err != nil {
			return statusContinue, nil, err
		}
	}

	return statusContinue, object.NIL, nil
}

// evalCondition evaluates an if/for condition, which is a coercion point:
// a bare int result is reinterpreted by its truthiness before branching.
func (e *Evaluator) evalCondition(expression ast.Expression, form string) (bool, error) {
	value, err := e.evalExpression(expression)
	if err != nil {
		return false, err
	}
	value = object.CoerceIntToBool(value)
	b, ok := value.(*object.Boolean)
	if !ok {
		return false, errs.Type("Incompatible type for %s condition", form)
	}
	return b.Value, nil
}
