package evaluator

import (
	"log/slog"

	"fern/internal/ast"
	"fern/internal/errs"
	"fern/internal/object"
)

// resolve looks a user function up by (name, arity). Arity overloading is
// legal, so the two failure modes get distinct messages.
func (e *Evaluator) resolve(name string, arity int) (*ast.FunctionDefinition, error) {
	if fd, ok := e.functions[signature{Name: name, Arity: arity}]; ok {
		return fd, nil
	}
	for key := range e.functions {
		if key.Name == name {
			return nil, errs.Name("Function %s taking %d params not found", name, arity)
		}
	}
	return nil, errs.Name("Function %s not found", name)
}

// callFunction dispatches a call: builtins first, then the user table.
// Arguments are evaluated in the caller's frame before the callee frame
// exists; the callee frame is popped on every exit path.
func (e *Evaluator) callFunction(name string, args []ast.Expression) (object.Object, error) {
	switch name {
	case "print":
		return e.callPrint(args)
	case "inputi", "inputs":
		return e.callInput(name, args)
	}

	fd, err := e.resolve(name, len(args))
	if err != nil {
		return nil, err
	}

	slog.Debug("invoke",
		slog.String("function", name),
		slog.Int("arity", len(args)),
		slog.Int("depth", e.env.FrameDepth()))

	values := make([]object.Object, len(args))
	for i, arg := range args {
		value, err := e.evalExpression(arg)
		if err != nil {
			return nil, err
		}
		values[i], err = e.checkArgument(value, fd.Parameters[i].Type)
		if err != nil {
			return nil, err
		}
	}

	e.env.PushFrame()
	defer e.env.PopFrame()

	for i, param := range fd.Parameters {
		if !e.env.Define(param.Name.Value, values[i]) {
			return nil, errs.Name("Duplicate definition for variable %s", param.Name.Value)
		}
	}

	status, returned, err := e.runStatements(fd.Body)
	if err != nil {
		return nil, err
	}
	if status != statusReturn {
		returned = object.NIL
	}

	return e.shapeReturn(returned, fd.ReturnType)
}

// checkArgument type-checks one evaluated argument against its formal
// parameter. Passing an int to a bool parameter is a coercion point; a
// struct-typed formal accepts that struct type or nil.
func (e *Evaluator) checkArgument(value object.Object, formalType string) (object.Object, error) {
	if formalType == object.BOOL_OBJ {
		value = object.CoerceIntToBool(value)
	}
	if string(value.Type()) == formalType {
		return value, nil
	}
	if _, isNil := value.(*object.Nil); isNil && e.structs.Contains(formalType) {
		return value, nil
	}
	return nil, errs.Type("You can not pass an argument of type %s to %s",
		value.Type(), formalType)
}

// shapeReturn reconciles the value a function body produced with the
// function's declared return type. A body that falls through (or a bare
// `return`) produces nil here.
func (e *Evaluator) shapeReturn(returned object.Object, declared string) (object.Object, error) {
	if _, isNil := returned.(*object.Nil); isNil {
		switch {
		case e.structs.Contains(declared):
			// absent reference passes through for struct returns
			return object.NIL, nil
		case declared == object.VOID_OBJ:
			return object.VOID, nil
		default:
			return e.structs.DefaultValue(declared), nil
		}
	}

	if declared == object.BOOL_OBJ {
		returned = object.CoerceIntToBool(returned)
	}
	if string(returned.Type()) != declared {
		return nil, errs.Type("You can not return a value of type %s from a function declared to return %s",
			returned.Type(), declared)
	}
	return returned, nil
}
