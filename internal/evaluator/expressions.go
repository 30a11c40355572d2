package evaluator

import (
	"fern/internal/ast"
	"fern/internal/errs"
	"fern/internal/object"
)

// evalExpression is a pure recursive descent over expression nodes. Every
// failure is reported with its precise kind; no invalid value ever escapes.
func (e *Evaluator) evalExpression(node ast.Expression) (object.Object, error) {
	switch node := node.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return object.NativeBoolToBooleanObject(node.Value), nil

	case *ast.NilLiteral:
		return object.NIL, nil

	case *ast.Identifier:
		value, ok := e.env.Get(node.Value)
		if !ok {
			return nil, errs.Name("Variable %s not found", node.Value)
		}
		return value, nil

	case *ast.FieldAccess:
		instance, err := e.resolveInstance(node.Base)
		if err != nil {
			return nil, err
		}
		value, ok := instance.Fields[node.Field.Value]
		if !ok {
			return nil, errs.Name("%s is not a field of struct %s",
				node.Field.Value, instance.Schema.Name)
		}
		return value, nil

	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node)

	case *ast.InfixExpression:
		left, err := e.evalExpression(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalInfixExpression(node.Operator, left, right)

	case *ast.NewExpression:
		return e.structs.Instantiate(node.Type)

	case *ast.CallExpression:
		return e.callFunction(node.Name.Value, node.Arguments)
	}

	return nil, errs.Type("unsupported expression node %T", node)
}

// resolveInstance resolves the base variable of a field path and requires it
// to hold a live struct instance.
func (e *Evaluator) resolveInstance(base *ast.Identifier) (*object.StructInstance, error) {
	value, ok := e.env.Get(base.Value)
	if !ok {
		return nil, errs.Name("Variable %s not found", base.Value)
	}
	if _, isNil := value.(*object.Nil); isNil {
		return nil, errs.Fault("Variable to the left of the dot operator is nil")
	}
	instance, ok := value.(*object.StructInstance)
	if !ok {
		return nil, errs.Type("Variable to the left of the dot operator is not type struct")
	}
	return instance, nil
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression) (object.Object, error) {
	right, err := e.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Operator {
	case "-":
		i, ok := right.(*object.Integer)
		if !ok {
			return nil, errs.Type("Incompatible type for - operation")
		}
		return &object.Integer{Value: -i.Value}, nil

	case "!":
		right = object.CoerceIntToBool(right)
		b, ok := right.(*object.Boolean)
		if !ok {
			return nil, errs.Type("Incompatible type for ! operation")
		}
		return object.NativeBoolToBooleanObject(!b.Value), nil
	}

	return nil, errs.Type("unknown prefix operator %s", node.Operator)
}
