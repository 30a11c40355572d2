package evaluator

import (
	"fern/internal/errs"
	"fern/internal/object"
)

// evalInfixExpression dispatches a binary operator over two evaluated
// operands. Equality and the logical operators have their own coercion and
// nil rules; everything else requires both operands to already share a type.
func (e *Evaluator) evalInfixExpression(op string, left, right object.Object) (object.Object, error) {
	switch op {
	case "==", "!=":
		return e.evalEquality(op, left, right)
	case "&&", "||":
		return e.evalLogical(op, left, right)
	}

	if left.Type() != right.Type() {
		return nil, errs.Type("Incompatible types for %s operation", op)
	}

	switch left := left.(type) {
	case *object.Integer:
		return evalIntegerInfix(op, left, right.(*object.Integer))
	case *object.String:
		if op == "+" {
			return &object.String{Value: left.Value + right.(*object.String).Value}, nil
		}
	}

	return nil, errs.Type("Incompatible operator %s for type %s", op, left.Type())
}

func evalIntegerInfix(op string, left, right *object.Integer) (object.Object, error) {
	switch op {
	case "+":
		return &object.Integer{Value: left.Value + right.Value}, nil
	case "-":
		return &object.Integer{Value: left.Value - right.Value}, nil
	case "*":
		return &object.Integer{Value: left.Value * right.Value}, nil
	case "/":
		if right.Value == 0 {
			return nil, errs.Fault("Division by zero")
		}
		return &object.Integer{Value: floorDiv(left.Value, right.Value)}, nil
	case "<":
		return object.NativeBoolToBooleanObject(left.Value < right.Value), nil
	case "<=":
		return object.NativeBoolToBooleanObject(left.Value <= right.Value), nil
	case ">":
		return object.NativeBoolToBooleanObject(left.Value > right.Value), nil
	case ">=":
		return object.NativeBoolToBooleanObject(left.Value >= right.Value), nil
	}
	return nil, errs.Type("Incompatible operator %s for type int", op)
}

// floorDiv truncates toward negative infinity, not toward zero:
// -7 / 2 is -4.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// evalEquality implements == and !=. Operands of mixed int/bool are first
// coerced; nil compares true against nil and false against any struct
// instance; nil against a scalar is a type error. Any other type mismatch
// simply reports unequal rather than raising.
func (e *Evaluator) evalEquality(op string, left, right object.Object) (object.Object, error) {
	if left.Type() == object.BOOL_OBJ {
		right = object.CoerceIntToBool(right)
	}
	if right.Type() == object.BOOL_OBJ {
		left = object.CoerceIntToBool(left)
	}

	if left.Type() == object.VOID_OBJ || right.Type() == object.VOID_OBJ {
		return nil, errs.Type("Can not compare a void value")
	}

	equal, err := e.valuesEqual(left, right)
	if err != nil {
		return nil, err
	}
	if op == "!=" {
		equal = !equal
	}
	return object.NativeBoolToBooleanObject(equal), nil
}

func (e *Evaluator) valuesEqual(left, right object.Object) (bool, error) {
	_, leftIsNil := left.(*object.Nil)
	_, rightIsNil := right.(*object.Nil)
	if leftIsNil && rightIsNil {
		return true, nil
	}
	if leftIsNil || rightIsNil {
		other := left
		if leftIsNil {
			other = right
		}
		if _, isStruct := other.(*object.StructInstance); isStruct {
			return false, nil
		}
		return false, errs.Type("Can not compare types of %s and %s", left.Type(), right.Type())
	}

	switch left := left.(type) {
	case *object.Integer:
		if right, ok := right.(*object.Integer); ok {
			return left.Value == right.Value, nil
		}
	case *object.String:
		if right, ok := right.(*object.String); ok {
			return left.Value == right.Value, nil
		}
	case *object.Boolean:
		if right, ok := right.(*object.Boolean); ok {
			return left.Value == right.Value, nil
		}
	case *object.StructInstance:
		// reference identity, even between instances of the same type
		if right, ok := right.(*object.StructInstance); ok {
			return left == right, nil
		}
	}

	// mismatched types compare unequal instead of raising
	return false, nil
}

func (e *Evaluator) evalLogical(op string, left, right object.Object) (object.Object, error) {
	left = object.CoerceIntToBool(left)
	right = object.CoerceIntToBool(right)

	l, lok := left.(*object.Boolean)
	r, rok := right.(*object.Boolean)
	if !lok || !rok {
		return nil, errs.Type("Incompatible types for %s operation", op)
	}

	if op == "&&" {
		return object.NativeBoolToBooleanObject(l.Value && r.Value), nil
	}
	return object.NativeBoolToBooleanObject(l.Value || r.Value), nil
}
