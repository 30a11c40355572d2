package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"fern/internal/ast"
	"fern/internal/errs"
	"fern/internal/object"
)

// The three builtins dispatch ahead of the user function table and are not
// subject to arity overloading or user redefinition.

// callPrint concatenates the textual form of every argument, with no
// separator, and writes one line.
func (e *Evaluator) callPrint(args []ast.Expression) (object.Object, error) {
	var out strings.Builder
	for _, arg := range args {
		value, err := e.evalExpression(arg)
		if err != nil {
			return nil, err
		}
		out.WriteString(value.Inspect())
	}
	fmt.Fprintln(e.out, out.String())
	return object.NIL, nil
}

// callInput handles inputi and inputs: an optional prompt argument is
// printed first, then one line is read from the input source.
func (e *Evaluator) callInput(name string, args []ast.Expression) (object.Object, error) {
	if len(args) > 1 {
		return nil, errs.Name("No %s() function that takes > 1 parameter", name)
	}
	if len(args) == 1 {
		prompt, err := e.evalExpression(args[0])
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(e.out, prompt.Inspect())
	}

	line := e.readLine()
	if name == "inputi" {
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return nil, errs.Type("inputi expected an integer, got %q", line)
		}
		return &object.Integer{Value: n}, nil
	}
	return &object.String{Value: line}, nil
}

func (e *Evaluator) readLine() string {
	if e.in.Scan() {
		return e.in.Text()
	}
	return ""
}
