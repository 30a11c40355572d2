package parser

import (
	"encoding/json"
	"fern/internal/ast"
	"io"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a
// machine-centric map structure for JSON output.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		structs := make([]interface{}, len(n.Structs))
		for i, s := range n.Structs {
			structs[i] = WalkAST(s)
		}
		functions := make([]interface{}, len(n.Functions))
		for i, f := range n.Functions {
			functions[i] = WalkAST(f)
		}
		return map[string]interface{}{
			"type":      "Program",
			"structs":   structs,
			"functions": functions,
		}

	case *ast.StructDefinition:
		fields := make([]interface{}, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = map[string]interface{}{
				"type":     "FieldDefinition",
				"name":     f.Name.Value,
				"varType":  f.Type,
				"position": f.Token.Position,
			}
		}
		return map[string]interface{}{
			"type":     "StructDefinition",
			"name":     n.Name.Value,
			"fields":   fields,
			"position": n.Token.Position,
		}

	case *ast.FunctionDefinition:
		params := make([]interface{}, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = map[string]interface{}{
				"type":    "Parameter",
				"name":    p.Name.Value,
				"varType": p.Type,
			}
		}
		return map[string]interface{}{
			"type":       "FunctionDefinition",
			"name":       n.Name.Value,
			"parameters": params,
			"returnType": n.ReturnType,
			"body":       walkStatements(n.Body),
			"position":   n.Token.Position,
		}

	case *ast.VarStatement:
		return map[string]interface{}{
			"type":     "VarStatement",
			"name":     n.Name.Value,
			"varType":  n.Type,
			"position": n.Token.Position,
		}

	case *ast.AssignStatement:
		return map[string]interface{}{
			"type":     "AssignStatement",
			"target":   WalkAST(n.Target),
			"value":    WalkAST(n.Value),
			"position": n.Token.Position,
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"expression": WalkAST(n.Expression),
			"position":   n.Token.Position,
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"type":     "ReturnStatement",
			"value":    WalkAST(n.Value),
			"position": n.Token.Position,
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":        "IfStatement",
			"condition":   WalkAST(n.Condition),
			"consequence": walkStatements(n.Consequence),
			"alternative": walkStatements(n.Alternative),
			"position":    n.Token.Position,
		}

	case *ast.ForStatement:
		return map[string]interface{}{
			"type":      "ForStatement",
			"init":      WalkAST(n.Init),
			"condition": WalkAST(n.Condition),
			"update":    WalkAST(n.Update),
			"body":      walkStatements(n.Body),
			"position":  n.Token.Position,
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"type": "Identifier",
			"name": n.Value,
		}

	case *ast.FieldAccess:
		return map[string]interface{}{
			"type":  "FieldAccess",
			"base":  n.Base.Value,
			"field": n.Field.Value,
		}

	case *ast.IntegerLiteral:
		return map[string]interface{}{
			"type":  "IntegerLiteral",
			"value": n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"type":  "StringLiteral",
			"value": n.Value,
		}

	case *ast.BooleanLiteral:
		return map[string]interface{}{
			"type":  "BooleanLiteral",
			"value": n.Value,
		}

	case *ast.NilLiteral:
		return map[string]interface{}{
			"type": "NilLiteral",
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"type":     "PrefixExpression",
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.InfixExpression:
		return map[string]interface{}{
			"type":     "InfixExpression",
			"operator": n.Operator,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.NewExpression:
		return map[string]interface{}{
			"type":    "NewExpression",
			"varType": n.Type,
		}

	case *ast.CallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "CallExpression",
			"name":      n.Name.Value,
			"arguments": args,
		}
	}

	return map[string]interface{}{"type": "Unknown"}
}

func walkStatements(statements []ast.Statement) interface{} {
	if statements == nil {
		return nil
	}
	out := make([]interface{}, len(statements))
	for i, s := range statements {
		out[i] = WalkAST(s)
	}
	return out
}

// WriteASTJson renders the AST for tool consumption and debugging.
func WriteASTJson(w io.Writer, program *ast.Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(WalkAST(program))
}
