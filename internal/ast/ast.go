package ast

import (
	"bytes"
	"fern/internal/token"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every parsed source file: the struct declarations
// followed by the function declarations. Execution order is irrelevant here;
// the evaluator builds its tables from both lists before calling main.
type Program struct {
	Structs   []*StructDefinition
	Functions []*FunctionDefinition
}

func (p *Program) TokenLiteral() string {
	if len(p.Functions) > 0 {
		return p.Functions[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Structs {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	for _, f := range p.Functions {
		out.WriteString(f.String())
		out.WriteString("\n")
	}

	return out.String()
}

type FieldDefinition struct {
	Token token.Token // the token.VAR token
	Name  *Identifier
	Type  string
}

func (fd *FieldDefinition) TokenLiteral() string { return fd.Token.Literal }
func (fd *FieldDefinition) String() string {
	return "var " + fd.Name.String() + ": " + fd.Type + ";"
}

type StructDefinition struct {
	Token  token.Token // the token.STRUCT token
	Name   *Identifier
	Fields []*FieldDefinition
}

func (sd *StructDefinition) statementNode()       {}
func (sd *StructDefinition) TokenLiteral() string { return sd.Token.Literal }
func (sd *StructDefinition) String() string {
	var out bytes.Buffer

	out.WriteString("struct ")
	out.WriteString(sd.Name.String())
	out.WriteString(" { ")
	for _, f := range sd.Fields {
		out.WriteString(f.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type Parameter struct {
	Token token.Token // the parameter name token
	Name  *Identifier
	Type  string
}

func (p *Parameter) TokenLiteral() string { return p.Token.Literal }
func (p *Parameter) String() string       { return p.Name.String() + ": " + p.Type }

type FunctionDefinition struct {
	Token      token.Token // the token.FUNC token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType string
	Body       []Statement
}

func (fd *FunctionDefinition) statementNode()       {}
func (fd *FunctionDefinition) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDefinition) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fd.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("func ")
	out.WriteString(fd.Name.String())
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") : ")
	out.WriteString(fd.ReturnType)
	out.WriteString(" {\n")
	for _, s := range fd.Body {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	out.WriteString("}")

	return out.String()
}

// VarStatement declares a local variable with an explicit type and no
// initializer; the evaluator seeds it with the type's default value.
type VarStatement struct {
	Token token.Token // the token.VAR token
	Name  *Identifier
	Type  string
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	return "var " + vs.Name.String() + ": " + vs.Type + ";"
}

// AssignStatement writes to either a plain variable or a single-level
// field path (base.field). The target is one of *Identifier, *FieldAccess.
type AssignStatement struct {
	Token  token.Token // the token.ASSIGN token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Target.String() + " = " + as.Value.String() + ";"
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

type ReturnStatement struct {
	Token token.Token // the token.RETURN token
	Value Expression  // nil for a bare `return;`
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString("return")
	if rs.Value != nil {
		out.WriteString(" ")
		out.WriteString(rs.Value.String())
	}
	out.WriteString(";")

	return out.String()
}

type IfStatement struct {
	Token       token.Token // the token.IF token
	Condition   Expression
	Consequence []Statement
	Alternative []Statement // nil when there is no else arm
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") { ")
	for _, s := range is.Consequence {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	if is.Alternative != nil {
		out.WriteString(" else { ")
		for _, s := range is.Alternative {
			out.WriteString(s.String())
			out.WriteString(" ")
		}
		out.WriteString("}")
	}

	return out.String()
}

// ForStatement is the bounded loop: init runs once in the enclosing scope,
// the condition is re-checked before every iteration, update runs after each
// body pass. Init and Update are assignment or var-definition statements.
type ForStatement struct {
	Token     token.Token // the token.FOR token
	Init      Statement
	Condition Expression
	Update    Statement
	Body      []Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer

	out.WriteString("for (")
	out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	out.WriteString("; ")
	out.WriteString(fs.Condition.String())
	out.WriteString("; ")
	out.WriteString(strings.TrimSuffix(fs.Update.String(), ";"))
	out.WriteString(") { ")
	for _, s := range fs.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// FieldAccess is a single-level dotted path: base.field. The language has no
// nested paths; the parser rejects `a.b.c`.
type FieldAccess struct {
	Token token.Token // the token.PERIOD token
	Base  *Identifier
	Field *Identifier
}

func (fa *FieldAccess) expressionNode()      {}
func (fa *FieldAccess) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccess) String() string       { return fa.Base.String() + "." + fa.Field.String() }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `"` + sl.Value + `"` }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

type NilLiteral struct {
	Token token.Token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NilLiteral) String() string       { return "nil" }

type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

type NewExpression struct {
	Token token.Token // the token.NEW token
	Type  string
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) String() string       { return "new " + ne.Type }

type CallExpression struct {
	Token     token.Token // the token.LPAREN token
	Name      *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Name.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}
