package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"fern/internal/errs"
	"fern/internal/lexer"
	"fern/internal/parser"
)

func runSource(t *testing.T, src, input string) (string, error) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	var out bytes.Buffer
	err := New(&out, strings.NewReader(input)).Run(program)
	return out.String(), err
}

func expectOutput(t *testing.T, src, want string) {
	t.Helper()
	got, err := runSource(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("output mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func expectKind(t *testing.T, src, input string, want errs.Kind) (string, error) {
	t.Helper()
	got, err := runSource(t, src, input)
	if err == nil {
		t.Fatalf("expected %s, got no error; output %q", want, got)
	}
	kind, ok := errs.KindOf(err)
	if !ok {
		t.Fatalf("error has no kind: %v", err)
	}
	if kind != want {
		t.Errorf("error kind: got %s (%v), want %s", kind, err, want)
	}
	return got, err
}

func TestPrintAndArithmetic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"concatenated arguments on one line",
			`func main() : void { print("the answer is ", 6 * 7); }`,
			"the answer is 42\n",
		},
		{
			"empty print",
			`func main() : void { print(); }`,
			"\n",
		},
		{
			"integer operators",
			`func main() : void { print(2 + 3 * 4 - 1); }`,
			"13\n",
		},
		{
			"division truncates toward negative infinity",
			`func main() : void { print((-7) / 2); }`,
			"-4\n",
		},
		{
			"division of negative divisor",
			`func main() : void { print(7 / (-2)); }`,
			"-4\n",
		},
		{
			"exact division is unaffected",
			`func main() : void { print((-8) / 2); }`,
			"-4\n",
		},
		{
			"string concatenation",
			`func main() : void { print("foo" + "bar"); }`,
			"foobar\n",
		},
		{
			"comparisons",
			`func main() : void { print(1 < 2, 2 <= 2, 3 > 4, 3 >= 4); }`,
			"truetruefalsefalse\n",
		},
		{
			"unary operators",
			`func main() : void { print(-5, !true, !0); }`,
			"-5falsetrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOutput(t, tt.src, tt.want)
		})
	}
}

func TestBoolCoercion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"int assigned to bool variable",
			`func main() : void { var a: bool; a = 5; print(a); }`,
			"true\n",
		},
		{
			"zero assigned to bool variable",
			`func main() : void { var a: bool; a = 0; print(a); }`,
			"false\n",
		},
		{
			"int passed to bool parameter",
			`
func show(b: bool) : void { print(b); }
func main() : void { show(3); show(0); }
`,
			"true\nfalse\n",
		},
		{
			"int returned from bool function",
			`
func positive(n: int) : bool { return n; }
func main() : void { print(positive(7)); print(positive(0)); }
`,
			"true\nfalse\n",
		},
		{
			"int operands of logical operators",
			`func main() : void { print(5 && true, 0 || false); }`,
			"truefalse\n",
		},
		{
			"int if condition",
			`func main() : void { if (3) { print("yes"); } else { print("no"); } }`,
			"yes\n",
		},
		{
			"int compared against bool",
			`func main() : void { print(5 == true, 0 == false, 1 != true); }`,
			"truetruefalse\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOutput(t, tt.src, tt.want)
		})
	}
}

func TestCoercionIsNotGeneral(t *testing.T) {
	// coercion happens only at the designated points; an int variable never
	// silently becomes a bool elsewhere
	expectKind(t, `
func main() : void {
	var a: int;
	a = true;
}
`, "", errs.TypeError)
}

func TestVariableDefaults(t *testing.T) {
	expectOutput(t, `
struct Node { var next: Node; }
func main() : void {
	var i: int;
	var s: string;
	var b: bool;
	var n: Node;
	print(i);
	print(s);
	print(b);
	print(n == nil);
}
`, "0\n\nfalse\ntrue\n")
}

func TestStructs(t *testing.T) {
	t.Run("fields start at their type defaults", func(t *testing.T) {
		expectOutput(t, `
struct Person { var name: string; var age: int; var alive: bool; var boss: Person; }
func main() : void {
	var p: Person;
	p = new Person;
	print(p.name, "|", p.age, "|", p.alive, "|", p.boss == nil);
}
`, "|0|false|true\n")
	})

	t.Run("field assignment and read", func(t *testing.T) {
		expectOutput(t, `
struct Point { var x: int; var y: int; }
func main() : void {
	var p: Point;
	p = new Point;
	p.x = 3;
	p.y = p.x + 1;
	print(p.x, ",", p.y);
}
`, "3,4\n")
	})

	t.Run("assignment aliases rather than copies", func(t *testing.T) {
		expectOutput(t, `
struct Box { var v: int; }
func main() : void {
	var a: Box;
	var b: Box;
	a = new Box;
	b = a;
	b.v = 9;
	print(a.v);
}
`, "9\n")
	})

	t.Run("mutation through a call is visible to the caller", func(t *testing.T) {
		expectOutput(t, `
struct Box { var v: int; }
func fill(b: Box) : void { b.v = 42; }
func main() : void {
	var a: Box;
	a = new Box;
	fill(a);
	print(a.v);
}
`, "42\n")
	})

	t.Run("equality is reference identity", func(t *testing.T) {
		expectOutput(t, `
struct Box { var v: int; }
func main() : void {
	var a: Box;
	var b: Box;
	a = new Box;
	b = new Box;
	print(a == b);
	b = a;
	print(a == b, a != b);
}
`, "false\ntruefalse\n")
	})

	t.Run("linked list walk", func(t *testing.T) {
		expectOutput(t, `
struct Node { var val: int; var next: Node; }
func main() : void {
	var head: Node;
	var cur: Node;
	head = new Node;
	head.val = 1;
	head.next = new Node;
	cur = head.next;
	cur.val = 2;
	for (cur = head; cur != nil; cur = cur.next) {
		print(cur.val);
	}
}
`, "1\n2\n")
	})

	t.Run("new node next is nil", func(t *testing.T) {
		expectOutput(t, `
struct Node { var next: Node; }
func main() : void {
	var n: Node;
	n = new Node;
	print(n.next == nil);
}
`, "true\n")
	})

	t.Run("structs may reference later declarations", func(t *testing.T) {
		expectOutput(t, `
struct A { var b: B; }
struct B { var n: int; }
func main() : void {
	var a: A;
	a = new A;
	a.b = new B;
	print(a.b == nil);
}
`, "false\n")
	})
}

func TestStructErrors(t *testing.T) {
	t.Run("dot on nil is a fault", func(t *testing.T) {
		expectKind(t, `
struct Node { var val: int; }
func main() : void {
	var n: Node;
	print(n.val);
}
`, "", errs.FaultError)
	})

	t.Run("dot on a scalar", func(t *testing.T) {
		expectKind(t, `
func main() : void {
	var n: int;
	print(n.val);
}
`, "", errs.TypeError)
	})

	t.Run("unknown field on read", func(t *testing.T) {
		expectKind(t, `
struct Node { var val: int; }
func main() : void {
	var n: Node;
	n = new Node;
	print(n.missing);
}
`, "", errs.NameError)
	})

	t.Run("unknown field on write", func(t *testing.T) {
		expectKind(t, `
struct Node { var val: int; }
func main() : void {
	var n: Node;
	n = new Node;
	n.missing = 1;
}
`, "", errs.NameError)
	})

	t.Run("new of an undeclared type", func(t *testing.T) {
		expectKind(t, `
func main() : void {
	var x: int;
	x = new Node;
}
`, "", errs.TypeError)
	})
}

func TestScoping(t *testing.T) {
	t.Run("loop body variables die with the iteration", func(t *testing.T) {
		expectKind(t, `
func main() : void {
	var i: int;
	for (i = 0; i < 1; i = i + 1) {
		var inner: int;
	}
	print(inner);
}
`, "", errs.NameError)
	})

	t.Run("fresh block per iteration allows redeclaration", func(t *testing.T) {
		expectOutput(t, `
func main() : void {
	var i: int;
	for (i = 0; i < 3; i = i + 1) {
		var x: int;
		x = i;
		print(x);
	}
}
`, "0\n1\n2\n")
	})

	t.Run("if arm shadows an outer variable", func(t *testing.T) {
		expectOutput(t, `
func main() : void {
	var x: int;
	x = 1;
	if (true) {
		var x: int;
		x = 2;
		print(x);
	}
	print(x);
}
`, "2\n1\n")
	})

	t.Run("inner blocks may assign outward", func(t *testing.T) {
		expectOutput(t, `
func main() : void {
	var x: int;
	if (true) {
		x = 5;
	}
	print(x);
}
`, "5\n")
	})

	t.Run("callee can not see caller locals", func(t *testing.T) {
		expectKind(t, `
func peek() : void { print(secret); }
func main() : void {
	var secret: int;
	peek();
}
`, "", errs.NameError)
	})

	t.Run("duplicate declaration in one block", func(t *testing.T) {
		expectKind(t, `
func main() : void {
	var x: int;
	var x: int;
}
`, "", errs.NameError)
	})
}

func TestFunctions(t *testing.T) {
	t.Run("arity overloading", func(t *testing.T) {
		expectOutput(t, `
func greet() : string { return "hi"; }
func greet(name: string) : string { return "hi " + name; }
func main() : void { print(greet()); print(greet("ada")); }
`, "hi\nhi ada\n")
	})

	t.Run("recursion", func(t *testing.T) {
		expectOutput(t, `
func fact(n: int) : int {
	if (n <= 1) { return 1; }
	return n * fact(n - 1);
}
func main() : void { print(fact(5)); }
`, "120\n")
	})

	t.Run("early return from a loop", func(t *testing.T) {
		expectOutput(t, `
func firstOver(limit: int) : int {
	var i: int;
	for (i = 0; i < 100; i = i + 1) {
		if (i > limit) { return i; }
	}
	return -1;
}
func main() : void { print(firstOver(3)); }
`, "4\n")
	})

	t.Run("falling off an int function yields the default", func(t *testing.T) {
		expectOutput(t, `
func foo() : int { }
func main() : void { print(foo()); }
`, "0\n")
	})

	t.Run("falling off a string function yields the default", func(t *testing.T) {
		expectOutput(t, `
func foo() : string { }
func main() : void { print(foo(), "."); }
`, ".\n")
	})

	t.Run("bare return from a bool function yields the default", func(t *testing.T) {
		expectOutput(t, `
func foo() : bool { return; }
func main() : void { print(foo()); }
`, "false\n")
	})

	t.Run("falling off a struct function yields nil", func(t *testing.T) {
		expectOutput(t, `
struct Node { var val: int; }
func foo() : Node { }
func main() : void { print(foo() == nil); }
`, "true\n")
	})

	t.Run("nil is a legal struct return value", func(t *testing.T) {
		expectOutput(t, `
struct Node { var val: int; }
func foo() : Node { return nil; }
func main() : void { print(foo() == nil); }
`, "true\n")
	})

	t.Run("nil is a legal struct argument", func(t *testing.T) {
		expectOutput(t, `
struct Node { var val: int; }
func isNil(n: Node) : bool { return n == nil; }
func main() : void { print(isNil(nil)); }
`, "true\n")
	})
}

func TestFunctionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want errs.Kind
	}{
		{
			"missing main",
			`func helper() : void { }`,
			errs.NameError,
		},
		{
			"unknown function",
			`func main() : void { mystery(); }`,
			errs.NameError,
		},
		{
			"known name wrong arity",
			`
func greet(name: string) : void { print(name); }
func main() : void { greet(); }
`,
			errs.NameError,
		},
		{
			"duplicate signature",
			`
func f(a: int) : void { }
func f(b: int) : void { }
func main() : void { }
`,
			errs.NameError,
		},
		{
			"argument type mismatch",
			`
func f(a: int) : void { }
func main() : void { f("nope"); }
`,
			errs.TypeError,
		},
		{
			"nil passed to a scalar parameter",
			`
func f(a: int) : void { }
func main() : void { f(nil); }
`,
			errs.TypeError,
		},
		{
			"return type mismatch",
			`
func f() : int { return "nope"; }
func main() : void { f(); }
`,
			errs.TypeError,
		},
		{
			"value returned from a void function",
			`
func f() : void { return 5; }
func main() : void { f(); }
`,
			errs.TypeError,
		},
		{
			"parameter of unknown type",
			`
func f(a: Widget) : void { }
func main() : void { }
`,
			errs.TypeError,
		},
		{
			"void used in an expression",
			`
func f() : void { }
func main() : void { var x: int; x = f(); }
`,
			errs.TypeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKind(t, tt.src, "", tt.want)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	t.Run("division by zero is a fault", func(t *testing.T) {
		expectKind(t, `func main() : void { print(1 / 0); }`, "", errs.FaultError)
	})

	t.Run("undefined variable produces no output", func(t *testing.T) {
		out, _ := expectKind(t, `
func main() : void { print(ghost); }
`, "", errs.NameError)
		if out != "" {
			t.Errorf("output before the error: %q", out)
		}
	})

	t.Run("undefined variable in assignment", func(t *testing.T) {
		expectKind(t, `func main() : void { ghost = 1; }`, "", errs.NameError)
	})

	t.Run("declaring a variable of unknown type", func(t *testing.T) {
		expectKind(t, `func main() : void { var w: Widget; }`, "", errs.TypeError)
	})

	t.Run("mixed-type arithmetic", func(t *testing.T) {
		expectKind(t, `func main() : void { print(1 + "two"); }`, "", errs.TypeError)
	})

	t.Run("nil compared against a scalar", func(t *testing.T) {
		expectKind(t, `func main() : void { print(1 == nil); }`, "", errs.TypeError)
	})

	t.Run("non-boolean if condition", func(t *testing.T) {
		expectKind(t, `func main() : void { if ("yes") { } }`, "", errs.TypeError)
	})
}

func TestEqualityAcrossTypes(t *testing.T) {
	// mismatched non-nil types compare unequal instead of raising
	expectOutput(t, `
func main() : void {
	print(1 == "1");
	print(1 != "1");
	print("true" == true);
}
`, "false\ntrue\nfalse\n")
}

func TestInput(t *testing.T) {
	t.Run("inputi reads an integer", func(t *testing.T) {
		got, err := runSource(t, `
func main() : void {
	var n: int;
	n = inputi();
	print(n * 2);
}
`, "21\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "42\n" {
			t.Errorf("output: got %q, want %q", got, "42\n")
		}
	})

	t.Run("inputi prints its prompt first", func(t *testing.T) {
		got, err := runSource(t, `
func main() : void {
	var n: int;
	n = inputi("how many?");
	print(n);
}
`, "7\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "how many?\n7\n" {
			t.Errorf("output: got %q", got)
		}
	})

	t.Run("inputs reads a line verbatim", func(t *testing.T) {
		got, err := runSource(t, `
func main() : void {
	var s: string;
	s = inputs();
	print("[" + s + "]");
}
`, "  spaced out  \n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "[  spaced out  ]\n" {
			t.Errorf("output: got %q", got)
		}
	})

	t.Run("inputi rejects a non-integer line", func(t *testing.T) {
		_, err := runSource(t, `
func main() : void {
	var n: int;
	n = inputi();
}
`, "not a number\n")
		kind, ok := errs.KindOf(err)
		if !ok || kind != errs.TypeError {
			t.Errorf("got %v, want a TypeError", err)
		}
	})

	t.Run("input builtins take at most one argument", func(t *testing.T) {
		expectKind(t, `
func main() : void {
	var n: int;
	n = inputi("a", "b");
}
`, "", errs.NameError)
	})
}

func TestDuplicateStructDefinition(t *testing.T) {
	expectKind(t, `
struct Node { var val: int; }
struct Node { var other: int; }
func main() : void { }
`, "", errs.NameError)
}

func TestNilPrintsAsNil(t *testing.T) {
	expectOutput(t, `
struct Node { var next: Node; }
func main() : void {
	var n: Node;
	print(n);
	n = new Node;
	print(n.next);
}
`, "nil\nnil\n")
}
