package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fern/internal/evaluator"
	"fern/internal/lexer"
	"fern/internal/parser"
)

const PROMPT = ">> "

// Start reads complete programs interactively: lines accumulate until a
// blank line, then the program runs against a fresh evaluator. Errors are
// reported without ending the session.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var src strings.Builder

	fmt.Fprintln(out, "enter a program, finish with a blank line")
	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			src.WriteString(line)
			src.WriteString("\n")
			fmt.Fprint(out, PROMPT)
			continue
		}

		if src.Len() > 0 {
			run(src.String(), in, out)
			src.Reset()
		}
		fmt.Fprint(out, PROMPT)
	}

	if src.Len() > 0 {
		run(src.String(), in, out)
	}
}

func run(src string, in io.Reader, out io.Writer) {
	l := lexer.New(src)
	p := parser.New(l)

	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		printParserErrors(out, p.Errors())
		return
	}

	if err := evaluator.New(out, in).Run(program); err != nil {
		fmt.Fprintln(out, err)
	}
}

func printParserErrors(out io.Writer, errors []string) {
	io.WriteString(out, "parser errors:\n")
	for _, msg := range errors {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
