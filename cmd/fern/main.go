package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fern/internal/errs"
	"fern/internal/evaluator"
	"fern/internal/lexer"
	"fern/internal/parser"
	"fern/internal/repl"
	"fern/internal/runlog"
	"fern/internal/util"
)

const DefaultConfigFile = "fern.toml"

var (
	// Version is the current version of the fern binary.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configFile string
	inline     string
	debugAST   bool
	recordDSN  string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// evaluator config
	flag.StringVar(&inline, "e", "", "Run the given program text instead of a file")
	flag.StringVar(&recordDSN, "record", "", "Record runs to this database DSN (sqlite path, mysql:// or postgres://)")
	flag.StringVar(&configFile, "config", DefaultConfigFile, "Path to a TOML config file")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as JSON on stderr")
	// log config
	flag.StringVar(&logLevel, "log-level", "NONE", "Log level: debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		LogLevel:  logLevel,
		LogFile:   logFile,
		DebugAST:  debugAST,
		RecordDSN: recordDSN,
	}
	if err := config.LoadFile(configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applyFlagOverrides(&config)

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	defaultLogger := slog.New(slog.NewJSONHandler(configureLogWriter(config.LogFile), loggerOptions))
	slog.SetDefault(defaultLogger)

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	source, name, err := loadSource()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if source == "" {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	os.Exit(runProgram(config, name, source))
}

// applyFlagOverrides lets explicitly-set flags win over config file values.
func applyFlagOverrides(config *util.Configuration) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugAST = debugAST
		case "record":
			config.RecordDSN = recordDSN
		}
	})
}

func loadSource() (source, name string, err error) {
	if inline != "" {
		return inline, "<inline>", nil
	}
	file := flag.Arg(0)
	if file == "" {
		return "", "", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), file, nil
}

func runProgram(config util.Configuration, name, source string) int {
	l := lexer.New(source)
	p := parser.New(l)

	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintln(os.Stderr, "parse error: "+msg)
		}
		return 2
	}

	if config.DebugAST {
		if err := parser.WriteASTJson(os.Stderr, program); err != nil {
			slog.Warn("failed to render AST", slog.Any("error", err))
		}
	}

	out := &countingWriter{w: os.Stdout}
	started := time.Now()
	runErr := evaluator.New(out, os.Stdin).Run(program)
	elapsed := time.Since(started)

	recordRun(config, name, runErr, elapsed, out.n)

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	return 0
}

func recordRun(config util.Configuration, name string, runErr error, elapsed time.Duration, outputLen int) {
	if config.RecordDSN == "" {
		return
	}
	recorder, err := runlog.Open(config.RecordDSN)
	if err != nil {
		slog.Warn("run recording disabled", slog.Any("error", err))
		return
	}
	defer recorder.Close()

	result := runlog.Result{
		Source:    name,
		Status:    "ok",
		Duration:  elapsed,
		OutputLen: outputLen,
	}
	if runErr != nil {
		result.Message = runErr.Error()
		if kind, ok := errs.KindOf(runErr); ok {
			result.Status = string(kind)
		} else {
			result.Status = "error"
		}
	}
	if err := recorder.Record(result); err != nil {
		slog.Warn("failed to record run", slog.Any("error", err))
	}
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "info", "INFO":
		return slog.LevelInfo
	case "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		// effectively disables logging
		return slog.Level(127)
	}
}

func configureLogWriter(logFile string) io.Writer {
	if logFile == "" {
		return os.Stderr
	}
	fh, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return os.Stderr
	}
	return fh
}

func printVersion() {
	fmt.Printf("fern %s (built %s, commit %s)\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Println("usage: fern [flags] [file]")
	fmt.Println()
	fmt.Println("Runs a fern program from a file, from -e, or interactively")
	fmt.Println("when no file is given.")
	fmt.Println()
	flag.PrintDefaults()
}
