// Command nanofmt renders format directives and runs vector suites from
// the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lattice-substrate/nanofmt"
	"github.com/lattice-substrate/nanofmt/fmterr"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, "usage: nanofmt <render|vectors> [options] ..."); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "render":
		return cmdRender(args[1:], stdout, stderr)
	case "vectors":
		return cmdVectors(args[1:], stdout, stderr)
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, "usage: nanofmt <render|vectors> [options] ..."); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type flags struct {
	report bool
	quiet  bool
	help   bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for _, arg := range args {
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		switch arg {
		case "--report":
			f.report = true
		case "--quiet", "-q":
			f.quiet = true
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmterr.New(fmterr.CLIUsage,
					fmt.Sprintf("unknown option: %s", arg))
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func cmdRender(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if fl.help {
		if err := writeRenderHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if len(positional) == 0 {
		return writeClassifiedError(stderr,
			fmterr.New(fmterr.CLIUsage, "render requires a format string"))
	}

	fmtArgs, err := parseTypedArgs(positional[1:])
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	out := renderString(positional[0], fmtArgs)
	if err := writeLine(stdout, out); err != nil {
		return exitInternal
	}
	return exitSuccess
}

func cmdVectors(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	if fl.help {
		if err := writeVectorsHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if len(positional) != 1 {
		return writeClassifiedError(stderr,
			fmterr.New(fmterr.CLIUsage, "vectors requires exactly one suite file"))
	}

	suite, err := loadVectorFile(positional[0])
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	results := runVectors(suite)

	if fl.report {
		if err := writeReport(stdout, results); err != nil {
			return writeClassifiedError(stderr,
				fmterr.Wrap(fmterr.InternalIO, "writing report", err))
		}
	}

	failed := 0
	for _, r := range results {
		if !r.ok {
			failed++
			if !fl.quiet {
				if err := writef(stderr, "vector %q: format %q: got %q, want %q\n",
					r.name, r.format, r.got, r.want); err != nil {
					return exitInternal
				}
			}
		}
	}
	if failed > 0 {
		return writeClassifiedError(stderr, fmterr.New(fmterr.VectorMismatch,
			fmt.Sprintf("%d of %d vectors failed", failed, len(results))))
	}

	if !fl.quiet {
		if err := writef(stdout, "ok: %d vectors\n", len(results)); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func renderString(format string, args []any) string {
	var sb strings.Builder
	nanofmt.FormatFuncArgs(func(c byte) { sb.WriteByte(c) }, format, args)
	return sb.String()
}

// parseTypedArgs converts command-line argument tokens into engine
// arguments. A token may carry an explicit type prefix (int:, uint:,
// float:, str:, char:, ptr:); bare tokens are inferred as integer, then
// float, then string.
func parseTypedArgs(tokens []string) ([]any, error) {
	args := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		prefix, rest, found := strings.Cut(tok, ":")
		if !found {
			args = append(args, inferArg(tok))
			continue
		}
		switch prefix {
		case "int":
			n, err := strconv.ParseInt(rest, 0, 64)
			if err != nil {
				return nil, fmterr.Wrap(fmterr.BadFormatArg,
					fmt.Sprintf("argument %q: not an integer", tok), err)
			}
			args = append(args, n)
		case "uint":
			n, err := strconv.ParseUint(rest, 0, 64)
			if err != nil {
				return nil, fmterr.Wrap(fmterr.BadFormatArg,
					fmt.Sprintf("argument %q: not an unsigned integer", tok), err)
			}
			args = append(args, n)
		case "float":
			f, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				return nil, fmterr.Wrap(fmterr.BadFormatArg,
					fmt.Sprintf("argument %q: not a float", tok), err)
			}
			args = append(args, f)
		case "str":
			args = append(args, rest)
		case "char":
			if len(rest) != 1 {
				return nil, fmterr.New(fmterr.BadFormatArg,
					fmt.Sprintf("argument %q: char wants exactly one byte", tok))
			}
			args = append(args, rest[0])
		case "ptr":
			n, err := strconv.ParseUint(rest, 0, 64)
			if err != nil {
				return nil, fmterr.Wrap(fmterr.BadFormatArg,
					fmt.Sprintf("argument %q: not an address", tok), err)
			}
			args = append(args, uintptr(n))
		default:
			args = append(args, inferArg(tok))
		}
	}
	return args, nil
}

func inferArg(tok string) any {
	if n, err := strconv.ParseInt(tok, 0, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

// writeClassifiedError reports err on stderr and maps it to an exit code
// through its failure class. Unclassified errors count as internal.
func writeClassifiedError(stderr io.Writer, err error) int {
	var fe *fmterr.Error
	if errors.As(err, &fe) {
		if werr := writef(stderr, "error: %v\n", fe); werr != nil {
			return exitInternal
		}
		return fe.Class.ExitCode()
	}
	if werr := writef(stderr, "error: %v\n", err); werr != nil {
		return exitInternal
	}
	return exitInternal
}

func writeRenderHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: nanofmt render <format> [arg...]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Render a format string with the given arguments to stdout."); err != nil {
		return err
	}
	return writeLine(stderr, "  Arguments take an optional type prefix: int: uint: float: str: char: ptr:")
}

func writeVectorsHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: nanofmt vectors [--report] [--quiet] <suite.yaml>"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Run a YAML vector suite and report mismatches."); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --report  Print a per-vector result table"); err != nil {
		return err
	}
	return writeLine(stderr, "  --quiet   Suppress success output and per-vector failures")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
