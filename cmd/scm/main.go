// Command scm runs the mini Scheme interpreter.
//
//	scm [flags]                  read-eval-print loop
//	scm [flags] file [arg...]    load file and call (main '("arg" ...))
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	scheme "github.com/nukata/mini-scheme-in-go"
)

const historyFile = ".mini_scheme_history"

// historySource records every non-blank line it reads.
// Ctrl-C is reported as scheme.ErrInterrupted.
type historySource struct {
	*liner.State
}

func (h historySource) Prompt(prompt string) (string, error) {
	line, err := h.State.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", scheme.ErrInterrupted
	}
	if err == nil && strings.TrimSpace(line) != "" {
		h.AppendHistory(line)
	}
	return line, err
}

// isTerminal reports whether line editing can be used on stdin.
func isTerminal() bool {
	if !liner.TerminalSupported() {
		return false
	}
	_, err := liner.TerminalMode()
	return err == nil
}

func repl(in *scheme.Interp) int {
	err := in.ReadEvalPrintLoop()
	var exit *scheme.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 0
}

func lineEditingRepl(histPath string, stderr io.Writer) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}
	pr := scheme.NewPromptReader(historySource{ln}, "> ", "| ")
	in := scheme.NewInterp(pr, os.Stdout, stderr)
	in.Prompt = pr.SetPrompt
	return repl(in)
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("scm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "log debug events to stderr")
	depth := fs.Int("depth", scheme.MaxDepth, "maximum continuation depth")
	history := fs.String("history", "", "REPL history file (default ~/"+historyFile+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr,
		&slog.HandlerOptions{Level: level})))
	scheme.MaxDepth = *depth

	if fs.NArg() == 0 {
		histPath := *history
		if histPath == "" {
			if home, err := os.UserHomeDir(); err == nil {
				histPath = filepath.Join(home, historyFile)
			}
		}
		if isTerminal() {
			return lineEditingRepl(histPath, stderr)
		}
		return repl(scheme.NewInterp(os.Stdin, os.Stdout, stderr))
	}

	in := scheme.NewInterp(os.Stdin, os.Stdout, stderr)
	err := in.RunFile(fs.Arg(0), fs.Args()[1:])
	var exit *scheme.ExitError
	switch {
	case errors.As(err, &exit):
		return exit.Code
	case err != nil:
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
