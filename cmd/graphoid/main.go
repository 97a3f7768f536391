// Package main provides the Graphoid CLI entry point:
// `graphoid run <file>`, a bare `graphoid` REPL, and `graphoid version`.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvandervort/graphoid/internal/rtlog"
	"github.com/xvandervort/graphoid/pkg/eval"
	"github.com/xvandervort/graphoid/pkg/manifest"
	"github.com/xvandervort/graphoid/pkg/module"
	"github.com/xvandervort/graphoid/pkg/parser"
	"github.com/xvandervort/graphoid/pkg/value"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphoid",
		Short: "Graphoid - a dynamically-typed, graph-centric programming language",
		Long: `Graphoid is a tree-walking interpreter for a small dynamically-typed
language whose core data structures are graphs: lists and hashes are
themselves graphs viewed through a handle, and a graph's rules and
behaviors enforce invariants on every mutation.

Run with no arguments for an interactive REPL, or "graphoid run <file>"
to execute a .gr source file.`,
		RunE: runRepl,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphoid v%s\n", version)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a Graphoid source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runFile,
	}
	runCmd.Flags().Bool("reload", false, "hot-reload on change (deferred, accepted for forward compatibility)")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEvaluator builds an Evaluator wired to a module Loader rooted at
// the nearest ancestor graphoid.toml. If none is found the Loader has
// no project root and resolves only relative and stdlib paths.
func newEvaluator(startDir string) *eval.Evaluator {
	root, _ := manifest.FindProjectRoot(startDir)
	loader := module.New(root, os.Getenv("GRAPHOID_STDLIB_DIR"))
	e := eval.New()
	e.Loader = loader
	e.ModuleDir = startDir
	return e
}

// runFile implements `graphoid run <file>`:
// load, parse, execute; nonzero exit on uncaught error.
func runFile(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	prog, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := newEvaluator(filepath.Dir(path))
	if _, err := e.Run(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}

// runRepl implements the bare `graphoid` invocation: a
// persistent top-level environment across lines; an error on one line
// does not terminate the session; Ctrl-D/EOF exits cleanly.
func runRepl(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	e := newEvaluator(wd)
	rtlog.SetLevel(rtlog.LevelWarn)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stdout, "graphoid REPL — Ctrl-D to exit")
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		prog, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		v, err := e.Run(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintln(os.Stdout, value.Display(v))
	}
}
