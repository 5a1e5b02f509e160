// Package main provides the CLI entry point for sqlsandbox, a policy-mediated
// SQL shell over an embedded SQLite database.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/wemcdonald/sqlsandbox/pkg/sandbox"
)

var version = "dev"

// CLI defines the command-line interface using Kong
var CLI struct {
	DB    string `name:"db" env:"SQLSANDBOX_DB" help:"Database file (default: private in-memory database)" type:"path"`
	Debug bool   `name:"debug" env:"SQLSANDBOX_DEBUG" help:"Log every authorization decision"`

	// Subcommands
	Exec    ExecCmd    `cmd:"" help:"Execute one statement and print its rows"`
	Shell   ShellCmd   `cmd:"" help:"Execute statements read from stdin, one per line"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ExecCmd executes a single statement
type ExecCmd struct {
	Admin bool     `name:"admin" help:"Bypass the authorization policy for this statement"`
	Bind  []string `name:"bind" short:"b" sep:"none" help:"Bind value as kind:value, kind is text, num or blob (hex)"`
	SQL   string   `arg:"" help:"SQL statement"`
}

func (e *ExecCmd) Run(db *sandbox.Database) error {
	binds, err := parseBinds(e.Bind)
	if err != nil {
		return err
	}

	res, err := db.Exec(e.SQL, e.Admin, binds)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, res)
}

// ShellCmd reads statements from stdin
type ShellCmd struct {
	Admin bool `name:"admin" help:"Bypass the authorization policy for every statement"`
}

func (s *ShellCmd) Run(db *sandbox.Database) error {
	return runShell(db, os.Stdin, os.Stdout, s.Admin)
}

// runShell executes each non-empty line of in. Failed statements are
// reported and the shell carries on.
func runShell(db *sandbox.Database, in io.Reader, out io.Writer, admin bool) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".quit" || line == ".exit" {
			return nil
		}

		res, err := db.Exec(line, admin, nil)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if err := printResult(out, res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// VersionCmd prints version information
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("sqlsandbox %s\n", version)
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stderr"}
		return z.Build()
	}
	return zap.NewProduction()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sqlsandbox"),
		kong.Description("Run SQL against an embedded SQLite database under an authorization policy"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(run(ctx))
}

// run opens the database and runs the selected command. It returns instead
// of exiting so the database is closed and the logger flushed.
func run(ctx *kong.Context) error {
	logger, err := newLogger(CLI.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := sandbox.Open(sandbox.Config{
		Path:   CLI.DB,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return ctx.Run(db)
}
