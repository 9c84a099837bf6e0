// Command namepick draws a random name from a CSV file of firstname,surname records.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	a := newApp(filepath.Base(os.Args[0]), os.Stdin, os.Stdout, os.Stderr)
	os.Exit(run(context.Background(), a, os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, a *app, args []string) int {
	root := newRootCommand(a)
	root.SetArgs(expandCheatArgs(args))
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	defer a.teardown(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "%s: %s\n", a.prog, err)
		var usage *usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(a.stderr, "Try '%s --help' for more information\n", a.prog)
		}
		return 1
	}
	return 0
}

// usageError marks command line mistakes.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newRootCommand(a *app) *cobra.Command {
	var opts pickOptions

	root := &cobra.Command{
		Use:   a.prog + " [OPTION]... [FILE]",
		Short: "Draw a random name from a CSV FILE, or standard input",
		Long: `Draw a random name from a CSV FILE, or standard input.

With no FILE, or when FILE is -, read standard input. Gzip, zstd, lz4 and
framed snappy/S2 input is decompressed automatically.

The CSV input must conform to the standard text/csv MIME type (RFC 7111). This
means CRLF line endings (with the final CRLF optional) and properly escaped
fields. Each record must be firstname,surname.

RFC 7111: <https://tools.ietf.org/html/rfc7111>
RFC 4180: <https://tools.ietf.org/html/rfc4180>`,
		Example: fmt.Sprintf("  %[1]s names.csv\n  %[1]s -c < names.csv\n  %[1]s -cA names.csv\n  %[1]s --cheat=A names.csv", a.prog),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{msg: "Too many arguments supplied"}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			opts.cheatSet = cmd.Flags().Changed("cheat")
			return a.pick(cmd.Context(), path, opts)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "read settings from a YAML, TOML or JSON file")
	pf.Bool("header", false, "treat the first record as a header")
	pf.Int("max-input", 0, "refuse inputs larger than this many bytes (0 for no limit)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("trace", false, "write OpenTelemetry spans to standard error")
	pf.String("metrics", "", "write Prometheus metrics to this textfile after the run")

	f := root.Flags()
	f.StringVarP(&opts.cheat, "cheat", "c", "", "enable cheats, choosing a name beginning with `CHAR` (-cCHAR or --cheat=CHAR);\nwith -c alone the CHAR is selected with the mouse pointer")
	f.BoolVar(&opts.pointer, cheatPointerFlag, false, "select the cheat CHAR with the mouse pointer")
	_ = f.MarkHidden(cheatPointerFlag)
	f.String("device", "/dev/input/mice", "pointing device read when selecting CHAR with the mouse")

	root.AddCommand(
		newValidateCommand(a),
		newDumpCommand(a),
		newVersionCommand(a),
	)
	return root
}

// expandCheatArgs rewrites the cheat option ahead of flag parsing, since its argument is
// optional and may be attached to the short form. -cCHAR becomes --cheat=CHAR and a bare
// -c or --cheat becomes the pointer flag. Arguments after "--" are left alone.
func expandCheatArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case arg == "-c" || arg == "--cheat":
			arg = "--" + cheatPointerFlag
		case strings.HasPrefix(arg, "-c="):
			arg = "--cheat=" + arg[len("-c="):]
		case strings.HasPrefix(arg, "-c"):
			arg = "--cheat=" + arg[len("-c"):]
		}
		out = append(out, arg)
	}
	return out
}
