// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"oligoscreen/internal/appcore"
	"oligoscreen/internal/cli"
	"oligoscreen/internal/server"
	"oligoscreen/internal/version"
	"oligoscreen/internal/writers"
)

const long = `oligoscreen: degenerate oligo screening

Slides windows of every oligo length across a template, aligns each window
against a reference panel and reports how few (degenerate) variants cover
the panel at each position. With --exclusivity, every window is also scored
against an off-target panel.`

// RunContext runs the command line argv and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	code := appcore.ExitOK

	root := &cobra.Command{
		Use:           "oligoscreen",
		Short:         "degenerate oligo screening",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           func(cmd *cobra.Command, _ []string) { _ = cmd.Help() },
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(outw)
	root.SetErr(stderr)
	root.AddCommand(
		screenCommand(outw, stderr, &code),
		rescoreCommand(outw, stderr, &code),
		serveCommand(stderr, &code),
		versionCommand(outw),
	)
	root.SetArgs(argv)

	if err := root.ExecuteContext(parent); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		code = appcore.ExitUsage
	}
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		fmt.Fprintln(stderr, err)
		return appcore.ExitRuntime
	}
	return code
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func screenCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	var o cli.ScreenOptions
	cmd := &cobra.Command{
		Use:   "screen --template T.fa --references R.fa [R2.fa ...]",
		Short: "screen a template against a reference panel",
		Example: `  oligoscreen screen -T amplicon.fa -r panel.fa.gz
  oligoscreen screen -T amplicon.fa -r a.fa -r b.fa -m fixed --fixed-ambiguities 2 -o tsv
  oligoscreen screen -T amplicon.fa -r panel.fa -x offtargets.fa --out-dir runs/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.AfterParse(args); err != nil {
				return err
			}
			*code = appcore.RunScreen(cmd.Context(), stdout, stderr, o)
			return nil
		},
	}
	cli.RegisterScreen(cmd.Flags(), &o)
	return cmd
}

func rescoreCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	var o cli.RescoreOptions
	cmd := &cobra.Command{
		Use:     "rescore --results RUN.json [--threshold P] [--ignore N]",
		Short:   "recompute thresholds of a saved result without re-aligning",
		Example: `  oligoscreen rescore runs/amplicon_<id>.json --threshold 90 --ignore 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.AfterParse(args); err != nil {
				return err
			}
			*code = appcore.RunRescore(cmd.Context(), stdout, stderr, o)
			return nil
		},
	}
	cli.RegisterRescore(cmd.Flags(), &o)
	return cmd
}

func serveCommand(stderr io.Writer, code *int) *cobra.Command {
	var o cli.ServeOptions
	cmd := &cobra.Command{
		Use:   "serve [--addr :8080] [--out-dir DIR]",
		Short: "run the HTTP job service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			appcore.SetupLog(stderr, false)
			srv := server.New(server.Config{OutDir: o.OutDir, Threads: o.Threads, Retain: o.Retain})
			*code = appcore.ExitCode(srv.ListenAndServe(cmd.Context(), o.Addr))
			if *code == appcore.ExitCanceled {
				*code = appcore.ExitOK // interrupted server is a clean shutdown
			}
			return nil
		},
	}
	cli.RegisterServe(cmd.Flags(), &o)
	return cmd
}

func versionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "oligoscreen version %s\n", version.Version)
			fmt.Fprintf(stdout, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(stdout, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
