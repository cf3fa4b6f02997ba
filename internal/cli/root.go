package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ktool/internal/args"
	"github.com/ppiankov/ktool/internal/config"
	"github.com/ppiankov/ktool/internal/kubectl"
	"github.com/ppiankov/ktool/internal/render"
	"github.com/ppiankov/ktool/internal/util"
)

const version = "0.2.0"

// rootCmd is the `k` entry point. Flag parsing is disabled on purpose: the
// resolver needs the raw token order to accept flags and positionals
// interleaved in any sequence, which cobra's own parser would reject.
var rootCmd = &cobra.Command{
	Use:   "k [pods] [SERVICE]",
	Short: "kubectl shortcuts + search + summaries",
	Long: `k lists pods with service-tag expansion, regex search, and summaries.

The optional leading "pods" keyword and all flags may appear in any order:

  k oss-primary --summary
  k pods oss-primary --summary
  k --summary -n prod oss-primary
  k -s 'worker-[0-9]+' --bad

Flags:
  -n, --ns NAMESPACE     namespace (default from ~/.ktool/config.yaml)
  -s, --search PATTERN   regex filter on pod names
      --summary          state counts, total, and problematic count
      --bad              show only problematic pods
      --show-command     print the kubectl command before running it`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: func(cmd *cobra.Command, argv []string) error {
		// Help and version by hand since cobra never sees the flags.
		for _, tok := range argv {
			if tok == "-h" || tok == "--help" {
				return cmd.Help()
			}
		}
		if len(argv) == 1 && argv[0] == "--version" {
			fmt.Fprintf(cmd.OutOrStdout(), "k version %s\n", version)
			return nil
		}
		return runPods(cmd.OutOrStdout(), argv, kubectl.NewExecRunner())
	},
}

// Execute runs the k command.
func Execute() error {
	return rootCmd.Execute()
}

func runPods(out io.Writer, argv []string, runner kubectl.Runner) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}

	intent, err := args.Resolve(argv, cfg)
	if err != nil {
		return err
	}

	if intent.ShowCommand {
		render.CommandEcho(out, kubectl.BuildGetPods(intent.Namespace))
	}

	pods, err := kubectl.GetPods(runner, intent.Namespace)
	if err != nil {
		return err
	}

	render.PodTable(out, pods, render.Options{
		Namespace: intent.Namespace,
		Service:   intent.Service,
		Search:    intent.Search,
		Summary:   intent.Summary,
		BadOnly:   intent.BadOnly,
	})
	return nil
}

// ExitCode maps an error from Execute or ExecuteCtx to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return util.ExitOK
	}
	var argErr *args.Error
	var cfgErr *config.Error
	if errors.As(err, &argErr) || errors.As(err, &cfgErr) {
		return util.ExitInvalidInput
	}
	return util.ExitRuntimeError
}
