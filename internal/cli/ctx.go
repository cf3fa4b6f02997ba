package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/ktool/internal/config"
	"github.com/ppiankov/ktool/internal/kubectl"
	"github.com/ppiankov/ktool/internal/render"
)

var ctxShowCommand bool

var ctxCmd = &cobra.Command{
	Use:     "kctx",
	Short:   "Context shortcuts (like kubectx)",
	Version: version,
	Long: `kctx switches and shows kubectl contexts using short aliases
from the contexts map in ~/.ktool/config.yaml. An alias without a mapping
is passed to kubectl verbatim.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var ctxUseCmd = &cobra.Command{
	Use:   "use ALIAS",
	Short: "Switch to the context behind an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		return runCtxUse(cmd.OutOrStdout(), argv[0], kubectl.NewExecRunner())
	},
}

var ctxShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, argv []string) error {
		return runCtxShow(cmd.OutOrStdout(), kubectl.NewExecRunner())
	},
}

// ExecuteCtx runs the kctx command.
func ExecuteCtx() error {
	return ctxCmd.Execute()
}

func init() {
	for _, cmd := range []*cobra.Command{ctxUseCmd, ctxShowCmd} {
		cmd.Flags().BoolVar(&ctxShowCommand, "show-command", false, "print the kubectl command before running it")
		cmd.Flags().SetNormalizeFunc(normalizeShowCommand)
	}
	ctxCmd.AddCommand(ctxUseCmd)
	ctxCmd.AddCommand(ctxShowCmd)
}

// normalizeShowCommand accepts the camelCase spelling as a synonym.
func normalizeShowCommand(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "showCommand" {
		name = "show-command"
	}
	return pflag.NormalizedName(name)
}

func runCtxUse(out io.Writer, alias string, runner kubectl.Runner) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}

	target := alias
	if mapped, ok := cfg.Contexts[alias]; ok {
		target = mapped
	}

	if ctxShowCommand {
		render.CommandEcho(out, kubectl.BuildUseContext(target))
	}

	msg, err := kubectl.UseContext(runner, target)
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(out, msg)
	}
	return nil
}

func runCtxShow(out io.Writer, runner kubectl.Runner) error {
	if ctxShowCommand {
		render.CommandEcho(out, kubectl.BuildCurrentContext())
	}

	current, err := kubectl.CurrentContext(runner)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, current)
	return nil
}
