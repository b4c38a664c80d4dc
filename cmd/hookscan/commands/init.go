package commands

import (
	"fmt"

	"github.com/irahardianto/hookscan/internal/engine/hook"
	"github.com/irahardianto/hookscan/internal/engine/runner"
	"github.com/irahardianto/hookscan/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	flagHook    string
	flagProgram string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the hookscan git hook",
	Long: `Install a git hook that runs hookscan: 'pre-commit' lists staged files,
'pre-receive' (for bare server repositories) extracts pushed files.
An existing hook not written by hookscan is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		log.Info("init started", "hook", flagHook)

		inst, err := newInstaller()
		if err != nil {
			return err
		}

		path, err := inst.Install(ctx, hook.Kind(flagHook))
		if err != nil {
			return fmt.Errorf("installing hook: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🔒 hookscan %s hook installed at %s\n", flagHook, path)
		log.Info("init completed")
		return nil
	},
}

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Remove the hookscan git hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		log.Info("teardown started", "hook", flagHook)

		inst, err := newInstaller()
		if err != nil {
			return err
		}

		if err := inst.Remove(ctx, hook.Kind(flagHook)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🔓 hookscan %s hook removed\n", flagHook)
		log.Info("teardown completed")
		return nil
	},
}

// newInstaller builds a hook installer for the repository directory.
func newInstaller() (*hook.Installer, error) {
	dir, err := repoDir()
	if err != nil {
		return nil, err
	}
	inst := hook.NewInstaller(runner.NewExecRunner(dir), dir)
	if flagProgram != "" {
		inst.Program = flagProgram
	}
	return inst, nil
}

func init() {
	for _, c := range []*cobra.Command{initCmd, teardownCmd} {
		c.Flags().StringVar(&flagHook, "hook", string(hook.PreCommit), "Hook to manage: pre-commit or pre-receive")
		rootCmd.AddCommand(c)
	}
	initCmd.Flags().StringVar(&flagProgram, "program", "", "hookscan command the hook runs (default \"hookscan\")")
}
