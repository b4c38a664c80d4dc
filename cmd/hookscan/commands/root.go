// Package commands implements the CLI commands for hookscan.
package commands

import (
	"fmt"
	"os"

	"github.com/irahardianto/hookscan/internal/platform/logger"
	"github.com/spf13/cobra"
)

// Global flag values accessible to all commands.
var (
	flagJSON     bool
	flagVerbose  bool
	flagFormat   string
	flagConfig   string
	flagDir      string
	flagKeepTemp bool
)

// rootCmd is the base command for the hookscan CLI.
var rootCmd = &cobra.Command{
	Use:   "hookscan",
	Short: "List the files a git hook should scan",
	Long: `hookscan asks git which files a hook-driven scanner should look at: staged files
in a pre-commit hook, newly added files, or files changed between two revisions in a
server-side pre-receive hook, where content is extracted from git's object store into
temporary files because no working tree reflects the pushed revision.

File lists go to stdout, logs to stderr. With --exec, the scanner command is run with
the files as arguments and its exit code decides the hook's outcome.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l := logger.New(cmd.ErrOrStderr(), flagVerbose, flagJSON)
		ctx := logger.WithContext(cmd.Context(), l)
		cmd.SetContext(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format: text, json or sarif (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the config file (default <dir>/.hookscan.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "C", "", "Repository directory (default current directory)")
	rootCmd.PersistentFlags().BoolVar(&flagKeepTemp, "keep-temp", false, "Keep extracted files after --exec finishes")
}

// Execute runs the root command. Returns an error if the command fails.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hookscan:", err)
	}
	return err
}
