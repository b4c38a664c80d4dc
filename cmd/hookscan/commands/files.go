package commands

import (
	"context"
	"fmt"

	"github.com/irahardianto/hookscan/internal/engine/formatter"
	"github.com/irahardianto/hookscan/internal/engine/hook"
	"github.com/spf13/cobra"
)

// File set sources, as reported in JSON and SARIF output.
const (
	sourceStaged     = "staged"
	sourceNew        = "new"
	sourceBetween    = "between"
	sourcePreReceive = "pre-receive"
)

var flagExec string

var stagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "List files staged for commit",
	Long: `List staged files with status added, copied or modified. Deleted files are
never listed. Intended for pre-commit hooks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFileCommand(cmd, sourceStaged, func(ctx context.Context, s *session) (formatter.FileSet, error) {
			return formatter.FileSet{Source: sourceStaged, Files: s.Backend.StagedFiles(ctx)}, nil
		})
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "List newly added files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFileCommand(cmd, sourceNew, func(ctx context.Context, s *session) (formatter.FileSet, error) {
			return formatter.FileSet{Source: sourceNew, Files: s.Backend.NewFiles(ctx)}, nil
		})
	},
}

var betweenCmd = &cobra.Command{
	Use:   "between <first> <second>",
	Short: "Extract files changed between two revisions",
	Long: `Extract the content at <second> of every file that differs between <first>
and <second> into a fresh temporary directory and list the extracted paths.
Files deleted in <second> are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCommand(cmd, sourceBetween, func(ctx context.Context, s *session) (formatter.FileSet, error) {
			files, err := s.Backend.FilesBetween(ctx, args[0], args[1])
			return formatter.FileSet{Source: sourceBetween, Revisions: args, Files: files}, err
		})
	},
}

var preReceiveCmd = &cobra.Command{
	Use:   "pre-receive",
	Short: "Extract files pushed in a pre-receive hook",
	Long: `Read "<old> <new> <ref>" lines from stdin, as git passes them to a pre-receive
hook, and extract the files each update changes. Deleted refs are ignored and new
refs are compared against the empty tree.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFileCommand(cmd, sourcePreReceive, func(ctx context.Context, s *session) (formatter.FileSet, error) {
			updates, err := hook.ParseUpdates(cmd.InOrStdin())
			if err != nil {
				return formatter.FileSet{}, err
			}
			files, err := hook.Collect(ctx, s.Backend, updates)
			return formatter.FileSet{Source: sourcePreReceive, Files: files}, err
		})
	},
}

// runFileCommand opens a session, collects a file set and emits it.
// Extracted files are released on every error path.
func runFileCommand(cmd *cobra.Command, source string, collect func(context.Context, *session) (formatter.FileSet, error)) error {
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	if !s.enabled(ctx) {
		return s.emit(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), formatter.FileSet{Source: source}, "")
	}

	set, err := collect(ctx, s)
	if err != nil {
		s.release(ctx)
		return fmt.Errorf("listing %s files: %w", source, err)
	}

	return s.emit(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), set, s.scanner())
}

func init() {
	for _, c := range []*cobra.Command{stagedCmd, newCmd, betweenCmd, preReceiveCmd} {
		c.Flags().StringVar(&flagExec, "exec", "", "Scanner command to run with the files as arguments (default from config)")
		rootCmd.AddCommand(c)
	}
}
