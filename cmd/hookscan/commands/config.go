package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrConfigWrite is returned when the backend rejects a configuration write.
var ErrConfigWrite = errors.New("config write failed")

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write version control configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key> [default]",
	Short: "Print a configuration value, or the default when unset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		def := ""
		if len(args) == 2 {
			def = args[1]
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Backend.GetConfig(ctx, args[0], def))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		if !s.Backend.SetConfig(ctx, args[0], args[1]) {
			return fmt.Errorf("%w: %s", ErrConfigWrite, args[0])
		}
		return nil
	},
}

var catCommandCmd = &cobra.Command{
	Use:   "cat-command <file>",
	Short: "Print the shell command that writes a file to stdout",
	Long: `Print the command a scanner can run to read <file> through a pipe.
The path is embedded as given, without quoting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Backend.CatCommand(args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd, catCommandCmd)
}
