// Package commands implements the search CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/config"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// cli holds the state shared by every command of one invocation.
type cli struct {
	cfgFile    string
	outputJSON bool
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *observability.Logger
	out    io.Writer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "api-ia-cli",
		Short: "Vehicle inventory search from the command line",
		Long: `api-ia-cli runs the same search pipeline as the API server against a local
inventory snapshot, and administers the inventory and the FIPE vocabulary.

All commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.InitUI(c.noColor || c.outputJSON, c.verbose)
			c.out = cmd.OutOrStdout()
			ui.Out = c.out
			ui.Err = cmd.ErrOrStderr()

			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      "console",
				ServiceName: "api-ia-cli",
				Output:      cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	root.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")

	root.AddCommand(c.newSearchCmd())
	root.AddCommand(c.newInterpretCmd())
	root.AddCommand(c.newInventoryCmd())
	root.AddCommand(c.newVocabularyCmd())
	root.AddCommand(c.newStatsCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
