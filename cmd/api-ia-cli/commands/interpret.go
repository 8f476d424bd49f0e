package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/interpreter"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

func (c *cli) newInterpretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interpret <query>",
		Short: "Print the criteria extracted from a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			vocab, err := vocabulary.Load(c.cfg.Vocabulary.Path)
			if err != nil {
				c.logger.Warn().Err(err).Msg("Vocabulary file unavailable, using built-in dictionaries")
			}
			in := interpreter.New(vocab, c.logger, interpreter.DefaultConfig())
			crit := in.Interpret(query)
			flat := crit.Flatten()

			if c.outputJSON {
				return c.printJSON(map[string]any{
					"query_original":       query,
					"parametros_extraidos": flat,
				})
			}
			ui.Section(fmt.Sprintf("Consulta: %s", query))
			printCriteria(flat)
			return nil
		},
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ", ")
	case float64:
		return ui.FormatPrice(t)
	default:
		return fmt.Sprint(t)
	}
}
