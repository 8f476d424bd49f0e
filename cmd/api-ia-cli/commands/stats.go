package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/app"
)

func (c *cli) newStatsCmd() *cobra.Command {
	var (
		window time.Duration
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most frequent search queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.cfg.Database.Enabled = true
			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Audit.TopQueries(ctx, time.Now().Add(-window), limit)
			if err != nil {
				return err
			}

			if c.outputJSON {
				return c.printJSON(stats)
			}
			if len(stats) == 0 {
				ui.Info("Nenhuma busca registrada nas últimas %s", ui.FormatDuration(window))
				return nil
			}
			rows := make([][]string, 0, len(stats))
			for i, s := range stats {
				rows = append(rows, []string{strconv.Itoa(i + 1), s.Query, strconv.Itoa(s.Count), strconv.Itoa(s.ZeroResult)})
			}
			ui.Table([]string{"#", "Query", "Buscas", "Sem resultado"}, rows)
			return nil
		},
	}

	cmd.Flags().DurationVar(&window, "since", 24*time.Hour, "time window to aggregate")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of queries to show")
	return cmd
}
