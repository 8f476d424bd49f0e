package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/app"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/search"
)

func (c *cli) newSearchCmd() *cobra.Command {
	var (
		file  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the inventory with a free-text query",
		Long: `Search interprets a Portuguese query such as "Onix branco até 50 mil",
filters and ranks the inventory, and prints the matches. When nothing
matches, suggestions from broadened criteria are printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if file != "" {
				c.cfg.Inventory.Source = "file"
				c.cfg.Inventory.Path = file
			}
			if limit > 0 {
				c.cfg.Search.MaxResults = limit
			}
			c.cfg.Search.CacheResults = false

			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Inventory.FetchTimeout)
			defer cancel()

			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Load(ctx); err != nil {
				return fmt.Errorf("load inventory: %w", err)
			}

			resp, err := a.Search.Search(ctx, query)
			if err != nil {
				return err
			}

			if c.outputJSON {
				return c.printJSON(resp)
			}
			printSearch(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "inventory file to search (overrides the configured source)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	return cmd
}

func printSearch(resp *search.Response) {
	ui.Section(fmt.Sprintf("Busca: %s", resp.Query))
	printCriteria(resp.Criteria)

	if resp.Total > 0 {
		ui.Success("%d veículo(s) encontrado(s)", resp.Total)
		vehicleTable(resp.Results)
		return
	}

	ui.Warning("Nenhum veículo encontrado")
	if alt := resp.Alternatives; alt != nil {
		ui.Info("%s", alt.Message)
		vehicleTable(alt.Results)
	}
}

func printCriteria(criteria map[string]any) {
	if len(criteria) == 0 {
		ui.Info("Nenhum critério extraído")
		return
	}
	for _, key := range sortedKeys(criteria) {
		ui.KeyValue(key, formatValue(criteria[key]))
	}
	fmt.Fprintln(ui.Out)
}

func vehicleTable(vehicles []inventory.Vehicle) {
	rows := make([][]string, 0, len(vehicles))
	for _, v := range vehicles {
		price := v.Price.Raw()
		if f, ok := v.Price.Float(); ok {
			price = ui.FormatPrice(f)
		}
		rows = append(rows, []string{
			string(v.ID),
			strings.TrimSpace(string(v.Brand) + " " + string(v.Model)),
			string(v.Version),
			v.Year.Raw(),
			string(v.Color),
			string(v.Transmission),
			v.Mileage.Raw(),
			price,
		})
	}
	ui.Table([]string{"ID", "Veículo", "Versão", "Ano", "Cor", "Câmbio", "Km", "Preço"}, rows)
}
