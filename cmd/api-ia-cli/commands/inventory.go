package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/app"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/storage"
)

func (c *cli) newInventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Refresh, import and inspect inventory snapshots",
	}
	cmd.AddCommand(c.newInventoryRefreshCmd())
	cmd.AddCommand(c.newInventoryImportCmd())
	cmd.AddCommand(c.newInventoryHistoryCmd())
	return cmd
}

func (c *cli) newInventoryRefreshCmd() *cobra.Command {
	var feedURL string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the configured source once and install the snapshot",
		Long: `Refresh runs one refresh cycle: fetch the feed, validate it, write the
snapshot file, archive it when a database is configured and announce the
refresh on the configured event bus.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if feedURL != "" {
				c.cfg.Inventory.Source = "http"
				c.cfg.Inventory.FeedURL = feedURL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Inventory.FetchTimeout)
			defer cancel()

			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			var snap *inventory.Snapshot
			msg := fmt.Sprintf("Atualizando inventário (%s)...", c.cfg.Inventory.Source)
			err = ui.Spin(msg, c.outputJSON, func() error {
				var refreshErr error
				snap, refreshErr = a.Refresher.Refresh(ctx)
				return refreshErr
			})
			if err != nil {
				return fmt.Errorf("refresh inventory: %w", err)
			}

			if c.outputJSON {
				return c.printJSON(snapshotSummary(snap))
			}
			ui.Success("Inventário atualizado em %s", ui.FormatDuration(time.Since(start)))
			printSnapshot(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&feedURL, "url", "", "feed URL (overrides the configured source)")
	return cmd
}

func (c *cli) newInventoryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Archive an inventory file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Inventory.FetchTimeout)
			defer cancel()

			decoded, err := inventory.LoadFile(args[0])
			if err != nil {
				return err
			}
			if len(decoded.Vehicles) == 0 {
				return fmt.Errorf("%s contains no vehicles", args[0])
			}

			c.cfg.Database.Enabled = true
			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			snap := inventory.NewSnapshot(decoded.Vehicles, "file:"+args[0])
			if err := a.Archive.SaveSnapshot(ctx, snap); err != nil {
				return fmt.Errorf("archive snapshot: %w", err)
			}

			if c.outputJSON {
				summary := snapshotSummary(snap)
				summary["skipped"] = decoded.Skipped
				return c.printJSON(summary)
			}
			ui.Success("Snapshot importado")
			printSnapshot(snap)
			if decoded.Skipped > 0 {
				ui.Warning("%d registro(s) inválido(s) ignorado(s)", decoded.Skipped)
			}
			return nil
		},
	}
}

func (c *cli) newInventoryHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c.cfg.Database.Enabled = true
			a, err := app.New(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := storage.NewSnapshotRepository(a.DB).List(ctx, limit)
			if err != nil {
				return err
			}
			if c.outputJSON {
				return c.printJSON(records)
			}
			if len(records) == 0 {
				ui.Info("Nenhum snapshot arquivado")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ID,
					rec.LoadedAt.Local().Format(time.RFC3339),
					strconv.Itoa(rec.VehicleCount),
					rec.Source,
				})
			}
			ui.Table([]string{"Snapshot", "Carregado em", "Veículos", "Origem"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to list")
	return cmd
}

func snapshotSummary(snap *inventory.Snapshot) map[string]any {
	return map[string]any{
		"snapshot_id": snap.ID,
		"source":      snap.Source,
		"vehicles":    snap.Len(),
		"loaded_at":   snap.LoadedAt,
	}
}

func printSnapshot(snap *inventory.Snapshot) {
	ui.KeyValue("Snapshot", snap.ID)
	ui.KeyValue("Origem", snap.Source)
	ui.KeyValue("Veículos", strconv.Itoa(snap.Len()))
	ui.KeyValue("Carregado em", snap.LoadedAt.Local().Format(time.RFC3339))
}
