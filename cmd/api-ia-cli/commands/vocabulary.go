package commands

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/ui"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

func (c *cli) newVocabularyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vocabulary",
		Aliases: []string{"vocab"},
		Short:   "Build and inspect the vocabulary index",
	}
	cmd.AddCommand(c.newVocabularyBuildCmd())
	cmd.AddCommand(c.newVocabularyStatsCmd())
	return cmd
}

func (c *cli) newVocabularyBuildCmd() *cobra.Command {
	var (
		output  string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Crawl the FIPE catalogue and write the vocabulary file",
		Long: `Build walks every brand in the FIPE catalogue, collects model and
version names and writes them as the vocabulary file read at startup.
The crawl is rate limited; expect it to take several minutes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = c.cfg.Vocabulary.Path
			}
			if baseURL == "" {
				baseURL = c.cfg.Vocabulary.FIPEBaseURL
			}

			client := vocabulary.NewFIPEClient(vocabulary.FIPEConfig{
				BaseURL:         baseURL,
				RequestInterval: c.cfg.Vocabulary.RequestInterval,
				Burst:           c.cfg.Vocabulary.RequestBurst,
			}, c.logger)

			var bar *ui.ProgressBar
			progress := func(done, total int, brand string) {
				if c.outputJSON {
					return
				}
				if bar == nil {
					bar = ui.NewProgressBar(total, "marcas")
				}
				bar.Step(done, brand)
			}

			start := time.Now()
			file, err := client.Crawl(cmd.Context(), progress)
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("crawl FIPE catalogue: %w", err)
			}
			if err := vocabulary.WriteFile(output, file); err != nil {
				return err
			}

			summary := map[string]any{
				"path":     output,
				"marcas":   len(file.Brands),
				"modelos":  len(file.Models),
				"versoes":  len(file.Versions),
				"duration": time.Since(start).String(),
			}
			if c.outputJSON {
				return c.printJSON(summary)
			}
			ui.Success("Vocabulário gravado em %s (%s)", output, ui.FormatDuration(time.Since(start)))
			ui.KeyValue("Marcas", strconv.Itoa(len(file.Brands)))
			ui.KeyValue("Modelos", strconv.Itoa(len(file.Models)))
			ui.KeyValue("Versões", strconv.Itoa(len(file.Versions)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: configured vocabulary path)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "FIPE API base URL")
	return cmd
}

func (c *cli) newVocabularyStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many phrases each vocabulary category holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := vocabulary.Load(c.cfg.Vocabulary.Path)
			if err != nil {
				c.logger.Warn().Err(err).Str("path", c.cfg.Vocabulary.Path).Msg("Vocabulary file unavailable, showing built-in index")
			}
			stats := ix.Stats()

			if c.outputJSON {
				return c.printJSON(stats)
			}
			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, strconv.Itoa(stats[name])})
			}
			ui.Table([]string{"Categoria", "Frases"}, rows)
			return nil
		},
	}
}
