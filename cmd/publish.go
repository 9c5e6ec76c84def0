package cmd

import (
	"log/slog"

	"github.com/eternal-elegance/emporium/internal/config"
	"github.com/eternal-elegance/emporium/internal/ledger"
	"github.com/eternal-elegance/emporium/internal/listing"
	"github.com/eternal-elegance/emporium/internal/marketplace"
	"github.com/eternal-elegance/emporium/internal/vision"
	"github.com/eternal-elegance/emporium/internal/walker"
	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	var inputDir, listingsDir string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Generate and publish marketplace listings for normalized products",
		Long: `Walks every normalized product folder, extracts keywords from the first
two images with AWS Rekognition, resolves a category SKU, generates listing
copy with an LLM, renders the listing HTML and submits it to eBay.

Folders with fewer than two images are skipped with a logged error.`,
		Example: `  # Publish listings for ./output into ./listings
  emporium publish --input ./output --listings ./listings`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if inputDir != "" {
				cfg.OutputRoot = inputDir
			}
			if listingsDir != "" {
				cfg.ListingsRoot = listingsDir
			}

			ctx := cmd.Context()

			detector, err := vision.NewRekognition(ctx)
			if err != nil {
				return err
			}

			generator, err := listing.NewGenerator()
			if err != nil {
				return err
			}

			renderer, err := listing.NewRenderer(cfg.TemplatePath)
			if err != nil {
				return err
			}

			creds, err := marketplace.LoadCredentials(cfg.CredentialsPath)
			if err != nil {
				return err
			}
			publisher := marketplace.NewTrading(creds)

			if records, err := ledger.Read(ledger.Path(cfg.OutputRoot)); err == nil {
				slog.Info("Loaded metadata ledger", "images", len(records))
			} else {
				slog.Warn("Metadata ledger not readable, continuing without it", "error", err)
			}

			batch := walker.NewPublishBatch(cfg, detector, generator, renderer, publisher)
			_, err = batch.Run(ctx)
			return err
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of normalized product folders")
	cmd.Flags().StringVarP(&listingsDir, "listings", "l", "", "Directory for rendered listing HTML")

	return cmd
}
