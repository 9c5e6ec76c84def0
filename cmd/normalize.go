package cmd

import (
	"github.com/eternal-elegance/emporium/internal/config"
	"github.com/eternal-elegance/emporium/internal/ledger"
	"github.com/eternal-elegance/emporium/internal/normalize"
	"github.com/eternal-elegance/emporium/internal/walker"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var inputDir, outputDir string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize raw product photos into watermarked PNGs",
		Long: `Walks every product folder under the input directory, assigns sequential
product ids, and normalizes each photo: format conversion, orientation fix,
sharpening, resize to 1024x768, watermark and PNG encoding.

Each normalized image is recorded in the CSV metadata ledger; a summary file
with the processed-product count is written at the end of the run.`,
		Example: `  # Normalize ./input into ./output
  emporium normalize --input ./input --output ./output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if inputDir != "" {
				cfg.InputRoot = inputDir
			}
			if outputDir != "" {
				cfg.OutputRoot = outputDir
			}

			led, err := ledger.Init(ledger.Path(cfg.OutputRoot))
			if err != nil {
				return err
			}

			mark := normalize.LoadWatermark(cfg.FontPath, cfg.FallbackFontPath)
			norm := normalize.New(cfg.OutputRoot, cfg.TargetWidth, cfg.TargetHeight, cfg.MinImages, mark, led)

			_, err = walker.NewNormalizeBatch(cfg, norm).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of raw product photo folders")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for normalized output")

	return cmd
}
