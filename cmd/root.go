package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emporium",
		Short: "Product photo pipeline with AI-generated marketplace listings",
		Long: `Emporium is a two-stage batch pipeline for turning raw product photos
into marketplace listings.

The normalize stage converts, straightens, sharpens, resizes and watermarks
every photo, recording each result in a CSV ledger. The publish stage extracts
keywords from the normalized photos, resolves a category SKU, generates
listing copy with an LLM, renders the listing HTML and submits it to eBay.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newPublishCmd())

	return cmd
}
