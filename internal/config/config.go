package config

import "os"

// Defaults for the fixed pipeline geometry. The original batch scripts
// hardcoded all of these; they are overridable through the environment so a
// deployment can relocate its roots without a rebuild.
const (
	DefaultTargetWidth  = 1024
	DefaultTargetHeight = 768
	DefaultMaxLabels    = 10
	DefaultMinImages    = 2

	// Third entry in the font fallback chain is the compiled-in bitmap face.
	DefaultFallbackFont = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
)

// Pipeline holds every path and knob both walkers need. It replaces the
// scattered global constants of the original scripts with one explicit value
// handed to the walkers at startup.
type Pipeline struct {
	// InputRoot holds the raw per-product photo folders.
	InputRoot string
	// OutputRoot receives normalized Product_NNNNN folders, the metadata
	// ledger and the run summary. It is also the publish stage's input.
	OutputRoot string
	// ListingsRoot receives rendered listing HTML files.
	ListingsRoot string

	// FontPath is the preferred watermark TTF; FallbackFontPath is tried
	// next, and a built-in bitmap face is the last resort.
	FontPath         string
	FallbackFontPath string

	// TemplatePath optionally overrides the embedded listing template.
	TemplatePath string
	// CredentialsPath points at the eBay Trading credentials YAML.
	CredentialsPath string

	TargetWidth  int
	TargetHeight int
	// MaxLabels caps labels requested per label-detection call.
	MaxLabels int
	// MinImages is the per-folder minimum image count. Folders below it
	// are skipped with a logged error in both stages.
	MinImages int
}

// FromEnv builds a Pipeline from EMPORIUM_* environment variables, falling
// back to the defaults above.
func FromEnv() Pipeline {
	return Pipeline{
		InputRoot:        envOr("EMPORIUM_INPUT_DIR", "input"),
		OutputRoot:       envOr("EMPORIUM_OUTPUT_DIR", "output"),
		ListingsRoot:     envOr("EMPORIUM_LISTINGS_DIR", "listings"),
		FontPath:         envOr("EMPORIUM_FONT", "fonts/GreatVibes-Regular.ttf"),
		FallbackFontPath: envOr("EMPORIUM_FALLBACK_FONT", DefaultFallbackFont),
		TemplatePath:     os.Getenv("EMPORIUM_TEMPLATE"),
		CredentialsPath:  envOr("EBAY_CONFIG", "ebay.yaml"),
		TargetWidth:      DefaultTargetWidth,
		TargetHeight:     DefaultTargetHeight,
		MaxLabels:        DefaultMaxLabels,
		MinImages:        DefaultMinImages,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
