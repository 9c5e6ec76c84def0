// Package vision wraps the external label-detection service behind a narrow
// interface so the publish walker can run against fakes in tests.
package vision

import (
	"context"
	"fmt"
	"os"
)

// Label is one detected label, in service confidence order.
type Label struct {
	Name       string
	Confidence float32
}

// LabelDetector is the single operation the pipeline needs from the vision
// service.
type LabelDetector interface {
	DetectLabels(ctx context.Context, imageData []byte, maxLabels int) ([]Label, error)
}

// ExtractKeywords runs label detection over each image path and concatenates
// the returned label names in order. Keywords are not deduplicated across
// images. Any read or service error propagates to the caller.
func ExtractKeywords(ctx context.Context, detector LabelDetector, imagePaths []string, maxLabels int) ([]string, error) {
	var keywords []string
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", path, err)
		}

		labels, err := detector.DetectLabels(ctx, data, maxLabels)
		if err != nil {
			return nil, fmt.Errorf("label detection failed for %s: %w", path, err)
		}

		for _, label := range labels {
			keywords = append(keywords, label.Name)
		}
	}
	return keywords, nil
}
