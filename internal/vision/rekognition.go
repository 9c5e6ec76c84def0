package vision

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const defaultRegion = "us-west-2"

// Rekognition implements LabelDetector with AWS Rekognition DetectLabels.
type Rekognition struct {
	client *rekognition.Client
}

// NewRekognition builds a Rekognition detector using the default AWS
// credential chain. The region comes from AWS_REGION when set.
func NewRekognition(ctx context.Context) (*Rekognition, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Rekognition{client: rekognition.NewFromConfig(cfg)}, nil
}

// DetectLabels sends the raw image bytes to Rekognition and returns label
// names with confidences in the service's order.
func (r *Rekognition) DetectLabels(ctx context.Context, imageData []byte, maxLabels int) ([]Label, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:     &rektypes.Image{Bytes: imageData},
		MaxLabels: aws.Int32(int32(maxLabels)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectLabels: %w", err)
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		labels = append(labels, Label{
			Name:       aws.ToString(l.Name),
			Confidence: aws.ToFloat32(l.Confidence),
		})
	}
	return labels, nil
}
