package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

type labelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector turns AWS Rekognition labels into food items.
type RekognitionDetector struct {
	client        labelDetector
	maxLabels     int32
	minConfidence float32
	ignore        map[string]bool
}

func NewRekognitionDetector(ctx context.Context, region string, minConfidence float64, ignoreLabels []string) (*RekognitionDetector, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newRekognitionDetector(rekognition.NewFromConfig(cfg), minConfidence, ignoreLabels), nil
}

func newRekognitionDetector(client labelDetector, minConfidence float64, ignoreLabels []string) *RekognitionDetector {
	ignore := make(map[string]bool, len(ignoreLabels))
	for _, l := range ignoreLabels {
		ignore[strings.ToLower(l)] = true
	}
	return &RekognitionDetector{
		client:        client,
		maxLabels:     10,
		minConfidence: float32(minConfidence),
		ignore:        ignore,
	}
}

// Detect returns concrete food labels with confidence scaled to [0,1].
func (r *RekognitionDetector) Detect(ctx context.Context, image []byte) ([]models.FoodItem, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(r.maxLabels),
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect labels: %w", err)
	}

	var foods []models.FoodItem
	for _, l := range out.Labels {
		name := strings.ToLower(strings.TrimSpace(aws.ToString(l.Name)))
		if name == "" || r.ignore[name] {
			continue
		}
		foods = append(foods, models.FoodItem{
			Name:       name,
			Confidence: float64(aws.ToFloat32(l.Confidence)) / 100,
		})
	}
	return foods, nil
}
