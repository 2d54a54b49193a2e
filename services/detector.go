package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"go.uber.org/zap"
)

// Detector finds food names in a meal photo.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]models.FoodItem, error)
}

// NamedDetector is one entry of a FallbackDetector.
type NamedDetector struct {
	Name     string
	Detector Detector
}

var errNothingDetected = errors.New("no food detected")

// FallbackDetector asks each detector in order and returns the first
// non-empty result.
type FallbackDetector struct {
	detectors []NamedDetector
	log       *zap.Logger
}

func NewFallbackDetector(log *zap.Logger, detectors ...NamedDetector) *FallbackDetector {
	return &FallbackDetector{detectors: detectors, log: log.Named("detector")}
}

func (f *FallbackDetector) Detect(ctx context.Context, image []byte) ([]models.FoodItem, error) {
	providers := make([]Provider[[]models.FoodItem], 0, len(f.detectors))
	for _, d := range f.detectors {
		providers = append(providers, Provider[[]models.FoodItem]{
			Name: d.Name,
			Call: func(ctx context.Context) ([]models.FoodItem, error) {
				foods, err := d.Detector.Detect(ctx, image)
				if err != nil {
					return nil, err
				}
				if len(foods) == 0 {
					return nil, errNothingDetected
				}
				return foods, nil
			},
		})
	}

	foods, used, err := FirstSuccess(ctx, providers)
	if err != nil {
		if onlyEmpty(err, len(providers)) {
			return []models.FoodItem{}, nil
		}
		return nil, err
	}
	f.log.Info("foods detected", zap.String("detector", used), zap.Int("count", len(foods)))
	return foods, nil
}

// onlyEmpty reports whether every provider ran and merely found nothing.
func onlyEmpty(err error, n int) bool {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return false
	}
	errs := joined.Unwrap()
	if len(errs) != n {
		return false
	}
	for _, e := range errs {
		if !errors.Is(e, errNothingDetected) {
			return false
		}
	}
	return true
}

// DecodeImage accepts raw base64 or a data URI ("data:image/jpeg;base64,...").
func DecodeImage(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 || !strings.Contains(s[:i], ";base64") {
			return nil, invalid("malformed image data URI")
		}
		s = s[i+1:]
	}
	if s == "" {
		return nil, invalid("image is empty")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, invalid("image is not valid base64: %v", err)
	}
	return data, nil
}
