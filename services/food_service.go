package services

import (
	"context"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
)

// FoodService is what the HTTP layer uses for detection and stand-alone
// resolution.
type FoodService struct {
	detector Detector // nil when no detector is configured
	resolver BatchResolver
}

func NewFoodService(detector Detector, resolver BatchResolver) *FoodService {
	return &FoodService{detector: detector, resolver: resolver}
}

// Recognize decodes a base64 photo and runs detection.
func (s *FoodService) Recognize(ctx context.Context, base64Img string) ([]models.FoodItem, error) {
	if s.detector == nil {
		return nil, ErrDetectorUnavailable
	}
	img, err := DecodeImage(base64Img)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(ctx, img)
}

// Resolve validates and resolves a batch without persisting anything.
func (s *FoodService) Resolve(ctx context.Context, foods []models.FoodItem) ([]models.ResolvedNutrition, error) {
	items, err := validateFoodItems(foods)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, items), nil
}
