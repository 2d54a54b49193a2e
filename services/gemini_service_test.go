package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewGeminiGeneratorRequiresKeyAndModels(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", []string{"gemini-2.5-flash"}, zap.NewNop())
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = NewGeminiGenerator(context.Background(), "key", nil, zap.NewNop())
	assert.ErrorContains(t, err, "model")
}
