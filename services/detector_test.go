package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type detectorFunc func(ctx context.Context, image []byte) ([]models.FoodItem, error)

func (f detectorFunc) Detect(ctx context.Context, image []byte) ([]models.FoodItem, error) {
	return f(ctx, image)
}

func fixedDetector(foods []models.FoodItem, err error) Detector {
	return detectorFunc(func(context.Context, []byte) ([]models.FoodItem, error) { return foods, err })
}

func TestFallbackDetectorUsesNextOnError(t *testing.T) {
	want := []models.FoodItem{{Name: "pizza", Confidence: 0.9}}
	d := NewFallbackDetector(zap.NewNop(),
		NamedDetector{Name: "primary", Detector: fixedDetector(nil, errors.New("throttled"))},
		NamedDetector{Name: "secondary", Detector: fixedDetector(want, nil)},
	)

	got, err := d.Detect(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFallbackDetectorSkipsEmptyResults(t *testing.T) {
	want := []models.FoodItem{{Name: "donut", Confidence: 0.8}}
	d := NewFallbackDetector(zap.NewNop(),
		NamedDetector{Name: "primary", Detector: fixedDetector(nil, nil)},
		NamedDetector{Name: "secondary", Detector: fixedDetector(want, nil)},
	)

	got, err := d.Detect(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFallbackDetectorNothingFound(t *testing.T) {
	d := NewFallbackDetector(zap.NewNop(),
		NamedDetector{Name: "a", Detector: fixedDetector(nil, nil)},
		NamedDetector{Name: "b", Detector: fixedDetector([]models.FoodItem{}, nil)},
	)

	got, err := d.Detect(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFallbackDetectorAllFail(t *testing.T) {
	d := NewFallbackDetector(zap.NewNop(),
		NamedDetector{Name: "a", Detector: fixedDetector(nil, nil)},
		NamedDetector{Name: "b", Detector: fixedDetector(nil, errors.New("boom"))},
	)

	_, err := d.Detect(context.Background(), []byte{1})
	assert.ErrorContains(t, err, "boom")
}

type stubLabels struct {
	in  *rekognition.DetectLabelsInput
	out *rekognition.DetectLabelsOutput
	err error
}

func (s *stubLabels) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	s.in = in
	return s.out, s.err
}

func TestRekognitionDetector(t *testing.T) {
	stub := &stubLabels{out: &rekognition.DetectLabelsOutput{Labels: []types.Label{
		{Name: aws.String("Food"), Confidence: aws.Float32(99)},
		{Name: aws.String("Pizza"), Confidence: aws.Float32(92.5)},
		{Name: aws.String(" "), Confidence: aws.Float32(90)},
		{Name: aws.String("Hot Dog"), Confidence: aws.Float32(80)},
	}}}
	d := newRekognitionDetector(stub, 75, []string{"Food"})

	foods, err := d.Detect(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, []models.FoodItem{
		{Name: "pizza", Confidence: 0.925},
		{Name: "hot dog", Confidence: 0.8},
	}, foods)
	assert.Equal(t, []byte("img"), stub.in.Image.Bytes)
	assert.Equal(t, float32(75), aws.ToFloat32(stub.in.MinConfidence))
	assert.Equal(t, int32(10), aws.ToInt32(stub.in.MaxLabels))
}

func TestRekognitionDetectorError(t *testing.T) {
	d := newRekognitionDetector(&stubLabels{err: errors.New("denied")}, 75, nil)
	_, err := d.Detect(context.Background(), []byte("img"))
	assert.ErrorContains(t, err, "denied")
}

func TestDecodeImage(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeImage(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeImage("data:image/jpeg;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	for _, bad := range []string{"", "data:image/jpeg," + enc, "data:image/png;base64", "***"} {
		_, err := DecodeImage(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestFoodServiceRecognize(t *testing.T) {
	_, err := NewFoodService(nil, nil).Recognize(context.Background(), "AAAA")
	assert.ErrorIs(t, err, ErrDetectorUnavailable)

	want := []models.FoodItem{{Name: "cake", Confidence: 0.7}}
	svc := NewFoodService(fixedDetector(want, nil), nil)
	got, err := svc.Recognize(context.Background(), base64.StdEncoding.EncodeToString([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Recognize(context.Background(), "not base64!")
	assert.ErrorIs(t, err, ErrValidation)
}
