package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"go.uber.org/zap"
)

// GenerateRequest is one prompt for a TextGenerator.
type GenerateRequest struct {
	Prompt string
	JSON   bool // ask for an application/json reply
}

// TextGenerator is the external estimator: text in, text out.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Estimator infers serving weights and nutrient breakdowns for food names.
type Estimator interface {
	EstimateServingGrams(ctx context.Context, foodName string) (ServingEstimate, error)
	EstimateFull(ctx context.Context, foodName string) (FullEstimate, error)
}

// DefaultServingGrams is used when the oracle reply carries no usable number.
const DefaultServingGrams = 200.0

type ServingEstimate struct {
	Grams    float64
	Fallback bool // Grams is DefaultServingGrams, not an estimate
}

type FullEstimate struct {
	ServingGrams float64
	Nutrients    models.Nutrients // absolute, for ServingGrams
}

type OracleConfig struct {
	CallTimeout time.Duration // per attempt
	MaxRetries  int           // extra attempts after the first
}

// EstimationOracle adapts a TextGenerator to the Estimator contract.
type EstimationOracle struct {
	gen TextGenerator
	cfg OracleConfig
	log *zap.Logger
}

func NewEstimationOracle(gen TextGenerator, cfg OracleConfig, log *zap.Logger) *EstimationOracle {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &EstimationOracle{gen: gen, cfg: cfg, log: log.Named("oracle")}
}

const servingPromptTemplate = `You estimate food portions.
How many grams does one typical serving of "%s" weigh, cooked and as served?
Answer with a single integer number of grams and nothing else.`

const fullPromptTemplate = `You are a nutrition database.
Estimate one typical serving of "%s", cooked and as served.
Reply with one JSON object and no other text, using these keys with numeric values
for the whole serving: serving_size_gram, calories (kcal), carbs (g), protein (g),
fat (g), sugar (g), sodium (mg), iron (mg), calcium (mg), vitamin_c (mg),
folate (µg), magnesium (mg), omega3 (g), vitamin_a (µg), vitamin_b12 (µg),
vitamin_d (µg), dietary_fiber (g), potassium (mg).`

// EstimateServingGrams returns the first integer in the oracle's reply, or
// DefaultServingGrams flagged as a fallback when there is none.
func (o *EstimationOracle) EstimateServingGrams(ctx context.Context, foodName string) (ServingEstimate, error) {
	req := GenerateRequest{Prompt: fmt.Sprintf(servingPromptTemplate, foodName)}
	var est ServingEstimate
	err := o.withRetries(ctx, foodName, "serving", func(ctx context.Context) error {
		text, err := o.attempt(ctx, req)
		if err != nil {
			return err
		}
		if grams, ok := parseFirstInt(text); ok {
			est = ServingEstimate{Grams: grams}
		} else {
			o.log.Info("no weight in oracle reply, using default",
				zap.String("food", foodName), zap.String("reply", truncate(text, 120)))
			est = ServingEstimate{Grams: DefaultServingGrams, Fallback: true}
		}
		return nil
	})
	if err != nil {
		return ServingEstimate{}, err
	}
	return est, nil
}

// EstimateFull asks for a serving weight plus every nutrient as JSON.
// Undecodable replies fail with a *MalformedResponseError once the retry
// budget is spent.
func (o *EstimationOracle) EstimateFull(ctx context.Context, foodName string) (FullEstimate, error) {
	req := GenerateRequest{Prompt: fmt.Sprintf(fullPromptTemplate, foodName), JSON: true}
	var est FullEstimate
	err := o.withRetries(ctx, foodName, "full", func(ctx context.Context) error {
		text, err := o.attempt(ctx, req)
		if err != nil {
			return err
		}
		parsed, err := ParseFullEstimate(text)
		if err != nil {
			return err
		}
		est = parsed
		return nil
	})
	if err != nil {
		return FullEstimate{}, err
	}
	return est, nil
}

func (o *EstimationOracle) withRetries(ctx context.Context, foodName, kind string, op func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		o.log.Warn("oracle attempt failed",
			zap.String("food", foodName), zap.String("kind", kind),
			zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}

func (o *EstimationOracle) attempt(ctx context.Context, req GenerateRequest) (string, error) {
	actx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()

	text, err := o.gen.Generate(actx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(actx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %v", ErrOracleTimeout, o.cfg.CallTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	return text, nil
}

var firstIntRe = regexp.MustCompile(`\d+`)

func parseFirstInt(text string) (float64, bool) {
	m := firstIntRe.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return 0, false
	}
	return float64(n), true
}

// ParseFullEstimate decodes a full-estimate reply. Markdown fences and text
// around the outermost JSON object are ignored.
func ParseFullEstimate(raw string) (FullEstimate, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: "no JSON object in reply"}
	}

	var head struct {
		ServingSizeGram *float64 `json:"serving_size_gram"`
		Calories        *float64 `json:"calories"`
	}
	if err := json.Unmarshal([]byte(body), &head); err != nil {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: err.Error()}
	}
	if head.ServingSizeGram == nil {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: "serving_size_gram missing"}
	}
	if *head.ServingSizeGram <= 0 {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: "serving_size_gram must be positive"}
	}
	if head.Calories == nil {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: "calories missing"}
	}

	var n models.Nutrients
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: err.Error()}
	}
	if !n.IsNonNegative() {
		return FullEstimate{}, &MalformedResponseError{Raw: raw, Reason: "negative nutrient value"}
	}
	return FullEstimate{ServingGrams: *head.ServingSizeGram, Nutrients: n}, nil
}

func extractJSONObject(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
