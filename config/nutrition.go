package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"gopkg.in/yaml.v3"
)

//go:embed nutrition.yaml
var defaultNutritionYAML []byte

// NutritionConfig holds the domain tunables that are data, not code.
type NutritionConfig struct {
	Fuzzy    FuzzyConfig    `yaml:"fuzzy"`
	Detector DetectorConfig `yaml:"detector"`
	Targets  TargetTable    `yaml:"targets"`
}

type FuzzyConfig struct {
	Keywords         []string `yaml:"keywords"`
	PrefixMinOverlap float64  `yaml:"prefix_min_overlap"`
}

type DetectorConfig struct {
	IgnoreLabels []string `yaml:"ignore_labels"`
}

// TargetTable lists daily targets outside pregnancy and per trimester.
type TargetTable struct {
	Base       models.Nutrients `yaml:"base"`
	Trimester1 models.Nutrients `yaml:"trimester1"`
	Trimester2 models.Nutrients `yaml:"trimester2"`
	Trimester3 models.Nutrients `yaml:"trimester3"`
}

// DefaultNutritionConfig returns the embedded configuration.
func DefaultNutritionConfig() (*NutritionConfig, error) {
	return ParseNutritionConfig(defaultNutritionYAML)
}

// LoadNutritionConfig reads path, or the embedded defaults when path is empty.
func LoadNutritionConfig(path string) (*NutritionConfig, error) {
	if path == "" {
		return DefaultNutritionConfig()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read nutrition config: %w", err)
	}
	return ParseNutritionConfig(raw)
}

func ParseNutritionConfig(raw []byte) (*NutritionConfig, error) {
	var nc NutritionConfig
	if err := yaml.Unmarshal(raw, &nc); err != nil {
		return nil, fmt.Errorf("parse nutrition config: %w", err)
	}
	if err := nc.validate(); err != nil {
		return nil, err
	}
	for i, kw := range nc.Fuzzy.Keywords {
		nc.Fuzzy.Keywords[i] = strings.ToLower(strings.TrimSpace(kw))
	}
	for i, l := range nc.Detector.IgnoreLabels {
		nc.Detector.IgnoreLabels[i] = strings.ToLower(strings.TrimSpace(l))
	}
	return &nc, nil
}

func (nc *NutritionConfig) validate() error {
	if o := nc.Fuzzy.PrefixMinOverlap; o < 0 || o > 1 {
		return fmt.Errorf("fuzzy.prefix_min_overlap must be within [0,1], got %v", o)
	}
	for _, kw := range nc.Fuzzy.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("fuzzy.keywords contains an empty entry")
		}
	}
	for name, t := range map[string]models.Nutrients{
		"base":       nc.Targets.Base,
		"trimester1": nc.Targets.Trimester1,
		"trimester2": nc.Targets.Trimester2,
		"trimester3": nc.Targets.Trimester3,
	} {
		if !t.IsNonNegative() {
			return fmt.Errorf("targets.%s has a negative value", name)
		}
	}
	return nil
}
