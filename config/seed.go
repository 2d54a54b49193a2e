package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"gopkg.in/yaml.v3"
)

//go:embed reference_seed.yaml
var defaultSeedYAML []byte

type seedFile struct {
	Foods []seedFood `yaml:"foods"`
}

type seedFood struct {
	ID      int              `yaml:"id"`
	Name    string           `yaml:"name"`
	NameKo  string           `yaml:"name_ko"`
	NameEn  string           `yaml:"name_en"`
	Per100g models.Nutrients `yaml:"per_100g"`
}

// LoadReferenceSeed reads reference rows from path, or the bundled starter
// set when path is empty.
func LoadReferenceSeed(path string) ([]models.FoodReference, error) {
	raw := defaultSeedYAML
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	refs := make([]models.FoodReference, 0, len(f.Foods))
	seen := make(map[int]bool, len(f.Foods))
	for _, sf := range f.Foods {
		if sf.ID <= 0 {
			return nil, fmt.Errorf("seed food %q: id must be positive", sf.Name)
		}
		if seen[sf.ID] {
			return nil, fmt.Errorf("seed food id %d is duplicated", sf.ID)
		}
		if sf.Name == "" && sf.NameKo == "" && sf.NameEn == "" {
			return nil, fmt.Errorf("seed food %d has no name", sf.ID)
		}
		if !sf.Per100g.IsNonNegative() {
			return nil, fmt.Errorf("seed food %d has a negative nutrient", sf.ID)
		}
		seen[sf.ID] = true
		refs = append(refs, models.NewFoodReference(sf.ID, sf.Name, sf.NameKo, sf.NameEn, sf.Per100g))
	}
	return refs, nil
}
