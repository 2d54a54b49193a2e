package utils

import (
	"testing"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/stretchr/testify/assert"
)

func codes(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

func TestAssessServingSodium(t *testing.T) {
	stew := models.Nutrients{Calories: 180, Carbs: 10, Protein: 12, Fat: 10, Sodium: 2000, Potassium: 400}

	ws := AssessServing("김치찌개", stew, 400, AssessmentContext{})
	assert.Contains(t, codes(ws), "sodium_very_high")
	assert.Contains(t, codes(ws), "sodium_dense")
	assert.Contains(t, codes(ws), "sodium_potassium_ratio_high")

	for _, w := range ws {
		if w.Code == "sodium_very_high" {
			assert.Equal(t, High, w.Severity)
			assert.InDelta(t, 86.96, w.PercentOfLimit, 0.01)
		}
	}

	ws = AssessServing("김치찌개", stew, 400, AssessmentContext{SodiumLimit: 10000})
	assert.Contains(t, codes(ws), "sodium_high")
}

func TestAssessServingSugarAndEnergyDensity(t *testing.T) {
	cake := models.Nutrients{Calories: 371, Carbs: 50, Protein: 5, Fat: 17, Sugar: 30}

	ws := AssessServing("chocolate cake", cake, 100, AssessmentContext{CalorieTarget: 2000})
	c := codes(ws)
	assert.Contains(t, c, "sugars_high_item")
	assert.Contains(t, c, "sugars_very_high_daily_share")
	assert.Contains(t, c, "refined_grain_nudge")
	assert.Contains(t, c, "energy_density_very_high")
}

func TestAssessServingNameHeuristics(t *testing.T) {
	assert.Equal(t, []string{"whole_grain_positive"}, codes(AssessServing("현미밥", models.Nutrients{}, 0, AssessmentContext{})))
	assert.Equal(t, []string{"satfat_source_heuristic"}, codes(AssessServing("Bacon strips", models.Nutrients{}, 0, AssessmentContext{})))
	assert.Empty(t, AssessServing("rare-dish", models.Nutrients{}, 0, AssessmentContext{}))
}

func TestAssessServingBalancedFood(t *testing.T) {
	apple := models.Nutrients{Calories: 130, Carbs: 35, Protein: 0.75, Fat: 0.5, DietaryFiber: 6, Potassium: 267}

	ws := AssessServing("apple", apple, 250, AssessmentContext{})
	c := codes(ws)
	assert.Contains(t, c, "fiber_high_positive")
	assert.NotContains(t, c, "sodium_high")
	assert.NotContains(t, c, "energy_density_high")
}
