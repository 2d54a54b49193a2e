package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
)

// AssessmentContext carries the member's daily limits. Zero values fall
// back to 2000 kcal and 2300 mg sodium.
type AssessmentContext struct {
	CalorieTarget float64
	SodiumLimit   float64
}

// WarningSeverity categorizes how serious the flag is.
type WarningSeverity string

const (
	Info    WarningSeverity = "info"
	Caution WarningSeverity = "caution"
	High    WarningSeverity = "high"
)

// Warning is one rule finding for a serving.
type Warning struct {
	Code           string          `json:"code"`
	Severity       WarningSeverity `json:"severity"`
	Message        string          `json:"message"`
	Metric         string          `json:"metric,omitempty"`
	Value          float64         `json:"value,omitempty"`
	Limit          float64         `json:"limit,omitempty"`
	PercentOfLimit float64         `json:"percent_of_limit,omitempty"`
}

// AssessServing runs the dietary rules over one resolved serving. It only
// reports findings the available nutrients support; a serving with no data
// yields only name-based nudges.
func AssessServing(foodName string, n models.Nutrients, servingGrams float64, ctx AssessmentContext) []Warning {
	warnings := []Warning{}

	kcal := n.Calories
	if kcal <= 0 {
		kcal = energyFromMacros(n.Carbs, n.Protein, n.Fat)
	}
	kcalTarget := ctx.CalorieTarget
	if kcalTarget <= 0 {
		kcalTarget = 2000
	}
	sodLimit := ctx.SodiumLimit
	if sodLimit <= 0 {
		sodLimit = 2300
	}

	// Sugars: total sugar stands in for added sugar.
	if kcal > 0 && n.Sugar > 0 {
		pct := (n.Sugar * 4.0) / kcal
		if pct >= 0.10 {
			warnings = append(warnings, Warning{
				Code:     "sugars_high_item",
				Severity: Caution,
				Message:  fmt.Sprintf("High sugars for this item (%.0f%% of its calories).", pct*100),
				Metric:   "sugar_%_of_item_kcal",
				Value:    round2(pct * 100),
				Limit:    10,
			})
		}
		sugarDailyLimitG := (0.10 * kcalTarget) / 4.0
		if share := n.Sugar / sugarDailyLimitG; share >= 0.40 {
			warnings = append(warnings, shareWarning("sugars_very_high_daily_share", High,
				"This serving provides ~%.0f%% of the daily sugar limit.", "sugar_%_of_daily_limit", share))
		}
	}

	if looksHighSatSource(strings.ToLower(foodName)) {
		warnings = append(warnings, Warning{
			Code:     "satfat_source_heuristic",
			Severity: Info,
			Message:  "Likely high in saturated fat; consider leaner cuts or plant oils.",
		})
	}

	if n.Sodium > 0 {
		share := n.Sodium / sodLimit
		switch {
		case share >= 0.40:
			warnings = append(warnings, shareWarning("sodium_very_high", High,
				"Very high sodium for one serving (about %.0f%% of the daily limit).", "sodium_%_of_daily_limit_per_serving", share))
		case share >= 0.20:
			warnings = append(warnings, shareWarning("sodium_high", Caution,
				"High sodium for one serving (about %.0f%% of the daily limit).", "sodium_%_of_daily_limit_per_serving", share))
		}
		if kcal > 0 {
			if per100 := (n.Sodium / kcal) * 100.0; per100 >= 400 {
				warnings = append(warnings, Warning{
					Code:     "sodium_dense",
					Severity: Info,
					Message:  "High sodium density relative to calories; consider lower-sodium alternatives.",
					Metric:   "sodium_mg_per_100kcal",
					Value:    round2(per100),
				})
			}
		}
		if n.Potassium > 0 {
			if ratio := n.Sodium / n.Potassium; ratio > 1.5 {
				warnings = append(warnings, Warning{
					Code:     "sodium_potassium_ratio_high",
					Severity: Info,
					Message:  "Higher sodium relative to potassium; add fruits, vegetables or legumes.",
					Metric:   "na_to_k_ratio",
					Value:    round2(ratio),
				})
			}
		}
	}

	// Macronutrient distribution of this item.
	if macroKcal := 4*n.Carbs + 4*n.Protein + 9*n.Fat; kcal > 0 && macroKcal > 0 {
		for _, r := range []struct {
			code, label string
			pct, lo, hi float64
		}{
			{"amdr_carbs_out_of_range", "Carbohydrates", 4 * n.Carbs / macroKcal, 0.45, 0.65},
			{"amdr_protein_out_of_range", "Protein", 4 * n.Protein / macroKcal, 0.10, 0.35},
			{"amdr_fat_out_of_range", "Fat", 9 * n.Fat / macroKcal, 0.20, 0.35},
		} {
			if r.pct < r.lo || r.pct > r.hi {
				warnings = append(warnings, Warning{
					Code:     r.code,
					Severity: Info,
					Message: fmt.Sprintf("%s ~%.0f%% of macro calories (range %.0f-%.0f%%).",
						r.label, r.pct*100, r.lo*100, r.hi*100),
					Metric: strings.ToLower(r.label) + "_%_of_macro_kcal",
					Value:  round2(r.pct * 100),
				})
			}
		}
	}

	if kcal > 0 && n.Carbs >= 15 && n.DietaryFiber > 0 {
		per100 := (n.DietaryFiber / kcal) * 100.0
		switch {
		case per100 < 1.0:
			warnings = append(warnings, Warning{
				Code:     "fiber_low_nudge",
				Severity: Info,
				Message:  "Low dietary fiber for a carbohydrate food; consider whole grains, fruits or vegetables.",
				Metric:   "fiber_g_per_100kcal",
				Value:    round2(per100),
			})
		case per100 >= 2.5:
			warnings = append(warnings, Warning{
				Code:     "fiber_high_positive",
				Severity: Info,
				Message:  "Good fiber density.",
				Metric:   "fiber_g_per_100kcal",
				Value:    round2(per100),
			})
		}
	}

	lower := strings.ToLower(foodName)
	if isLikelyWholeGrain(lower) {
		warnings = append(warnings, Warning{
			Code:     "whole_grain_positive",
			Severity: Info,
			Message:  "Whole-grain choice supports fiber and nutrient density.",
		})
	} else if isLikelyRefinedGrain(lower) {
		warnings = append(warnings, Warning{
			Code:     "refined_grain_nudge",
			Severity: Info,
			Message:  "Refined-grain item; consider whole-grain options.",
		})
	}

	if servingGrams > 0 && kcal > 0 {
		per100g := (kcal / servingGrams) * 100.0
		switch {
		case per100g >= 275:
			warnings = append(warnings, Warning{
				Code:     "energy_density_very_high",
				Severity: Info,
				Message:  "Very energy-dense food; mindful portions help.",
				Metric:   "kcal_per_100g",
				Value:    round2(per100g),
			})
		case per100g >= 150:
			warnings = append(warnings, Warning{
				Code:     "energy_density_high",
				Severity: Info,
				Message:  "High energy density; balance with vegetables or fruit.",
				Metric:   "kcal_per_100g",
				Value:    round2(per100g),
			})
		}
	}

	return warnings
}

func shareWarning(code string, sev WarningSeverity, format, metric string, share float64) Warning {
	return Warning{
		Code:           code,
		Severity:       sev,
		Message:        fmt.Sprintf(format, share*100),
		Metric:         metric,
		Value:          round2(share * 100),
		Limit:          100,
		PercentOfLimit: round2(share * 100),
	}
}

func energyFromMacros(carbG, protG, fatG float64) float64 {
	if carbG <= 0 && protG <= 0 && fatG <= 0 {
		return 0
	}
	return 4.0*carbG + 4.0*protG + 9.0*fatG
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isLikelyWholeGrain(name string) bool {
	return containsAny(name, "whole wheat", "whole-grain", "whole grain", "brown rice", "oat", "quinoa", "bulgur", "rye",
		"현미", "잡곡", "귀리", "보리")
}

func isLikelyRefinedGrain(name string) bool {
	return containsAny(name, "white bread", "white rice", "cake", "pastry", "cracker", "biscuit",
		"흰쌀", "케이크", "식빵")
}

func looksHighSatSource(name string) bool {
	return containsAny(name,
		"butter", "ghee", "cream", "cheese", "bacon", "sausage", "lard", "coconut oil",
		"버터", "치즈", "베이컨", "삼겹살", "소시지")
}
