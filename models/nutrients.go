package models

import "math"

// Nutrients is the fixed nutrient set tracked for every food. The same type
// carries per-100g reference profiles and absolute per-serving amounts.
type Nutrients struct {
	Calories     float64 `json:"calories" yaml:"calories"`
	Carbs        float64 `json:"carbs" yaml:"carbs"`
	Protein      float64 `json:"protein" yaml:"protein"`
	Fat          float64 `json:"fat" yaml:"fat"`
	Sugar        float64 `json:"sugar" yaml:"sugar"`
	Sodium       float64 `json:"sodium" yaml:"sodium"`
	Iron         float64 `json:"iron" yaml:"iron"`
	Calcium      float64 `json:"calcium" yaml:"calcium"`
	VitaminC     float64 `json:"vitamin_c" yaml:"vitamin_c"`
	Folate       float64 `json:"folate" yaml:"folate"`
	Magnesium    float64 `json:"magnesium" yaml:"magnesium"`
	Omega3       float64 `json:"omega3" yaml:"omega3"`
	VitaminA     float64 `json:"vitamin_a" yaml:"vitamin_a"`
	VitaminB12   float64 `json:"vitamin_b12" yaml:"vitamin_b12"`
	VitaminD     float64 `json:"vitamin_d" yaml:"vitamin_d"`
	DietaryFiber float64 `json:"dietary_fiber" yaml:"dietary_fiber"`
	Potassium    float64 `json:"potassium" yaml:"potassium"`
}

// NutrientProfile is a per-100g Nutrients value.
type NutrientProfile = Nutrients

// NamedValue pairs a nutrient's wire name with its amount.
type NamedValue struct {
	Name  string
	Value float64
}

// Fields lists every nutrient in a stable order.
func (n Nutrients) Fields() []NamedValue {
	return []NamedValue{
		{"calories", n.Calories},
		{"carbs", n.Carbs},
		{"protein", n.Protein},
		{"fat", n.Fat},
		{"sugar", n.Sugar},
		{"sodium", n.Sodium},
		{"iron", n.Iron},
		{"calcium", n.Calcium},
		{"vitamin_c", n.VitaminC},
		{"folate", n.Folate},
		{"magnesium", n.Magnesium},
		{"omega3", n.Omega3},
		{"vitamin_a", n.VitaminA},
		{"vitamin_b12", n.VitaminB12},
		{"vitamin_d", n.VitaminD},
		{"dietary_fiber", n.DietaryFiber},
		{"potassium", n.Potassium},
	}
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:     n.Calories + o.Calories,
		Carbs:        n.Carbs + o.Carbs,
		Protein:      n.Protein + o.Protein,
		Fat:          n.Fat + o.Fat,
		Sugar:        n.Sugar + o.Sugar,
		Sodium:       n.Sodium + o.Sodium,
		Iron:         n.Iron + o.Iron,
		Calcium:      n.Calcium + o.Calcium,
		VitaminC:     n.VitaminC + o.VitaminC,
		Folate:       n.Folate + o.Folate,
		Magnesium:    n.Magnesium + o.Magnesium,
		Omega3:       n.Omega3 + o.Omega3,
		VitaminA:     n.VitaminA + o.VitaminA,
		VitaminB12:   n.VitaminB12 + o.VitaminB12,
		VitaminD:     n.VitaminD + o.VitaminD,
		DietaryFiber: n.DietaryFiber + o.DietaryFiber,
		Potassium:    n.Potassium + o.Potassium,
	}
}

// Scale multiplies every field by f.
func (n Nutrients) Scale(f float64) Nutrients {
	return Nutrients{
		Calories:     n.Calories * f,
		Carbs:        n.Carbs * f,
		Protein:      n.Protein * f,
		Fat:          n.Fat * f,
		Sugar:        n.Sugar * f,
		Sodium:       n.Sodium * f,
		Iron:         n.Iron * f,
		Calcium:      n.Calcium * f,
		VitaminC:     n.VitaminC * f,
		Folate:       n.Folate * f,
		Magnesium:    n.Magnesium * f,
		Omega3:       n.Omega3 * f,
		VitaminA:     n.VitaminA * f,
		VitaminB12:   n.VitaminB12 * f,
		VitaminD:     n.VitaminD * f,
		DietaryFiber: n.DietaryFiber * f,
		Potassium:    n.Potassium * f,
	}
}

// ForServing scales a per-100g profile to an absolute amount for grams.
func (n Nutrients) ForServing(grams float64) Nutrients {
	return n.Scale(grams / 100)
}

// IsNonNegative reports whether every field is a finite value >= 0.
func (n Nutrients) IsNonNegative() bool {
	for _, f := range n.Fields() {
		if f.Value < 0 || math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			return false
		}
	}
	return true
}

// SumNutrients adds up values field by field.
func SumNutrients(values ...Nutrients) Nutrients {
	var total Nutrients
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
