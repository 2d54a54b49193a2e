package models

// FoodItem is one detected or typed food name. Confidence comes from the
// detector and never feeds nutrient math.
type FoodItem struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// FoodReference is a row of the per-100g nutrient master table. Nutrient
// columns are nullable there; a NULL reads as zero.
type FoodReference struct {
	FoodID     int     `gorm:"column:food_id;primaryKey;autoIncrement:false" json:"food_id"`
	FoodName   *string `gorm:"column:food_name;size:255" json:"food_name,omitempty"`
	FoodNameKo *string `gorm:"column:food_name_ko;size:255" json:"food_name_ko,omitempty"`
	FoodNameEn *string `gorm:"column:food_name_en;size:255" json:"food_name_en,omitempty"`

	Calories     *float64 `gorm:"column:calories" json:"calories,omitempty"`
	Carbs        *float64 `gorm:"column:carbs" json:"carbs,omitempty"`
	Protein      *float64 `gorm:"column:protein" json:"protein,omitempty"`
	Fat          *float64 `gorm:"column:fat" json:"fat,omitempty"`
	Sugar        *float64 `gorm:"column:sugar" json:"sugar,omitempty"`
	Sodium       *float64 `gorm:"column:sodium" json:"sodium,omitempty"`
	Iron         *float64 `gorm:"column:iron" json:"iron,omitempty"`
	Calcium      *float64 `gorm:"column:calcium" json:"calcium,omitempty"`
	VitaminC     *float64 `gorm:"column:vitiamin_c" json:"vitamin_c,omitempty"` // legacy column spelling
	Folate       *float64 `gorm:"column:folate" json:"folate,omitempty"`
	Magnesium    *float64 `gorm:"column:magnesium" json:"magnesium,omitempty"`
	Omega3       *float64 `gorm:"column:omega3" json:"omega3,omitempty"`
	VitaminA     *float64 `gorm:"column:vitamin_a" json:"vitamin_a,omitempty"`
	VitaminB12   *float64 `gorm:"column:vitamin_b" json:"vitamin_b12,omitempty"` // stored as vitamin_b
	VitaminD     *float64 `gorm:"column:vitamin_d" json:"vitamin_d,omitempty"`
	DietaryFiber *float64 `gorm:"column:dietary_fiber" json:"dietary_fiber,omitempty"`
	Potassium    *float64 `gorm:"column:potassium" json:"potassium,omitempty"`

	Source         *string `gorm:"column:source;size:255" json:"source,omitempty"`
	SourceFoodCode *int    `gorm:"column:source_food_code" json:"source_food_code,omitempty"`
}

func (FoodReference) TableName() string { return "member_food_nutrition_master" }

// Profile returns the per-100g nutrients with NULL columns read as zero.
func (r FoodReference) Profile() NutrientProfile {
	return NutrientProfile{
		Calories:     orZero(r.Calories),
		Carbs:        orZero(r.Carbs),
		Protein:      orZero(r.Protein),
		Fat:          orZero(r.Fat),
		Sugar:        orZero(r.Sugar),
		Sodium:       orZero(r.Sodium),
		Iron:         orZero(r.Iron),
		Calcium:      orZero(r.Calcium),
		VitaminC:     orZero(r.VitaminC),
		Folate:       orZero(r.Folate),
		Magnesium:    orZero(r.Magnesium),
		Omega3:       orZero(r.Omega3),
		VitaminA:     orZero(r.VitaminA),
		VitaminB12:   orZero(r.VitaminB12),
		VitaminD:     orZero(r.VitaminD),
		DietaryFiber: orZero(r.DietaryFiber),
		Potassium:    orZero(r.Potassium),
	}
}

// DisplayName is the first non-empty name field.
func (r FoodReference) DisplayName() string {
	for _, n := range []*string{r.FoodName, r.FoodNameKo, r.FoodNameEn} {
		if n != nil && *n != "" {
			return *n
		}
	}
	return ""
}

// NewFoodReference builds a fully populated row from a profile.
func NewFoodReference(id int, name, nameKo, nameEn string, p NutrientProfile) FoodReference {
	return FoodReference{
		FoodID:       id,
		FoodName:     strPtr(name),
		FoodNameKo:   strPtr(nameKo),
		FoodNameEn:   strPtr(nameEn),
		Calories:     &p.Calories,
		Carbs:        &p.Carbs,
		Protein:      &p.Protein,
		Fat:          &p.Fat,
		Sugar:        &p.Sugar,
		Sodium:       &p.Sodium,
		Iron:         &p.Iron,
		Calcium:      &p.Calcium,
		VitaminC:     &p.VitaminC,
		Folate:       &p.Folate,
		Magnesium:    &p.Magnesium,
		Omega3:       &p.Omega3,
		VitaminA:     &p.VitaminA,
		VitaminB12:   &p.VitaminB12,
		VitaminD:     &p.VitaminD,
		DietaryFiber: &p.DietaryFiber,
		Potassium:    &p.Potassium,
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
