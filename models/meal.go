package models

import (
	"strings"
	"time"
)

// MealSlot is the time-of-day bucket a meal belongs to.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

var slotAliases = map[string]MealSlot{
	"breakfast": SlotBreakfast,
	"lunch":     SlotLunch,
	"dinner":    SlotDinner,
	"snack":     SlotSnack,
	"조식":        SlotBreakfast,
	"중식":        SlotLunch,
	"석식":        SlotDinner,
	"야식":        SlotSnack,
}

// ParseMealSlot accepts the English slot names (any case) and the Korean
// labels the mobile client sends.
func ParseMealSlot(s string) (MealSlot, bool) {
	slot, ok := slotAliases[strings.ToLower(strings.TrimSpace(s))]
	return slot, ok
}

var slotOrder = map[MealSlot]int{
	SlotBreakfast: 0,
	SlotLunch:     1,
	SlotDinner:    2,
	SlotSnack:     3,
}

// Order sorts slots through the day; unknown slots sort last.
func (s MealSlot) Order() int {
	if o, ok := slotOrder[s]; ok {
		return o
	}
	return len(slotOrder)
}

// ResolutionTier records which fallback level produced a food's nutrients.
type ResolutionTier string

const (
	TierExact        ResolutionTier = "exact"
	TierFuzzy        ResolutionTier = "fuzzy"
	TierFullEstimate ResolutionTier = "full_estimate"
	TierUnknown      ResolutionTier = "unknown"
)

// UnknownServingGrams is the serving weight reported for unresolved foods.
const UnknownServingGrams = 0.0

// ResolvedNutrition is one food resolved to an absolute nutrient amount.
type ResolvedNutrition struct {
	RequestID       string         `json:"request_id"`
	FoodName        string         `json:"food_name"`
	ReferenceID     *int           `json:"reference_id,omitempty"`
	ServingGrams    float64        `json:"serving_grams"`
	ServingFallback bool           `json:"serving_fallback,omitempty"` // default weight used
	Nutrients       Nutrients      `json:"nutrients"`
	Tier            ResolutionTier `json:"tier"`
}

// Resolved reports whether nutrient data was obtained.
func (r ResolvedNutrition) Resolved() bool { return r.Tier != TierUnknown }

// Meal groups the items a member ate in one slot of one day. Totals are not
// stored; see Total.
type Meal struct {
	ID        uint       `gorm:"primaryKey" json:"meal_id"`
	MemberID  string     `gorm:"size:128;not null;uniqueIndex:idx_meal_member_date_slot" json:"member_id"`
	MealDate  string     `gorm:"size:10;not null;uniqueIndex:idx_meal_member_date_slot" json:"meal_date"` // YYYY-MM-DD
	Slot      MealSlot   `gorm:"size:16;not null;uniqueIndex:idx_meal_member_date_slot" json:"slot"`
	Memo      string     `gorm:"type:text" json:"memo"`
	Items     []MealItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MealItem is a persisted ResolvedNutrition.
type MealItem struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	MealID          uint           `gorm:"index;not null" json:"meal_id"`
	RequestID       string         `gorm:"size:36" json:"request_id"`
	FoodName        string         `gorm:"size:255;index;not null" json:"food_name"`
	ReferenceID     *int           `json:"reference_id,omitempty"`
	ServingGrams    float64        `json:"serving_grams"`
	ServingFallback bool           `json:"serving_fallback,omitempty"`
	Tier            ResolutionTier `gorm:"size:16;not null" json:"tier"`
	Nutrients       `gorm:"embedded"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewMealItem converts a resolution result into an item of meal mealID.
func NewMealItem(mealID uint, r ResolvedNutrition) MealItem {
	return MealItem{
		MealID:          mealID,
		RequestID:       r.RequestID,
		FoodName:        r.FoodName,
		ReferenceID:     r.ReferenceID,
		ServingGrams:    r.ServingGrams,
		ServingFallback: r.ServingFallback,
		Tier:            r.Tier,
		Nutrients:       r.Nutrients,
	}
}

// Total is the field-wise sum of the meal's items.
func (m Meal) Total() Nutrients {
	var total Nutrients
	for _, it := range m.Items {
		total = total.Add(it.Nutrients)
	}
	return total
}

// FoodNames lists item names in item order.
func (m Meal) FoodNames() []string {
	names := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		names = append(names, it.FoodName)
	}
	return names
}
