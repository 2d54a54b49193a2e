package services

import (
	"context"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"
	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
	"github.com/Uzzzi-bit/DX-Ontime-Project/utils"

	"gorm.io/gorm"
)

// Trimester of pregnancy; TrimesterNone when not pregnant or unknown.
type Trimester int

const (
	TrimesterNone Trimester = iota
	TrimesterFirst
	TrimesterSecond
	TrimesterThird
)

// TrimesterForWeek maps a gestational week to its trimester.
func TrimesterForWeek(week int) Trimester {
	switch {
	case week <= 0:
		return TrimesterNone
	case week <= 13:
		return TrimesterFirst
	case week <= 27:
		return TrimesterSecond
	default:
		return TrimesterThird
	}
}

type NutrientProgress struct {
	Nutrient string  `json:"nutrient"`
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"` // capped at 1
	Over     bool    `json:"over"`
}

type DailyProgress struct {
	MemberID       string             `json:"member_id"`
	Date           string             `json:"date"`
	Trimester      Trimester          `json:"trimester"`
	TotalNutrition models.Nutrients   `json:"total_nutrition"`
	Targets        models.Nutrients   `json:"targets"`
	Progress       []NutrientProgress `json:"progress"`
	Warnings       []ItemWarnings     `json:"warnings"`
}

// ItemWarnings lists the dietary findings for one logged item.
type ItemWarnings struct {
	Slot     models.MealSlot `json:"slot"`
	ItemID   uint            `json:"item_id"`
	FoodName string          `json:"food_name"`
	Warnings []utils.Warning `json:"warnings"`
}

// TargetService compares daily intake with trimester targets.
type TargetService struct {
	db      *gorm.DB
	meals   *MealService
	targets config.TargetTable
}

func NewTargetService(db *gorm.DB, meals *MealService, targets config.TargetTable) *TargetService {
	return &TargetService{db: db, meals: meals, targets: targets}
}

func (s *TargetService) TargetsFor(t Trimester) models.Nutrients {
	switch t {
	case TrimesterFirst:
		return s.targets.Trimester1
	case TrimesterSecond:
		return s.targets.Trimester2
	case TrimesterThird:
		return s.targets.Trimester3
	default:
		return s.targets.Base
	}
}

// GetDailyProgress returns the day's totals next to the member's targets.
func (s *TargetService) GetDailyProgress(ctx context.Context, memberID, date string) (*DailyProgress, error) {
	memberID, err := parseMemberID(memberID)
	if err != nil {
		return nil, err
	}
	member, err := findMember(ctx, s.db, memberID)
	if err != nil {
		return nil, err
	}
	day, err := s.meals.GetDailyTotal(ctx, memberID, date)
	if err != nil {
		return nil, err
	}

	tri := TrimesterNone
	if member.IsPregnantMode && member.PregnancyWeek != nil {
		tri = TrimesterForWeek(*member.PregnancyWeek)
	}
	targets := s.TargetsFor(tri)

	consumed := day.TotalNutrition.Fields()
	goals := targets.Fields()
	progress := make([]NutrientProgress, len(consumed))
	for i := range consumed {
		progress[i] = NutrientProgress{
			Nutrient: consumed[i].Name,
			Consumed: consumed[i].Value,
			Goal:     goals[i].Value,
			Percent:  pct(consumed[i].Value, goals[i].Value),
			Over:     goals[i].Value > 0 && consumed[i].Value > goals[i].Value,
		}
	}

	return &DailyProgress{
		MemberID:       memberID,
		Date:           day.Date,
		Trimester:      tri,
		TotalNutrition: day.TotalNutrition,
		Targets:        targets,
		Progress:       progress,
		Warnings:       assessDay(day.Meals, targets),
	}, nil
}

func assessDay(meals []MealView, targets models.Nutrients) []ItemWarnings {
	actx := utils.AssessmentContext{CalorieTarget: targets.Calories, SodiumLimit: targets.Sodium}
	out := []ItemWarnings{}
	for _, m := range meals {
		for _, it := range m.Items {
			if it.Tier == models.TierUnknown {
				continue
			}
			ws := utils.AssessServing(it.FoodName, it.Nutrients, it.ServingGrams, actx)
			if len(ws) == 0 {
				continue
			}
			out = append(out, ItemWarnings{Slot: m.Slot, ItemID: it.ID, FoodName: it.FoodName, Warnings: ws})
		}
	}
	return out
}

func pct(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := consumed / target
	if p > 1 {
		return 1
	}
	return p
}
