package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// BatchResolver is the part of Resolver the meal service depends on.
type BatchResolver interface {
	Resolve(ctx context.Context, items []models.FoodItem) []models.ResolvedNutrition
	ResolveNames(ctx context.Context, names []string) []models.ResolvedNutrition
}

// MealService owns meal items and derives every total from them.
type MealService struct {
	db       *gorm.DB
	resolver BatchResolver
	locks    *mealLocks
	log      *zap.Logger
}

func NewMealService(db *gorm.DB, resolver BatchResolver, log *zap.Logger) *MealService {
	return &MealService{
		db:       db,
		resolver: resolver,
		locks:    newMealLocks(),
		log:      log.Named("meals"),
	}
}

// MealView is a meal plus its derived total.
type MealView struct {
	models.Meal
	TotalNutrition models.Nutrients `json:"total_nutrition"`
	UnknownItems   int              `json:"unknown_items"`
}

func newMealView(m models.Meal) MealView {
	v := MealView{Meal: m, TotalNutrition: m.Total()}
	for _, it := range m.Items {
		if it.Tier == models.TierUnknown {
			v.UnknownItems++
		}
	}
	return v
}

// DailySummary is every meal of one member-day and their combined total.
type DailySummary struct {
	MemberID       string           `json:"member_id"`
	Date           string           `json:"date"`
	TotalNutrition models.Nutrients `json:"total_nutrition"`
	Meals          []MealView       `json:"meals"`
}

// SaveMeal resolves foods and stores them as items of the member's meal in
// slot on date, creating the meal if needed. The write is all-or-nothing.
func (s *MealService) SaveMeal(ctx context.Context, memberID, date string, slot models.MealSlot, foods []models.FoodItem) (*MealView, error) {
	key, err := s.validateKey(memberID, date, slot)
	if err != nil {
		return nil, err
	}
	items, err := validateFoodItems(foods)
	if err != nil {
		return nil, err
	}
	if _, err := findMember(ctx, s.db, key.memberID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(key.String())
	defer unlock()

	resolved := s.resolver.Resolve(ctx, items)
	return s.appendItems(ctx, key, resolved)
}

// saveResolvedMeal stores already resolved items, as SaveMeal does after
// resolution.
func (s *MealService) saveResolvedMeal(ctx context.Context, memberID, date string, slot models.MealSlot, resolved []models.ResolvedNutrition) (*MealView, error) {
	key, err := s.validateKey(memberID, date, slot)
	if err != nil {
		return nil, err
	}
	for i, r := range resolved {
		if err := validateResolved(r); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if _, err := findMember(ctx, s.db, key.memberID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(key.String())
	defer unlock()
	return s.appendItems(ctx, key, resolved)
}

func (s *MealService) appendItems(ctx context.Context, key mealKey, resolved []models.ResolvedNutrition) (*MealView, error) {
	var mealID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		cond := models.Meal{MemberID: key.memberID, MealDate: key.date, Slot: key.slot}
		if err := tx.Where(&cond).FirstOrCreate(&meal).Error; err != nil {
			return fmt.Errorf("find or create meal: %w", err)
		}
		mealID = meal.ID

		if len(resolved) > 0 {
			items := make([]models.MealItem, 0, len(resolved))
			for _, r := range resolved {
				items = append(items, models.NewMealItem(meal.ID, r))
			}
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("insert items: %w", err)
			}
		}
		return refreshMemo(tx, meal.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("save meal %s: %w", key, err)
	}

	view, err := s.getByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	s.log.Info("meal saved",
		zap.String("meal", key.String()), zap.Int("added", len(resolved)), zap.Int("items", len(view.Items)))
	return view, nil
}

// GetMeal returns one meal with its total.
func (s *MealService) GetMeal(ctx context.Context, memberID, date string, slot models.MealSlot) (*MealView, error) {
	key, err := s.validateKey(memberID, date, slot)
	if err != nil {
		return nil, err
	}
	meal, err := loadMeal(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, notFound("meal %s", key)
	}
	v := newMealView(*meal)
	return &v, nil
}

// ListMeals returns the member's meals on date in slot order.
func (s *MealService) ListMeals(ctx context.Context, memberID, date string) ([]MealView, error) {
	memberID, err := parseMemberID(memberID)
	if err != nil {
		return nil, err
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := findMember(ctx, s.db, memberID); err != nil {
		return nil, err
	}

	var meals []models.Meal
	err = s.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("member_id = ? AND meal_date = ?", memberID, day).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].Slot.Order() < meals[j].Slot.Order() })

	views := make([]MealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, newMealView(m))
	}
	return views, nil
}

// GetDailyTotal sums every item of every meal the member logged on date.
func (s *MealService) GetDailyTotal(ctx context.Context, memberID, date string) (*DailySummary, error) {
	meals, err := s.ListMeals(ctx, memberID, date)
	if err != nil {
		return nil, err
	}
	memberID, _ = parseMemberID(memberID)
	day, _ := parseDate(date)
	sum := &DailySummary{MemberID: memberID, Date: day, Meals: meals}
	for _, m := range meals {
		sum.TotalNutrition = sum.TotalNutrition.Add(m.TotalNutrition)
	}
	return sum, nil
}

// DeleteMeal removes the meal and all of its items.
func (s *MealService) DeleteMeal(ctx context.Context, memberID, date string, slot models.MealSlot) error {
	key, err := s.validateKey(memberID, date, slot)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(key.String())
	defer unlock()

	meal, err := loadMeal(ctx, s.db, key)
	if err != nil {
		return err
	}
	if meal == nil {
		return notFound("meal %s", key)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meal{}, meal.ID).Error
	})
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", key, err)
	}
	s.log.Info("meal deleted", zap.String("meal", key.String()), zap.Int("items", len(meal.Items)))
	return nil
}

func (s *MealService) getByID(ctx context.Context, id uint) (*MealView, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).Preload("Items", orderItems).First(&meal, id).Error
	if err != nil {
		return nil, fmt.Errorf("reload meal %d: %w", id, err)
	}
	v := newMealView(meal)
	return &v, nil
}

// mealKey identifies a meal: one per member, date and slot.
type mealKey struct {
	memberID string
	date     string
	slot     models.MealSlot
}

func (k mealKey) String() string { return k.memberID + "/" + k.date + "/" + string(k.slot) }

func (s *MealService) validateKey(memberID, date string, slot models.MealSlot) (mealKey, error) {
	memberID, err := parseMemberID(memberID)
	if err != nil {
		return mealKey{}, err
	}
	day, err := parseDate(date)
	if err != nil {
		return mealKey{}, err
	}
	norm, ok := models.ParseMealSlot(string(slot))
	if !ok {
		return mealKey{}, invalid("unknown meal slot %q", slot)
	}
	return mealKey{memberID: memberID, date: day, slot: norm}, nil
}

func loadMeal(ctx context.Context, db *gorm.DB, key mealKey) (*models.Meal, error) {
	var meals []models.Meal
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("member_id = ? AND meal_date = ? AND slot = ?", key.memberID, key.date, key.slot).
		Limit(1).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("load meal %s: %w", key, err)
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func orderItems(db *gorm.DB) *gorm.DB { return db.Order("meal_items.id") }

// refreshMemo rewrites the meal memo as the comma-separated item names.
func refreshMemo(tx *gorm.DB, mealID uint) error {
	var names []string
	if err := tx.Model(&models.MealItem{}).Where("meal_id = ?", mealID).Order("id").Pluck("food_name", &names).Error; err != nil {
		return fmt.Errorf("read item names: %w", err)
	}
	if err := tx.Model(&models.Meal{}).Where("id = ?", mealID).Update("memo", strings.Join(names, ", ")).Error; err != nil {
		return fmt.Errorf("update memo: %w", err)
	}
	return nil
}

func findMember(ctx context.Context, db *gorm.DB, memberID string) (*models.Member, error) {
	var m models.Member
	err := db.WithContext(ctx).Where("firebase_uid = ?", memberID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("member %q", memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}
	return &m, nil
}

func parseMemberID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("member_id is required")
	}
	return s, nil
}

func parseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", invalid("date %q is not YYYY-MM-DD", s)
	}
	return t.Format(dateLayout), nil
}

func validateFoodItems(foods []models.FoodItem) ([]models.FoodItem, error) {
	out := make([]models.FoodItem, 0, len(foods))
	for i, f := range foods {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, invalid("food %d has an empty name", i)
		}
		if f.Confidence < 0 || math.IsNaN(f.Confidence) {
			return nil, invalid("food %q has negative confidence", name)
		}
		out = append(out, models.FoodItem{Name: name, Confidence: f.Confidence})
	}
	return out, nil
}

func validateFoodNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, invalid("food %d has an empty name", i)
		}
		out = append(out, n)
	}
	return out, nil
}

func validateResolved(r models.ResolvedNutrition) error {
	if strings.TrimSpace(r.FoodName) == "" {
		return invalid("resolved food has an empty name")
	}
	if !r.Nutrients.IsNonNegative() {
		return invalid("food %q has negative nutrients", r.FoodName)
	}
	switch r.Tier {
	case models.TierUnknown:
		if r.ServingGrams != models.UnknownServingGrams {
			return invalid("unknown food %q must carry the unknown serving sentinel", r.FoodName)
		}
	case models.TierExact, models.TierFuzzy, models.TierFullEstimate:
		if r.ServingGrams <= 0 {
			return invalid("food %q has a non-positive serving", r.FoodName)
		}
	default:
		return invalid("food %q has unknown tier %q", r.FoodName, r.Tier)
	}
	return nil
}
