package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MealDiff is the minimal multiset change from one food list to another.
type MealDiff struct {
	Delete map[string]int // name -> how many items to remove
	Add    []string       // names to resolve and insert, in target order
}

// Empty reports whether the lists already match.
func (d MealDiff) Empty() bool { return len(d.Delete) == 0 && len(d.Add) == 0 }

// CountNames builds the multiset of names.
func CountNames(names []string) map[string]int {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	return counts
}

// DiffFoodNames computes, per name, max(0, existing-target) deletions and
// max(0, target-existing) additions.
func DiffFoodNames(existing, target []string) MealDiff {
	have := CountNames(existing)
	want := CountNames(target)

	d := MealDiff{Delete: make(map[string]int)}
	for name, e := range have {
		if n := max(0, e-want[name]); n > 0 {
			d.Delete[name] = n
		}
	}

	missing := make(map[string]int)
	for name, t := range want {
		if n := max(0, t-have[name]); n > 0 {
			missing[name] = n
		}
	}
	for _, name := range target {
		if missing[name] > 0 {
			d.Add = append(d.Add, name)
			missing[name]--
		}
	}
	return d
}

// CheckAgainst fails with ErrConsistency when a deletion count exceeds the
// items that exist under that name.
func (d MealDiff) CheckAgainst(existing map[string]int) error {
	for name, n := range d.Delete {
		if n < 0 || n > existing[name] {
			return fmt.Errorf("%w: %d deletions of %q requested, %d present", ErrConsistency, n, name, existing[name])
		}
	}
	return nil
}

// pickDeletions chooses which duplicates to remove: unresolved items go
// first, then the most recently added.
func pickDeletions(items []models.MealItem, del map[string]int) ([]uint, error) {
	byName := make(map[string][]models.MealItem)
	for _, it := range items {
		if del[it.FoodName] > 0 {
			byName[it.FoodName] = append(byName[it.FoodName], it)
		}
	}

	var ids []uint
	for name, n := range del {
		cands := byName[name]
		if len(cands) < n {
			return nil, fmt.Errorf("%w: %d deletions of %q requested, %d items found", ErrConsistency, n, name, len(cands))
		}
		sort.Slice(cands, func(i, j int) bool {
			ui, uj := cands[i].Tier == models.TierUnknown, cands[j].Tier == models.TierUnknown
			if ui != uj {
				return ui
			}
			return cands[i].ID > cands[j].ID
		})
		for _, it := range cands[:n] {
			ids = append(ids, it.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// UpdateMealFoods reconciles the meal's items with targetNames. Items whose
// names are kept stay untouched; only additions are resolved.
func (s *MealService) UpdateMealFoods(ctx context.Context, memberID, date string, slot models.MealSlot, targetNames []string) (*MealView, error) {
	key, err := s.validateKey(memberID, date, slot)
	if err != nil {
		return nil, err
	}
	targets, err := validateFoodNames(targetNames)
	if err != nil {
		return nil, err
	}
	if _, err := findMember(ctx, s.db, key.memberID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(key.String())
	defer unlock()

	meal, err := loadMeal(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, notFound("meal %s", key)
	}

	existing := meal.FoodNames()
	diff := DiffFoodNames(existing, targets)
	if err := diff.CheckAgainst(CountNames(existing)); err != nil {
		return nil, err
	}
	if diff.Empty() {
		v := newMealView(*meal)
		return &v, nil
	}
	doomed, err := pickDeletions(meal.Items, diff.Delete)
	if err != nil {
		return nil, err
	}

	resolved := s.resolver.ResolveNames(ctx, diff.Add)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(doomed) > 0 {
			res := tx.Where("meal_id = ? AND id IN ?", meal.ID, doomed).Delete(&models.MealItem{})
			if res.Error != nil {
				return fmt.Errorf("delete items: %w", res.Error)
			}
			if res.RowsAffected != int64(len(doomed)) {
				return fmt.Errorf("%w: deleted %d of %d items", ErrConsistency, res.RowsAffected, len(doomed))
			}
		}
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
		return nil, fmt.Errorf("update meal %s: %w", key, err)
	}

	s.log.Info("meal foods updated",
		zap.String("meal", key.String()), zap.Int("deleted", len(doomed)), zap.Int("added", len(resolved)))
	return s.getByID(ctx, meal.ID)
}
